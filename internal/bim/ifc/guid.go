package ifc

import (
	"github.com/google/uuid"
)

// ============================================================
// IFC GlobalId
// ============================================================

const guidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// CompressGUID кодирует 128-битный UUID в 22 символа IFC base64.
// Первый байт дает 2 символа, остальные 15 байт кодируются группами по 3 в 4 символа.
func CompressGUID(id uuid.UUID) string {
	out := make([]byte, 0, 22)
	out = appendBase64(out, uint32(id[0]), 2)
	for i := 1; i < 16; i += 3 {
		v := uint32(id[i])<<16 | uint32(id[i+1])<<8 | uint32(id[i+2])
		out = appendBase64(out, v, 4)
	}
	return string(out)
}

// ExpandGUID декодирует 22-символьный GlobalId обратно в UUID.
func ExpandGUID(s string) (uuid.UUID, bool) {
	var id uuid.UUID
	if len(s) != 22 {
		return id, false
	}

	v, ok := decodeBase64(s[:2])
	if !ok || v > 0xff {
		return id, false
	}
	id[0] = byte(v)

	for i, j := 1, 2; i < 16; i, j = i+3, j+4 {
		v, ok := decodeBase64(s[j : j+4])
		if !ok {
			return id, false
		}
		id[i] = byte(v >> 16)
		id[i+1] = byte(v >> 8)
		id[i+2] = byte(v)
	}
	return id, true
}

func appendBase64(dst []byte, v uint32, digits int) []byte {
	buf := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		buf[i] = guidAlphabet[v%64]
		v /= 64
	}
	return append(dst, buf...)
}

func decodeBase64(s string) (uint32, bool) {
	var v uint32
	for i := 0; i < len(s); i++ {
		idx := indexOf(s[i])
		if idx < 0 {
			return 0, false
		}
		v = v*64 + uint32(idx)
	}
	return v, true
}

func indexOf(c byte) int {
	for i := 0; i < len(guidAlphabet); i++ {
		if guidAlphabet[i] == c {
			return i
		}
	}
	return -1
}
