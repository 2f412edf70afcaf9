package ifc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"precast-bim/internal/bim/models"
)

// ============================================================
// STEP attribute values
// ============================================================

type ref models.Handle

type enum string

type unset struct{}

type derived struct{}

// typed is a defined-type wrapper such as IFCLABEL('x').
type typed struct {
	Type  string
	Value any
}

type list []any

var (
	null = unset{}
	star = derived{}
)

// Entity is one instance line of the DATA section.
type Entity struct {
	ID    models.Handle
	Class string
	Attrs []any
}

// Ref возвращает ссылку из атрибута i, если она там есть.
func (e *Entity) Ref(i int) models.Handle {
	if i < 0 || i >= len(e.Attrs) {
		return 0
	}
	if r, ok := e.Attrs[i].(ref); ok {
		return models.Handle(r)
	}
	return 0
}

// Refs returns the references held by a list attribute.
func (e *Entity) Refs(i int) []models.Handle {
	if i < 0 || i >= len(e.Attrs) {
		return nil
	}
	l, ok := e.Attrs[i].(list)
	if !ok {
		return nil
	}
	var out []models.Handle
	for _, item := range l {
		if r, ok := item.(ref); ok {
			out = append(out, models.Handle(r))
		}
	}
	return out
}

func (e *Entity) Text(i int) string {
	if i < 0 || i >= len(e.Attrs) {
		return ""
	}
	switch v := e.Attrs[i].(type) {
	case string:
		return v
	case enum:
		return string(v)
	case typed:
		return fmt.Sprint(v.Value)
	}
	return ""
}

func (e *Entity) Float(i int) float64 {
	if i < 0 || i >= len(e.Attrs) {
		return 0
	}
	switch v := e.Attrs[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Floats returns a list attribute of reals, e.g. cartesian point coordinates.
func (e *Entity) Floats(i int) []float64 {
	if i < 0 || i >= len(e.Attrs) {
		return nil
	}
	l, ok := e.Attrs[i].(list)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(l))
	for _, item := range l {
		if f, ok := item.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// IsNull сообщает, что атрибут i не задан ($).
func (e *Entity) IsNull(i int) bool {
	if i < 0 || i >= len(e.Attrs) {
		return true
	}
	_, ok := e.Attrs[i].(unset)
	return ok
}

// ============================================================
// Encoding
// ============================================================

func (e *Entity) encode() string {
	var b strings.Builder
	b.WriteString("#")
	b.WriteString(strconv.Itoa(int(e.ID)))
	b.WriteString("=")
	b.WriteString(e.Class)
	b.WriteString("(")
	for i, attr := range e.Attrs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(encodeValue(attr))
	}
	b.WriteString(");")
	return b.String()
}

func encodeValue(v any) string {
	switch val := v.(type) {
	case nil, unset:
		return "$"
	case derived:
		return "*"
	case ref:
		return "#" + strconv.Itoa(int(val))
	case enum:
		return "." + strings.ToUpper(string(val)) + "."
	case string:
		return encodeString(val)
	case float64:
		return formatReal(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return ".T."
		}
		return ".F."
	case typed:
		return val.Type + "(" + encodeValue(val.Value) + ")"
	case list:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = encodeValue(item)
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "$"
}

// formatReal всегда пишет десятичную точку: 3200 → "3200.", 1e-5 → "1.E-05".
func formatReal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0."
	}
	if f == 0 {
		return "0."
	}

	abs := math.Abs(f)
	if abs >= 1e15 || abs < 1e-4 {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "E")
		if !strings.Contains(mantissa, ".") {
			mantissa += "."
		}
		sign := exp[:1]
		digits := exp[1:]
		if len(digits) < 2 {
			digits = "0" + digits
		}
		return mantissa + "E" + sign + digits
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}

// encodeString экранирует строку по ISO 10303-21: апострофы и обратные слеши
// удваиваются, символы вне печатного ASCII пишутся как \X2\hhhh\X0\.
func encodeString(s string) string {
	var b strings.Builder
	b.WriteString("'")

	var wide []rune
	flush := func() {
		if len(wide) == 0 {
			return
		}
		b.WriteString(`\X2\`)
		for _, r := range wide {
			if r > 0xffff {
				r1, r2 := utf16Pair(r)
				fmt.Fprintf(&b, "%04X%04X", r1, r2)
				continue
			}
			fmt.Fprintf(&b, "%04X", r)
		}
		b.WriteString(`\X0\`)
		wide = wide[:0]
	}

	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			wide = append(wide, r)
			continue
		}
		flush()
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	flush()

	b.WriteString("'")
	return b.String()
}

func utf16Pair(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r>>10)&0x3ff, 0xdc00 + r&0x3ff
}

// propertyValue maps a tagged property value to its IFC measure type.
func propertyValue(v models.Value) any {
	switch v.Kind() {
	case models.KindString:
		return typed{Type: "IFCLABEL", Value: v.Str()}
	case models.KindInteger:
		return typed{Type: "IFCINTEGER", Value: v.Int()}
	case models.KindReal:
		f, _ := v.Float()
		return typed{Type: "IFCREAL", Value: f}
	case models.KindBoolean:
		return typed{Type: "IFCBOOLEAN", Value: v.Bool()}
	}
	return null
}
