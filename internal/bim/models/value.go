package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Tagged scalar value
// ============================================================

type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindInteger
	KindReal
	KindBoolean
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	default:
		return "none"
	}
}

// Value is a property value: string, integer, real or boolean. The zero Value is absent.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	i    int64
	b    bool
}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

func Real(f float64) Value { return Value{kind: KindReal, num: f} }

func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsZero() bool { return v.kind == KindNone }

func (v Value) Str() string { return v.str }
func (v Value) Int() int64 { return v.i }
func (v Value) Bool() bool { return v.b }

// Float возвращает числовое значение для integer и real.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindReal:
		return v.num, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Equal сравнивает значения с учетом типа.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInteger:
		return json.Marshal(v.i)
	case KindReal:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// ValueOf converts a decoded JSON/YAML scalar into a Value. nil maps to the absent Value.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Boolean(v), nil
	case int:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint:
		return Integer(int64(v)), nil
	case uint64:
		return Integer(int64(v)), nil
	case float32:
		return Real(float64(v)), nil
	case float64:
		return Real(v), nil
	case json.Number:
		s := v.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := v.Int64(); err == nil {
				return Integer(i), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
		}
		return Real(f), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", raw)
}

// ============================================================
// Raw field maps
// ============================================================

// Fields is a flat name → value mapping as received from an input form.
type Fields map[string]Value

// FieldsFrom конвертирует произвольную map в Fields. Вложенные структуры отклоняются.
func FieldsFrom(raw map[string]any) (Fields, error) {
	out := make(Fields, len(raw))
	for key, val := range raw {
		v, err := ValueOf(val)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// Number возвращает числовое поле, если оно присутствует и конечно.
func (f Fields) Number(name string) (float64, bool) {
	v, ok := f[name]
	if !ok {
		return 0, false
	}
	n, ok := v.Float()
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func (f Fields) Text(name string) (string, bool) {
	v, ok := f[name]
	if !ok || v.Kind() != KindString {
		return "", false
	}
	return v.Str(), true
}
