// Package schema validates raw field dictionaries against the per-kind property
// set tables and maps them to ordered property sets.
package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Schema model
// ============================================================

type Kind string

const (
	WallElementData  Kind = "wall_element_data"
	WallGeometryData Kind = "wall_geometry_data"
	SlabElementData  Kind = "slab_element_data"
)

type FieldType int

const (
	// TypeAny accepts any scalar.
	TypeAny FieldType = iota
	TypeText
	TypeInteger
	TypeNumber
	TypeBoolean
)

func (t FieldType) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Field описывает одно свойство набора. Default применяется только к
// необязательным полям; нулевой Default означает "не писать свойство".
type Field struct {
	Name     string
	Aliases  []string
	Required bool
	Type     FieldType
	Default  models.Value
}

type Schema struct {
	Kind    Kind
	SetName string
	Fields  []Field
}

// Lookup returns the schema registered for kind.
func Lookup(kind Kind) (Schema, bool) {
	s, ok := registry[kind]
	return s, ok
}

// Kinds lists the registered kinds.
func Kinds() []Kind {
	return []Kind{WallElementData, WallGeometryData, SlabElementData}
}

// ============================================================
// Mapping
// ============================================================

// Map validates raw against the schema for kind and returns the property set in
// schema order. Raw keys match the field name exactly or after normalization
// ("Product ID", "product_id" and "ProductID" all match Product_ID). Unknown keys
// are ignored.
func Map(kind Kind, raw models.Fields) (models.PropertySet, error) {
	s, ok := Lookup(kind)
	if !ok {
		return models.PropertySet{}, fmt.Errorf("unknown property schema %q", kind)
	}
	return s.Map(raw)
}

func (s Schema) Map(raw models.Fields) (models.PropertySet, error) {
	index := normalizedIndex(raw)

	set := models.PropertySet{Name: s.SetName, Properties: make([]models.Property, 0, len(s.Fields))}
	for _, f := range s.Fields {
		v, found := f.lookup(raw, index)
		if !found || v.IsZero() {
			if f.Required {
				return models.PropertySet{}, &bim.MissingFieldError{Set: s.SetName, Field: f.Name}
			}
			if f.Default.IsZero() {
				continue
			}
			v = f.Default
		}

		coerced, err := f.coerce(v)
		if err != nil {
			return models.PropertySet{}, fmt.Errorf("%w: %s.%s: %v", bim.ErrInvalidFieldValue, s.SetName, f.Name, err)
		}
		set.Properties = append(set.Properties, models.Property{Name: f.Name, Value: coerced})
	}
	return set, nil
}

// Find returns the raw value for name using the same key normalization as Map.
func Find(raw models.Fields, name string) (models.Value, bool) {
	return Field{Name: name}.lookup(raw, normalizedIndex(raw))
}

// Number is Find restricted to numeric values.
func Number(raw models.Fields, name string) (float64, bool) {
	v, ok := Find(raw, name)
	if !ok {
		return 0, false
	}
	return v.Float()
}

func (f Field) lookup(raw models.Fields, index map[string]string) (models.Value, bool) {
	if v, ok := raw[f.Name]; ok {
		return v, true
	}
	for _, name := range append([]string{f.Name}, f.Aliases...) {
		if key, ok := index[normalize(name)]; ok {
			return raw[key], true
		}
	}
	return models.Value{}, false
}

func (f Field) coerce(v models.Value) (models.Value, error) {
	switch f.Type {
	case TypeText:
		if v.Kind() != models.KindString {
			return v, fmt.Errorf("want text, got %s", v.Kind())
		}
	case TypeInteger:
		switch v.Kind() {
		case models.KindInteger:
		case models.KindReal:
			n, _ := v.Float()
			if n != math.Trunc(n) {
				return v, fmt.Errorf("want integer, got %g", n)
			}
			return models.Integer(int64(n)), nil
		default:
			return v, fmt.Errorf("want integer, got %s", v.Kind())
		}
	case TypeNumber:
		if _, ok := v.Float(); !ok {
			return v, fmt.Errorf("want number, got %s", v.Kind())
		}
	case TypeBoolean:
		if v.Kind() != models.KindBoolean {
			return v, fmt.Errorf("want boolean, got %s", v.Kind())
		}
	}
	return v, nil
}

// normalizedIndex maps normalized keys to the raw key. For colliding keys the
// lexically smallest raw key wins so the result does not depend on map order.
func normalizedIndex(raw models.Fields) map[string]string {
	index := make(map[string]string, len(raw))
	for key := range raw {
		n := normalize(key)
		if prev, ok := index[n]; !ok || key < prev {
			index[n] = key
		}
	}
	return index
}

// normalize приводит ключ к нижнему регистру и убирает пробелы, дефисы и подчеркивания.
func normalize(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return unicode.ToLower(r)
	}, key)
}
