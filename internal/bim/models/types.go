package models

// ============================================================
// Backend handles
// ============================================================

// Handle ссылается на сущность внутри хранилища backend. Ноль означает "нет сущности".
type Handle int

func (h Handle) Valid() bool {
	return h > 0
}

// ============================================================
// Geometry primitives
// ============================================================

type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Point3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Matrix4 is a row-major 4x4 transform. Column 3 holds the translation.
type Matrix4 [4][4]float64

func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation возвращает единичную матрицу со смещением (x, y, z).
func Translation(x, y, z float64) Matrix4 {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

func (m Matrix4) Location() Point3D {
	return Point3D{X: m[0][3], Y: m[1][3], Z: m[2][3]}
}

func (m Matrix4) Axis() Point3D {
	return Point3D{X: m[0][2], Y: m[1][2], Z: m[2][2]}
}

func (m Matrix4) RefDirection() Point3D {
	return Point3D{X: m[0][0], Y: m[1][0], Z: m[2][0]}
}

// ============================================================
// Contexts
// ============================================================

// ContextSpec описывает геометрический контекст. Parent задается только для sub-context.
type ContextSpec struct {
	Type       string
	Identifier string
	TargetView string
	Parent     Handle
}

// ============================================================
// Openings
// ============================================================

// VoidSpec описывает проем в стене. Нулевые Width, Height и Depth заменяются значениями по умолчанию.
type VoidSpec struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	X      float64 `json:"X" yaml:"X"`
	Y      float64 `json:"Y,omitempty" yaml:"Y,omitempty"`
	Z      float64 `json:"Z" yaml:"Z"`
	Width  float64 `json:"Width" yaml:"Width" validate:"gte=0"`
	Height float64 `json:"Height" yaml:"Height" validate:"gte=0"`
	Depth  float64 `json:"Depth,omitempty" yaml:"Depth,omitempty" validate:"gte=0"`
}

// ============================================================
// Property sets
// ============================================================

type Property struct {
	Name  string
	Value Value
}

// PropertySet is an ordered, named list of properties ready for the backend.
type PropertySet struct {
	Name       string
	Properties []Property
}

// Get возвращает значение свойства по имени.
func (p PropertySet) Get(name string) (Value, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return Value{}, false
}
