// Package elements composes an Entity with the geometry builder and the
// property schemas into the two authoring workflows: precast walls and slabs.
package elements

import (
	"fmt"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/bim/models"
	"precast-bim/internal/bim/schema"
)

// ============================================================
// Wall
// ============================================================

type Wall struct {
	*bim.Entity

	builder   *geometry.Builder
	shape     *geometry.Representation
	thickness float64
}

// NewWall создает IfcWall в сессии builder. Пустое имя заменяется на "Wall".
func NewWall(builder *geometry.Builder, name string) (*Wall, error) {
	if name == "" {
		name = "Wall"
	}
	e, err := builder.Session().CreateEntity("IfcWall", name)
	if err != nil {
		return nil, err
	}
	return &Wall{Entity: e, builder: builder}, nil
}

// Shape returns the attached representation, nil before one is added.
func (w *Wall) Shape() *geometry.Representation { return w.shape }

func (w *Wall) Thickness() float64 { return w.thickness }

// AddWallRepresentation строит прямоугольный контур length×thickness высотой
// height, привязывает его к стене и вырезает проемы voids по порядку.
func (w *Wall) AddWallRepresentation(length, height, thickness float64, voids ...models.VoidSpec) error {
	rep, err := w.builder.RectangularExtrusion(length, height, thickness)
	if err != nil {
		return fmt.Errorf("wall %q: %w", w.Name(), err)
	}
	return w.attach(rep, thickness, voids)
}

// AddFootprintRepresentation выдавливает явный контур в плане. thickness нужна
// только для глубины проемов по умолчанию.
func (w *Wall) AddFootprintRepresentation(footprint []models.Point2D, height, thickness float64, voids ...models.VoidSpec) error {
	if err := bim.Positive("thickness", thickness); err != nil {
		return fmt.Errorf("wall %q: %w", w.Name(), err)
	}
	rep, err := w.builder.FootprintExtrusion(footprint, height)
	if err != nil {
		return fmt.Errorf("wall %q: %w", w.Name(), err)
	}
	return w.attach(rep, thickness, voids)
}

func (w *Wall) attach(rep *geometry.Representation, thickness float64, voids []models.VoidSpec) error {
	if err := w.builder.Attach(w.Entity, rep); err != nil {
		return err
	}
	w.shape = rep
	w.thickness = thickness

	for i, v := range voids {
		if _, err := w.AddVoid(v); err != nil {
			return fmt.Errorf("wall %q void %d: %w", w.Name(), i+1, err)
		}
	}
	return nil
}

// AddVoid вырезает еще один проем. Требует построенного представления.
func (w *Wall) AddVoid(spec models.VoidSpec) (*bim.Entity, error) {
	if w.shape == nil {
		return nil, fmt.Errorf("wall %q: add a representation before voids", w.Name())
	}
	return w.builder.AddVoid(w.Entity, spec, w.thickness)
}

// AddElementData maps raw through the wall element schema and writes the set.
// A schema violation writes nothing.
func (w *Wall) AddElementData(raw models.Fields) error {
	return addMapped(w.Entity, schema.WallElementData, raw)
}

func (w *Wall) AddGeometryData(raw models.Fields) error {
	return addMapped(w.Entity, schema.WallGeometryData, raw)
}

func addMapped(e *bim.Entity, kind schema.Kind, raw models.Fields) error {
	set, err := schema.Map(kind, raw)
	if err != nil {
		return err
	}
	return e.AddPropertySets(set)
}
