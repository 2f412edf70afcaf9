package models

import (
	bimmodels "precast-bim/internal/bim/models"
)

// ============================================================
// Authoring requests
// ============================================================

// WallRequest описывает стену. Нулевые размеры берутся из geometry_data
// (Length/Height/Thickness), затем из значений по умолчанию 5000/3000/300.
// Проемы можно передать в voids или в geometry_data.Voids.
type WallRequest struct {
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
	Length    float64 `json:"length,omitempty" yaml:"length,omitempty" validate:"gte=0"`
	Height    float64 `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty" validate:"gte=0"`
	// Footprint is optional SVG path data for a non-rectangular plan outline.
	Footprint string `json:"footprint,omitempty" yaml:"footprint,omitempty"`

	Voids []bimmodels.VoidSpec `json:"voids,omitempty" yaml:"voids,omitempty" validate:"dive"`

	ElementData  map[string]any `json:"element_data" yaml:"element_data" validate:"required"`
	GeometryData map[string]any `json:"geometry_data" yaml:"geometry_data" validate:"required"`
}

// SlabRequest описывает плиту. Нулевые размеры берутся из element_data.
type SlabRequest struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Length       float64  `json:"length,omitempty" yaml:"length,omitempty" validate:"gte=0"`
	Width        float64  `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height       float64  `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	VoidCount    *int     `json:"void_count,omitempty" yaml:"void_count,omitempty" validate:"omitempty,gte=0"`
	VoidDiameter *float64 `json:"void_diameter,omitempty" yaml:"void_diameter,omitempty" validate:"omitempty,gte=0"`
	CoreMode     string   `json:"core_mode,omitempty" yaml:"core_mode,omitempty" validate:"omitempty,oneof=leading both cavities"`

	ElementData map[string]any `json:"element_data" yaml:"element_data" validate:"required"`
}

// ============================================================
// Catalog
// ============================================================

const (
	KindWall = "wall"
	KindSlab = "slab"
)

type DocumentRecord struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	EntityCount int    `json:"entity_count"`
	CreatedAt   string `json:"created_at"`
}
