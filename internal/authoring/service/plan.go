package service

import (
	"fmt"
	"math"
	"strings"

	"precast-bim/internal/authoring/models"
	"precast-bim/internal/authoring/preview"
	"precast-bim/internal/bim/geometry"
	bimmodels "precast-bim/internal/bim/models"
	"precast-bim/internal/bim/parser"
	"precast-bim/internal/bim/schema"
)

// ============================================================
// Request resolution
// ============================================================

const (
	DefaultWallName      = "Default Wall"
	DefaultWallLength    = 5000.0
	DefaultWallHeight    = 3000.0
	DefaultWallThickness = 300.0

	DefaultSlabName = "Slab"
)

type wallPlan struct {
	name                      string
	length, height, thickness float64
	footprint                 []bimmodels.Point2D
	voids                     []bimmodels.VoidSpec
	element, geometry         bimmodels.Fields
}

type slabPlan struct {
	name                  string
	length, width, height float64
	voidCount             int
	voidDiameter          float64
	mode                  geometry.CoreMode
	element               bimmodels.Fields
}

func planWall(req *models.WallRequest) (*wallPlan, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// Voids и FootprintPolyline в geometry_data не скаляры: разбираем отдельно
	geo := make(map[string]any, len(req.GeometryData))
	var rawVoids, rawFootprint any
	for k, v := range req.GeometryData {
		switch normalizeKey(k) {
		case "voids":
			rawVoids = v
			continue
		case "footprintpolyline":
			rawFootprint = v
			if _, isText := v.(string); !isText {
				continue
			}
		}
		geo[k] = v
	}

	element, err := bimmodels.FieldsFrom(req.ElementData)
	if err != nil {
		return nil, fmt.Errorf("%w: element_data: %v", ErrInvalidRequest, err)
	}
	geometryFields, err := bimmodels.FieldsFrom(geo)
	if err != nil {
		return nil, fmt.Errorf("%w: geometry_data: %v", ErrInvalidRequest, err)
	}

	plan := &wallPlan{
		name:      req.Name,
		length:    firstPositive(req.Length, numberField(geometryFields, "Length"), DefaultWallLength),
		height:    firstPositive(req.Height, numberField(geometryFields, "Height"), DefaultWallHeight),
		thickness: firstPositive(req.Thickness, numberField(geometryFields, "Thickness"), DefaultWallThickness),
		voids:     req.Voids,
		element:   element,
		geometry:  geometryFields,
	}
	if plan.name == "" {
		plan.name = textField(element, "Wall_ID", DefaultWallName)
	}

	if len(plan.voids) == 0 && rawVoids != nil {
		if err := decodeInto(rawVoids, &plan.voids); err != nil {
			return nil, fmt.Errorf("%w: geometry_data.Voids: %v", ErrInvalidRequest, err)
		}
		for i := range plan.voids {
			if err := validate.Struct(plan.voids[i]); err != nil {
				return nil, fmt.Errorf("%w: geometry_data.Voids[%d]: %v", ErrInvalidRequest, i, err)
			}
		}
	}

	if req.Footprint != "" {
		rawFootprint = req.Footprint
	}
	if rawFootprint != nil {
		points, err := footprintFrom(rawFootprint)
		if err != nil {
			return nil, fmt.Errorf("%w: footprint: %v", ErrInvalidRequest, err)
		}
		plan.footprint = points
		if _, ok := findField(geometryFields, "FootprintPolyline"); !ok && len(points) > 0 {
			geometryFields["FootprintPolyline"] = bimmodels.String(parser.FormatPath(points))
		}
	}
	return plan, nil
}

func (s *Service) planSlab(req *models.SlabRequest) (*slabPlan, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	element, err := bimmodels.FieldsFrom(req.ElementData)
	if err != nil {
		return nil, fmt.Errorf("%w: element_data: %v", ErrInvalidRequest, err)
	}

	plan := &slabPlan{
		name:    req.Name,
		length:  firstPositive(req.Length, numberField(element, "Length")),
		width:   firstPositive(req.Width, numberField(element, "Width")),
		height:  firstPositive(req.Height, numberField(element, "Height")),
		mode:    s.coreMode,
		element: element,
	}
	if plan.name == "" {
		plan.name = textField(element, "Product_ID", DefaultSlabName)
	}

	if req.VoidCount != nil {
		plan.voidCount = *req.VoidCount
	} else if n := numberField(element, "Void_Count"); n != 0 {
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("%w: Void_Count must be an integer, got %g", ErrInvalidRequest, n)
		}
		plan.voidCount = int(n)
	}
	if req.VoidDiameter != nil {
		plan.voidDiameter = *req.VoidDiameter
	} else {
		plan.voidDiameter = numberField(element, "Void_Diameter")
	}

	if req.CoreMode != "" {
		if plan.mode, err = geometry.ParseCoreMode(req.CoreMode); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return plan, nil
}

// ============================================================
// Preview models
// ============================================================

// wallElevation переводит план стены в фасад для превью.
func wallElevation(plan *wallPlan) preview.WallElevation {
	length := plan.length
	if len(plan.footprint) > 0 {
		minX, maxX := math.MaxFloat64, -math.MaxFloat64
		for _, p := range plan.footprint {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
		}
		length = maxX - minX
	}

	openings := make([]bimmodels.VoidSpec, 0, len(plan.voids))
	for _, v := range plan.voids {
		openings = append(openings, geometry.ResolveVoid(v, plan.thickness))
	}
	return preview.WallElevation{Name: plan.name, Length: length, Height: plan.height, Openings: openings}
}

func slabSection(plan *slabPlan) (preview.SlabSection, error) {
	var (
		profile geometry.Profile
		err     error
	)
	if plan.voidCount > 0 {
		profile, err = geometry.HollowCoreProfile(plan.width, plan.height, plan.voidCount, plan.voidDiameter, plan.mode)
	} else {
		profile, err = geometry.RectangleProfile(plan.width, plan.height)
	}
	if err != nil {
		return preview.SlabSection{}, err
	}
	return preview.SlabSection{Name: plan.name, Profile: profile}, nil
}

// ============================================================
// Field helpers
// ============================================================

func findField(f bimmodels.Fields, name string) (bimmodels.Value, bool) {
	return schema.Find(f, name)
}

func numberField(f bimmodels.Fields, name string) float64 {
	n, ok := schema.Number(f, name)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func textField(f bimmodels.Fields, name, def string) string {
	v, ok := schema.Find(f, name)
	if !ok || v.IsZero() || v.String() == "" {
		return def
	}
	return v.String()
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(k))
}
