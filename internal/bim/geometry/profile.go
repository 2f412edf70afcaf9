package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Defaults
// ============================================================

const (
	// VoidDepthMargin добавляется к толщине хозяина, чтобы проем прорезал его насквозь.
	VoidDepthMargin = 100.0

	DefaultVoidWidth  = 1000.0
	DefaultVoidHeight = 2100.0
)

// ============================================================
// Profile
// ============================================================

// Circle is a circular inner curve of a profile (a hollow-core cavity).
type Circle struct {
	Center models.Point2D `json:"center"`
	Radius float64        `json:"radius"`
}

// Profile is a closed 2D cross-section: the outer polyline (first point repeated
// at the end) and optional circular cavities.
type Profile struct {
	Points   []models.Point2D `json:"points"`
	Cavities []Circle         `json:"cavities,omitempty"`

	// WebThickness is set for hollow-core profiles.
	WebThickness float64 `json:"web_thickness,omitempty"`

	// backend handles, filled once the curves are built
	curve models.Handle
	inner []models.Handle
}

// Closed reports whether the outline ends where it starts and has at least 3 distinct vertices.
func (p Profile) Closed() bool {
	if len(p.Points) < 4 {
		return false
	}
	return p.Points[0] == p.Points[len(p.Points)-1] && len(p.Vertices()) >= 3
}

// Vertices returns the outline without the closing point and without consecutive duplicates.
func (p Profile) Vertices() []models.Point2D {
	out := make([]models.Point2D, 0, len(p.Points))
	for i, pt := range p.Points {
		if i > 0 && pt == p.Points[i-1] {
			continue
		}
		out = append(out, pt)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Area is the shoelace area of the outline minus the cavity areas.
func (p Profile) Area() float64 {
	v := p.Vertices()
	var sum float64
	for i := range v {
		j := (i + 1) % len(v)
		sum += v[i].X*v[j].Y - v[j].X*v[i].Y
	}
	area := math.Abs(sum) / 2
	for _, c := range p.Cavities {
		area -= math.Pi * c.Radius * c.Radius
	}
	return area
}

// Built reports whether the profile curves already exist in a backend.
func (p Profile) Built() bool { return p.curve.Valid() }

// Curve returns the backend handle of the outer curve (zero until built).
func (p Profile) Curve() models.Handle { return p.curve }

// RectangleProfile returns the closed outline (0,0),(length,0),(length,thickness),(0,thickness).
func RectangleProfile(length, thickness float64) (Profile, error) {
	if err := errors.Join(bim.Positive("length", length), bim.Positive("thickness", thickness)); err != nil {
		return Profile{}, err
	}
	return Profile{Points: []models.Point2D{
		{X: 0, Y: 0},
		{X: length, Y: 0},
		{X: length, Y: thickness},
		{X: 0, Y: thickness},
		{X: 0, Y: 0},
	}}, nil
}

// FootprintProfile closes points into an outline. At least 3 distinct vertices are required.
func FootprintProfile(points []models.Point2D) (Profile, error) {
	pts := make([]models.Point2D, len(points))
	copy(pts, points)
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	p := Profile{Points: pts}
	if !p.Closed() {
		return Profile{}, fmt.Errorf("%w: footprint needs at least 3 distinct vertices, got %d", bim.ErrInvalidProfile, len(p.Vertices()))
	}
	return p, nil
}

// ============================================================
// Hollow core
// ============================================================

// CoreMode selects how hollow-core voids are laid out in the cross-section.
type CoreMode int

const (
	// CoreLeadingEdges ставит по одной вершине на передней кромке каждой пустоты вдоль верхней грани.
	CoreLeadingEdges CoreMode = iota
	// CoreBothEdges ставит вершины на входе и выходе каждой пустоты.
	CoreBothEdges
	// CoreCavities строит сплошной контур с круглыми внутренними полостями.
	CoreCavities
)

func (m CoreMode) String() string {
	switch m {
	case CoreLeadingEdges:
		return "leading"
	case CoreBothEdges:
		return "both"
	case CoreCavities:
		return "cavities"
	}
	return fmt.Sprintf("CoreMode(%d)", int(m))
}

// ParseCoreMode accepts "leading", "both" or "cavities"; empty means leading.
func ParseCoreMode(s string) (CoreMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leading":
		return CoreLeadingEdges, nil
	case "both":
		return CoreBothEdges, nil
	case "cavities":
		return CoreCavities, nil
	}
	return 0, fmt.Errorf("unknown core mode %q", s)
}

// ExternalWebThickness is the material left between and around voids:
// (width − n·d) / (n + 1).
func ExternalWebThickness(width float64, voidCount int, voidDiameter float64) float64 {
	return (width - float64(voidCount)*voidDiameter) / float64(voidCount+1)
}

// HollowCoreProfile computes a slab cross-section width×height with voidCount
// evenly spaced voids of voidDiameter. Voids that do not fit fail with ErrInvalidProfile.
func HollowCoreProfile(width, height float64, voidCount int, voidDiameter float64, mode CoreMode) (Profile, error) {
	if err := errors.Join(bim.Positive("width", width), bim.Positive("height", height)); err != nil {
		return Profile{}, err
	}
	if voidCount < 0 {
		return Profile{}, &bim.DimensionError{Name: "void count", Value: float64(voidCount)}
	}
	if voidDiameter < 0 {
		return Profile{}, &bim.DimensionError{Name: "void diameter", Value: voidDiameter}
	}
	if voidCount == 0 {
		return Profile{}, fmt.Errorf("%w: hollow core needs at least one void", bim.ErrInvalidProfile)
	}
	if voidDiameter == 0 {
		return Profile{}, fmt.Errorf("%w: %d voids with zero diameter", bim.ErrInvalidProfile, voidCount)
	}

	web := ExternalWebThickness(width, voidCount, voidDiameter)
	if !(web > 0) {
		return Profile{}, fmt.Errorf("%w: %d voids of %g do not fit in width %g (web %g)",
			bim.ErrInvalidProfile, voidCount, voidDiameter, width, web)
	}

	p := Profile{WebThickness: web}
	switch mode {
	case CoreLeadingEdges, CoreBothEdges:
		p.Points = append(p.Points, models.Point2D{X: 0, Y: 0}, models.Point2D{X: 0, Y: height})
		x := web
		for i := 0; i < voidCount; i++ {
			p.Points = append(p.Points, models.Point2D{X: x, Y: height})
			if mode == CoreBothEdges {
				p.Points = append(p.Points, models.Point2D{X: x + voidDiameter, Y: height})
			}
			x += voidDiameter + web
		}
		p.Points = append(p.Points,
			models.Point2D{X: width, Y: height},
			models.Point2D{X: width, Y: 0},
			models.Point2D{X: 0, Y: 0},
		)

	case CoreCavities:
		if voidDiameter >= height {
			return Profile{}, fmt.Errorf("%w: void diameter %g does not fit in height %g",
				bim.ErrInvalidProfile, voidDiameter, height)
		}
		outline, _ := RectangleProfile(width, height)
		p.Points = outline.Points
		for i := 0; i < voidCount; i++ {
			cx := web*float64(i+1) + voidDiameter*float64(i) + voidDiameter/2
			p.Cavities = append(p.Cavities, Circle{
				Center: models.Point2D{X: cx, Y: height / 2},
				Radius: voidDiameter / 2,
			})
		}

	default:
		return Profile{}, fmt.Errorf("%w: unknown core mode %d", bim.ErrInvalidProfile, int(mode))
	}
	return p, nil
}
