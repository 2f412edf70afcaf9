package preview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Renderer
// ============================================================

// WallElevation is the front view of a wall: the outline in the X/Z plane and its openings.
type WallElevation struct {
	Name     string
	Length   float64
	Height   float64
	Openings []models.VoidSpec
}

// SlabSection is the cross-section of a slab.
type SlabSection struct {
	Name    string
	Profile geometry.Profile
}

type Renderer struct {
	margin float64
}

func NewRenderer() *Renderer {
	return &Renderer{margin: 50}
}

// RenderWall рисует фасад стены; ось Z направлена вверх.
func (r *Renderer) RenderWall(w WallElevation) (string, error) {
	if !(w.Length > 0) || !(w.Height > 0) {
		return "", fmt.Errorf("wall elevation needs positive length and height")
	}

	// svg y grows downwards
	flip := func(z float64) float64 { return w.Height - z }

	var elements []string
	elements = append(elements, fmt.Sprintf(`<rect id="outline" x="0" y="0" width="%s" height="%s" fill="#e8e8e8" stroke="#000" />`,
		formatFloat(w.Length), formatFloat(w.Height)))

	for i, o := range w.Openings {
		id := o.Name
		if id == "" {
			id = "opening-" + strconv.Itoa(i+1)
		}
		elements = append(elements, fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="#fff" stroke="#1f77b4" />`,
			escape(id), formatFloat(o.X), formatFloat(flip(o.Z+o.Height)), formatFloat(o.Width), formatFloat(o.Height)))
	}

	return r.document(w.Name, w.Length, w.Height, elements), nil
}

// RenderSlab рисует поперечное сечение плиты: контур и круглые полости.
func (r *Renderer) RenderSlab(s SlabSection) (string, error) {
	vertices := s.Profile.Vertices()
	if len(vertices) < 3 {
		return "", fmt.Errorf("slab section needs at least 3 vertices")
	}

	minX, minY, maxX, maxY := bounds(vertices)
	width, height := maxX-minX, maxY-minY
	flip := func(p models.Point2D) models.Point2D {
		return models.Point2D{X: p.X - minX, Y: maxY - p.Y}
	}

	var path strings.Builder
	path.WriteString(`<path id="profile" d="M `)
	path.WriteString(formatPoint(flip(vertices[0])))
	for _, p := range vertices[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(flip(p)))
	}
	path.WriteString(` Z" fill="#e8e8e8" stroke="#000" />`)

	elements := []string{path.String()}
	for i, c := range s.Profile.Cavities {
		center := flip(c.Center)
		elements = append(elements, fmt.Sprintf(`<circle id="core-%d" cx="%s" cy="%s" r="%s" fill="#fff" stroke="#1f77b4" />`,
			i+1, formatFloat(center.X), formatFloat(center.Y), formatFloat(c.Radius)))
	}

	return r.document(s.Name, width, height, elements), nil
}

func (r *Renderer) document(title string, width, height float64, elements []string) string {
	m := r.margin

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width+2*m), formatFloat(height+2*m),
		formatFloat(-m), formatFloat(-m), formatFloat(width+2*m), formatFloat(height+2*m)))
	builder.WriteString("\n")

	if title != "" {
		builder.WriteString("  <title>")
		builder.WriteString(escape(title))
		builder.WriteString("</title>\n")
	}
	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Helpers
// ============================================================

func bounds(points []models.Point2D) (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

var xmlEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escape(s string) string {
	return xmlEscaper.Replace(s)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point2D) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
