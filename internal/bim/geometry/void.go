package geometry

import (
	"errors"
	"fmt"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Openings
// ============================================================

// ResolveVoid подставляет значения по умолчанию: ширина 1000, высота 2100,
// глубина = толщина хозяина + 100.
func ResolveVoid(spec models.VoidSpec, hostThickness float64) models.VoidSpec {
	if spec.Width == 0 {
		spec.Width = DefaultVoidWidth
	}
	if spec.Height == 0 {
		spec.Height = DefaultVoidHeight
	}
	if spec.Depth == 0 {
		spec.Depth = hostThickness + VoidDepthMargin
	}
	return spec
}

// AddVoid вырезает прямоугольный проем в host. Размещение проема задается
// смещением (X, Y, Z) в локальной системе хозяина.
func (b *Builder) AddVoid(host *bim.Entity, spec models.VoidSpec, hostThickness float64) (*bim.Entity, error) {
	if host == nil {
		return nil, fmt.Errorf("add void: nil host")
	}
	if err := bim.Positive("host thickness", hostThickness); err != nil {
		return nil, err
	}

	v := ResolveVoid(spec, hostThickness)
	err := errors.Join(
		bim.Positive("void width", v.Width),
		bim.Positive("void height", v.Height),
		bim.Positive("void depth", v.Depth),
	)
	if err != nil {
		return nil, err
	}
	if v.Depth <= hostThickness {
		b.logger.Warnw("void depth does not exceed host thickness, opening will not perforate",
			"host", host.Name(), "depth", v.Depth, "thickness", hostThickness)
	}

	// the opening placement is relative to the host frame
	if _, placed := host.Placement(); !placed {
		if err := host.SetPlacement(models.Identity()); err != nil {
			return nil, err
		}
	}

	name := v.Name
	if name == "" {
		name = fmt.Sprintf("%s Opening %d", host.Name(), len(host.Openings())+1)
	}
	opening, err := b.session.CreateEntity("IfcOpeningElement", name)
	if err != nil {
		return nil, err
	}

	rep, err := b.RectangularExtrusion(v.Width, v.Height, v.Depth)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(opening, rep); err != nil {
		return nil, err
	}
	if err := opening.SetPlacement(models.Translation(v.X, v.Y, v.Z)); err != nil {
		return nil, err
	}
	if err := host.AddOpening(opening); err != nil {
		return nil, err
	}

	b.logger.Debugw("void added",
		"host", host.Name(), "x", v.X, "z", v.Z, "width", v.Width, "height", v.Height, "depth", v.Depth)
	return opening, nil
}
