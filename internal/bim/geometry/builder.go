// Package geometry builds shape representations and openings through the
// session backend: rectangular and footprint extrusions, hollow-core profile
// extrusions and voids cut into host elements.
package geometry

import (
	"errors"
	"fmt"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"

	"go.uber.org/zap"
)

// ============================================================
// Representation
// ============================================================

type Kind int

const (
	// KindExtrusion is a length×thickness rectangle extruded along +Z.
	KindExtrusion Kind = iota
	// KindProfileExtrusion is a cross-section extruded along +X.
	KindProfileExtrusion
	// KindFootprintExtrusion is an explicit plan outline extruded along +Z.
	KindFootprintExtrusion
)

func (k Kind) String() string {
	switch k {
	case KindExtrusion:
		return "extrusion"
	case KindProfileExtrusion:
		return "profile_extrusion"
	case KindFootprintExtrusion:
		return "footprint_extrusion"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Representation is a built shape, ready to be attached to one entity.
type Representation struct {
	Handle  models.Handle
	Kind    Kind
	Profile Profile
	// Depth is the extrusion length (height for plan extrusions).
	Depth float64
}

// ============================================================
// Builder
// ============================================================

type Builder struct {
	session *bim.Session
	mode    CoreMode
	logger  *zap.SugaredLogger
}

type Option func(*Builder)

// WithCoreMode задает раскладку пустот многопустотных плит.
func WithCoreMode(m CoreMode) Option {
	return func(b *Builder) {
		b.mode = m
	}
}

func NewBuilder(session *bim.Session, opts ...Option) *Builder {
	b := &Builder{
		session: session,
		mode:    CoreLeadingEdges,
		logger:  session.Logger().With("component", "geometry"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Session() *bim.Session { return b.session }

func (b *Builder) CoreMode() CoreMode { return b.mode }

// RectangularExtrusion строит прямоугольник length×thickness и выдавливает его на height.
func (b *Builder) RectangularExtrusion(length, height, thickness float64) (*Representation, error) {
	err := errors.Join(
		bim.Positive("length", length),
		bim.Positive("height", height),
		bim.Positive("thickness", thickness),
	)
	if err != nil {
		return nil, err
	}

	profile, _ := RectangleProfile(length, thickness)
	h, err := b.session.Backend().BuildExtrusion(b.session.Body(), length, height, thickness)
	if err != nil {
		return nil, fmt.Errorf("build extrusion: %w", err)
	}
	return &Representation{Handle: h, Kind: KindExtrusion, Profile: profile, Depth: height}, nil
}

// HollowCoreProfile вычисляет сечение и создает его кривые в backend.
func (b *Builder) HollowCoreProfile(width, height float64, voidCount int, voidDiameter float64) (Profile, error) {
	p, err := HollowCoreProfile(width, height, voidCount, voidDiameter, b.mode)
	if err != nil {
		return Profile{}, err
	}
	if err := b.buildCurves(&p); err != nil {
		return Profile{}, err
	}

	b.logger.Debugw("hollow core profile built",
		"mode", b.mode.String(), "voids", voidCount, "web", p.WebThickness)
	return p, nil
}

// ProfileExtrusion выдавливает сечение на length. Кривые строятся, если еще не построены.
func (b *Builder) ProfileExtrusion(p Profile, length float64) (*Representation, error) {
	if err := bim.Positive("length", length); err != nil {
		return nil, err
	}
	if !p.Closed() {
		return nil, fmt.Errorf("%w: profile is not closed", bim.ErrInvalidProfile)
	}
	if !p.Built() {
		if err := b.buildCurves(&p); err != nil {
			return nil, err
		}
	}

	h, err := b.session.Backend().BuildProfileExtrusion(b.session.Body(), p.curve, length, p.inner...)
	if err != nil {
		return nil, fmt.Errorf("build profile extrusion: %w", err)
	}
	return &Representation{Handle: h, Kind: KindProfileExtrusion, Profile: p, Depth: length}, nil
}

// FootprintExtrusion выдавливает произвольный контур в плане на height.
func (b *Builder) FootprintExtrusion(points []models.Point2D, height float64) (*Representation, error) {
	if err := bim.Positive("height", height); err != nil {
		return nil, err
	}
	p, err := FootprintProfile(points)
	if err != nil {
		return nil, err
	}
	if err := b.buildCurves(&p); err != nil {
		return nil, err
	}

	h, err := b.session.Backend().BuildFootprintExtrusion(b.session.Body(), p.curve, height)
	if err != nil {
		return nil, fmt.Errorf("build footprint extrusion: %w", err)
	}
	return &Representation{Handle: h, Kind: KindFootprintExtrusion, Profile: p, Depth: height}, nil
}

// Attach binds rep to e, replacing any previous representation.
func (b *Builder) Attach(e *bim.Entity, rep *Representation) error {
	if rep == nil || !rep.Handle.Valid() {
		return fmt.Errorf("attach representation to %s: representation not built", e.Class())
	}
	return e.AssignRepresentation(rep.Handle)
}

func (b *Builder) buildCurves(p *Profile) error {
	backend := b.session.Backend()

	points := make([]models.Handle, 0, len(p.Points))
	for _, pt := range p.Points {
		h, err := backend.BuildCartesianPoint(pt)
		if err != nil {
			return fmt.Errorf("build point: %w", err)
		}
		points = append(points, h)
	}
	curve, err := backend.BuildPolyline(points)
	if err != nil {
		return fmt.Errorf("build polyline: %w", err)
	}

	inner := make([]models.Handle, 0, len(p.Cavities))
	for _, c := range p.Cavities {
		h, err := backend.BuildCircle(c.Center, c.Radius)
		if err != nil {
			return fmt.Errorf("build cavity: %w", err)
		}
		inner = append(inner, h)
	}

	p.curve = curve
	p.inner = inner
	return nil
}
