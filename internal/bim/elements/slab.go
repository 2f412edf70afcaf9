package elements

import (
	"fmt"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/bim/models"
	"precast-bim/internal/bim/schema"
)

// ============================================================
// Slab
// ============================================================

type Slab struct {
	*bim.Entity

	builder *geometry.Builder
	shape   *geometry.Representation
}

// NewSlab создает IfcSlab. Пустое имя заменяется на "Slab".
func NewSlab(builder *geometry.Builder, name string) (*Slab, error) {
	if name == "" {
		name = "Slab"
	}
	e, err := builder.Session().CreateEntity("IfcSlab", name)
	if err != nil {
		return nil, err
	}
	return &Slab{Entity: e, builder: builder}, nil
}

func (s *Slab) Shape() *geometry.Representation { return s.shape }

// Hollow reports whether the attached representation is a hollow-core profile extrusion.
func (s *Slab) Hollow() bool {
	return s.shape != nil && s.shape.Kind == geometry.KindProfileExtrusion
}

// WebThickness возвращает толщину стенки между пустотами (0 для сплошной плиты).
func (s *Slab) WebThickness() float64 {
	if !s.Hollow() {
		return 0
	}
	return s.shape.Profile.WebThickness
}

// AddSlabRepresentation выбирает многопустотное сечение при voidCount > 0,
// иначе сплошную экструзию.
func (s *Slab) AddSlabRepresentation(length, width, height float64, voidCount int, voidDiameter float64) error {
	if voidCount > 0 {
		return s.AddHollowCoreRepresentation(length, width, height, voidCount, voidDiameter)
	}
	if voidCount < 0 {
		return fmt.Errorf("slab %q: %w", s.Name(), &bim.DimensionError{Name: "void count", Value: float64(voidCount)})
	}
	return s.AddSolidRepresentation(length, width, height)
}

// AddSolidRepresentation строит прямоугольник length×width, выдавленный на height.
// Ширина плиты передается как thickness прямоугольного построителя.
func (s *Slab) AddSolidRepresentation(length, width, height float64) error {
	rep, err := s.builder.RectangularExtrusion(length, height, width)
	if err != nil {
		return fmt.Errorf("slab %q: %w", s.Name(), err)
	}
	return s.attach(rep)
}

// AddHollowCoreRepresentation выдавливает сечение width×height с пустотами на length.
func (s *Slab) AddHollowCoreRepresentation(length, width, height float64, voidCount int, voidDiameter float64) error {
	if err := bim.Positive("length", length); err != nil {
		return fmt.Errorf("slab %q: %w", s.Name(), err)
	}
	profile, err := s.builder.HollowCoreProfile(width, height, voidCount, voidDiameter)
	if err != nil {
		return fmt.Errorf("slab %q: %w", s.Name(), err)
	}
	rep, err := s.builder.ProfileExtrusion(profile, length)
	if err != nil {
		return fmt.Errorf("slab %q: %w", s.Name(), err)
	}
	return s.attach(rep)
}

func (s *Slab) attach(rep *geometry.Representation) error {
	if err := s.builder.Attach(s.Entity, rep); err != nil {
		return err
	}
	s.shape = rep
	return nil
}

func (s *Slab) AddElementData(raw models.Fields) error {
	return addMapped(s.Entity, schema.SlabElementData, raw)
}
