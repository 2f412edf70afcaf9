package ifc

import (
	"fmt"

	"precast-bim/internal/bim/models"
)

// ============================================================
// Geometry primitives
// ============================================================

func (s *Store) point3(p models.Point3D) models.Handle {
	return s.add("IFCCARTESIANPOINT", list{p.X, p.Y, p.Z})
}

func (s *Store) direction(p models.Point3D) models.Handle {
	return s.add("IFCDIRECTION", list{p.X, p.Y, p.Z})
}

// axis3 строит IfcAxis2Placement3D из матрицы: location из столбца 3,
// axis из столбца 2, ref direction из столбца 0.
func (s *Store) axis3(m models.Matrix4) models.Handle {
	location := s.point3(m.Location())
	axis := s.direction(m.Axis())
	refDir := s.direction(m.RefDirection())
	return s.add("IFCAXIS2PLACEMENT3D", ref(location), ref(axis), ref(refDir))
}

func (s *Store) BuildCartesianPoint(p models.Point2D) (models.Handle, error) {
	return s.add("IFCCARTESIANPOINT", list{p.X, p.Y}), nil
}

// BuildPolyline соединяет ранее созданные IfcCartesianPoint в IfcPolyline.
func (s *Store) BuildPolyline(points []models.Handle) (models.Handle, error) {
	if len(points) < 2 {
		return 0, fmt.Errorf("polyline needs at least 2 points, got %d", len(points))
	}
	items := make(list, 0, len(points))
	for _, p := range points {
		e, err := s.mustGet(p, "polyline point")
		if err != nil {
			return 0, err
		}
		if e.Class != "IFCCARTESIANPOINT" {
			return 0, fmt.Errorf("polyline point #%d is %s", p, e.Class)
		}
		items = append(items, ref(p))
	}
	return s.add("IFCPOLYLINE", items), nil
}

func (s *Store) BuildCircle(center models.Point2D, radius float64) (models.Handle, error) {
	if !(radius > 0) {
		return 0, fmt.Errorf("circle radius must be positive, got %g", radius)
	}
	pt := s.add("IFCCARTESIANPOINT", list{center.X, center.Y})
	position := s.add("IFCAXIS2PLACEMENT2D", ref(pt), null)
	return s.add("IFCCIRCLE", ref(position), radius), nil
}

// ============================================================
// Representations
// ============================================================

// BuildExtrusion строит прямоугольный профиль length×thickness в плоскости XY
// и выдавливает его по +Z на height.
func (s *Store) BuildExtrusion(ctx models.Handle, length, height, thickness float64) (models.Handle, error) {
	identifier, err := s.contextIdentifier(ctx)
	if err != nil {
		return 0, err
	}

	corners := []models.Point2D{
		{X: 0, Y: 0},
		{X: length, Y: 0},
		{X: length, Y: thickness},
		{X: 0, Y: thickness},
		{X: 0, Y: 0},
	}
	points := make([]models.Handle, 0, len(corners))
	for _, c := range corners {
		h, _ := s.BuildCartesianPoint(c)
		points = append(points, h)
	}
	curve, err := s.BuildPolyline(points)
	if err != nil {
		return 0, err
	}

	profile := s.add("IFCARBITRARYCLOSEDPROFILEDEF", enum("AREA"), null, ref(curve))
	position := s.axis3(models.Identity())
	return s.extrude(ctx, identifier, profile, position, height), nil
}

// BuildFootprintExtrusion выдавливает произвольный замкнутый контур в плоскости XY по +Z.
func (s *Store) BuildFootprintExtrusion(ctx, footprint models.Handle, height float64) (models.Handle, error) {
	identifier, err := s.contextIdentifier(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.requireCurve(footprint); err != nil {
		return 0, err
	}

	profile := s.add("IFCARBITRARYCLOSEDPROFILEDEF", enum("AREA"), null, ref(footprint))
	position := s.axis3(models.Identity())
	return s.extrude(ctx, identifier, profile, position, height), nil
}

// BuildProfileExtrusion выдавливает поперечное сечение вдоль +X: x профиля идет по Y,
// y профиля по Z. С voids строится IfcArbitraryProfileDefWithVoids.
func (s *Store) BuildProfileExtrusion(ctx, outer models.Handle, length float64, voids ...models.Handle) (models.Handle, error) {
	identifier, err := s.contextIdentifier(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.requireCurve(outer); err != nil {
		return 0, err
	}

	var profile models.Handle
	if len(voids) == 0 {
		profile = s.add("IFCARBITRARYCLOSEDPROFILEDEF", enum("AREA"), null, ref(outer))
	} else {
		inner := make(list, 0, len(voids))
		for _, v := range voids {
			if err := s.requireCurve(v); err != nil {
				return 0, err
			}
			inner = append(inner, ref(v))
		}
		profile = s.add("IFCARBITRARYPROFILEDEFWITHVOIDS", enum("AREA"), null, ref(outer), inner)
	}

	// local Z (extrusion) = global X, local X = global Y
	m := models.Matrix4{
		{0, 0, 1, 0},
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
	position := s.axis3(m)
	return s.extrude(ctx, identifier, profile, position, length), nil
}

func (s *Store) extrude(ctx models.Handle, identifier string, profile, position models.Handle, depth float64) models.Handle {
	dir := s.direction(models.Point3D{X: 0, Y: 0, Z: 1})
	solid := s.add("IFCEXTRUDEDAREASOLID", ref(profile), ref(position), ref(dir), depth)
	return s.add("IFCSHAPEREPRESENTATION", ref(ctx), identifier, "SweptSolid", list{ref(solid)})
}

func (s *Store) contextIdentifier(ctx models.Handle) (string, error) {
	e, err := s.mustGet(ctx, "representation context")
	if err != nil {
		return "", err
	}
	switch e.Class {
	case "IFCGEOMETRICREPRESENTATIONSUBCONTEXT", "IFCGEOMETRICREPRESENTATIONCONTEXT":
	default:
		return "", fmt.Errorf("#%d is %s, not a representation context", ctx, e.Class)
	}
	if id := e.Text(0); id != "" {
		return id, nil
	}
	return "Body", nil
}

func (s *Store) requireCurve(h models.Handle) error {
	e, err := s.mustGet(h, "profile curve")
	if err != nil {
		return err
	}
	switch e.Class {
	case "IFCPOLYLINE", "IFCCIRCLE", "IFCINDEXEDPOLYCURVE", "IFCCOMPOSITECURVE":
		return nil
	}
	return fmt.Errorf("#%d is %s, not a curve", h, e.Class)
}

// AssignRepresentation оборачивает shape representation в IfcProductDefinitionShape.
// Предыдущая форма продукта заменяется.
func (s *Store) AssignRepresentation(entity, representation models.Handle) error {
	product, _, err := s.product(entity)
	if err != nil {
		return err
	}
	rep, err := s.mustGet(representation, "representation")
	if err != nil {
		return err
	}
	if rep.Class != "IFCSHAPEREPRESENTATION" {
		return fmt.Errorf("#%d is %s, not a shape representation", representation, rep.Class)
	}

	if old := product.Ref(attrShape); old.Valid() {
		s.remove(old)
	}
	shape := s.add("IFCPRODUCTDEFINITIONSHAPE", null, null, list{ref(representation)})
	product.Attrs[attrShape] = ref(shape)
	return nil
}

// ============================================================
// Placement
// ============================================================

// EditPlacement задает (или перезаписывает) локальное размещение продукта.
// Привязка PlacementRelTo сохраняется.
func (s *Store) EditPlacement(entity models.Handle, m models.Matrix4) error {
	product, _, err := s.product(entity)
	if err != nil {
		return err
	}

	axis := s.axis3(m)
	if existing := product.Ref(attrPlacement); existing.Valid() {
		if lp, ok := s.entities[existing]; ok {
			lp.Attrs[1] = ref(axis)
			return nil
		}
	}

	var relTo any = null
	if parent, ok := s.entities[s.parents[entity]]; ok {
		if pp := parent.Ref(attrPlacement); pp.Valid() {
			relTo = ref(pp)
		}
	}
	placement := s.add("IFCLOCALPLACEMENT", relTo, ref(axis))
	product.Attrs[attrPlacement] = ref(placement)
	return nil
}

// reparent привязывает размещение child к размещению parent, если оба заданы.
func (s *Store) reparent(child, parent models.Handle) {
	c, ok := s.entities[child]
	if !ok {
		return
	}
	p, _, err := s.product(parent)
	if err != nil {
		return
	}
	s.parents[child] = parent

	childPlacement := c.Ref(attrPlacement)
	parentPlacement := p.Ref(attrPlacement)
	if !childPlacement.Valid() || !parentPlacement.Valid() || childPlacement == parentPlacement {
		return
	}
	if lp, ok := s.entities[childPlacement]; ok {
		lp.Attrs[0] = ref(parentPlacement)
	}
}
