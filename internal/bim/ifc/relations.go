package ifc

import (
	"fmt"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Spatial containment
// ============================================================

// AssignContainer помещает элемент в пространственную структуру. У элемента
// не больше одного контейнера: повторное назначение переносит его, опустевшие
// связи удаляются.
func (s *Store) AssignContainer(structure, entity models.Handle) error {
	_, info, err := s.product(structure)
	if err != nil {
		return fmt.Errorf("%w: %v", bim.ErrInvalidContainer, err)
	}
	if !info.spatial {
		return fmt.Errorf("%w: %s is not a spatial structure", bim.ErrInvalidContainer, info.name)
	}
	if _, _, err := s.product(entity); err != nil {
		return err
	}
	if structure == entity {
		return fmt.Errorf("%w: entity cannot contain itself", bim.ErrInvalidContainer)
	}

	s.detach(entity)

	rel := s.containmentFor(structure)
	if rel.Valid() {
		e := s.entities[rel]
		related, _ := e.Attrs[4].(list)
		e.Attrs[4] = append(related, ref(entity))
	} else {
		rel = s.add("IFCRELCONTAINEDINSPATIALSTRUCTURE", s.guid(), null, null, null, list{ref(entity)}, ref(structure))
	}
	s.containment[entity] = rel

	s.reparent(entity, structure)
	return nil
}

func (s *Store) containmentFor(structure models.Handle) models.Handle {
	for _, e := range s.Find("IFCRELCONTAINEDINSPATIALSTRUCTURE") {
		if e.Ref(5) == structure {
			return e.ID
		}
	}
	return 0
}

func (s *Store) detach(entity models.Handle) {
	rel, ok := s.containment[entity]
	if !ok {
		return
	}
	delete(s.containment, entity)

	e, ok := s.entities[rel]
	if !ok {
		return
	}
	related, _ := e.Attrs[4].(list)
	kept := make(list, 0, len(related))
	for _, item := range related {
		if r, ok := item.(ref); ok && models.Handle(r) == entity {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == 0 {
		s.remove(rel)
		return
	}
	e.Attrs[4] = kept
}

// ContainerOf returns the spatial structure holding entity.
func (s *Store) ContainerOf(entity models.Handle) (models.Handle, bool) {
	rel, ok := s.containment[entity]
	if !ok {
		return 0, false
	}
	e, ok := s.entities[rel]
	if !ok {
		return 0, false
	}
	return e.Ref(5), true
}

// ============================================================
// Property sets
// ============================================================

// AddPropertySet создает пустой IfcPropertySet и связывает его с сущностью.
func (s *Store) AddPropertySet(entity models.Handle, name string) (models.Handle, error) {
	if _, err := s.mustGet(entity, "property set owner"); err != nil {
		return 0, err
	}
	if name == "" {
		return 0, fmt.Errorf("property set name required")
	}

	pset := s.add("IFCPROPERTYSET", s.guid(), null, name, null, list{})
	s.add("IFCRELDEFINESBYPROPERTIES", s.guid(), null, null, null, list{ref(entity)}, ref(pset))
	return pset, nil
}

// EditPropertySet заменяет все свойства набора. Отсутствующие значения пропускаются,
// при повторе имени побеждает последнее значение.
func (s *Store) EditPropertySet(pset models.Handle, properties []models.Property) error {
	e, err := s.mustGet(pset, "property set")
	if err != nil {
		return err
	}
	if e.Class != "IFCPROPERTYSET" {
		return fmt.Errorf("#%d is %s, not a property set", pset, e.Class)
	}

	for _, old := range e.Refs(4) {
		s.remove(old)
	}

	order := make([]string, 0, len(properties))
	values := make(map[string]models.Value, len(properties))
	for _, p := range properties {
		if p.Name == "" {
			return fmt.Errorf("property name required")
		}
		if _, seen := values[p.Name]; !seen {
			order = append(order, p.Name)
		}
		values[p.Name] = p.Value
	}

	items := make(list, 0, len(order))
	for _, name := range order {
		v := values[name]
		if v.IsZero() {
			continue
		}
		h := s.add("IFCPROPERTYSINGLEVALUE", name, null, propertyValue(v), null)
		items = append(items, ref(h))
	}
	e.Attrs[4] = items
	return nil
}

// PropertySets returns the property sets attached to entity, keyed by name.
func (s *Store) PropertySets(entity models.Handle) map[string]models.PropertySet {
	out := make(map[string]models.PropertySet)
	for _, rel := range s.Find("IFCRELDEFINESBYPROPERTIES") {
		if !containsHandle(rel.Refs(4), entity) {
			continue
		}
		pset, ok := s.entities[rel.Ref(5)]
		if !ok {
			continue
		}
		set := models.PropertySet{Name: pset.Text(2)}
		for _, ph := range pset.Refs(4) {
			prop, ok := s.entities[ph]
			if !ok {
				continue
			}
			set.Properties = append(set.Properties, models.Property{Name: prop.Text(0), Value: decodeProperty(prop.Attrs[2])})
		}
		out[set.Name] = set
	}
	return out
}

func decodeProperty(v any) models.Value {
	t, ok := v.(typed)
	if !ok {
		return models.Value{}
	}
	switch val := t.Value.(type) {
	case string:
		return models.String(val)
	case int64:
		return models.Integer(val)
	case float64:
		return models.Real(val)
	case bool:
		return models.Boolean(val)
	}
	return models.Value{}
}

// ============================================================
// Openings
// ============================================================

// AddVoidRelationship вырезает проем из элемента-хозяина (IfcRelVoidsElement)
// и привязывает размещение проема к размещению хозяина.
func (s *Store) AddVoidRelationship(opening, host models.Handle) error {
	o, _, err := s.product(opening)
	if err != nil {
		return err
	}
	if o.Class != "IFCOPENINGELEMENT" {
		return fmt.Errorf("#%d is %s, not an opening", opening, o.Class)
	}
	_, info, err := s.product(host)
	if err != nil {
		return err
	}
	if info.spatial || info.layout != layoutElement || host == opening {
		return fmt.Errorf("#%d (%s) cannot host an opening", host, info.name)
	}

	s.add("IFCRELVOIDSELEMENT", s.guid(), null, null, null, ref(host), ref(opening))
	s.reparent(opening, host)
	return nil
}

// OpeningsOf returns the openings voiding host, in creation order.
func (s *Store) OpeningsOf(host models.Handle) []models.Handle {
	var out []models.Handle
	for _, rel := range s.Find("IFCRELVOIDSELEMENT") {
		if rel.Ref(4) == host {
			out = append(out, rel.Ref(5))
		}
	}
	return out
}

func containsHandle(list []models.Handle, target models.Handle) bool {
	for _, h := range list {
		if h == target {
			return true
		}
	}
	return false
}
