package ifc

import (
	"fmt"
	"strings"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"
)

// ============================================================
// Rooted entities
// ============================================================

// CreateEntity создает rooted-сущность (проект, пространственную структуру или элемент).
func (s *Store) CreateEntity(class, name string) (models.Handle, error) {
	info, ok := lookupClass(class)
	if !ok {
		return 0, fmt.Errorf("%w: %q", bim.ErrUnknownEntityClass, class)
	}

	attrs := make([]any, info.attributeCount())
	for i := range attrs {
		attrs[i] = null
	}
	attrs[attrGlobalID] = s.guid()
	if name != "" {
		attrs[attrName] = name
	}

	h := s.add(info.keyword, attrs...)
	if info.layout == layoutProject && !s.project.Valid() {
		s.project = h
	}
	return h, nil
}

// ============================================================
// Contexts & units
// ============================================================

var targetViews = map[string]bool{
	"MODEL_VIEW":          true,
	"PLAN_VIEW":           true,
	"GRAPH_VIEW":          true,
	"SKETCH_VIEW":         true,
	"REFLECTED_PLAN_VIEW": true,
	"SECTION_VIEW":        true,
	"ELEVATION_VIEW":      true,
	"USERDEFINED":         true,
	"NOTDEFINED":          true,
}

const contextPrecision = 1e-5

// CreateContext добавляет геометрический контекст или sub-context (если задан Parent).
func (s *Store) CreateContext(spec models.ContextSpec) (models.Handle, error) {
	contextType := spec.Type
	if contextType == "" {
		contextType = "Model"
	}

	if spec.Parent.Valid() {
		parent, err := s.mustGet(spec.Parent, "parent context")
		if err != nil {
			return 0, err
		}
		if parent.Class != "IFCGEOMETRICREPRESENTATIONCONTEXT" {
			return 0, fmt.Errorf("parent #%d is %s, not a representation context", spec.Parent, parent.Class)
		}

		view := strings.ToUpper(spec.TargetView)
		if view == "" {
			view = "MODEL_VIEW"
		}
		if !targetViews[view] {
			return 0, fmt.Errorf("unknown target view %q", spec.TargetView)
		}

		return s.add("IFCGEOMETRICREPRESENTATIONSUBCONTEXT",
			optionalText(spec.Identifier), contextType, star, star, star, star,
			ref(spec.Parent), null, enum(view), null), nil
	}

	wcs := s.axis3(models.Identity())
	h := s.add("IFCGEOMETRICREPRESENTATIONCONTEXT",
		optionalText(spec.Identifier), contextType, 3, contextPrecision, ref(wcs), null)

	if project, ok := s.entities[s.project]; ok {
		contexts, _ := project.Attrs[attrProjectContexts].(list)
		project.Attrs[attrProjectContexts] = append(contexts, ref(h))
	}
	return h, nil
}

// AssignUnits назначает проекту метрические единицы: мм, м², м³, радианы.
func (s *Store) AssignUnits() error {
	project, ok := s.entities[s.project]
	if !ok {
		return fmt.Errorf("assign units: no project")
	}

	if old := project.Ref(attrProjectUnits); old.Valid() {
		if assignment, ok := s.entities[old]; ok {
			for _, u := range assignment.Refs(0) {
				s.remove(u)
			}
		}
		s.remove(old)
	}

	units := list{
		ref(s.add("IFCSIUNIT", star, enum("LENGTHUNIT"), enum("MILLI"), enum("METRE"))),
		ref(s.add("IFCSIUNIT", star, enum("AREAUNIT"), null, enum("SQUARE_METRE"))),
		ref(s.add("IFCSIUNIT", star, enum("VOLUMEUNIT"), null, enum("CUBIC_METRE"))),
		ref(s.add("IFCSIUNIT", star, enum("PLANEANGLEUNIT"), null, enum("RADIAN"))),
	}
	assignment := s.add("IFCUNITASSIGNMENT", units)
	project.Attrs[attrProjectUnits] = ref(assignment)
	return nil
}

// ============================================================
// Aggregation
// ============================================================

// Aggregate связывает родителя и детей через IfcRelAggregates и
// переносит размещение детей в систему координат родителя.
func (s *Store) Aggregate(parent models.Handle, children ...models.Handle) error {
	if len(children) == 0 {
		return nil
	}
	if _, err := s.mustGet(parent, "aggregate parent"); err != nil {
		return err
	}

	related := make(list, 0, len(children))
	for _, child := range children {
		if _, _, err := s.product(child); err != nil {
			return fmt.Errorf("aggregate child: %w", err)
		}
		related = append(related, ref(child))
	}

	s.add("IFCRELAGGREGATES", s.guid(), null, null, null, ref(parent), related)

	for _, child := range children {
		s.reparent(child, parent)
	}
	return nil
}

func optionalText(s string) any {
	if s == "" {
		return null
	}
	return s
}
