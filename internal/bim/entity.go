package bim

import (
	"fmt"

	"precast-bim/internal/bim/models"
)

// ============================================================
// Entity
// ============================================================

// Entity is an authored object (wall, slab, opening, spatial node) owned by a Session.
// It lives as long as the document; there is no delete.
type Entity struct {
	session *Session
	handle  models.Handle
	class   string
	name    string

	placement      *models.Matrix4
	representation models.Handle
	container      *Entity
	psets          map[string]models.Handle
	psetOrder      []string

	openings []*Entity
	host     *Entity
}

func (e *Entity) Handle() models.Handle { return e.handle }

func (e *Entity) Class() string { return e.class }

func (e *Entity) Name() string { return e.name }

func (e *Entity) Session() *Session { return e.session }

// Placement returns the assigned placement (identity when none was set).
func (e *Entity) Placement() (models.Matrix4, bool) {
	if e.placement == nil {
		return models.Identity(), false
	}
	return *e.placement, true
}

func (e *Entity) Representation() models.Handle { return e.representation }

func (e *Entity) Container() *Entity { return e.container }

func (e *Entity) IsSpatial() bool { return IsSpatialClass(e.class) }

// Openings returns the openings voiding this entity, in the order they were added.
func (e *Entity) Openings() []*Entity {
	out := make([]*Entity, len(e.openings))
	copy(out, e.openings)
	return out
}

// Host возвращает элемент, в котором вырезан этот проем.
func (e *Entity) Host() *Entity { return e.host }

// PropertySetNames returns attached property set names in the order they were first added.
func (e *Entity) PropertySetNames() []string {
	out := make([]string, len(e.psetOrder))
	copy(out, e.psetOrder)
	return out
}

// PropertySet возвращает handle набора свойств по имени.
func (e *Entity) PropertySet(name string) (models.Handle, bool) {
	h, ok := e.psets[name]
	return h, ok
}

// SetPlacement задает матрицу размещения относительно локальной системы контейнера.
// Матрица не проверяется: допустимы и нежесткие преобразования.
func (e *Entity) SetPlacement(m models.Matrix4) error {
	if err := e.session.backend.EditPlacement(e.handle, m); err != nil {
		return fmt.Errorf("edit placement of %s: %w", e.class, err)
	}
	e.placement = &m
	return nil
}

// AssignToContainer помещает сущность в пространственную структуру.
// Повторный вызов заменяет прежний контейнер.
func (e *Entity) AssignToContainer(container *Entity) error {
	if container == nil {
		return fmt.Errorf("%w: nil container", ErrInvalidContainer)
	}
	if container.session != e.session {
		return fmt.Errorf("%w: container belongs to another session", ErrInvalidContainer)
	}
	if !container.IsSpatial() {
		return fmt.Errorf("%w: %s %q is not a spatial structure", ErrInvalidContainer, container.class, container.name)
	}
	if container == e {
		return fmt.Errorf("%w: entity cannot contain itself", ErrInvalidContainer)
	}

	if err := e.session.backend.AssignContainer(container.handle, e.handle); err != nil {
		return fmt.Errorf("assign %s to %s: %w", e.class, container.class, err)
	}
	e.container = container
	return nil
}

// AssignRepresentation binds a built representation; any previous one is replaced.
func (e *Entity) AssignRepresentation(rep models.Handle) error {
	if err := e.session.backend.AssignRepresentation(e.handle, rep); err != nil {
		return fmt.Errorf("assign representation to %s: %w", e.class, err)
	}
	e.representation = rep
	return nil
}

// AddPropertySets пишет наборы по порядку. Набор с уже существующим именем
// перезаписывается. Ошибка одного набора не откатывает записанные ранее.
func (e *Entity) AddPropertySets(sets ...models.PropertySet) error {
	for _, set := range sets {
		if err := e.writePropertySet(set); err != nil {
			return &PropertySetError{Set: set.Name, Err: err}
		}
	}
	return nil
}

func (e *Entity) writePropertySet(set models.PropertySet) error {
	backend := e.session.backend

	h, exists := e.psets[set.Name]
	if !exists {
		var err error
		if h, err = backend.AddPropertySet(e.handle, set.Name); err != nil {
			return err
		}
		e.psets[set.Name] = h
		e.psetOrder = append(e.psetOrder, set.Name)
	}

	return backend.EditPropertySet(h, set.Properties)
}

// AddOpening связывает проем с элементом через void-связь.
func (e *Entity) AddOpening(opening *Entity) error {
	if opening == nil || opening.session != e.session {
		return fmt.Errorf("add opening: opening must belong to the same session")
	}
	if opening.host != nil {
		return fmt.Errorf("add opening: %q already voids %s %q", opening.name, opening.host.class, opening.host.name)
	}
	if err := e.session.backend.AddVoidRelationship(opening.handle, e.handle); err != nil {
		return fmt.Errorf("add opening to %s: %w", e.class, err)
	}
	e.openings = append(e.openings, opening)
	opening.host = e
	return nil
}
