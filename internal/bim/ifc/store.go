package ifc

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"

	"github.com/google/uuid"
)

// ============================================================
// Store
// ============================================================

// Store is an in-memory IFC4 document: an id-ordered entity table plus the
// bookkeeping needed to keep relationships unique. Not safe for concurrent use.
type Store struct {
	entities map[models.Handle]*Entity
	nextID   int

	project models.Handle

	// element -> IfcRelContainedInSpatialStructure
	containment map[models.Handle]models.Handle
	// product -> product whose placement it is relative to
	parents map[models.Handle]models.Handle

	newUUID     func() uuid.UUID
	now         func() time.Time
	application string
	author      string
}

var _ bim.Backend = (*Store)(nil)

type Option func(*Store)

// WithUUIDSource подменяет генератор UUID (для детерминированных GlobalId).
func WithUUIDSource(f func() uuid.UUID) Option {
	return func(s *Store) {
		if f != nil {
			s.newUUID = f
		}
	}
}

func WithClock(f func() time.Time) Option {
	return func(s *Store) {
		if f != nil {
			s.now = f
		}
	}
}

func WithApplication(name string) Option {
	return func(s *Store) {
		s.application = name
	}
}

func WithAuthor(name string) Option {
	return func(s *Store) {
		s.author = name
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		entities:    make(map[models.Handle]*Entity),
		containment: make(map[models.Handle]models.Handle),
		parents:     make(map[models.Handle]models.Handle),
		newUUID:     uuid.New,
		now:         time.Now,
		application: "precast-bim",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SequentialUUIDs returns a deterministic UUID source: 00000000-…-000000000001, …-000000000002, …
func SequentialUUIDs() func() uuid.UUID {
	var n uint64
	return func() uuid.UUID {
		n++
		var id uuid.UUID
		for i := 0; i < 8; i++ {
			id[15-i] = byte(n >> (8 * i))
		}
		return id
	}
}

// ============================================================
// Entity table
// ============================================================

func (s *Store) add(class string, attrs ...any) models.Handle {
	s.nextID++
	h := models.Handle(s.nextID)
	s.entities[h] = &Entity{ID: h, Class: class, Attrs: attrs}
	return h
}

func (s *Store) remove(h models.Handle) {
	delete(s.entities, h)
}

func (s *Store) guid() string {
	return CompressGUID(s.newUUID())
}

// Entity возвращает сущность по handle.
func (s *Store) Entity(h models.Handle) (*Entity, bool) {
	e, ok := s.entities[h]
	return e, ok
}

func (s *Store) mustGet(h models.Handle, what string) (*Entity, error) {
	e, ok := s.entities[h]
	if !ok {
		return nil, fmt.Errorf("%s #%d: not found", what, h)
	}
	return e, nil
}

// Find returns all entities of a STEP class (case-insensitive, e.g. "IfcWall", "IFCWALL") in id order.
func (s *Store) Find(class string) []*Entity {
	keyword := strings.ToUpper(class)
	var out []*Entity
	for _, h := range s.handles() {
		if e := s.entities[h]; e.Class == keyword {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.entities)
}

func (s *Store) handles() []models.Handle {
	ids := make([]models.Handle, 0, len(s.entities))
	for h := range s.entities {
		ids = append(ids, h)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ClassOf возвращает имя класса: для rooted-сущностей в схемной записи (IfcWall),
// для остальных STEP keyword.
func (s *Store) ClassOf(h models.Handle) (string, bool) {
	e, ok := s.entities[h]
	if !ok {
		return "", false
	}
	if info, ok := classes[strings.ToLower(e.Class)]; ok {
		return info.name, true
	}
	return e.Class, true
}

func (s *Store) product(h models.Handle) (*Entity, classInfo, error) {
	e, err := s.mustGet(h, "product")
	if err != nil {
		return nil, classInfo{}, err
	}
	info, ok := classes[strings.ToLower(e.Class)]
	if !ok || !info.isProduct() {
		return nil, classInfo{}, fmt.Errorf("#%d is %s, not a product", h, e.Class)
	}
	return e, info, nil
}
