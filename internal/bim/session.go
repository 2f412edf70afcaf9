// Package bim is the authoring core: a document session owning the project,
// geometric contexts and spatial hierarchy, and the entities authored in it.
//
// A Session and everything reachable from it is single-owner mutable state.
// It is not safe for concurrent use; use one Session per goroutine.
package bim

import (
	"errors"
	"fmt"

	"precast-bim/internal/bim/models"

	"go.uber.org/zap"
)

// ============================================================
// Session
// ============================================================

// Names задает имена синглтонов документа.
type Names struct {
	Project  string
	Site     string
	Building string
	Storey   string
}

func DefaultNames() Names {
	return Names{
		Project:  "My Project",
		Site:     "My Site",
		Building: "Building A",
		Storey:   "Ground Floor",
	}
}

type Session struct {
	path    string
	backend Backend
	logger  *zap.SugaredLogger

	Project  *Entity
	Site     *Entity
	Building *Entity
	Storey   *Entity

	model models.Handle
	body  models.Handle

	entities []*Entity
}

type Option func(*sessionConfig)

type sessionConfig struct {
	names  Names
	logger *zap.SugaredLogger
}

func WithNames(n Names) Option {
	return func(c *sessionConfig) {
		defaults := DefaultNames()
		if n.Project == "" {
			n.Project = defaults.Project
		}
		if n.Site == "" {
			n.Site = defaults.Site
		}
		if n.Building == "" {
			n.Building = defaults.Building
		}
		if n.Storey == "" {
			n.Storey = defaults.Storey
		}
		c.names = n
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *sessionConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open создает пустой документ поверх backend: проект, единицы, контекст Model
// с sub-context Body и иерархию Site → Building → Storey. Документ будет записан в path.
func Open(path string, backend Backend, opts ...Option) (*Session, error) {
	cfg := sessionConfig{names: DefaultNames(), logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrBackendInit)
	}

	s := &Session{
		path:    path,
		backend: backend,
		logger:  cfg.logger.With("component", "session"),
	}
	if err := s.setup(cfg.names); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendInit, err)
	}

	s.logger.Debugw("document session opened", "path", path, "project", cfg.names.Project)
	return s, nil
}

func (s *Session) setup(names Names) error {
	var err error

	if s.Project, err = s.newEntity("IfcProject", names.Project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	if err := s.backend.AssignUnits(); err != nil {
		return fmt.Errorf("assign units: %w", err)
	}

	if s.model, err = s.backend.CreateContext(models.ContextSpec{Type: "Model"}); err != nil {
		return fmt.Errorf("create model context: %w", err)
	}
	s.body, err = s.backend.CreateContext(models.ContextSpec{
		Type:       "Model",
		Identifier: "Body",
		TargetView: "MODEL_VIEW",
		Parent:     s.model,
	})
	if err != nil {
		return fmt.Errorf("create body context: %w", err)
	}

	if s.Site, err = s.newEntity("IfcSite", names.Site); err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	if s.Building, err = s.newEntity("IfcBuilding", names.Building); err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	if s.Storey, err = s.newEntity("IfcBuildingStorey", names.Storey); err != nil {
		return fmt.Errorf("create storey: %w", err)
	}

	for _, e := range []*Entity{s.Site, s.Building, s.Storey} {
		if err := e.SetPlacement(models.Identity()); err != nil {
			return fmt.Errorf("place %s: %w", e.Class(), err)
		}
	}

	if err := s.backend.Aggregate(s.Project.Handle(), s.Site.Handle()); err != nil {
		return fmt.Errorf("aggregate site: %w", err)
	}
	if err := s.backend.Aggregate(s.Site.Handle(), s.Building.Handle()); err != nil {
		return fmt.Errorf("aggregate building: %w", err)
	}
	if err := s.backend.Aggregate(s.Building.Handle(), s.Storey.Handle()); err != nil {
		return fmt.Errorf("aggregate storey: %w", err)
	}
	return nil
}

// Path returns the output path given to Open.
func (s *Session) Path() string { return s.path }

func (s *Session) Backend() Backend { return s.backend }

func (s *Session) Logger() *zap.SugaredLogger { return s.logger }

// Body возвращает sub-context Body, на который ссылаются все shape representations.
func (s *Session) Body() models.Handle { return s.body }

func (s *Session) ModelContext() models.Handle { return s.model }

// Entities returns the entities authored through CreateEntity, in creation order.
func (s *Session) Entities() []*Entity {
	out := make([]*Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Uncontained lists authored elements that are not placed in any spatial structure.
// Spatial structures and openings are not expected to have a container.
func (s *Session) Uncontained() []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.IsSpatial() || e.class == "IfcOpeningElement" || e.class == "IfcProject" {
			continue
		}
		if e.container == nil {
			out = append(out, e)
		}
	}
	return out
}

// Write сериализует документ в path. Существующий файл перезаписывается без
// резервной копии; атомарность записи не гарантируется.
func (s *Session) Write() error {
	for _, e := range s.Uncontained() {
		s.logger.Warnw("element not contained in any spatial structure",
			"class", e.class, "name", e.name)
	}

	if err := s.backend.Write(s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrIOWrite, err)
	}

	s.logger.Infow("document written", "path", s.path, "entities", len(s.entities))
	return nil
}

// ============================================================
// Entity factory
// ============================================================

// CreateEntity регистрирует новую сущность в хранилище backend.
func (s *Session) CreateEntity(class, name string) (*Entity, error) {
	e, err := s.newEntity(class, name)
	if err != nil {
		return nil, err
	}
	s.entities = append(s.entities, e)
	return e, nil
}

func (s *Session) newEntity(class, name string) (*Entity, error) {
	h, err := s.backend.CreateEntity(class, name)
	if err != nil {
		if !errors.Is(err, ErrUnknownEntityClass) {
			err = fmt.Errorf("create %s: %w", class, err)
		}
		return nil, err
	}

	canonical, ok := s.backend.ClassOf(h)
	if !ok {
		canonical = class
	}

	return &Entity{
		session: s,
		handle:  h,
		class:   canonical,
		name:    name,
		psets:   make(map[string]models.Handle),
	}, nil
}
