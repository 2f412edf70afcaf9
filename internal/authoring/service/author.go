package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"precast-bim/internal/authoring/models"
	"precast-bim/internal/authoring/preview"
	"precast-bim/internal/bim"
	"precast-bim/internal/bim/elements"
	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/bim/ifc"
	bimmodels "precast-bim/internal/bim/models"
	"precast-bim/internal/bim/parser"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Authoring Service
// ============================================================

var validate = validator.New()

var ErrInvalidRequest = errors.New("invalid request")

// Catalog хранит записи о записанных документах.
type Catalog interface {
	Insert(ctx context.Context, rec *models.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)
	List(ctx context.Context, kind string) ([]models.DocumentRecord, error)
}

type Service struct {
	storage *FileStorage
	catalog Catalog
	logger  *zap.SugaredLogger

	names    bim.Names
	coreMode geometry.CoreMode

	newID      func() string
	now        func() time.Time
	newBackend func() bim.Backend
}

type Option func(*Service)

func WithNames(n bim.Names) Option {
	return func(s *Service) {
		s.names = n
	}
}

func WithCoreMode(m geometry.CoreMode) Option {
	return func(s *Service) {
		s.coreMode = m
	}
}

func WithIDSource(f func() string) Option {
	return func(s *Service) {
		s.newID = f
	}
}

func WithClock(f func() time.Time) Option {
	return func(s *Service) {
		s.now = f
	}
}

// WithBackendFactory подменяет backend документа (по умолчанию ifc.Store).
func WithBackendFactory(f func() bim.Backend) Option {
	return func(s *Service) {
		s.newBackend = f
	}
}

// New собирает сервис. storage и catalog могут быть nil, если нужны только
// WriteWall/WriteSlab и превью (CLI).
func New(storage *FileStorage, catalog Catalog, logger *zap.SugaredLogger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Service{
		storage:  storage,
		catalog:  catalog,
		logger:   logger.With("component", "authoring"),
		names:    bim.DefaultNames(),
		coreMode: geometry.CoreLeadingEdges,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
		newBackend: func() bim.Backend {
			return ifc.New()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes a written document.
type Result struct {
	Kind        string
	Name        string
	Path        string
	EntityCount int
}

// IsClientError reports whether err was caused by the request content.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		bim.ErrInvalidDimension,
		bim.ErrInvalidProfile,
		bim.ErrMissingRequiredField,
		bim.ErrInvalidFieldValue,
		bim.ErrUnknownEntityClass,
		bim.ErrInvalidContainer,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ============================================================
// Walls
// ============================================================

// AuthorWall пишет стену в новый документ хранилища и регистрирует его в каталоге.
func (s *Service) AuthorWall(ctx context.Context, req *models.WallRequest) (*models.DocumentRecord, error) {
	return s.author(ctx, models.KindWall, func(path string) (*Result, error) {
		return s.WriteWall(ctx, req, path)
	})
}

// WriteWall собирает документ с одной стеной и пишет его в path.
func (s *Service) WriteWall(ctx context.Context, req *models.WallRequest, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, err := planWall(req)
	if err != nil {
		return nil, err
	}

	session, builder, err := s.open(path, s.coreMode)
	if err != nil {
		return nil, err
	}

	wall, err := elements.NewWall(builder, plan.name)
	if err != nil {
		return nil, err
	}
	if err := wall.SetPlacement(bimmodels.Identity()); err != nil {
		return nil, err
	}

	if len(plan.footprint) > 0 {
		err = wall.AddFootprintRepresentation(plan.footprint, plan.height, plan.thickness, plan.voids...)
	} else {
		err = wall.AddWallRepresentation(plan.length, plan.height, plan.thickness, plan.voids...)
	}
	if err != nil {
		return nil, err
	}

	if err := wall.AddElementData(plan.element); err != nil {
		return nil, err
	}
	if err := wall.AddGeometryData(plan.geometry); err != nil {
		return nil, err
	}
	if err := wall.AssignToContainer(session.Storey); err != nil {
		return nil, err
	}

	return s.write(session, models.KindWall, wall.Name())
}

// PreviewWall рисует фасад стены с проемами без записи документа.
func (s *Service) PreviewWall(req *models.WallRequest) (string, error) {
	plan, err := planWall(req)
	if err != nil {
		return "", err
	}

	elevation := wallElevation(plan)
	return preview.NewRenderer().RenderWall(elevation)
}

// ============================================================
// Slabs
// ============================================================

func (s *Service) AuthorSlab(ctx context.Context, req *models.SlabRequest) (*models.DocumentRecord, error) {
	return s.author(ctx, models.KindSlab, func(path string) (*Result, error) {
		return s.WriteSlab(ctx, req, path)
	})
}

// WriteSlab собирает документ с одной плитой и пишет его в path.
func (s *Service) WriteSlab(ctx context.Context, req *models.SlabRequest, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, err := s.planSlab(req)
	if err != nil {
		return nil, err
	}

	session, builder, err := s.open(path, plan.mode)
	if err != nil {
		return nil, err
	}

	slab, err := elements.NewSlab(builder, plan.name)
	if err != nil {
		return nil, err
	}
	if err := slab.SetPlacement(bimmodels.Identity()); err != nil {
		return nil, err
	}
	if err := slab.AddSlabRepresentation(plan.length, plan.width, plan.height, plan.voidCount, plan.voidDiameter); err != nil {
		return nil, err
	}

	// поля пустот повторяют построенную геометрию, даже если размеры пришли в запросе
	plan.element["Void_Count"] = bimmodels.Integer(int64(plan.voidCount))
	if slab.Hollow() {
		plan.element["Void_Diameter"] = bimmodels.Real(plan.voidDiameter)
		if v, ok := findField(plan.element, "External_Web_Thickness"); !ok || v.IsZero() {
			plan.element["External_Web_Thickness"] = bimmodels.Real(slab.WebThickness())
		}
	}
	if err := slab.AddElementData(plan.element); err != nil {
		return nil, err
	}
	if err := slab.AssignToContainer(session.Storey); err != nil {
		return nil, err
	}

	return s.write(session, models.KindSlab, slab.Name())
}

// PreviewSlab рисует поперечное сечение плиты.
func (s *Service) PreviewSlab(req *models.SlabRequest) (string, error) {
	plan, err := s.planSlab(req)
	if err != nil {
		return "", err
	}

	section, err := slabSection(plan)
	if err != nil {
		return "", err
	}
	return preview.NewRenderer().RenderSlab(section)
}

// ============================================================
// Catalog
// ============================================================

func (s *Service) Documents(ctx context.Context, kind string) ([]models.DocumentRecord, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog not configured")
	}
	return s.catalog.List(ctx, kind)
}

func (s *Service) Document(ctx context.Context, id string) (*models.DocumentRecord, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog not configured")
	}
	return s.catalog.GetByID(ctx, id)
}

func (s *Service) author(ctx context.Context, kind string, write func(path string) (*Result, error)) (*models.DocumentRecord, error) {
	if s.storage == nil || s.catalog == nil {
		return nil, fmt.Errorf("storage and catalog required")
	}
	if err := s.storage.EnsureDir(); err != nil {
		return nil, err
	}

	id := s.newID()
	path := s.storage.DocumentPath(id)

	res, err := write(path)
	if err != nil {
		return nil, err
	}

	rec := &models.DocumentRecord{
		ID:          id,
		Kind:        kind,
		Name:        res.Name,
		Path:        path,
		EntityCount: res.EntityCount,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.catalog.Insert(ctx, rec); err != nil {
		if rmErr := s.storage.Remove(path); rmErr != nil {
			s.logger.Warnw("failed to remove orphan document", "path", path, "error", rmErr)
		}
		return nil, err
	}

	s.logger.Infow("document authored", "id", id, "kind", kind, "name", res.Name)
	return rec, nil
}

// ============================================================
// Session plumbing
// ============================================================

func (s *Service) open(path string, mode geometry.CoreMode) (*bim.Session, *geometry.Builder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir output dir: %w", err)
		}
	}

	session, err := bim.Open(path, s.newBackend(), bim.WithNames(s.names), bim.WithLogger(s.logger))
	if err != nil {
		return nil, nil, err
	}
	return session, geometry.NewBuilder(session, geometry.WithCoreMode(mode)), nil
}

func (s *Service) write(session *bim.Session, kind, name string) (*Result, error) {
	if err := session.Write(); err != nil {
		return nil, err
	}
	return &Result{
		Kind:        kind,
		Name:        name,
		Path:        session.Path(),
		EntityCount: len(session.Entities()),
	}, nil
}

// decodeInto переупаковывает декодированное YAML/JSON значение в типизированную структуру.
func decodeInto(raw any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func footprintFrom(raw any) ([]bimmodels.Point2D, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return parser.ParsePath(v)
	}

	var pairs [][2]float64
	if err := decodeInto(raw, &pairs); err == nil {
		points := make([]bimmodels.Point2D, 0, len(pairs))
		for _, p := range pairs {
			points = append(points, bimmodels.Point2D{X: p[0], Y: p[1]})
		}
		return points, nil
	}

	var points []bimmodels.Point2D
	if err := decodeInto(raw, &points); err != nil {
		return nil, fmt.Errorf("footprint must be SVG path data or a list of points")
	}
	return points, nil
}
