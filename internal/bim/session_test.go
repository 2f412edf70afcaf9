package bim_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/ifc"
	"precast-bim/internal/bim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore ломает отдельные вызовы ifc.Store.
type flakyStore struct {
	*ifc.Store
	failUnits bool
	failPset  string
	failWrite bool
}

var errInjected = errors.New("injected failure")

func (f *flakyStore) AssignUnits() error {
	if f.failUnits {
		return errInjected
	}
	return f.Store.AssignUnits()
}

func (f *flakyStore) AddPropertySet(entity models.Handle, name string) (models.Handle, error) {
	if name == f.failPset {
		return 0, errInjected
	}
	return f.Store.AddPropertySet(entity, name)
}

func (f *flakyStore) Write(path string) error {
	if f.failWrite {
		return errInjected
	}
	return f.Store.Write(path)
}

func openSession(t *testing.T) (*bim.Session, *ifc.Store) {
	t.Helper()
	store := ifc.New(ifc.WithUUIDSource(ifc.SequentialUUIDs()))
	s, err := bim.Open(filepath.Join(t.TempDir(), "out.ifc"), store)
	require.NoError(t, err)
	return s, store
}

func TestOpenBuildsSpatialHierarchy(t *testing.T) {
	s, store := openSession(t)

	assert.Equal(t, "IfcProject", s.Project.Class())
	assert.Equal(t, "My Project", s.Project.Name())
	assert.Equal(t, "My Site", s.Site.Name())
	assert.Equal(t, "Building A", s.Building.Name())
	assert.Equal(t, "Ground Floor", s.Storey.Name())
	assert.True(t, s.Storey.IsSpatial())

	assert.Len(t, store.Find("IfcUnitAssignment"), 1)
	assert.Len(t, store.Find("IfcGeometricRepresentationContext"), 1)
	assert.Len(t, store.Find("IfcGeometricRepresentationSubContext"), 1)

	body, ok := store.Entity(s.Body())
	require.True(t, ok)
	assert.Equal(t, "Body", body.Text(0))
	assert.Equal(t, s.ModelContext(), body.Ref(6))

	rels := store.Find("IfcRelAggregates")
	require.Len(t, rels, 3)
	assert.Equal(t, s.Project.Handle(), rels[0].Ref(4))
	assert.Equal(t, []models.Handle{s.Site.Handle()}, rels[0].Refs(5))
	assert.Equal(t, []models.Handle{s.Storey.Handle()}, rels[2].Refs(5))

	_, placed := s.Storey.Placement()
	assert.True(t, placed)

	// синглтоны не входят в список созданных сущностей
	assert.Empty(t, s.Entities())
}

func TestOpenWithNames(t *testing.T) {
	s, err := bim.Open("x.ifc", ifc.New(), bim.WithNames(bim.Names{Project: "Plant 7", Storey: "Level 1"}))
	require.NoError(t, err)

	assert.Equal(t, "Plant 7", s.Project.Name())
	assert.Equal(t, "My Site", s.Site.Name())
	assert.Equal(t, "Level 1", s.Storey.Name())
	assert.Equal(t, "x.ifc", s.Path())
}

func TestOpenBackendFailure(t *testing.T) {
	_, err := bim.Open("x.ifc", nil)
	assert.ErrorIs(t, err, bim.ErrBackendInit)

	_, err = bim.Open("x.ifc", &flakyStore{Store: ifc.New(), failUnits: true})
	assert.ErrorIs(t, err, bim.ErrBackendInit)
	assert.ErrorIs(t, err, errInjected)
}

func TestCreateEntity(t *testing.T) {
	s, _ := openSession(t)

	wall, err := s.CreateEntity("wall", "W-01")
	require.NoError(t, err)
	assert.Equal(t, "IfcWall", wall.Class())
	assert.Equal(t, "W-01", wall.Name())
	assert.True(t, wall.Handle().Valid())
	assert.Same(t, s, wall.Session())
	assert.False(t, wall.IsSpatial())

	_, err = s.CreateEntity("IfcCurtainWallPanel", "x")
	assert.ErrorIs(t, err, bim.ErrUnknownEntityClass)
	assert.Len(t, s.Entities(), 1)
}

func TestAssignToContainer(t *testing.T) {
	s, store := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)
	slab, err := s.CreateEntity("IfcSlab", "S")
	require.NoError(t, err)

	assert.ErrorIs(t, wall.AssignToContainer(nil), bim.ErrInvalidContainer)
	assert.ErrorIs(t, wall.AssignToContainer(slab), bim.ErrInvalidContainer)
	assert.Nil(t, wall.Container())

	other, _ := openSession(t)
	assert.ErrorIs(t, wall.AssignToContainer(other.Storey), bim.ErrInvalidContainer)

	require.NoError(t, wall.AssignToContainer(s.Storey))
	assert.Same(t, s.Storey, wall.Container())

	// повторное назначение переносит элемент
	require.NoError(t, wall.AssignToContainer(s.Building))
	assert.Same(t, s.Building, wall.Container())

	container, ok := store.ContainerOf(wall.Handle())
	require.True(t, ok)
	assert.Equal(t, s.Building.Handle(), container)
	assert.Len(t, store.Find("IfcRelContainedInSpatialStructure"), 1)
}

func TestUncontained(t *testing.T) {
	s, _ := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)
	_, err = s.CreateEntity("IfcOpeningElement", "W Opening 1")
	require.NoError(t, err)
	_, err = s.CreateEntity("IfcSpace", "Room")
	require.NoError(t, err)

	require.Len(t, s.Uncontained(), 1)
	assert.Same(t, wall, s.Uncontained()[0])

	require.NoError(t, wall.AssignToContainer(s.Storey))
	assert.Empty(t, s.Uncontained())
}

func TestAddPropertySets(t *testing.T) {
	s, store := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)

	first := models.PropertySet{Name: "A", Properties: []models.Property{{Name: "x", Value: models.Integer(1)}}}
	second := models.PropertySet{Name: "B", Properties: []models.Property{{Name: "y", Value: models.String("v")}}}
	require.NoError(t, wall.AddPropertySets(first, second))
	assert.Equal(t, []string{"A", "B"}, wall.PropertySetNames())

	// тот же набор перезаписывается, а не дублируется
	first.Properties = []models.Property{{Name: "x", Value: models.Integer(2)}}
	require.NoError(t, wall.AddPropertySets(first))
	assert.Equal(t, []string{"A", "B"}, wall.PropertySetNames())

	sets := store.PropertySets(wall.Handle())
	require.Len(t, sets, 2)
	v, ok := sets["A"].Get("x")
	require.True(t, ok)
	assert.Equal(t, models.Integer(2), v)
}

func TestAddPropertySetsPartialCommit(t *testing.T) {
	store := &flakyStore{Store: ifc.New(), failPset: "B"}
	s, err := bim.Open("x.ifc", store)
	require.NoError(t, err)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)

	err = wall.AddPropertySets(
		models.PropertySet{Name: "A"},
		models.PropertySet{Name: "B"},
		models.PropertySet{Name: "C"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, bim.ErrPropertySetWrite)
	assert.ErrorIs(t, err, errInjected)

	var psetErr *bim.PropertySetError
	require.ErrorAs(t, err, &psetErr)
	assert.Equal(t, "B", psetErr.Set)

	assert.Equal(t, []string{"A"}, wall.PropertySetNames())
	_, ok := wall.PropertySet("A")
	assert.True(t, ok)
}

func TestAddOpening(t *testing.T) {
	s, store := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)
	opening, err := s.CreateEntity("IfcOpeningElement", "W Opening 1")
	require.NoError(t, err)

	require.NoError(t, wall.AddOpening(opening))
	assert.Equal(t, []*bim.Entity{opening}, wall.Openings())
	assert.Same(t, wall, opening.Host())
	assert.Equal(t, []models.Handle{opening.Handle()}, store.OpeningsOf(wall.Handle()))

	assert.Error(t, wall.AddOpening(opening))
	assert.Error(t, wall.AddOpening(nil))
}

func TestSetPlacement(t *testing.T) {
	s, _ := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)

	m, placed := wall.Placement()
	assert.False(t, placed)
	assert.Equal(t, models.Identity(), m)

	require.NoError(t, wall.SetPlacement(models.Translation(1000, 0, 0)))
	m, placed = wall.Placement()
	assert.True(t, placed)
	assert.Equal(t, models.Point3D{X: 1000}, m.Location())
}

func TestSessionWrite(t *testing.T) {
	s, _ := openSession(t)
	wall, err := s.CreateEntity("IfcWall", "W")
	require.NoError(t, err)
	require.NoError(t, wall.AssignToContainer(s.Storey))

	require.NoError(t, s.Write())
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "END-ISO-10303-21;\n"))
	assert.Contains(t, string(data), "IFCWALL(")

	failing, err := bim.Open("x.ifc", &flakyStore{Store: ifc.New(), failWrite: true})
	require.NoError(t, err)
	assert.ErrorIs(t, failing.Write(), bim.ErrIOWrite)
}

func TestPositive(t *testing.T) {
	assert.NoError(t, bim.Positive("length", 1))

	err := errors.Join(bim.Positive("length", 0), bim.Positive("height", -1), bim.Positive("width", 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, bim.ErrInvalidDimension)
	assert.Contains(t, err.Error(), "length=0")
	assert.Contains(t, err.Error(), "height=-1")
	assert.NotContains(t, err.Error(), "width")

	var dim *bim.DimensionError
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, "length", dim.Name)
}

func TestMissingFieldError(t *testing.T) {
	err := error(&bim.MissingFieldError{Set: "ElementData", Field: "Wall_Type"})
	assert.ErrorIs(t, err, bim.ErrMissingRequiredField)
	assert.Equal(t, `ElementData: missing required field "Wall_Type"`, err.Error())
}
