package bim

import (
	"precast-bim/internal/bim/models"
)

// ============================================================
// Backend Adapter
// ============================================================

// Backend is the persistence and geometry backend the authoring core drives.
// The core never touches document bytes; every mutation goes through these calls.
type Backend interface {
	CreateEntity(class, name string) (models.Handle, error)
	ClassOf(h models.Handle) (string, bool)
	CreateContext(spec models.ContextSpec) (models.Handle, error)
	AssignUnits() error
	Aggregate(parent models.Handle, children ...models.Handle) error

	BuildExtrusion(ctx models.Handle, length, height, thickness float64) (models.Handle, error)
	BuildProfileExtrusion(ctx, profile models.Handle, length float64, voids ...models.Handle) (models.Handle, error)
	BuildFootprintExtrusion(ctx, footprint models.Handle, height float64) (models.Handle, error)
	BuildCartesianPoint(p models.Point2D) (models.Handle, error)
	BuildPolyline(points []models.Handle) (models.Handle, error)
	BuildCircle(center models.Point2D, radius float64) (models.Handle, error)

	AssignRepresentation(entity, representation models.Handle) error
	EditPlacement(entity models.Handle, m models.Matrix4) error
	AssignContainer(structure, entity models.Handle) error
	AddPropertySet(entity models.Handle, name string) (models.Handle, error)
	EditPropertySet(pset models.Handle, properties []models.Property) error
	AddVoidRelationship(opening, host models.Handle) error

	Write(path string) error
}

var spatialClasses = map[string]bool{
	"IfcSite":           true,
	"IfcBuilding":       true,
	"IfcBuildingStorey": true,
	"IfcSpace":          true,
}

// IsSpatialClass reports whether entities of class can contain other elements.
func IsSpatialClass(class string) bool {
	return spatialClasses[class]
}
