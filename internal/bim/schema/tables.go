package schema

import "precast-bim/internal/bim/models"

// ============================================================
// Property set names
// ============================================================

const (
	WallElementDataSet  = "ElementData"
	WallGeometryDataSet = "GeometryData"
	SlabElementDataSet  = "ElementData"
)

func required(name string, t FieldType) Field {
	return Field{Name: name, Type: t, Required: true}
}

func optional(name string, t FieldType, def models.Value) Field {
	return Field{Name: name, Type: t, Default: def}
}

var wallElementData = Schema{
	Kind:    WallElementData,
	SetName: WallElementDataSet,
	Fields: []Field{
		required("Element_ID", TypeAny),
		required("Wall_ID", TypeAny),
		required("Local_ID", TypeAny),
		required("Building_ID", TypeAny),
		required("Product_ID", TypeAny),
		required("Reinf_ID", TypeAny),
		required("Wall_Type", TypeAny),
		required("Wing", TypeAny),
		required("Floor_Num", TypeAny),
		required("Orientation", TypeAny),
		required("Grid_Pos", TypeAny),
		required("Status", TypeAny),
		required("Storage_Loc", TypeAny),
		required("Links", TypeAny),
		required("Notes", TypeAny),
	},
}

// Order follows the published set: optional dimensions sit between Count and Strength_Class.
var wallGeometryData = Schema{
	Kind:    WallGeometryData,
	SetName: WallGeometryDataSet,
	Fields: []Field{
		required("Product_ID", TypeAny),
		required("Reinf_Type", TypeAny),
		required("Mirrored", TypeBoolean),
		required("Count", TypeInteger),
		optional("FootprintPolyline", TypeText, models.Value{}),
		optional("Height", TypeNumber, models.Value{}),
		optional("Length", TypeNumber, models.Value{}),
		optional("Thickness", TypeNumber, models.Value{}),
		required("Strength_Class", TypeAny),
		required("Agg_Size", TypeAny),
		required("Drawing", TypeAny),
		required("Geometry_Notes", TypeAny),
		required("Has_Void", TypeBoolean),
		required("Has_ExtPanels", TypeBoolean),
		required("Has_Connections", TypeBoolean),
		required("Has_Corbel", TypeBoolean),
	},
}

var slabElementData = Schema{
	Kind:    SlabElementData,
	SetName: SlabElementDataSet,
	Fields: []Field{
		required("Product_ID", TypeAny),
		required("Reinforcement_ID", TypeAny),
		required("Count", TypeInteger),
		required("Height", TypeNumber),
		required("Length", TypeNumber),
		required("Width", TypeNumber),
		optional("Void_Count", TypeInteger, models.Integer(0)),
		optional("Void_Diameter", TypeNumber, models.Real(0)),
		optional("Concrete_Cover", TypeNumber, models.Real(0)),
		optional("External_Web_Thickness", TypeNumber, models.Real(0)),
		required("Concrete_Strength_Class", TypeAny),
		optional("Max_Aggregate_Size", TypeAny, models.Value{}),
		optional("Drawings", TypeAny, models.Value{}),
		optional("Notes", TypeAny, models.Value{}),
	},
}

var registry = map[Kind]Schema{
	WallElementData:  wallElementData,
	WallGeometryData: wallGeometryData,
	SlabElementData:  slabElementData,
}
