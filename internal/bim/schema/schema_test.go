package schema

import (
	"testing"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallElementFields() models.Fields {
	return models.Fields{
		"Element_ID":  models.String("E-1"),
		"Wall_ID":     models.String("W-01"),
		"Local_ID":    models.String("L-1"),
		"Building_ID": models.String("B-1"),
		"Product_ID":  models.String("P-1"),
		"Reinf_ID":    models.String("R-1"),
		"Wall_Type":   models.String("External"),
		"Wing":        models.String("A"),
		"Floor_Num":   models.Integer(1),
		"Orientation": models.String("N"),
		"Grid_Pos":    models.String("A-1"),
		"Status":      models.String("Design"),
		"Storage_Loc": models.String("Yard 2"),
		"Links":       models.String(""),
		"Notes":       models.String("none"),
	}
}

func wallGeometryFields() models.Fields {
	return models.Fields{
		"Product_ID":      models.String("P-1"),
		"Reinf_Type":      models.String("Mesh"),
		"Mirrored":        models.Boolean(false),
		"Count":           models.Integer(1),
		"Height":          models.Real(2600),
		"Length":          models.Real(3200),
		"Thickness":       models.Real(200),
		"Strength_Class":  models.String("C30/37"),
		"Agg_Size":        models.Integer(16),
		"Drawing":         models.String("D-001"),
		"Geometry_Notes":  models.String(""),
		"Has_Void":        models.Boolean(true),
		"Has_ExtPanels":   models.Boolean(false),
		"Has_Connections": models.Boolean(true),
		"Has_Corbel":      models.Boolean(false),
	}
}

func names(set models.PropertySet) []string {
	out := make([]string, 0, len(set.Properties))
	for _, p := range set.Properties {
		out = append(out, p.Name)
	}
	return out
}

func TestMapWallElementData(t *testing.T) {
	set, err := Map(WallElementData, wallElementFields())
	require.NoError(t, err)

	assert.Equal(t, WallElementDataSet, set.Name)
	assert.Equal(t, []string{
		"Element_ID", "Wall_ID", "Local_ID", "Building_ID", "Product_ID", "Reinf_ID", "Wall_Type",
		"Wing", "Floor_Num", "Orientation", "Grid_Pos", "Status", "Storage_Loc", "Links", "Notes",
	}, names(set))

	floor, _ := set.Get("Floor_Num")
	assert.Equal(t, models.Integer(1), floor)
}

func TestMapIsDeterministic(t *testing.T) {
	first, err := Map(WallGeometryData, wallGeometryFields())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Map(WallGeometryData, wallGeometryFields())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []string{
		"Product_ID", "Reinf_Type", "Mirrored", "Count", "Height", "Length", "Thickness",
		"Strength_Class", "Agg_Size", "Drawing", "Geometry_Notes",
		"Has_Void", "Has_ExtPanels", "Has_Connections", "Has_Corbel",
	}, names(first))
}

func TestMapMissingRequiredField(t *testing.T) {
	raw := wallElementFields()
	delete(raw, "Wall_Type")

	_, err := Map(WallElementData, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, bim.ErrMissingRequiredField)

	var missing *bim.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Wall_Type", missing.Field)
	assert.Equal(t, WallElementDataSet, missing.Set)

	// null равносилен отсутствию
	raw["Wall_Type"] = models.Value{}
	_, err = Map(WallElementData, raw)
	assert.ErrorIs(t, err, bim.ErrMissingRequiredField)
}

func TestMapReportsFirstMissingField(t *testing.T) {
	_, err := Map(WallElementData, models.Fields{})

	var missing *bim.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Element_ID", missing.Field)
}

func TestMapNormalizedKeys(t *testing.T) {
	raw := wallElementFields()
	delete(raw, "Product_ID")
	delete(raw, "Storage_Loc")
	raw["product id"] = models.String("P-2")
	raw["Storage-Loc"] = models.String("Yard 5")
	raw["Unknown key"] = models.String("dropped")

	set, err := Map(WallElementData, raw)
	require.NoError(t, err)

	v, _ := set.Get("Product_ID")
	assert.Equal(t, models.String("P-2"), v)
	v, _ = set.Get("Storage_Loc")
	assert.Equal(t, models.String("Yard 5"), v)
	assert.Len(t, set.Properties, 15)
}

func TestMapKeysWithoutSeparators(t *testing.T) {
	raw := wallElementFields()
	delete(raw, "Product_ID")
	delete(raw, "Grid_Pos")
	raw["ProductID"] = models.String("P-3")
	raw["grid-pos"] = models.String("B-2")

	set, err := Map(WallElementData, raw)
	require.NoError(t, err)

	v, _ := set.Get("Product_ID")
	assert.Equal(t, models.String("P-3"), v)
	v, _ = set.Get("Grid_Pos")
	assert.Equal(t, models.String("B-2"), v)

	n, ok := Number(models.Fields{"VoidCount": models.Integer(3)}, "Void_Count")
	require.True(t, ok)
	assert.Equal(t, 3.0, n)
}

func TestMapExactKeyWins(t *testing.T) {
	raw := wallElementFields()
	raw["product_id"] = models.String("shadow")

	set, err := Map(WallElementData, raw)
	require.NoError(t, err)
	v, _ := set.Get("Product_ID")
	assert.Equal(t, models.String("P-1"), v)
}

func TestMapOptionalFields(t *testing.T) {
	t.Run("absent without default is omitted", func(t *testing.T) {
		raw := wallGeometryFields()
		delete(raw, "Height")
		delete(raw, "Thickness")

		set, err := Map(WallGeometryData, raw)
		require.NoError(t, err)
		_, ok := set.Get("Height")
		assert.False(t, ok)
		_, ok = set.Get("FootprintPolyline")
		assert.False(t, ok)
		assert.Len(t, set.Properties, 13)
	})

	t.Run("slab defaults", func(t *testing.T) {
		set, err := Map(SlabElementData, models.Fields{
			"Product_ID":              models.String("HC-1"),
			"Reinforcement_ID":        models.String("R-7"),
			"Count":                   models.Integer(2),
			"Height":                  models.Real(200),
			"Length":                  models.Real(6000),
			"Width":                   models.Real(1200),
			"Concrete_Strength_Class": models.String("C40/50"),
		})
		require.NoError(t, err)

		assert.Equal(t, SlabElementDataSet, set.Name)
		v, _ := set.Get("Void_Count")
		assert.Equal(t, models.Integer(0), v)
		v, _ = set.Get("External_Web_Thickness")
		assert.Equal(t, models.Real(0), v)
		_, ok := set.Get("Notes")
		assert.False(t, ok)
		assert.Len(t, set.Properties, 11)
	})
}

func TestMapCoercion(t *testing.T) {
	raw := wallGeometryFields()
	raw["Count"] = models.Real(2)
	set, err := Map(WallGeometryData, raw)
	require.NoError(t, err)
	count, _ := set.Get("Count")
	assert.Equal(t, models.Integer(2), count)

	tests := []struct {
		name  string
		field string
		value models.Value
	}{
		{"fractional count", "Count", models.Real(1.5)},
		{"text count", "Count", models.String("one")},
		{"text mirrored", "Mirrored", models.String("yes")},
		{"text height", "Height", models.String("tall")},
		{"numeric footprint", "FootprintPolyline", models.Integer(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := wallGeometryFields()
			raw[tt.field] = tt.value
			_, err := Map(WallGeometryData, raw)
			assert.ErrorIs(t, err, bim.ErrInvalidFieldValue)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestMapUnknownKind(t *testing.T) {
	_, err := Map(Kind("door_data"), models.Fields{})
	assert.Error(t, err)

	for _, k := range Kinds() {
		s, ok := Lookup(k)
		require.True(t, ok)
		assert.Equal(t, k, s.Kind)
	}
}

func TestFind(t *testing.T) {
	raw := models.Fields{"void count": models.Integer(3), "Width": models.Real(1200)}

	v, ok := Find(raw, "Void_Count")
	require.True(t, ok)
	assert.Equal(t, models.Integer(3), v)

	n, ok := Number(raw, "width")
	require.True(t, ok)
	assert.Equal(t, 1200.0, n)

	_, ok = Find(raw, "Height")
	assert.False(t, ok)
}
