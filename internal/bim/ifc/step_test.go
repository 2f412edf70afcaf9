package ifc

import (
	"testing"

	"precast-bim/internal/bim/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0."},
		{3200, "3200."},
		{-2, "-2."},
		{187.5, "187.5"},
		{0.5, "0.5"},
		{1e-5, "1.E-05"},
		{1e20, "1.E+20"},
		{2.5e-7, "2.5E-07"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatReal(tt.in))
		})
	}
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Wall_001", "'Wall_001'"},
		{"empty", "", "''"},
		{"quote", "It's", "'It''s'"},
		{"backslash", `a\b`, `'a\\b'`},
		{"non ascii", "Стена", `'\X2\042104420435043D0430\X0\'`},
		{"mixed", "C30/37 é", `'C30/37 \X2\00E9\X0\'`},
		{"astral", "😀", `'\X2\D83DDE00\X0\'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeString(tt.in))
		})
	}
}

func TestEncodeEntity(t *testing.T) {
	e := &Entity{
		ID:    12,
		Class: "IFCPROPERTYSINGLEVALUE",
		Attrs: []any{"Count", null, typed{Type: "IFCINTEGER", Value: int64(1)}, null},
	}
	assert.Equal(t, "#12=IFCPROPERTYSINGLEVALUE('Count',$,IFCINTEGER(1),$);", e.encode())

	e = &Entity{
		ID:    3,
		Class: "IFCSIUNIT",
		Attrs: []any{star, enum("lengthunit"), enum("MILLI"), enum("METRE")},
	}
	assert.Equal(t, "#3=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);", e.encode())

	e = &Entity{ID: 7, Class: "IFCCARTESIANPOINT", Attrs: []any{list{0.0, 200.0}}}
	assert.Equal(t, "#7=IFCCARTESIANPOINT((0.,200.));", e.encode())
}

func TestPropertyValue(t *testing.T) {
	assert.Equal(t, "IFCLABEL('C30/37')", encodeValue(propertyValue(models.String("C30/37"))))
	assert.Equal(t, "IFCINTEGER(3)", encodeValue(propertyValue(models.Integer(3))))
	assert.Equal(t, "IFCREAL(187.5)", encodeValue(propertyValue(models.Real(187.5))))
	assert.Equal(t, "IFCBOOLEAN(.F.)", encodeValue(propertyValue(models.Boolean(false))))
	assert.Equal(t, "$", encodeValue(propertyValue(models.Value{})))
}

func TestEntityAccessors(t *testing.T) {
	e := &Entity{Attrs: []any{"name", ref(4), list{ref(5), ref(6)}, list{1.0, 2.0}, null, 2.5}}

	assert.Equal(t, "name", e.Text(0))
	assert.Equal(t, models.Handle(4), e.Ref(1))
	assert.Equal(t, []models.Handle{5, 6}, e.Refs(2))
	assert.Equal(t, []float64{1, 2}, e.Floats(3))
	assert.True(t, e.IsNull(4))
	assert.True(t, e.IsNull(99))
	assert.Equal(t, 2.5, e.Float(5))
	assert.False(t, e.Ref(0).Valid())
}

func TestCompressGUID(t *testing.T) {
	assert.Equal(t, "0000000000000000000000", CompressGUID(uuid.UUID{}))

	var all uuid.UUID
	for i := range all {
		all[i] = 0xff
	}
	assert.Equal(t, "3$$$$$$$$$$$$$$$$$$$$$", CompressGUID(all))
}

func TestGUIDRoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := uuid.New()
		g := CompressGUID(id)
		require.Len(t, g, 22)

		back, ok := ExpandGUID(g)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
}

func TestExpandGUIDRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "short", "3$$$$$$$$$$$$$$$$$$$$$$", "4$$$$$$$$$$$$$$$$$$$$$", "00000000000000000000!0"} {
		_, ok := ExpandGUID(s)
		assert.False(t, ok, s)
	}
}

func TestPropertyValueLargeInteger(t *testing.T) {
	assert.Equal(t, "IFCINTEGER(9007199254740993)", encodeValue(propertyValue(models.Integer(1<<53+1))))
}
