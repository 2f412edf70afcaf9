package geometry

import (
	"math"
	"testing"

	"precast-bim/internal/bim"
	"precast-bim/internal/bim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleProfile(t *testing.T) {
	p, err := RectangleProfile(3200, 200)
	require.NoError(t, err)

	assert.True(t, p.Closed())
	assert.Len(t, p.Points, 5)
	assert.Len(t, p.Vertices(), 4)
	assert.InDelta(t, 640000, p.Area(), 1e-9)
	assert.False(t, p.Built())

	_, err = RectangleProfile(0, 200)
	assert.ErrorIs(t, err, bim.ErrInvalidDimension)
	_, err = RectangleProfile(100, -1)
	assert.ErrorIs(t, err, bim.ErrInvalidDimension)
}

func TestFootprintProfile(t *testing.T) {
	p, err := FootprintProfile([]models.Point2D{{X: 0, Y: 0}, {X: 3000, Y: 0}, {X: 3000, Y: 200}, {X: 0, Y: 200}})
	require.NoError(t, err)
	assert.True(t, p.Closed())
	assert.Equal(t, p.Points[0], p.Points[len(p.Points)-1])
	assert.InDelta(t, 600000, p.Area(), 1e-9)

	// уже замкнутый контур не дублирует точку
	closed, err := FootprintProfile(p.Points)
	require.NoError(t, err)
	assert.Len(t, closed.Points, 5)

	for _, pts := range [][]models.Point2D{
		nil,
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}},
	} {
		_, err := FootprintProfile(pts)
		assert.ErrorIs(t, err, bim.ErrInvalidProfile)
	}
}

func TestHollowCoreLeadingEdges(t *testing.T) {
	p, err := HollowCoreProfile(1200, 200, 3, 150, CoreLeadingEdges)
	require.NoError(t, err)

	assert.Equal(t, 187.5, p.WebThickness)
	assert.Equal(t, []models.Point2D{
		{X: 0, Y: 0},
		{X: 0, Y: 200},
		{X: 187.5, Y: 200},
		{X: 525, Y: 200},
		{X: 862.5, Y: 200},
		{X: 1200, Y: 200},
		{X: 1200, Y: 0},
		{X: 0, Y: 0},
	}, p.Points)
	assert.Empty(t, p.Cavities)
	assert.True(t, p.Closed())
}

func TestHollowCoreBothEdges(t *testing.T) {
	p, err := HollowCoreProfile(1200, 200, 3, 150, CoreBothEdges)
	require.NoError(t, err)

	assert.Equal(t, []models.Point2D{
		{X: 0, Y: 0},
		{X: 0, Y: 200},
		{X: 187.5, Y: 200},
		{X: 337.5, Y: 200},
		{X: 525, Y: 200},
		{X: 675, Y: 200},
		{X: 862.5, Y: 200},
		{X: 1012.5, Y: 200},
		{X: 1200, Y: 200},
		{X: 1200, Y: 0},
		{X: 0, Y: 0},
	}, p.Points)
}

func TestHollowCoreCavities(t *testing.T) {
	p, err := HollowCoreProfile(1200, 200, 3, 150, CoreCavities)
	require.NoError(t, err)

	require.Len(t, p.Cavities, 3)
	for i, cx := range []float64{262.5, 600, 937.5} {
		assert.Equal(t, Circle{Center: models.Point2D{X: cx, Y: 100}, Radius: 75}, p.Cavities[i])
	}
	assert.Len(t, p.Points, 5)
	assert.InDelta(t, 1200*200-3*math.Pi*75*75, p.Area(), 1e-6)

	_, err = HollowCoreProfile(1200, 150, 3, 150, CoreCavities)
	assert.ErrorIs(t, err, bim.ErrInvalidProfile)
}

func TestHollowCoreInvalid(t *testing.T) {
	tests := []struct {
		name     string
		width    float64
		height   float64
		count    int
		diameter float64
		want     error
	}{
		{"zero width", 0, 200, 3, 150, bim.ErrInvalidDimension},
		{"negative height", 1200, -200, 3, 150, bim.ErrInvalidDimension},
		{"negative count", 1200, 200, -1, 150, bim.ErrInvalidDimension},
		{"negative diameter", 1200, 200, 3, -150, bim.ErrInvalidDimension},
		{"no voids", 1200, 200, 0, 150, bim.ErrInvalidProfile},
		{"zero diameter", 1200, 200, 3, 0, bim.ErrInvalidProfile},
		{"voids fill width", 1200, 200, 4, 300, bim.ErrInvalidProfile},
		{"voids overflow", 1200, 200, 5, 300, bim.ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HollowCoreProfile(tt.width, tt.height, tt.count, tt.diameter, CoreLeadingEdges)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExternalWebThickness(t *testing.T) {
	assert.Equal(t, 187.5, ExternalWebThickness(1200, 3, 150))
	assert.Equal(t, 0.0, ExternalWebThickness(1200, 4, 300))
	assert.Less(t, ExternalWebThickness(1200, 5, 300), 0.0)
}

func TestParseCoreMode(t *testing.T) {
	for in, want := range map[string]CoreMode{
		"":         CoreLeadingEdges,
		"leading":  CoreLeadingEdges,
		" Both ":   CoreBothEdges,
		"CAVITIES": CoreCavities,
	} {
		got, err := ParseCoreMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCoreMode("trailing")
	assert.Error(t, err)

	for _, m := range []CoreMode{CoreLeadingEdges, CoreBothEdges, CoreCavities} {
		back, err := ParseCoreMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}

func TestResolveVoid(t *testing.T) {
	v := ResolveVoid(models.VoidSpec{X: 500, Z: 900}, 200)
	assert.Equal(t, DefaultVoidWidth, v.Width)
	assert.Equal(t, DefaultVoidHeight, v.Height)
	assert.Equal(t, 300.0, v.Depth)

	v = ResolveVoid(models.VoidSpec{Width: 900, Height: 1200, Depth: 50}, 200)
	assert.Equal(t, 900.0, v.Width)
	assert.Equal(t, 1200.0, v.Height)
	assert.Equal(t, 50.0, v.Depth)
}
