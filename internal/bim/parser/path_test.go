package parser

import (
	"testing"

	"precast-bim/internal/bim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []models.Point2D
	}{
		{
			name: "absolute closed",
			d:    "M0 0 L3200 0 L3200 200 L0 200 Z",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 3200, Y: 0}, {X: 3200, Y: 200}, {X: 0, Y: 200}, {X: 0, Y: 0}},
		},
		{
			name: "implicit lineto and commas",
			d:    "M0,0 3000,0 3000,200 0,200z",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 3000, Y: 0}, {X: 3000, Y: 200}, {X: 0, Y: 200}, {X: 0, Y: 0}},
		},
		{
			name: "relative",
			d:    "m100 100 l3000 0 l0 200 l-3000 0 z",
			want: []models.Point2D{{X: 100, Y: 100}, {X: 3100, Y: 100}, {X: 3100, Y: 300}, {X: 100, Y: 300}, {X: 100, Y: 100}},
		},
		{
			name: "horizontal and vertical",
			d:    "M0 0 H3000 V1000 h-200 v-800 H0 Z",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 3000, Y: 0}, {X: 3000, Y: 1000}, {X: 2800, Y: 1000}, {X: 2800, Y: 200}, {X: 0, Y: 200}, {X: 0, Y: 0}},
		},
		{
			name: "already at start",
			d:    "M0 0 L10 0 L10 10 L0 0 Z",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}},
		},
		{
			name: "sign as separator",
			d:    "M0,0 L100-50H-20",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 100, Y: -50}, {X: -20, Y: -50}},
		},
		{
			name: "compact decimals and exponents",
			d:    "M.5.5L1e2-1E1",
			want: []models.Point2D{{X: 0.5, Y: 0.5}, {X: 100, Y: -10}},
		},
		{
			name: "open",
			d:    "  M0 0 L1.5 2.25  ",
			want: []models.Point2D{{X: 0, Y: 0}, {X: 1.5, Y: 2.25}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{
		"",
		"   ",
		"L0 0 L10 0",
		"M0 0 L10",
		"M0 0 Lx 0",
		"M",
		"M0 0 H",
		"M0 0 L1e 0",
		"M0 0 L10 0 #",
	} {
		_, err := ParsePath(d)
		assert.Error(t, err, "%q", d)
	}
}

func TestFormatPath(t *testing.T) {
	points := []models.Point2D{{X: 0, Y: 0}, {X: 3200, Y: 0}, {X: 3200, Y: 200.5}, {X: 0, Y: 200.5}, {X: 0, Y: 0}}
	assert.Equal(t, "M0 0 L3200 0 L3200 200.5 L0 200.5 Z", FormatPath(points))
	assert.Equal(t, "M0 0 L3200 0 L3200 200.5 L0 200.5 Z", FormatPath(points[:4]))
	assert.Equal(t, "", FormatPath(nil))

	back, err := ParsePath(FormatPath(points))
	require.NoError(t, err)
	assert.Equal(t, points, back)
}
