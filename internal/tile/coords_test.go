package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCoordsString(t *testing.T) {
	tests := []struct {
		coords   Coords
		expected string
	}{
		{Coords{Z: 3, X: 4, Y: 2}, "z3_x4_y2"},
		{Coords{Z: 0, X: 0, Y: 0}, "z0_x0_y0"},
		{Coords{Z: 18, X: 12345, Y: 67890}, "z18_x12345_y67890"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coords.String())
		})
	}

	assert.Equal(t, "z3_x4_y2.png", NewCoords(3, 4, 2).Path("png"))
}

func TestCoordsValid(t *testing.T) {
	assert.True(t, NewCoords(0, 0, 0).Valid())
	assert.False(t, NewCoords(0, 1, 0).Valid())
	assert.True(t, NewCoords(2, 3, 3).Valid())
	assert.False(t, NewCoords(2, 3, 4).Valid())
	assert.False(t, NewCoords(40, 0, 0).Valid())
}

func TestCoordsBounds(t *testing.T) {
	b := NewCoords(0, 0, 0).Bounds()
	assert.InDelta(t, -180, b[0], 1e-9)
	assert.InDelta(t, 180, b[2], 1e-9)
	assert.InDelta(t, -85.0511, b[1], 1e-3)
	assert.InDelta(t, 85.0511, b[3], 1e-3)

	// z1 x1 y0 is the north-east quadrant.
	ne := NewCoords(1, 1, 0).Bounds()
	assert.InDelta(t, 0, ne[0], 1e-9)
	assert.InDelta(t, 0, ne[1], 1e-9)
	assert.Greater(t, ne[3], 80.0)

	lon, lat := NewCoords(1, 1, 0).Center()
	assert.InDelta(t, 90, lon, 1e-9)
	assert.Greater(t, lat, 0.0)
}

func TestCoordsBoundsMercator(t *testing.T) {
	b := NewCoords(0, 0, 0).BoundsMercator()
	assert.InDelta(t, -20037508.34, b[0], 1)
	assert.InDelta(t, 20037508.34, b[2], 1)
	assert.InDelta(t, -20037508.34, b[1], 1)
	assert.InDelta(t, 20037508.34, b[3], 1)
}

func TestParseCoords(t *testing.T) {
	tests := []struct {
		input    string
		expected Coords
		wantErr  bool
	}{
		{"z3_x4_y2", Coords{Z: 3, X: 4, Y: 2}, false},
		{"z0_x0_y0", Coords{}, false},
		{"z1_x2_y0", Coords{}, true},
		{"invalid", Coords{}, true},
		{"z13_x4297", Coords{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCoords(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMercatorConversion(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {9.73, 52.37}, {-122.42, 37.78}, {139.69, -35.69}} {
		x, y := lonLatToMercator(p[0], p[1])
		lon, lat := mercatorToLonLat(x, y)
		assert.InDelta(t, p[0], lon, 1e-6)
		assert.InDelta(t, p[1], lat, 1e-6)
	}
}

func TestLonLatToUnit(t *testing.T) {
	tests := []struct {
		lon, lat float64
		want     r3.Vec
	}{
		{0, 0, r3.Vec{X: 1}},
		{90, 0, r3.Vec{Z: 1}},
		{0, 90, r3.Vec{Y: 1}},
		{180, 0, r3.Vec{X: -1}},
		{0, -90, r3.Vec{Y: -1}},
	}

	for _, tt := range tests {
		got := LonLatToUnit(tt.lon, tt.lat)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(tt.want, got)), 1e-12, "lon=%v lat=%v", tt.lon, tt.lat)
	}

	for _, p := range [][2]float64{{12.5, 40}, {-170, -10}, {95, 89}} {
		lon, lat := UnitToLonLat(LonLatToUnit(p[0], p[1]))
		assert.InDelta(t, p[0], lon, 1e-9)
		assert.InDelta(t, p[1], lat, 1e-9)
	}
}

func TestSphereGrid(t *testing.T) {
	c := NewCoords(2, 1, 1)
	grid := c.SphereGrid(8)
	require.Len(t, grid, 8)

	b := c.Bounds()
	for x := range grid {
		require.Len(t, grid[x], 8)
		for y, p := range grid[x] {
			assert.InDelta(t, 1, r3.Norm(p), 1e-12)
			lon, lat := UnitToLonLat(p)
			assert.True(t, lon > b[0] && lon < b[2], "pixel %d,%d lon %v outside tile", x, y, lon)
			assert.True(t, lat > b[1] && lat < b[3], "pixel %d,%d lat %v outside tile", x, y, lat)
		}
	}

	// North is up and east is right.
	_, topLat := UnitToLonLat(grid[0][0])
	_, bottomLat := UnitToLonLat(grid[0][7])
	assert.Greater(t, topLat, bottomLat)
	leftLon, _ := UnitToLonLat(grid[0][0])
	rightLon, _ := UnitToLonLat(grid[7][0])
	assert.Greater(t, rightLon, leftLon)
}

func TestTilesInBBox(t *testing.T) {
	bbox := [4]float64{10, 10, 50, 50}

	tiles := TilesInBBox(bbox, 1, 3)
	assert.Len(t, tiles, TileCount(bbox, 1, 3))

	for _, c := range tiles {
		require.True(t, c.Valid(), c.String())
		b := c.Bounds()
		overlaps := b[0] < bbox[2] && b[2] > bbox[0] && b[1] < bbox[3] && b[3] > bbox[1]
		assert.True(t, overlaps, "tile %s does not overlap bbox", c)
	}

	// A single zoom-0 tile covers the world.
	assert.Equal(t, []Coords{{}}, TilesInBBox(bbox, 0, 0))
	assert.Equal(t, 1, TileCount([4]float64{1, 1, 2, 2}, 5, 5))
}
