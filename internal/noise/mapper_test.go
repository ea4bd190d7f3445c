package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    Mapping
		wantErr bool
	}{
		{"", MappingSquare, false},
		{"square", MappingSquare, false},
		{"hex", MappingHexagonal, false},
		{"hexagonal", MappingHexagonal, false},
		{"triangle", MappingSquare, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMapping(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhiteNoiseMap(t *testing.T) {
	m := WhiteNoiseMap(3, 16, 9)
	require.Len(t, m, 16)
	for _, col := range m {
		require.Len(t, col, 9)
		for _, v := range col {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}

	assert.Equal(t, m, WhiteNoiseMap(3, 16, 9), "same seed must reproduce the map")
	assert.NotEqual(t, m, WhiteNoiseMap(4, 16, 9))
}

func TestSimplexMap2D(t *testing.T) {
	s := Settings{Dimensions: Dim2D, Octaves: 3, Scale: 8, Persistence: 0.5, Lacunarity: 2}

	square, err := SimplexMap2D(10, 32, 24, MappingSquare, s)
	require.NoError(t, err)
	require.Len(t, square, 32)
	require.Len(t, square[0], 24)

	again, err := SimplexMap2D(10, 32, 24, MappingSquare, s)
	require.NoError(t, err)
	assert.Equal(t, square, again)

	hex, err := SimplexMap2D(10, 32, 24, MappingHexagonal, s)
	require.NoError(t, err)
	assert.NotEqual(t, square, hex)

	for x := range square {
		for y := range square[x] {
			assert.GreaterOrEqual(t, square[x][y], -rangeSlack)
			assert.LessOrEqual(t, square[x][y], 1+rangeSlack)
		}
	}
}

func TestSimplexMap2DInvalidSettings(t *testing.T) {
	_, err := SimplexMap2D(1, 4, 4, MappingSquare, Settings{Dimensions: Dim2D, Octaves: 1, Scale: 0, Persistence: 1, Lacunarity: 1})
	require.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSampleMapHexIndent(t *testing.T) {
	f, err := NewFilter(1, Settings{Dimensions: Dim2D, Octaves: 1, Scale: 4, Persistence: 1, Lacunarity: 1})
	require.NoError(t, err)

	hex := SampleMap(f, 8, 4, MappingHexagonal)

	// Odd rows are not indented, so column x of row 1 sits at (x-4)*ratio.
	want := Sample2D((float64(3)-4)*HexGridRatio/4+f.offsets[0].X, (1.0-2)/4+f.offsets[0].Y)
	assert.InDelta(t, want, hex[3][1], 1e-12)

	// Even rows shift right by half a column.
	want = Sample2D(((float64(3)-4)*HexGridRatio+HexGridRatio/2)/4+f.offsets[0].X, (0.0-2)/4+f.offsets[0].Y)
	assert.InDelta(t, want, hex[3][0], 1e-12)
}

func TestGridPoint(t *testing.T) {
	x, y := GridPoint(0, 0, 4, 2, MappingSquare)
	assert.Equal(t, -2.0, x)
	assert.Equal(t, -1.0, y)

	x, y = GridPoint(2, 1, 4, 2, MappingHexagonal)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, _ = GridPoint(2, 0, 4, 2, MappingHexagonal)
	assert.InDelta(t, HexGridRatio/2, x, 1e-12)

	assert.Equal(t, "hex", MappingHexagonal.String())
	assert.Equal(t, "square", MappingSquare.String())
}
