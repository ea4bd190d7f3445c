package noise

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mapping selects the grid layout used by SimplexMap2D.
type Mapping int

const (
	MappingSquare Mapping = iota
	MappingHexagonal
)

func (m Mapping) String() string {
	if m == MappingHexagonal {
		return "hex"
	}
	return "square"
}

// ParseMapping parses "square" or "hex"/"hexagonal".
func ParseMapping(s string) (Mapping, error) {
	switch s {
	case "square", "":
		return MappingSquare, nil
	case "hex", "hexagonal":
		return MappingHexagonal, nil
	default:
		return MappingSquare, fmt.Errorf("unknown mapping %q: must be 'square' or 'hex'", s)
	}
}

// HexGridRatio is the horizontal spacing of a pointy-top hex grid with unit row height.
var HexGridRatio = math.Sqrt(3) / 2

// WhiteNoiseMap returns a width x height map of uniform values in [0,1),
// indexed [x][y]. Values are drawn row by row.
func WhiteNoiseMap(seed int64, width, height int) [][]float64 {
	m := newMap(width, height)
	rng := rand.New(rand.NewSource(seed))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m[x][y] = rng.Float64()
		}
	}

	return m
}

// SimplexMap2D samples fractal noise over a grid centred on the origin,
// indexed [x][y]. A hexagonal mapping compresses columns and indents every
// even row by half a column.
func SimplexMap2D(seed int64, width, height int, mapping Mapping, s Settings) ([][]float64, error) {
	f, err := NewFilter(seed, s)
	if err != nil {
		return nil, err
	}
	return SampleMap(f, width, height, mapping), nil
}

// SampleMap samples an existing filter over a grid, see SimplexMap2D.
func SampleMap(f *Filter, width, height int, mapping Mapping) [][]float64 {
	m := newMap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf, yf := GridPoint(x, y, width, height, mapping)
			m[x][y] = f.Evaluate(r3.Vec{X: xf, Y: yf})
		}
	}

	return m
}

// GridPoint returns the sample position of cell (x, y) in a width x height
// grid centred on the origin.
func GridPoint(x, y, width, height int, mapping Mapping) (float64, float64) {
	xStep := 1.0
	if mapping == MappingHexagonal {
		xStep = HexGridRatio
	}

	xf := (float64(x) - float64(width)*0.5) * xStep
	yf := float64(y) - float64(height)*0.5

	if mapping == MappingHexagonal && y%2 == 0 {
		xf += xStep * 0.5
	}

	return xf, yf
}

func newMap(width, height int) [][]float64 {
	m := make([][]float64, width)
	for x := range m {
		m[x] = make([]float64, height)
	}
	return m
}
