// Package preview renders grayscale images of noise maps, planet elevation
// and generated meshes for quick visual inspection.
package preview

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MeKo-Tech/planetgen/internal/noise"
)

// Engine selects the noise source of a noise map.
type Engine string

const (
	// EngineSimplex is the planet generator's own fractal simplex noise.
	EngineSimplex Engine = "simplex"
	// EnginePerlin is classic Perlin noise, for side-by-side comparison.
	EnginePerlin Engine = "perlin"
	// EngineOpenSimplex is OpenSimplex noise with the same fractal layering.
	EngineOpenSimplex Engine = "opensimplex"
	// EngineWhite is uniform white noise; fractal settings are ignored.
	EngineWhite Engine = "white"
)

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case EngineSimplex, EnginePerlin, EngineOpenSimplex, EngineWhite:
		return e, nil
	case "":
		return EngineSimplex, nil
	default:
		return "", fmt.Errorf("unknown noise engine %q: must be simplex, perlin, opensimplex or white", s)
	}
}

// NoiseMap samples width x height values in roughly [0,1], indexed [x][y].
// Every engine shares the grid layout of noise.GridPoint so that maps from
// different engines line up.
func NoiseMap(engine Engine, seed int64, width, height int, mapping noise.Mapping, s noise.Settings) ([][]float64, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("map size must be positive, got %dx%d", width, height)
	}

	switch engine {
	case EngineWhite:
		return noise.WhiteNoiseMap(seed, width, height), nil
	case EngineSimplex, "":
		return noise.SimplexMap2D(seed, width, height, mapping, s)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	var sample func(x, y float64) float64
	switch engine {
	case EnginePerlin:
		// go-perlin divides each octave by alpha and multiplies its
		// frequency by beta.
		p := perlin.NewPerlin(1/s.Persistence, s.Lacunarity, int32(s.Octaves), seed)
		sample = func(x, y float64) float64 {
			return clamp01((p.Noise2D(x/s.Scale, y/s.Scale) + 1) * 0.5)
		}
	case EngineOpenSimplex:
		o := opensimplex.NewNormalized(seed)
		sample = func(x, y float64) float64 {
			return fractal(s, func(f float64) float64 { return o.Eval2(x*f, y*f) })
		}
	default:
		return nil, fmt.Errorf("unknown noise engine %q", engine)
	}

	m := make([][]float64, width)
	for x := range m {
		m[x] = make([]float64, height)
		for y := range m[x] {
			px, py := noise.GridPoint(x, y, width, height, mapping)
			m[x][y] = sample(px, py)
		}
	}

	return m, nil
}

// fractal layers octaves the same way noise.Filter does, without offsets.
func fractal(s noise.Settings, at func(frequency float64) float64) float64 {
	sample, maxValue := 0.0, 0.0
	amplitude, frequency := 1.0, 1.0

	for i := 0; i < s.Octaves; i++ {
		sample += at(frequency/s.Scale) * amplitude
		maxValue += amplitude
		amplitude *= s.Persistence
		frequency *= s.Lacunarity
	}

	return sample / maxValue
}

// Elevator reports the distance from the planet centre in a given direction.
type Elevator interface {
	Elevation(p r3.Vec) float64
}

// ElevationMap samples e over a grid of unit-sphere directions and rescales
// elevations from [minRadius, maxRadius] to [0,1].
func ElevationMap(e Elevator, grid [][]r3.Vec, minRadius, maxRadius float64) [][]float64 {
	span := maxRadius - minRadius
	m := make([][]float64, len(grid))

	for x := range grid {
		m[x] = make([]float64, len(grid[x]))
		for y, p := range grid[x] {
			v := e.Elevation(p)
			if span > 0 {
				v = (v - minRadius) / span
			} else {
				v = 0
			}
			m[x][y] = clamp01(v)
		}
	}

	return m
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
