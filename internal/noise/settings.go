// Package noise implements seeded simplex noise in one, two and three
// dimensions together with fractal (multi-octave) and ridged composition.
package noise

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidSettings is returned when noise settings fall outside their allowed ranges.
var ErrInvalidSettings = errors.New("invalid noise settings")

// Dimensions selects which simplex sampler a filter uses.
type Dimensions int

const (
	// Dim1D samples along X.
	Dim1D Dimensions = 1
	// Dim2D samples in the XY plane.
	Dim2D Dimensions = 2
	// Dim3D samples the full point.
	Dim3D Dimensions = 3
)

// String returns "1d", "2d" or "3d".
func (d Dimensions) String() string {
	switch d {
	case Dim1D:
		return "1d"
	case Dim2D:
		return "2d"
	case Dim3D:
		return "3d"
	default:
		return fmt.Sprintf("Dimensions(%d)", int(d))
	}
}

// Valid reports whether d is one of the supported dimensionalities.
func (d Dimensions) Valid() bool {
	return d >= Dim1D && d <= Dim3D
}

const (
	MinPersistence = 0.001
	MaxPersistence = 1.0
)

// Settings configures fractal noise generation.
type Settings struct {
	Dimensions Dimensions
	// Octaves is how many layers of noise are summed (>= 1).
	Octaves int
	// Scale zooms the noise; larger values are more zoomed in (> 0).
	Scale float64
	// Persistence is the amplitude multiplier between octaves, in [0.001, 1].
	Persistence float64
	// Lacunarity is the frequency multiplier between octaves (>= 1).
	Lacunarity float64
}

// DefaultSettings returns a single-octave configuration for the given dimensionality.
func DefaultSettings(d Dimensions) Settings {
	return Settings{
		Dimensions:  d,
		Octaves:     1,
		Scale:       1,
		Persistence: 1,
		Lacunarity:  1,
	}
}

// Validate checks every field against its allowed range.
func (s Settings) Validate() error {
	if !s.Dimensions.Valid() {
		return fmt.Errorf("%w: dimensions must be 1, 2 or 3, got %d", ErrInvalidSettings, int(s.Dimensions))
	}
	if s.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidSettings, s.Octaves)
	}
	if !(s.Scale > 0) {
		return fmt.Errorf("%w: scale must be > 0, got %g", ErrInvalidSettings, s.Scale)
	}
	if !(s.Persistence >= MinPersistence && s.Persistence <= MaxPersistence) {
		return fmt.Errorf("%w: persistence must be within [%g,%g], got %g", ErrInvalidSettings, MinPersistence, MaxPersistence, s.Persistence)
	}
	if !(s.Lacunarity >= 1) {
		return fmt.Errorf("%w: lacunarity must be >= 1, got %g", ErrInvalidSettings, s.Lacunarity)
	}
	return nil
}

// Sampler evaluates raw (single octave) noise at a point.
type Sampler interface {
	Sample(p r3.Vec) float64
}

// Simplex1D samples along the X axis only.
type Simplex1D struct{}

// Sample returns Sample1D(p.X).
func (Simplex1D) Sample(p r3.Vec) float64 { return Sample1D(p.X) }

// Simplex2D samples in the XY plane.
type Simplex2D struct{}

// Sample returns Sample2D(p.X, p.Y).
func (Simplex2D) Sample(p r3.Vec) float64 { return Sample2D(p.X, p.Y) }

// Simplex3D samples in full 3D space.
type Simplex3D struct{}

// Sample returns Sample3D(p.X, p.Y, p.Z).
func (Simplex3D) Sample(p r3.Vec) float64 { return Sample3D(p.X, p.Y, p.Z) }

// SamplerFor returns the sampler matching d. Unknown values fall back to 2D.
func SamplerFor(d Dimensions) Sampler {
	switch d {
	case Dim1D:
		return Simplex1D{}
	case Dim3D:
		return Simplex3D{}
	default:
		return Simplex2D{}
	}
}
