package noise

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// offsetRange bounds each offset component to [-offsetRange, offsetRange).
const offsetRange = 1000

// Filter evaluates fractal noise: several octaves of simplex noise, each at a
// higher frequency and lower amplitude, pushed apart by seeded offsets.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	settings Settings
	sampler  Sampler
	post     func(float64) float64
	offsets  []r3.Vec
}

// NewFilter creates a standard fractal noise filter.
func NewFilter(seed int64, s Settings) (*Filter, error) {
	return newFilter(seed, s, nil)
}

// NewRidgedFilter creates a fractal filter whose octaves are folded into
// sharp ridges before being accumulated.
func NewRidgedFilter(seed int64, s Settings) (*Filter, error) {
	return newFilter(seed, s, Ridge)
}

func newFilter(seed int64, s Settings, post func(float64) float64) (*Filter, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create noise filter: %w", err)
	}

	return &Filter{
		settings: s,
		sampler:  SamplerFor(s.Dimensions),
		post:     post,
		offsets:  generateOffsets(seed, s),
	}, nil
}

// Settings returns the settings the filter was built from.
func (f *Filter) Settings() Settings {
	return f.settings
}

// Evaluate returns the normalized fractal noise value at point, roughly in [0,1].
func (f *Filter) Evaluate(point r3.Vec) float64 {
	sample := 0.0
	maxValue := 0.0
	amplitude := 1.0
	frequency := 1.0

	for i := 0; i < f.settings.Octaves; i++ {
		input := r3.Add(r3.Scale(frequency/f.settings.Scale, point), f.offsets[i])

		v := f.sampler.Sample(input)
		if f.post != nil {
			v = f.post(v)
		}

		sample += v * amplitude

		// maxValue tracks the largest possible sum for normalization.
		maxValue += amplitude
		amplitude *= f.settings.Persistence
		frequency *= f.settings.Lacunarity
	}

	return sample / maxValue
}

// Ridge folds a [0,1] sample into a ridge: remap to [-1,1], invert the
// absolute value, then square to sharpen.
func Ridge(v float64) float64 {
	v = v*2 - 1
	v = 1 - math.Abs(v)
	return v * v
}

// generateOffsets draws one offset per octave. Only the components used by the
// configured dimensionality are drawn, in x, y, z order.
func generateOffsets(seed int64, s Settings) []r3.Vec {
	rng := rand.New(rand.NewSource(seed))
	offsets := make([]r3.Vec, s.Octaves)

	for i := range offsets {
		var o r3.Vec
		o.X = float64(rng.Intn(2*offsetRange) - offsetRange)
		if s.Dimensions >= Dim2D {
			o.Y = float64(rng.Intn(2*offsetRange) - offsetRange)
		}
		if s.Dimensions == Dim3D {
			o.Z = float64(rng.Intn(2*offsetRange) - offsetRange)
		}
		offsets[i] = o
	}

	return offsets
}
