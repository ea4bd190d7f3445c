// Package shape turns points on the unit sphere into displaced planet surface
// points by combining several layers of fractal noise.
package shape

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/planetgen/internal/curve"
	"github.com/MeKo-Tech/planetgen/internal/noise"
)

// ErrInvalidRadius is returned when the base radius is not positive.
var ErrInvalidRadius = errors.New("radius must be positive")

// DefaultRadius is the base radius of a freshly created planet.
const DefaultRadius = 50.0

// Layer is one independently configured source of noise.
type Layer struct {
	Name     string
	Seed     int64
	Strength float64
	// Curve remaps the layer's raw noise value. Nil means identity.
	Curve  curve.Curve
	Noise  noise.Settings
	Ridged bool
	Hidden bool
}

// DefaultLayer returns a visible full-strength 3D layer with an identity curve.
func DefaultLayer() Layer {
	return Layer{
		Name:     "Base Layer",
		Strength: 1,
		Curve:    curve.Identity,
		Noise:    noise.DefaultSettings(noise.Dim3D),
	}
}

// Settings describes the full shape of a planet.
type Settings struct {
	Radius              float64
	UseFirstLayerAsMask bool
	// MaskCurve remaps the first layer's value before it scales later layers.
	// Nil means a constant mask of 1.
	MaskCurve curve.Curve
	Layers    []Layer
}

// DefaultSettings returns radius 50 with one default layer and masking on.
func DefaultSettings() Settings {
	return Settings{
		Radius:              DefaultRadius,
		UseFirstLayerAsMask: true,
		MaskCurve:           curve.Constant(0, 1, 1),
		Layers:              []Layer{DefaultLayer()},
	}
}

// Validate checks the radius and every visible layer's noise settings.
func (s Settings) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidRadius, s.Radius)
	}
	for i, l := range s.Layers {
		if l.Hidden {
			continue
		}
		if err := l.Noise.Validate(); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, l.Name, err)
		}
	}
	return nil
}

// MaxRadius returns the farthest any surface point can lie from the centre,
// assuming every visible layer peaks at the same place.
func (s Settings) MaxRadius() float64 {
	r := s.Radius
	for _, l := range s.Layers {
		if !l.Hidden {
			r += s.Radius * clampStrength(l.Strength)
		}
	}
	return r
}

func clampStrength(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
