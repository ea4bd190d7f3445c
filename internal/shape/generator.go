package shape

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MeKo-Tech/planetgen/internal/curve"
	"github.com/MeKo-Tech/planetgen/internal/noise"
)

// Generator evaluates the shape of a planet. It is read-only after New and
// may be shared between goroutines.
type Generator struct {
	radius    float64
	mask      bool
	maskCurve curve.Curve
	layers    []layer
}

type layer struct {
	filter   *noise.Filter // nil when hidden
	curve    curve.Curve
	strength float64
}

// New builds one noise filter per visible layer. Hidden layers keep their
// slot so that layer 0 is always the first configured layer.
func New(s Settings, logger *slog.Logger) (*Generator, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape settings: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		radius:    s.Radius,
		mask:      s.UseFirstLayerAsMask && len(s.Layers) > 0 && !s.Layers[0].Hidden,
		maskCurve: s.MaskCurve,
		layers:    make([]layer, len(s.Layers)),
	}
	if g.maskCurve == nil {
		g.maskCurve = curve.Constant(0, 1, 1)
	}

	for i, l := range s.Layers {
		if l.Hidden {
			logger.Debug("Skipping hidden noise layer", "layer", i, "name", l.Name)
			continue
		}

		var (
			f   *noise.Filter
			err error
		)
		if l.Ridged {
			f, err = noise.NewRidgedFilter(l.Seed, l.Noise)
		} else {
			f, err = noise.NewFilter(l.Seed, l.Noise)
		}
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, l.Name, err)
		}

		c := l.Curve
		if c == nil {
			c = curve.Identity
		}

		g.layers[i] = layer{filter: f, curve: c, strength: clampStrength(l.Strength)}
		logger.Debug("Prepared noise layer",
			"layer", i,
			"name", l.Name,
			"seed", l.Seed,
			"dimensions", l.Noise.Dimensions.String(),
			"octaves", l.Noise.Octaves,
			"ridged", l.Ridged,
			"strength", g.layers[i].strength)
	}

	return g, nil
}

// Radius returns the base radius.
func (g *Generator) Radius() float64 {
	return g.radius
}

// Evaluate displaces a unit-sphere point radially by the combined layer noise.
func (g *Generator) Evaluate(p r3.Vec) r3.Vec {
	return r3.Scale(g.radius*(1+g.noise(p)), p)
}

// Elevation returns the distance from the centre of the displaced point.
func (g *Generator) Elevation(p r3.Vec) float64 {
	return r3.Norm(g.Evaluate(p))
}

func (g *Generator) noise(p r3.Vec) float64 {
	total := 0.0
	base := 0.0

	for i, l := range g.layers {
		if l.filter == nil {
			continue
		}

		v := l.curve.Evaluate(l.filter.Evaluate(p))
		if i == 0 {
			base = v
		} else if g.mask {
			v *= g.maskCurve.Evaluate(base)
		}

		total += v * l.strength
	}

	return total
}
