// Package config loads and saves the planet document: the radius, masking
// and noise layers that make up a planet's shape.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/MeKo-Tech/planetgen/internal/curve"
	"github.com/MeKo-Tech/planetgen/internal/noise"
	"github.com/MeKo-Tech/planetgen/internal/shape"
)

// Key is the top-level config key holding the planet document.
const Key = "planet"

// Curve is a response curve stored as parallel key times and values.
type Curve struct {
	Times  []float64 `mapstructure:"times" yaml:"times"`
	Values []float64 `mapstructure:"values" yaml:"values"`
}

// Noise mirrors noise.Settings. Absent fields take the single-octave
// defaults; fields that are present, zero included, are validated as given.
type Noise struct {
	Dimensions  *int     `mapstructure:"dimensions" yaml:"dimensions,omitempty"`
	Octaves     *int     `mapstructure:"octaves" yaml:"octaves,omitempty"`
	Scale       *float64 `mapstructure:"scale" yaml:"scale,omitempty"`
	Persistence *float64 `mapstructure:"persistence" yaml:"persistence,omitempty"`
	Lacunarity  *float64 `mapstructure:"lacunarity" yaml:"lacunarity,omitempty"`
}

// Layer mirrors shape.Layer.
type Layer struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	Seed     int64   `mapstructure:"seed" yaml:"seed"`
	Strength float64 `mapstructure:"strength" yaml:"strength"`
	Curve    *Curve  `mapstructure:"curve" yaml:"curve,omitempty"`
	Noise    Noise   `mapstructure:"noise" yaml:"noise"`
	Ridged   bool    `mapstructure:"ridged" yaml:"ridged"`
	Hidden   bool    `mapstructure:"hidden" yaml:"hidden"`
}

// Planet is the serialized form of shape.Settings.
type Planet struct {
	Radius              float64 `mapstructure:"radius" yaml:"radius"`
	UseFirstLayerAsMask bool    `mapstructure:"use_first_layer_as_mask" yaml:"use_first_layer_as_mask"`
	MaskCurve           *Curve  `mapstructure:"mask_curve" yaml:"mask_curve,omitempty"`
	Layers              []Layer `mapstructure:"layers" yaml:"layers"`
}

type document struct {
	Planet Planet `yaml:"planet"`
}

// Default returns the document form of shape.DefaultSettings.
func Default() Planet {
	return FromShape(shape.DefaultSettings())
}

// FromShape converts shape settings into their document form. Curves that
// are not key-framed cannot be stored and are left out.
func FromShape(s shape.Settings) Planet {
	p := Planet{
		Radius:              s.Radius,
		UseFirstLayerAsMask: s.UseFirstLayerAsMask,
		MaskCurve:           fromCurve(s.MaskCurve),
		Layers:              make([]Layer, len(s.Layers)),
	}

	for i, l := range s.Layers {
		p.Layers[i] = Layer{
			Name:     l.Name,
			Seed:     l.Seed,
			Strength: l.Strength,
			Curve:    fromCurve(l.Curve),
			Noise:    fromNoise(l.Noise),
			Ridged: l.Ridged,
			Hidden: l.Hidden,
		}
	}

	return p
}

func fromNoise(s noise.Settings) Noise {
	dims := int(s.Dimensions)
	return Noise{
		Dimensions:  &dims,
		Octaves:     &s.Octaves,
		Scale:       &s.Scale,
		Persistence: &s.Persistence,
		Lacunarity:  &s.Lacunarity,
	}
}

func fromCurve(c curve.Curve) *Curve {
	k, ok := c.(*curve.Keyed)
	if !ok || k == nil {
		return nil
	}
	times, values := k.Samples()
	return &Curve{Times: times, Values: values}
}

// ToShape converts the document into shape settings and validates them.
func (p Planet) ToShape() (shape.Settings, error) {
	s := shape.Settings{
		Radius:              p.Radius,
		UseFirstLayerAsMask: p.UseFirstLayerAsMask,
		Layers:              make([]shape.Layer, len(p.Layers)),
	}

	var err error
	if s.MaskCurve, err = p.MaskCurve.build(); err != nil {
		return shape.Settings{}, fmt.Errorf("mask curve: %w", err)
	}

	for i, l := range p.Layers {
		c, err := l.Curve.build()
		if err != nil {
			return shape.Settings{}, fmt.Errorf("layer %d (%s) curve: %w", i, l.Name, err)
		}

		s.Layers[i] = shape.Layer{
			Name:     l.Name,
			Seed:     l.Seed,
			Strength: l.Strength,
			Curve:    c,
			Noise:    l.Noise.settings(),
			Ridged:   l.Ridged,
			Hidden:   l.Hidden,
		}
	}

	if err := s.Validate(); err != nil {
		return shape.Settings{}, err
	}
	return s, nil
}

// Validate reports whether the document describes a buildable planet.
func (p Planet) Validate() error {
	_, err := p.ToShape()
	return err
}

// build returns nil for a missing curve so that shape applies its default.
func (c *Curve) build() (curve.Curve, error) {
	if c == nil {
		return nil, nil
	}
	k, err := curve.FromSamples(c.Times, c.Values)
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (n Noise) settings() noise.Settings {
	s := noise.DefaultSettings(noise.Dim3D)
	if n.Dimensions != nil {
		s.Dimensions = noise.Dimensions(*n.Dimensions)
	}
	if n.Octaves != nil {
		s.Octaves = *n.Octaves
	}
	if n.Scale != nil {
		s.Scale = *n.Scale
	}
	if n.Persistence != nil {
		s.Persistence = *n.Persistence
	}
	if n.Lacunarity != nil {
		s.Lacunarity = *n.Lacunarity
	}
	return s
}

// Load decodes the planet document from v. Without a planet key the default
// planet is returned.
func Load(v *viper.Viper) (Planet, error) {
	if !v.IsSet(Key) {
		return Default(), nil
	}

	p := Planet{Radius: shape.DefaultRadius}
	if err := v.UnmarshalKey(Key, &p); err != nil {
		return Planet{}, fmt.Errorf("failed to decode %s config: %w", Key, err)
	}
	if err := p.Validate(); err != nil {
		return Planet{}, fmt.Errorf("invalid %s config: %w", Key, err)
	}
	return p, nil
}

// Parse decodes a YAML document containing a planet key.
func Parse(data []byte) (Planet, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Planet{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return Load(v)
}

// Marshal encodes p as a YAML document under the planet key.
func Marshal(p Planet) ([]byte, error) {
	data, err := yaml.Marshal(document{Planet: p})
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// WriteFile saves p to path. An existing file is only replaced when force is set.
func WriteFile(path string, p Planet, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := Marshal(p)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
