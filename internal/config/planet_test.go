package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/planetgen/internal/curve"
	"github.com/MeKo-Tech/planetgen/internal/noise"
	"github.com/MeKo-Tech/planetgen/internal/shape"
)

func TestDefaultMatchesShapeDefaults(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())

	assert.Equal(t, shape.DefaultRadius, p.Radius)
	assert.True(t, p.UseFirstLayerAsMask)
	require.NotNil(t, p.MaskCurve)
	assert.Equal(t, []float64{1, 1}, p.MaskCurve.Values)

	require.Len(t, p.Layers, 1)
	assert.Equal(t, "Base Layer", p.Layers[0].Name)
	require.NotNil(t, p.Layers[0].Noise.Dimensions)
	assert.Equal(t, 3, *p.Layers[0].Noise.Dimensions)
	require.NotNil(t, p.Layers[0].Curve)
	assert.Equal(t, []float64{0, 1}, p.Layers[0].Curve.Values)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	p := Default()
	p.Layers = append(p.Layers, Layer{
		Name:     "Mountains",
		Seed:     99,
		Strength: 0.4,
		Curve:    &Curve{Times: []float64{0, 0.5, 1}, Values: []float64{0, 0.2, 1}},
		Noise:    Noise{Dimensions: ptr(3), Octaves: ptr(5), Scale: ptr(0.8), Persistence: ptr(0.45), Lacunarity: ptr(2.2)},
		Ridged:   true,
	})

	data, err := Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "planet:")
	assert.Contains(t, string(data), "use_first_layer_as_mask: true")

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParsePartialDocument(t *testing.T) {
	doc := []byte(`
planet:
  radius: 12
  layers:
    - name: continents
      seed: 7
      strength: 0.5
      noise:
        octaves: 4
        persistence: 0.5
        lacunarity: 2
`)

	p, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, 12.0, p.Radius)
	assert.False(t, p.UseFirstLayerAsMask)
	assert.Nil(t, p.MaskCurve)
	require.Len(t, p.Layers, 1)
	assert.Nil(t, p.Layers[0].Curve)

	s, err := p.ToShape()
	require.NoError(t, err)
	assert.Nil(t, s.MaskCurve)
	assert.Nil(t, s.Layers[0].Curve)
	assert.Equal(t, noise.Settings{Dimensions: noise.Dim3D, Octaves: 4, Scale: 1, Persistence: 0.5, Lacunarity: 2}, s.Layers[0].Noise)
	assert.Equal(t, int64(7), s.Layers[0].Seed)
}

func TestParseWithoutPlanetKey(t *testing.T) {
	p, err := Parse([]byte("generate:\n  workers: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero radius", "planet:\n  radius: 0\n"},
		{"negative octaves", "planet:\n  layers:\n    - noise:\n        octaves: -1\n"},
		{"bad dimensions", "planet:\n  layers:\n    - noise:\n        dimensions: 4\n"},
		{"curve length mismatch", "planet:\n  mask_curve:\n    times: [0, 1]\n    values: [1]\n"},
		{"unsorted curve", "planet:\n  layers:\n    - curve:\n        times: [1, 0]\n        values: [0, 1]\n"},
		{"empty curve", "planet:\n  mask_curve:\n    times: []\n    values: []\n"},
		{"zero octaves", "planet:\n  layers:\n    - noise:\n        octaves: 0\n"},
		{"zero scale", "planet:\n  layers:\n    - noise:\n        scale: 0\n"},
		{"zero persistence", "planet:\n  layers:\n    - noise:\n        persistence: 0\n"},
		{"zero lacunarity", "planet:\n  layers:\n    - noise:\n        lacunarity: 0\n"},
		{"zero dimensions", "planet:\n  layers:\n    - noise:\n        dimensions: 0\n"},
		{"all noise fields zero", "planet:\n  layers:\n    - noise: {dimensions: 3, octaves: 0, scale: 0, persistence: 0, lacunarity: 0}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestExplicitZeroNoiseFieldsAreNotDefaulted(t *testing.T) {
	_, err := Parse([]byte("planet:\n  layers:\n    - noise:\n        persistence: 0\n"))
	require.ErrorIs(t, err, noise.ErrInvalidSettings)
	assert.Contains(t, err.Error(), "persistence")

	n := Noise{Octaves: ptr(0)}
	assert.Equal(t, 0, n.settings().Octaves)

	n = Noise{}
	assert.Equal(t, noise.DefaultSettings(noise.Dim3D), n.settings())
}

func ptr[T any](v T) *T {
	return &v
}

func TestHiddenLayerSkipsValidation(t *testing.T) {
	p := Default()
	p.Layers[0].Hidden = true
	p.Layers[0].Noise.Octaves = ptr(-3)
	require.NoError(t, p.Validate())
}

func TestToShapeBuildsCurves(t *testing.T) {
	p := Default()
	p.Layers[0].Curve = &Curve{Times: []float64{0, 1}, Values: []float64{1, 0}}

	s, err := p.ToShape()
	require.NoError(t, err)
	require.NotNil(t, s.Layers[0].Curve)
	assert.InDelta(t, 0.75, s.Layers[0].Curve.Evaluate(0.25), 1e-12)
	assert.InDelta(t, 1.0, s.MaskCurve.Evaluate(0.3), 1e-12)

	_, err = shape.New(s, nil)
	require.NoError(t, err)
}

func TestToShapeReportsCurveErrors(t *testing.T) {
	p := Default()
	p.MaskCurve = &Curve{Times: []float64{0}, Values: nil}

	_, err := p.ToShape()
	require.ErrorIs(t, err, curve.ErrLengthMismatch)
}

func TestFromShapeDropsUnkeyedCurves(t *testing.T) {
	s := shape.DefaultSettings()
	s.MaskCurve = curve.Func(func(t float64) float64 { return t })

	p := FromShape(s)
	assert.Nil(t, p.MaskCurve)
	assert.NotNil(t, p.Layers[0].Curve)
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("planet.radius", 30.0)
	v.Set("planet.layers", []map[string]any{
		{"name": "a", "strength": 0.2, "noise": map[string]any{"octaves": 2}},
	})

	p, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 30.0, p.Radius)
	require.Len(t, p.Layers, 1)
	assert.Equal(t, "a", p.Layers[0].Name)
	require.NotNil(t, p.Layers[0].Noise.Octaves)
	assert.Equal(t, 2, *p.Layers[0].Noise.Octaves)
	assert.Nil(t, p.Layers[0].Noise.Scale)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "planet.yaml")

	require.NoError(t, WriteFile(path, Default(), false))

	err := WriteFile(path, Default(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteFile(path, Default(), true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}
