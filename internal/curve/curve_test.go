package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedEvaluate(t *testing.T) {
	c, err := New(Key{0, 0}, Key{0.5, 1}, Key{1, 0.5})
	require.NoError(t, err)

	tests := []struct {
		t    float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.75},
		{1, 0.5},
		{3, 0.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, c.Evaluate(tt.t), 1e-12, "t=%v", tt.t)
	}
}

func TestLinearAndConstant(t *testing.T) {
	assert.InDelta(t, 0.3, Identity.Evaluate(0.3), 1e-12)
	assert.Equal(t, 0.0, Identity.Evaluate(-2))
	assert.Equal(t, 1.0, Identity.Evaluate(2))

	c := Constant(0, 1, 1)
	for _, x := range []float64{-1, 0, 0.4, 1, 5} {
		assert.Equal(t, 1.0, c.Evaluate(x))
	}

	l := Linear(0, 1, 2, 0)
	assert.InDelta(t, 0.5, l.Evaluate(1), 1e-12)
}

func TestSingleKey(t *testing.T) {
	c, err := New(Key{Time: 0.5, Value: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.2, c.Evaluate(0))
	assert.Equal(t, 0.2, c.Evaluate(1))
}

func TestNewErrors(t *testing.T) {
	_, err := New()
	require.ErrorIs(t, err, ErrNoKeys)

	_, err = New(Key{0, 0}, Key{0, 1})
	require.ErrorIs(t, err, ErrUnsortedKeys)

	_, err = New(Key{1, 0}, Key{0.5, 1})
	require.ErrorIs(t, err, ErrUnsortedKeys)
}

func TestFromSamples(t *testing.T) {
	c, err := FromSamples([]float64{0, 1}, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, c.Evaluate(0.25), 1e-12)

	times, values := c.Samples()
	assert.Equal(t, []float64{0, 1}, times)
	assert.Equal(t, []float64{1, 0}, values)

	_, err = FromSamples([]float64{0, 0.5, 1}, []float64{0, 1})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromSamples(nil, nil)
	require.ErrorIs(t, err, ErrNoKeys)
}

func TestKeysReturnsCopy(t *testing.T) {
	c := Linear(0, 0, 1, 1)
	keys := c.Keys()
	keys[0].Value = 9
	assert.Equal(t, 0.0, c.Evaluate(0))
}

func TestFunc(t *testing.T) {
	var c Curve = Func(func(t float64) float64 { return t * t })
	assert.Equal(t, 0.25, c.Evaluate(0.5))
}
