// Package curve provides key-framed response curves that remap a unit-range
// scalar, such as a noise sample, onto another unit-range scalar.
package curve

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoKeys is returned when a curve is built without any keyframes.
	ErrNoKeys = errors.New("curve has no keys")
	// ErrLengthMismatch is returned when sampled times and values differ in length.
	ErrLengthMismatch = errors.New("curve times and values must be the same length")
	// ErrUnsortedKeys is returned when key times are not strictly increasing.
	ErrUnsortedKeys = errors.New("curve key times must be strictly increasing")
)

// Curve maps t to a response value.
type Curve interface {
	Evaluate(t float64) float64
}

// Func adapts an ordinary function to a Curve.
type Func func(t float64) float64

// Evaluate calls f(t).
func (f Func) Evaluate(t float64) float64 { return f(t) }

// Key is a single keyframe.
type Key struct {
	Time  float64
	Value float64
}

// Keyed is a piecewise-linear curve through a set of keys. Outside the key
// range it clamps to the first or last value.
type Keyed struct {
	keys []Key
}

// Identity maps every t in [0,1] onto itself.
var Identity Curve = Linear(0, 0, 1, 1)

// New builds a curve from keys ordered by strictly increasing time.
func New(keys ...Key) (*Keyed, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for i := 1; i < len(keys); i++ {
		if !(keys[i].Time > keys[i-1].Time) {
			return nil, fmt.Errorf("%w: key %d at %g follows %g", ErrUnsortedKeys, i, keys[i].Time, keys[i-1].Time)
		}
	}

	k := make([]Key, len(keys))
	copy(k, keys)
	return &Keyed{keys: k}, nil
}

// FromSamples builds a curve from parallel time and value slices.
func FromSamples(times, values []float64) (*Keyed, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(times), len(values))
	}

	keys := make([]Key, len(times))
	for i := range times {
		keys[i] = Key{Time: times[i], Value: values[i]}
	}
	return New(keys...)
}

// Linear returns a straight line from (t0,v0) to (t1,v1).
func Linear(t0, v0, t1, v1 float64) *Keyed {
	return &Keyed{keys: []Key{{t0, v0}, {t1, v1}}}
}

// Constant returns a flat curve of value v between t0 and t1.
func Constant(t0, t1, v float64) *Keyed {
	return Linear(t0, v, t1, v)
}

// Keys returns a copy of the curve's keyframes.
func (c *Keyed) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Samples splits the keyframes into parallel time and value slices.
func (c *Keyed) Samples() (times, values []float64) {
	times = make([]float64, len(c.keys))
	values = make([]float64, len(c.keys))
	for i, k := range c.keys {
		times[i] = k.Time
		values[i] = k.Value
	}
	return times, values
}

func (c *Keyed) Evaluate(t float64) float64 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}

	first, last := c.keys[0], c.keys[n-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// Index of the first key strictly after t; never 0 or n here.
	i := sort.Search(n, func(i int) bool { return c.keys[i].Time > t })
	a, b := c.keys[i-1], c.keys[i]

	f := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*f
}
