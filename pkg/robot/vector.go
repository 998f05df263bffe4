package robot

import (
	"fmt"
	"math"
	"strings"
)

// Vector holds one angle (degrees) per joint, indexed by layout position.
type Vector []float64

// Clone returns a copy of the vector.
func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}

func (v Vector) check(o Vector) error {
	if len(v) != len(o) {
		return fmt.Errorf("%w: %d vs %d joints", ErrDimensionMismatch, len(v), len(o))
	}
	return nil
}

// Add returns v + o elementwise.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := v.check(o); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out, nil
}

// Sub returns v - o elementwise.
func (v Vector) Sub(o Vector) (Vector, error) {
	if err := v.check(o); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out, nil
}

// Mul returns v * o elementwise.
func (v Vector) Mul(o Vector) (Vector, error) {
	if err := v.check(o); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * o[i]
	}
	return out, nil
}

// Equal reports whether both vectors have the same length and every element
// differs by at most tol.
func (v Vector) Equal(o Vector, tol float64) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, a := range v {
		parts[i] = fmt.Sprintf("%.2f", a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
