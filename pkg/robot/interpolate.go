package robot

import (
	"fmt"
	"iter"
)

// Interpolate returns a lazy sequence of exactly steps vectors moving linearly
// from start to target. Vector i (1-based) is start + (target-start)*i/steps,
// except the last which is a copy of target, so no drift can accumulate.
//
// Arguments are validated before the sequence is returned. Every yielded
// vector is a fresh slice the caller may keep.
func Interpolate(start, target Vector, steps int) (iter.Seq[Vector], error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps must be >= 1, got %d", ErrInvalidArgument, steps)
	}
	if err := start.check(target); err != nil {
		return nil, err
	}

	from := start.Clone()
	to := target.Clone()

	return func(yield func(Vector) bool) {
		for i := 1; i < steps; i++ {
			alpha := float64(i) / float64(steps)
			v := make(Vector, len(from))
			for j := range from {
				v[j] = from[j] + (to[j]-from[j])*alpha
			}
			if !yield(v) {
				return
			}
		}
		yield(to.Clone())
	}, nil
}
