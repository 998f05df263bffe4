package sim

import (
	"context"
	"time"
)

// Pacer advances the world instead of sleeping: one physics step per
// interpolation step, and as many steps as fit in a pause.
type Pacer struct {
	World *World
}

func (p Pacer) Step(time.Duration) {
	p.World.Step()
}

func (p Pacer) Pause(ctx context.Context, d time.Duration) error {
	n := int((d + p.World.Dt()/2) / p.World.Dt())
	for range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.World.Step()
	}
	return ctx.Err()
}
