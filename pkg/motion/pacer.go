package motion

import (
	"context"
	"time"
)

// Pacer paces the player between writes. On hardware it sleeps; in a
// simulator it advances the physics instead.
type Pacer interface {
	// Step is called after every write with duration/steps. It is not
	// cancellable so an actuator is never left mid-segment.
	Step(interval time.Duration)

	// Pause holds the current command for d. It returns early with the
	// context error when ctx is cancelled.
	Pause(ctx context.Context, d time.Duration) error
}

// WallClock paces with real sleeps.
type WallClock struct{}

func (WallClock) Step(interval time.Duration) {
	if interval > 0 {
		time.Sleep(interval)
	}
}

func (WallClock) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoWait never waits. It is used for dry runs and tests.
type NoWait struct{}

func (NoWait) Step(time.Duration) {}

func (NoWait) Pause(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
