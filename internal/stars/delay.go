package stars

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delay is waited on before every uncached fetch to spread requests out
// and stay clear of the unauthenticated rate limit.
type Delay interface {
	Wait(ctx context.Context) error
}

// RandomDelay sleeps for a duration drawn uniformly from [Min, Max].
type RandomDelay struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelay is the pause used unless configured otherwise.
var DefaultDelay = RandomDelay{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond}

// Duration draws the next pause.
func (d RandomDelay) Duration() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min+1)
}

func (d RandomDelay) Wait(ctx context.Context) error {
	dur := d.Duration()
	if dur <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
