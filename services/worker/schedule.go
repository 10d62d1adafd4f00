package worker

import (
	"context"
	"math/rand/v2"
	"time"
)

// Schedule is the pause between two ticks: Base plus a whole number of
// seconds drawn uniformly from [JitterMin, JitterMax], never below Base/2.
type Schedule struct {
	Base      time.Duration
	JitterMin time.Duration
	JitterMax time.Duration
}

// Next draws the next pause
func (s Schedule) Next(rnd *rand.Rand) time.Duration {
	jitter := s.JitterMin
	if span := s.JitterMax - s.JitterMin; span > 0 {
		n := int64(span / time.Second)
		jitter += time.Duration(rnd.Int64N(n+1)) * time.Second
	}

	d := s.Base + jitter
	if floor := s.Base / 2; d < floor {
		d = floor
	}
	return d
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
