package worker

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleJitterBounds(t *testing.T) {
	s := Schedule{Base: 60 * time.Second, JitterMin: -5 * time.Second, JitterMax: 8 * time.Second}
	rnd := rand.New(rand.NewPCG(42, 7))

	seen := make(map[time.Duration]bool)
	for i := 0; i < 1000; i++ {
		d := s.Next(rnd)
		assert.GreaterOrEqual(t, d, 30*time.Second)
		assert.LessOrEqual(t, d, 68*time.Second)
		assert.GreaterOrEqual(t, d, 55*time.Second)
		assert.Zero(t, d%time.Second)
		seen[d] = true
	}
	// 14 possible values, 1000 draws
	assert.Len(t, seen, 14)
}

func TestScheduleFloor(t *testing.T) {
	s := Schedule{Base: 10 * time.Second, JitterMin: -9 * time.Second, JitterMax: -7 * time.Second}
	rnd := rand.New(rand.NewPCG(1, 1))

	for i := 0; i < 100; i++ {
		assert.Equal(t, 5*time.Second, s.Next(rnd))
	}
}

func TestScheduleWithoutJitter(t *testing.T) {
	s := Schedule{Base: time.Minute}
	assert.Equal(t, time.Minute, s.Next(rand.New(rand.NewPCG(1, 1))))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
