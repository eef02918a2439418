package countries

import (
	"math"
	"math/rand"
	"time"
)

func ExponentialBackoff(attempt int) time.Duration {
	base := 500 * time.Millisecond

	capDelay := 30 * time.Second
	// attempt=0 => 500ms
	// attempt=1 => 1s
	// attempt=2 => 2s

	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(base) * multiple)

	if delay > capDelay || delay <= 0 {
		delay = capDelay
	}

	// small jitter (0–250ms) so replicas don't retry in lockstep
	delay += time.Duration(rand.Intn(250)) * time.Millisecond
	return delay
}
