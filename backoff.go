package entsoe

import "time"

// Backoff returns how long to wait before retry attempt k. Attempts are
// numbered from 1: the delay before the first retry is Backoff(1).
type Backoff func(attempt int) time.Duration

// ExponentialBackoff doubles base on every attempt, capped at max:
// base, 2*base, 4*base, and so on. No jitter is applied.
func ExponentialBackoff(base, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= max {
				return max
			}
		}
		if d > max {
			return max
		}
		return d
	}
}

// ConstantBackoff waits the same delay before every retry.
func ConstantBackoff(delay time.Duration) Backoff {
	return func(int) time.Duration { return delay }
}

func defaultBackoff() Backoff {
	return ExponentialBackoff(time.Second, 64*time.Second)
}
