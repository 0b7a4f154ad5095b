package campaign

import (
	"math/rand"
	"time"
)

const hourWindow = time.Hour

// Limiter tracks the trailing-hour send window and the time of the last
// send. It never sleeps: DelayBeforeNextSend is a pure decision given
// the current time, the caller owns the actual wait.
type Limiter struct {
	policy Policy
	rng    *rand.Rand

	lastSend time.Time
	window   []time.Time
}

func NewLimiter(p Policy, seed int64) *Limiter {
	return &Limiter{
		policy: p,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// DelayBeforeNextSend returns how long the caller must pause before the
// next send. Zero before the first send of the campaign; otherwise a
// uniform draw from [MinDelay, MaxDelay], extended when the trailing
// hour already holds MaxPerHour sends so that the oldest entry has aged
// out by the time the send happens.
func (l *Limiter) DelayBeforeNextSend(now time.Time) time.Duration {
	l.evict(now)

	var delay time.Duration
	if !l.lastSend.IsZero() {
		delay = l.jitter()
	}

	if len(l.window) >= l.policy.MaxPerHour {
		untilFree := l.window[0].Add(hourWindow).Sub(now)
		if untilFree > delay {
			delay = untilFree
		}
	}
	return delay
}

// RecordSend marks a send (real or simulated) at the given time.
func (l *Limiter) RecordSend(now time.Time) {
	l.evict(now)
	l.window = append(l.window, now)
	l.lastSend = now
}

// InWindow reports how many sends currently count toward the hourly cap.
func (l *Limiter) InWindow(now time.Time) int {
	l.evict(now)
	return len(l.window)
}

func (l *Limiter) jitter() time.Duration {
	min, max := l.policy.MinDelay, l.policy.MaxDelay
	if max <= min {
		return min
	}
	return min + time.Duration(l.rng.Float64()*float64(max-min))
}

func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-hourWindow)
	i := 0
	for i < len(l.window) && !l.window[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.window = append(l.window[:0], l.window[i:]...)
	}
}
