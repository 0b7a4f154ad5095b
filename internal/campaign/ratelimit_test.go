package campaign

import (
	"testing"
	"time"
)

func testPolicy(min, max time.Duration, perHour int) Policy {
	return Policy{MinDelay: min, MaxDelay: max, MaxPerHour: perHour, DryRunConsumesQuota: true}
}

func TestLimiter_FirstSendHasNoDelay(t *testing.T) {
	l := NewLimiter(testPolicy(30*time.Second, 60*time.Second, 50), 1)
	if d := l.DelayBeforeNextSend(time.Now()); d != 0 {
		t.Fatalf("first send delay=%v, want 0", d)
	}
}

func TestLimiter_JitterWithinBounds(t *testing.T) {
	min, max := 5*time.Second, 9*time.Second
	l := NewLimiter(testPolicy(min, max, 1000), 42)
	now := time.Unix(1_700_000_000, 0)
	l.RecordSend(now)

	for i := 0; i < 200; i++ {
		now = now.Add(time.Minute)
		d := l.DelayBeforeNextSend(now)
		if d < min || d > max {
			t.Fatalf("iteration %d: delay %v outside [%v, %v]", i, d, min, max)
		}
		l.RecordSend(now)
	}
}

func TestLimiter_ZeroJitterRange(t *testing.T) {
	l := NewLimiter(testPolicy(0, 0, 1000), 7)
	now := time.Unix(1_700_000_000, 0)
	l.RecordSend(now)
	if d := l.DelayBeforeNextSend(now.Add(time.Second)); d != 0 {
		t.Fatalf("delay=%v, want 0 with min=max=0", d)
	}
}

func TestLimiter_HourlyCapExtendsDelay(t *testing.T) {
	const k = 5
	l := NewLimiter(testPolicy(0, 0, k), 3)
	base := time.Unix(1_700_000_000, 0)

	// k sends spaced one minute apart fill the window.
	now := base
	for i := 0; i < k; i++ {
		if d := l.DelayBeforeNextSend(now); d != 0 {
			t.Fatalf("send %d: unexpected delay %v", i, d)
		}
		l.RecordSend(now)
		now = now.Add(time.Minute)
	}

	// The (k+1)th send must wait until the first entry ages out.
	d := l.DelayBeforeNextSend(now)
	wantAtLeast := base.Add(time.Hour).Sub(now)
	if d < wantAtLeast {
		t.Fatalf("cap-bound delay %v, want >= %v", d, wantAtLeast)
	}
}

func TestLimiter_WindowEviction(t *testing.T) {
	l := NewLimiter(testPolicy(0, 0, 2), 9)
	base := time.Unix(1_700_000_000, 0)

	l.RecordSend(base)
	l.RecordSend(base.Add(time.Minute))

	if got := l.InWindow(base.Add(2 * time.Minute)); got != 2 {
		t.Fatalf("window=%d, want 2", got)
	}
	// 61 minutes later both entries have aged out.
	later := base.Add(61 * time.Minute)
	if got := l.InWindow(later); got != 0 {
		t.Fatalf("window=%d after expiry, want 0", got)
	}
	if d := l.DelayBeforeNextSend(later); d != 0 {
		t.Fatalf("delay=%v after window expiry, want 0", d)
	}
}

func TestLimiter_CapDelayClearsAfterWait(t *testing.T) {
	l := NewLimiter(testPolicy(0, 0, 1), 11)
	base := time.Unix(1_700_000_000, 0)

	l.RecordSend(base)
	d := l.DelayBeforeNextSend(base.Add(time.Minute))
	if d != 59*time.Minute {
		t.Fatalf("delay=%v, want 59m", d)
	}
	// After waiting out the delay the send is admitted immediately.
	if d := l.DelayBeforeNextSend(base.Add(time.Minute + d)); d != 0 {
		t.Fatalf("post-wait delay=%v, want 0", d)
	}
}
