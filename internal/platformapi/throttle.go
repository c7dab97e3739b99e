package platformapi

import (
	"sync"
	"time"
)

const (
	throttleMaxFailures = 5
	throttleCooldown    = 30 * time.Second
)

// loginThrottle soft-locks login locally after repeated failures. It exists
// to stop a user hammering the form, not to slow an attacker: the counter
// lives in this process only and resets on restart.
type loginThrottle struct {
	mu       sync.Mutex
	failures int
	lockedAt time.Time
	now      func() time.Time
}

func newLoginThrottle(now func() time.Time) *loginThrottle {
	if now == nil {
		now = time.Now
	}
	return &loginThrottle{now: now}
}

// allow reports whether a login attempt may proceed, and when not, how long
// the cooldown still has to run.
func (t *loginThrottle) allow() (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failures < throttleMaxFailures {
		return true, 0
	}

	elapsed := t.now().Sub(t.lockedAt)
	if elapsed >= throttleCooldown {
		t.failures = 0
		t.lockedAt = time.Time{}
		return true, 0
	}

	return false, throttleCooldown - elapsed
}

func (t *loginThrottle) recordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures++
	if t.failures == throttleMaxFailures {
		t.lockedAt = t.now()
	}
}

func (t *loginThrottle) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures = 0
	t.lockedAt = time.Time{}
}
