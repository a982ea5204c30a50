package backend

import (
	"sync"
	"time"
)

// throttle spaces directory rescans so a burst of filesystem events costs a
// single listing per interval.
type throttle struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	t := &throttle{now: time.Now, sleep: time.Sleep}
	if interval > 0 {
		t.interval = interval
	}
	return t
}

// wait blocks until at least interval has passed since the previous wait
// returned.
func (t *throttle) wait() {
	if t == nil || t.interval <= 0 {
		return
	}
	for {
		t.mu.Lock()
		now := t.now()
		pause := t.next.Sub(now)
		if pause <= 0 {
			t.next = now.Add(t.interval)
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		t.sleep(min(pause, t.interval))
	}
}
