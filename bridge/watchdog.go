package bridge

import (
	"sync"
	"time"
)

// WatchdogTimeout matches the 500ms hardware watchdog. It runs on the wall
// clock whatever the speedup, since it guards the simulation's own liveness.
const WatchdogTimeout = 500 * time.Millisecond

// Watchdog resets the machine when the main loop stops kicking it. It is
// armed once boot has finished a known-good keyboard handshake.
type Watchdog struct {
	mu      sync.Mutex
	timer   *time.Timer
	period  time.Duration
	expire  func()
	armed   bool
	expired bool
}

func NewWatchdog(period time.Duration, onExpire func()) *Watchdog {
	return &Watchdog{period: period, expire: onExpire}
}

// Arm starts the countdown.
func (w *Watchdog) Arm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed {
		return
	}
	w.armed = true
	w.expired = false
	w.timer = time.AfterFunc(w.period, w.fire)
}

// Kick restarts the countdown.
func (w *Watchdog) Kick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed && !w.expired {
		w.timer.Reset(w.period)
	}
}

// Disarm stops the countdown, as the reset path does before rebooting.
func (w *Watchdog) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed {
		w.timer.Stop()
		w.armed = false
	}
}

func (w *Watchdog) fire() {
	w.mu.Lock()
	if !w.armed {
		w.mu.Unlock()
		return
	}
	w.expired = true
	fn := w.expire
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Expired reports whether the watchdog has fired since it was last armed.
func (w *Watchdog) Expired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expired
}
