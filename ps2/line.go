package ps2

import (
	"errors"
	"sync"
	"time"
)

// Driver identifies which end of the link is driving a line. The clock and
// data wires are shared between the bridge microcontroller and the keyboard;
// each end gets its own open-collector output onto the same wire.
type Driver int

const (
	Host   Driver = iota // the bridge microcontroller
	Device               // the keyboard
	numDrivers
)

// ErrLinkTimeout is returned by the line waits when the other end never
// produces the expected transition. On the real board the same situation is a
// hung busy-wait loop that only the watchdog can break.
var ErrLinkTimeout = errors.New("ps2: timed out waiting for link transition")

// wire is one open-drain line with a pull-up: it reads high unless some
// driver is holding it low. writes counts Drive calls per driver, whether or
// not the level changed; both ends use the counters to order bit exchanges
// that on real hardware are ordered by the bit period.
type wire struct {
	low    [numDrivers]bool
	writes [numDrivers]uint64
}

func (w *wire) high() bool {
	return !(w.low[Host] || w.low[Device])
}

// Bus is the two-wire PS/2 link. All level changes and waits go through one
// lock, and clock-edge listeners run under that lock: while a listener (the
// receive interrupt) is executing, no other goroutine can move a line.
type Bus struct {
	mu      sync.Mutex
	clock   wire
	data    wire
	changed chan struct{}

	// called on every clock level change, with the lock held
	edge []func(clockHigh, dataHigh bool)
}

func NewBus() *Bus {
	return &Bus{changed: make(chan struct{})}
}

// OnClockEdge registers a listener invoked on every clock transition, rising
// and falling, with the bus lock held. Listeners must not touch the bus.
func (b *Bus) OnClockEdge(fn func(clockHigh, dataHigh bool)) {
	b.mu.Lock()
	b.edge = append(b.edge, fn)
	b.mu.Unlock()
}

// Exclusive runs fn under the bus lock. Any in-flight clock listener has
// completed before fn starts, and none can start until fn returns. This is
// the simulation's cli/sei critical section.
func (b *Bus) Exclusive(fn func()) {
	b.mu.Lock()
	fn()
	b.mu.Unlock()
}

func (b *Bus) drive(w *wire, d Driver, low bool, isClock bool) {
	b.mu.Lock()
	wasHigh := w.high()
	w.low[d] = low
	w.writes[d]++
	if isClock && wasHigh != w.high() {
		for _, fn := range b.edge {
			fn(w.high(), b.data.high())
		}
	}
	close(b.changed)
	b.changed = make(chan struct{})
	b.mu.Unlock()
}

// DriveClock holds the clock line low (low=true) or releases it.
func (b *Bus) DriveClock(d Driver, low bool) { b.drive(&b.clock, d, low, true) }

// DriveData holds the data line low (low=true) or releases it.
func (b *Bus) DriveData(d Driver, low bool) { b.drive(&b.data, d, low, false) }

func (b *Bus) ClockHigh() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clock.high()
}

func (b *Bus) DataHigh() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.high()
}

// DataWrites returns how many times the given driver has written the data
// line, whether or not the level changed.
func (b *Bus) DataWrites(d Driver) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.writes[d]
}

// ClockWrites returns how many times the given driver has written the clock
// line, whether or not the level changed.
func (b *Bus) ClockWrites(d Driver) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clock.writes[d]
}

// Changed returns a channel that is closed on the next line activity of any
// kind. Callers snapshot it, check their condition, and block on it.
func (b *Bus) Changed() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changed
}

func (b *Bus) wait(timeout time.Duration, pred func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		if pred() {
			b.mu.Unlock()
			return nil
		}
		ch := b.changed
		b.mu.Unlock()

		remain := time.Until(deadline)
		if remain <= 0 {
			return ErrLinkTimeout
		}
		t := time.NewTimer(remain)
		select {
		case <-ch:
			t.Stop()
		case <-t.C:
			// one more look before giving up
			b.mu.Lock()
			ok := pred()
			b.mu.Unlock()
			if ok {
				return nil
			}
			return ErrLinkTimeout
		}
	}
}

// WaitClock blocks until the clock line is at the wanted level.
func (b *Bus) WaitClock(high bool, timeout time.Duration) error {
	return b.wait(timeout, func() bool { return b.clock.high() == high })
}

// WaitData blocks until the data line is at the wanted level.
func (b *Bus) WaitData(high bool, timeout time.Duration) error {
	return b.wait(timeout, func() bool { return b.data.high() == high })
}

// WaitDataWrite blocks until the given driver has written the data line more
// than n times. The keyboard model uses it while clocking a host frame in:
// the host puts each bit on the wire after the falling edge, and on real
// hardware the keyboard samples half a bit period later.
func (b *Bus) WaitDataWrite(d Driver, n uint64, timeout time.Duration) error {
	return b.wait(timeout, func() bool { return b.data.writes[d] > n })
}

// WaitClockWrite blocks until the given driver has written the clock line
// more than n times. The transmit path counts the keyboard's clock pulses
// this way instead of polling levels: a pulse narrower than a scheduling
// gap would be missed by a level check.
func (b *Bus) WaitClockWrite(d Driver, n uint64, timeout time.Duration) error {
	return b.wait(timeout, func() bool { return b.clock.writes[d] > n })
}

// Sleep pauses for d scaled down by the speedup factor. Zero or negative
// speedup skips delays entirely (turbo, tests).
func Sleep(d time.Duration, speedup int) {
	if speedup <= 0 {
		return
	}
	time.Sleep(d / time.Duration(speedup))
}
