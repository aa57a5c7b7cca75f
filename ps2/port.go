package ps2

import (
	"errors"
	"time"
)

// ErrNoAck is returned by Send when the keyboard leaves the data line high
// where its acknowledge bit should be.
var ErrNoAck = errors.New("ps2: no acknowledge from keyboard")

// ErrNoData is returned by Wait when no byte arrives in time.
var ErrNoData = errors.New("ps2: no data from keyboard")

const (
	inhibitTime = 100 * time.Microsecond
	quietTime   = 20 * time.Millisecond

	// wall-clock floor under the inhibit, never scaled: a keyboard frame
	// already past its inhibit check must have aborted before the transmit
	// baselines the clock write counter
	inhibitFloor = 5 * time.Millisecond

	// how long a busy-wait on a clock edge may run before the transmit is
	// abandoned; on the real board a dead keyboard hangs these loops until
	// the watchdog fires
	edgeTimeout = time.Second

	// foreground wait for a command response
	replyTimeout = 3 * time.Second
)

// Port is the microcontroller's side of the PS/2 link: the clock-edge
// interrupt feeding the receiver, the ring buffer shared with the foreground
// loop, and the bit-banged transmit path. Speedup scales the fixed delays;
// zero skips them.
type Port struct {
	bus     *Bus
	ring    Ring
	rx      Receiver
	irq     bool // guarded by the bus lock
	Speedup int
}

func NewPort(bus *Bus) *Port {
	p := &Port{bus: bus, Speedup: 1}
	p.rx.ring = &p.ring
	bus.OnClockEdge(func(clockHigh, dataHigh bool) {
		// pin-change interrupt: fires on both edges, acts on falling only
		if clockHigh || !p.irq {
			return
		}
		var bit byte
		if dataHigh {
			bit = 1
		}
		p.rx.fall(bit)
	})
	return p
}

// EnableInterrupts opens the clock-edge interrupt. Boot calls it once all
// devices are initialised; Send re-enables it after a transmit.
func (p *Port) EnableInterrupts() {
	p.bus.Exclusive(func() { p.irq = true })
}

// Poll returns the next received byte without blocking. The dequeue runs
// under the bus lock so it cannot race the clock-edge listener, or a debug
// console snapshotting the buffer from another goroutine.
func (p *Port) Poll() (byte, bool) {
	var b byte
	var ok bool
	p.bus.Exclusive(func() { b, ok = p.ring.TryDequeue() })
	return b, ok
}

// Wait blocks until a byte arrives or the reply timeout passes. Only the
// boot-time command layer uses it; the decode path never blocks.
func (p *Port) Wait() (byte, error) {
	deadline := time.Now().Add(replyTimeout)
	for {
		if b, ok := p.Poll(); ok {
			return b, nil
		}
		if time.Now().After(deadline) {
			return 0, ErrNoData
		}
		ch := p.bus.Changed()
		if b, ok := p.Poll(); ok {
			return b, nil
		}
		t := time.NewTimer(time.Until(deadline))
		select {
		case <-ch:
			t.Stop()
		case <-t.C:
		}
	}
}

// Send transmits one byte to the keyboard:
//
//	1. wait for any frame in flight to reach its stop bit
//	2. hold clock low (inhibit) past 100us and past a keyboard bit period
//	3. hold data low (start bit), release clock; the keyboard clocks from
//	   here on
//	4. on each falling edge put the next bit on data: 8 data bits LSB
//	   first, odd parity, stop (1)
//	5. release data; the keyboard pulses the clock once more with data
//	   held low as its acknowledge
//	6. re-enable the receive interrupt and hold off 20ms
//
// The keyboard's clock pulses are tracked with the bus write counter rather
// than by level: the counter is baselined while the inhibit still blocks the
// keyboard, so a trailing edge from an earlier frame cannot be mistaken for
// the first bit of this one, and a pulse is never missed however narrow it
// is. The receive interrupt is masked and the receiver reset before step 2,
// so the handshake's edges cannot be mistaken for an incoming frame.
func (p *Port) Send(b byte) error {
	// receive whatever is still on the wire before claiming it
	if err := p.bus.WaitClock(true, edgeTimeout); err != nil {
		return err
	}

	p.bus.Exclusive(func() {
		p.irq = false
		p.rx.Reset()
	})

	p.bus.DriveClock(Host, true)
	time.Sleep(inhibitFloor)
	Sleep(inhibitTime, p.Speedup)

	p.bus.DriveData(Host, true)
	devClocks := p.bus.ClockWrites(Device)
	p.bus.DriveClock(Host, false)

	parity := 1
	v := b
	for i := 0; i < 10; i++ {
		var bit byte
		switch {
		case i < 8:
			bit = v & 1
			v >>= 1
			parity += int(bit)
		case i == 8:
			bit = byte(parity) & 1
		default:
			bit = 1
		}

		// falling edge, then put the bit on the wire
		if err := p.bus.WaitClockWrite(Device, devClocks, edgeTimeout); err != nil {
			return p.abortSend(err)
		}
		devClocks++
		p.bus.DriveData(Host, bit == 0)
		// rising edge: the keyboard has sampled
		if err := p.bus.WaitClockWrite(Device, devClocks, edgeTimeout); err != nil {
			return p.abortSend(err)
		}
		devClocks++
	}

	p.bus.DriveData(Host, false)

	if err := p.bus.WaitClockWrite(Device, devClocks, edgeTimeout); err != nil {
		return p.abortSend(err)
	}
	devClocks++
	acked := !p.bus.DataHigh()
	if err := p.bus.WaitClockWrite(Device, devClocks, edgeTimeout); err != nil {
		return p.abortSend(err)
	}

	p.EnableInterrupts()
	Sleep(quietTime, p.Speedup)

	if !acked {
		return ErrNoAck
	}
	return nil
}

func (p *Port) abortSend(err error) error {
	p.bus.DriveData(Host, false)
	p.bus.DriveClock(Host, false)
	p.EnableInterrupts()
	return err
}

// LinkErr reports a latched receive fault, or nil.
func (p *Port) LinkErr() error {
	var err error
	p.bus.Exclusive(func() { err = p.rx.Err() })
	return err
}

// ClearLinkErr resets the receiver out of a latched fault state.
func (p *Port) ClearLinkErr() {
	p.bus.Exclusive(func() { p.rx.Reset() })
}

// Reset returns the receive path to its power-on state: interrupt masked,
// receiver idle, ring empty. The firmware calls it on a watchdog reboot so
// that scan codes buffered before the reset are not read back as command
// replies by the next boot.
func (p *Port) Reset() {
	p.bus.Exclusive(func() {
		p.irq = false
		p.rx.Reset()
		for {
			if _, ok := p.ring.TryDequeue(); !ok {
				break
			}
		}
	})
}

// LinkState names the receiver's current state, for the debug console.
func (p *Port) LinkState() string {
	var s string
	p.bus.Exclusive(func() { s = p.rx.State() })
	return s
}

// Buffered returns the undelivered bytes in arrival order. The snapshot is
// taken under the bus lock so the debug console can call it while the
// firmware loop is draining the ring.
func (p *Port) Buffered() []byte {
	var out []byte
	p.bus.Exclusive(func() { out = p.ring.Snapshot() })
	return out
}
