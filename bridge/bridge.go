// Package bridge is the firmware of the PS/2-to-Apple keyboard interface:
// the boot handshake with the keyboard, the scan-code decode loop, the
// translation table, the parallel-port output driver and the watchdog that
// backstops the lot.
package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gtac2/ps2apple/apple"
	"github.com/gtac2/ps2apple/ps2"
)

const (
	selfTestWait = time.Second
	ledWalkDwell = 200 * time.Millisecond
)

// Bridge ties the PS/2 port to the Apple port and runs the firmware's
// superloop. One goroutine calls Run; everything else may only use the
// read-side accessors.
type Bridge struct {
	port *ps2.Port
	out  output
	wdog *Watchdog

	decMu sync.Mutex
	dec   Decoder

	speedup  int
	resetReq atomic.Bool
	resets   atomic.Int64

	quit chan struct{}
	once sync.Once
}

// New wires a bridge to its two ports. Speedup divides every firmware
// delay; zero skips them.
func New(port *ps2.Port, out *apple.Port, speedup int) *Bridge {
	b := &Bridge{
		port:    port,
		out:     output{port: out, speedup: speedup},
		speedup: speedup,
		quit:    make(chan struct{}),
	}
	b.port.Speedup = speedup
	b.wdog = NewWatchdog(WatchdogTimeout, func() {
		b.resetReq.Store(true)
	})
	return b
}

// Boot runs the power-on sequence: wait out the keyboard's self test, walk
// the lock LEDs, slow the typematic right down, force scan code set 1 so no
// set-2 translation is ever needed, and leave the Caps LED lit as a power
// indicator. Command failures are logged and skipped; a keyboard that is
// really dead is caught by the watchdog once the loop is running.
func (b *Bridge) Boot() {
	ps2.Sleep(selfTestWait, b.speedup)

	b.ledWalk()

	if rsp, err := b.port.SetTypematic(ps2.Typematic1s2Hz); err != nil {
		fmt.Printf("keyboard: typematic setup failed: %v\n", err)
	} else if rsp != ps2.RspAck {
		fmt.Printf("keyboard: typematic setup refused (%02x)\n", rsp)
	}

	if rsp, err := b.port.SelectScanCodeSet(1); err != nil {
		fmt.Printf("keyboard: scan code set 1 failed: %v\n", err)
	} else if rsp != ps2.RspAck {
		fmt.Printf("keyboard: scan code set 1 refused (%02x)\n", rsp)
	}

	b.setLEDs(ps2.LEDCaps)

	b.wdog.Arm()
	b.port.EnableInterrupts()
}

// ledWalk lights Scroll, Caps, Num, Caps, Scroll in turn. It doubles as a
// visible check that the keyboard answers commands at all.
func (b *Bridge) ledWalk() {
	for _, led := range []byte{ps2.LEDScroll, ps2.LEDCaps, ps2.LEDNum, ps2.LEDCaps, ps2.LEDScroll} {
		b.setLEDs(led)
		ps2.Sleep(ledWalkDwell, b.speedup)
		b.setLEDs(0)
	}
}

func (b *Bridge) setLEDs(state byte) {
	if rsp, err := b.port.SetLEDs(state); err != nil {
		fmt.Printf("keyboard: LED command failed: %v\n", err)
	} else if rsp != ps2.RspAck {
		fmt.Printf("keyboard: LED command refused (%02x)\n", rsp)
	}
}

// Run boots the firmware and spins the superloop: kick the watchdog, poll
// the ring, feed the decoder, drive the Apple port. A latched link fault is
// logged and cleared here rather than left to wedge the receiver. A
// watchdog expiry tears the loop down and boots again, the simulation's
// version of the hardware reset.
func (b *Bridge) Run() {
	for {
		select {
		case <-b.quit:
			return
		default:
		}

		b.Boot()
		b.resetReq.Store(false)

		for !b.resetReq.Load() {
			select {
			case <-b.quit:
				b.wdog.Disarm()
				return
			default:
			}

			b.wdog.Kick()

			if sc, ok := b.port.Poll(); ok {
				b.decMu.Lock()
				code, mods, emit := b.dec.Feed(sc)
				b.decMu.Unlock()
				if emit {
					b.out.emit(xlate[mods][code])
				}
				continue
			}

			if err := b.port.LinkErr(); err != nil {
				fmt.Printf("ps2: link fault: %v; receiver reset\n", err)
				b.port.ClearLinkErr()
			}

			time.Sleep(200 * time.Microsecond)
		}

		b.wdog.Disarm()
		b.resets.Add(1)
		fmt.Printf("watchdog reset, rebooting\n")

		b.decMu.Lock()
		b.dec.Reset()
		b.decMu.Unlock()
		// drop whatever the link buffered before the reset, or the next
		// boot would read stale scan codes as command replies
		b.port.Reset()
	}
}

// Stop shuts the firmware goroutine down.
func (b *Bridge) Stop() {
	b.once.Do(func() { close(b.quit) })
}

// Modifiers reports the decoder's modifier byte, for the debug console.
func (b *Bridge) Modifiers() byte {
	b.decMu.Lock()
	defer b.decMu.Unlock()
	return b.dec.Modifiers()
}

// Resets reports how many watchdog resets have happened.
func (b *Bridge) Resets() int64 { return b.resets.Load() }
