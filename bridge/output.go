package bridge

import (
	"time"

	"github.com/gtac2/ps2apple/apple"
	"github.com/gtac2/ps2apple/ps2"
)

const (
	settleTime = 8 * time.Millisecond
	strobeTime = 2 * time.Microsecond
)

// output drives the Apple's parallel port: latch the translated code, let
// it settle, pulse the strobe. A kbNA cell leaves the previous latch on the
// bus but still strobes, exactly as the original board does.
type output struct {
	port    *apple.Port
	speedup int
}

func (o *output) emit(v byte) {
	if v > 0x80 {
		o.port.Write(v)
	}
	ps2.Sleep(settleTime, o.speedup)
	o.port.StrobeLow()
	ps2.Sleep(strobeTime, o.speedup)
	o.port.StrobeHigh()
}
