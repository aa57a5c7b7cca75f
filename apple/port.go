// Package apple models the Apple II side of the bridge: the 8-bit parallel
// keyboard port the firmware drives, and a 40x24 text screen standing in for
// the machine that would be reading it.
package apple

import "sync"

// StrobeBit is bit 7 of the port: the active-low strobe. The other seven
// bits carry the character code, which the host latches on the strobe's
// falling edge.
const StrobeBit byte = 0x80

// Port is the parallel keyboard port. The firmware owns the writes; the
// host end sees only the strobe edge and the seven data bits.
type Port struct {
	mu       sync.Mutex
	value    byte
	consumer func(code byte)
}

// NewPort returns a port at its idle state: data bits clear, strobe high.
func NewPort() *Port {
	return &Port{value: StrobeBit}
}

// SetConsumer registers the host-side latch listener. The consumer runs on
// the firmware goroutine during the strobe pulse.
func (p *Port) SetConsumer(fn func(code byte)) {
	p.mu.Lock()
	p.consumer = fn
	p.mu.Unlock()
}

// Write latches all eight bits.
func (p *Port) Write(b byte) {
	p.mu.Lock()
	p.value = b
	p.mu.Unlock()
}

// StrobeLow drives the strobe bit low. The host latches the seven data bits
// on this edge.
func (p *Port) StrobeLow() {
	p.mu.Lock()
	p.value &^= StrobeBit
	fn := p.consumer
	code := p.value & 0x7F
	p.mu.Unlock()
	if fn != nil {
		fn(code)
	}
}

// StrobeHigh returns the strobe bit to its idle level.
func (p *Port) StrobeHigh() {
	p.mu.Lock()
	p.value |= StrobeBit
	p.mu.Unlock()
}

// Value reads back the latched port byte, strobe bit included.
func (p *Port) Value() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}
