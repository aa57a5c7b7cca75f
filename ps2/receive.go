package ps2

import "errors"

// Link-layer faults. The receiver latches the first one it hits and ignores
// further clock edges until it is reset.
var (
	ErrStartBit = errors.New("ps2: bad start bit")
	ErrOverrun  = errors.New("ps2: receive buffer overrun")
	ErrParity   = errors.New("ps2: parity error")
	ErrStopBit  = errors.New("ps2: bad stop bit")
)

type rxState int

const (
	rxIdle rxState = iota
	rxDataBits
	rxParity
	rxStop
	rxErrStart
	rxErrOverrun
	rxErrParity
	rxErrStop
)

var rxStateNames = map[rxState]string{
	rxIdle:       "idle",
	rxDataBits:   "data",
	rxParity:     "parity",
	rxStop:       "stop",
	rxErrStart:   "err:start",
	rxErrOverrun: "err:overrun",
	rxErrParity:  "err:parity",
	rxErrStop:    "err:stop",
}

func (s rxState) String() string { return rxStateNames[s] }

// Receiver assembles device-to-host frames one falling clock edge at a time:
// start bit, eight data bits LSB first, odd parity, stop bit. Completed bytes
// go into the ring. A framing fault moves it into the matching error state,
// where fall() is a no-op: the error states have no outgoing transitions and
// only Reset leaves them.
type Receiver struct {
	state  rxState
	data   byte
	bits   int
	parity int
	ring   *Ring
}

// fall consumes the data-line level sampled at a falling clock edge.
func (r *Receiver) fall(bit byte) {
	switch r.state {
	case rxErrStart, rxErrOverrun, rxErrParity, rxErrStop:
		// latched; foreground clears

	case rxIdle:
		if bit == 0 {
			r.data = 0
			r.bits = 0
			r.parity = 0
			r.state = rxDataBits
		} else {
			r.state = rxErrStart
		}

	case rxDataBits:
		r.parity += int(bit)
		r.data |= bit << r.bits
		r.bits++
		if r.bits == 8 {
			r.state = rxParity
		}

	case rxParity:
		if (r.parity+int(bit))&1 == 1 {
			r.state = rxStop
		} else {
			r.state = rxErrParity
		}

	case rxStop:
		if bit != 1 {
			r.state = rxErrStop
			break
		}
		if r.ring.TryEnqueue(r.data) {
			r.state = rxIdle
		} else {
			r.state = rxErrOverrun
		}
	}
}

// Reset returns the receiver to idle with cleared counters. The transmit
// path calls it, under the bus lock, before driving any edges of its own;
// the main loop calls it to clear a latched fault.
func (r *Receiver) Reset() {
	r.state = rxIdle
	r.data = 0
	r.bits = 0
	r.parity = 0
}

// Err reports the latched fault, or nil.
func (r *Receiver) Err() error {
	switch r.state {
	case rxErrStart:
		return ErrStartBit
	case rxErrOverrun:
		return ErrOverrun
	case rxErrParity:
		return ErrParity
	case rxErrStop:
		return ErrStopBit
	}
	return nil
}

func (r *Receiver) State() string { return r.state.String() }
