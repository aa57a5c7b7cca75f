package bridge

// Modifier flags. The value doubles as the row index into the translation
// table.
const (
	ModCtrl  byte = 1 << 0
	ModShift byte = 1 << 1
)

type decodeState int

const (
	decNormal decodeState = iota
	decAwaitE0
	decAwaitE1Second
	decAwaitE1Third
)

// Decoder digests the set-1 scan stream one byte at a time: multibyte
// escapes, modifier make/break tracking, and the filtering that shrinks any
// keyboard down to the 83-key baseline the Apple side can use. It never
// blocks, so the main loop keeps the watchdog kicked across the gaps inside
// a multibyte sequence.
type Decoder struct {
	state decodeState
	mods  byte
}

// Feed consumes one byte. When a key event survives escape handling,
// modifier tracking and filtering, it returns the scan code (1..57, after
// remapping) and the modifier row to translate it with.
func (d *Decoder) Feed(b byte) (int, byte, bool) {
	switch d.state {
	case decAwaitE1Second:
		// Pause/Break: E1 1D .. and E1 9D .. have one more byte to
		// swallow; anything else is not the Pause sequence after all
		if b == 0x1D || b == 0x9D {
			d.state = decAwaitE1Third
			return 0, 0, false
		}
		// an ordinary code, not a fresh escape: E1 E1 1D must not
		// rematch the Pause sequence
		d.state = decNormal
		return d.classify(b)

	case decAwaitE1Third:
		d.state = decNormal
		return 0, 0, false

	case decAwaitE0:
		d.state = decNormal
		switch b {
		case 0x1D, 0x9D:
			// right Ctrl behaves as left Ctrl
			return d.classify(b)
		case 0x4B:
			// keypad left
			return d.classify(55)
		case 0x4D:
			// keypad right
			return d.classify(56)
		default:
			// everything else behind E0, PrintScreen pairs and the
			// break codes included, is discarded outright
			return 0, 0, false
		}
	}

	switch b {
	case 0xE1:
		d.state = decAwaitE1Second
		return 0, 0, false
	case 0xE0:
		d.state = decAwaitE0
		return 0, 0, false
	}
	return d.classify(b)
}

func (d *Decoder) classify(b byte) (int, byte, bool) {
	// modifier keys update state and never reach the table
	switch b {
	case 0x1D:
		d.mods |= ModCtrl
		return 0, 0, false
	case 0x9D:
		d.mods &^= ModCtrl
		return 0, 0, false
	case 0x2A, 0x36:
		d.mods |= ModShift
		return 0, 0, false
	case 0xAA, 0xB6:
		d.mods &^= ModShift
		return 0, 0, false
	}

	// keys with no Apple equivalent, and everything from the lock/function
	// block up, break codes included
	switch b {
	case 14, 15, 26, 27, 40, 41, 43:
		return 0, 0, false
	}
	if b == 0 || b >= 58 {
		return 0, 0, false
	}

	return int(b), d.mods, true
}

// Modifiers reports the current modifier byte.
func (d *Decoder) Modifiers() byte { return d.mods }

// Reset returns the decoder to its boot state.
func (d *Decoder) Reset() {
	d.state = decNormal
	d.mods = 0
}
