package ps2

import "testing"

// feedFrame clocks an 11-bit frame into the receiver. parity and stop can be
// forced wrong to provoke the fault states.
func feedFrame(r *Receiver, b byte, goodParity, goodStop bool) {
	r.fall(0) // start bit

	parity := 1
	for i := 0; i < 8; i++ {
		bit := (b >> i) & 1
		parity += int(bit)
		r.fall(bit)
	}

	p := byte(parity) & 1
	if !goodParity {
		p ^= 1
	}
	r.fall(p)

	stop := byte(1)
	if !goodStop {
		stop = 0
	}
	r.fall(stop)
}

func TestReceiveFrame(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	for _, b := range []byte{0x00, 0x1E, 0x9E, 0xAA, 0xFF} {
		feedFrame(&r, b, true, true)
		got, ok := ring.TryDequeue()
		if !ok {
			t.Fatalf("byte %02x: nothing received", b)
		}
		if got != b {
			t.Errorf("byte %02x: received %02x", b, got)
		}
		if err := r.Err(); err != nil {
			t.Errorf("byte %02x: unexpected fault %v", b, err)
		}
	}
}

func TestReceiveParityError(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	feedFrame(&r, 0x1E, false, true)
	if err := r.Err(); err != ErrParity {
		t.Fatalf("got %v, want ErrParity", err)
	}
	if ring.Len() != 0 {
		t.Errorf("corrupt frame reached the ring")
	}

	// The fault state absorbs further edges until reset.
	feedFrame(&r, 0x2A, true, true)
	if ring.Len() != 0 {
		t.Errorf("latched receiver still assembling frames")
	}
	if err := r.Err(); err != ErrParity {
		t.Errorf("fault changed to %v while latched", err)
	}

	r.Reset()
	feedFrame(&r, 0x2A, true, true)
	if b, ok := ring.TryDequeue(); !ok || b != 0x2A {
		t.Errorf("after reset got %02x, ok=%v", b, ok)
	}
}

func TestReceiveStartBitError(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	r.fall(1) // a high level where the start bit belongs
	if err := r.Err(); err != ErrStartBit {
		t.Fatalf("got %v, want ErrStartBit", err)
	}
}

func TestReceiveStopBitError(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	feedFrame(&r, 0x55, true, false)
	if err := r.Err(); err != ErrStopBit {
		t.Fatalf("got %v, want ErrStopBit", err)
	}
	if ring.Len() != 0 {
		t.Errorf("frame with bad stop bit reached the ring")
	}
}

func TestReceiveOverrun(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	for i := 0; i < BufferSize; i++ {
		feedFrame(&r, byte(i), true, true)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("fault %v while filling the ring", err)
	}

	// One more frame overruns; the buffered bytes must survive.
	feedFrame(&r, 0x77, true, true)
	if err := r.Err(); err != ErrOverrun {
		t.Fatalf("got %v, want ErrOverrun", err)
	}
	for i := 0; i < BufferSize; i++ {
		b, ok := ring.TryDequeue()
		if !ok || b != byte(i) {
			t.Fatalf("byte %d: got %02x, ok=%v", i, b, ok)
		}
	}
}

func TestReceiveStateNames(t *testing.T) {
	var ring Ring
	r := Receiver{ring: &ring}

	if r.State() != "idle" {
		t.Errorf("fresh receiver state %q", r.State())
	}
	r.fall(0)
	if r.State() != "data" {
		t.Errorf("after start bit state %q", r.State())
	}
}
