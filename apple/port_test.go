package apple

import "testing"

func TestPortIdle(t *testing.T) {
	p := NewPort()
	if v := p.Value(); v != StrobeBit {
		t.Errorf("idle port %02x, want %02x", v, StrobeBit)
	}
}

func TestPortLatchAndStrobe(t *testing.T) {
	p := NewPort()
	var got []byte
	p.SetConsumer(func(code byte) { got = append(got, code) })

	p.Write(0xC1)
	if len(got) != 0 {
		t.Fatalf("consumer ran before the strobe")
	}

	p.StrobeLow()
	if len(got) != 1 || got[0] != 0x41 {
		t.Fatalf("latched %v, want [41]", got)
	}
	if p.Value()&StrobeBit != 0 {
		t.Errorf("strobe bit still high during the pulse")
	}

	p.StrobeHigh()
	if v := p.Value(); v != 0xC1 {
		t.Errorf("port %02x after strobe, want C1", v)
	}
}

func TestPortStrobeWithoutWrite(t *testing.T) {
	p := NewPort()
	var got []byte
	p.SetConsumer(func(code byte) { got = append(got, code) })

	p.Write(0x8D)
	p.StrobeLow()
	p.StrobeHigh()

	// A second pulse with no new write repeats the old latch.
	p.StrobeLow()
	p.StrobeHigh()

	if len(got) != 2 || got[0] != 0x0D || got[1] != 0x0D {
		t.Fatalf("latched %v, want [0D 0D]", got)
	}
}
