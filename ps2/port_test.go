package ps2

import (
	"testing"
	"time"
)

func testLink(t *testing.T) (*Port, *Keyboard) {
	t.Helper()
	bus := NewBus()
	p := NewPort(bus)
	kb := NewKeyboard(bus)
	kb.Start()
	t.Cleanup(kb.Stop)
	return p, kb
}

func TestDeviceToHostFrame(t *testing.T) {
	p, kb := testLink(t)
	p.EnableInterrupts()

	kb.KeyDown(Key{Code: 0x1E})
	b, err := p.Wait()
	if err != nil {
		t.Fatalf("no byte from keyboard: %v", err)
	}
	if b != 0x1C { // set 2 at power-on
		t.Errorf("received %02x, want 1C", b)
	}

	kb.KeyUp(Key{Code: 0x1E})
	want := []byte{0xF0, 0x1C}
	for i, w := range want {
		b, err := p.Wait()
		if err != nil {
			t.Fatalf("break byte %d: %v", i, err)
		}
		if b != w {
			t.Errorf("break byte %d is %02x, want %02x", i, b, w)
		}
	}
}

func TestCommandSetLEDs(t *testing.T) {
	p, kb := testLink(t)

	rsp, err := p.SetLEDs(LEDCaps | LEDNum)
	if err != nil {
		t.Fatalf("SetLEDs: %v", err)
	}
	if rsp != RspAck {
		t.Fatalf("SetLEDs reply %02x, want FA", rsp)
	}
	if leds := kb.LEDs(); leds != LEDCaps|LEDNum {
		t.Errorf("LED state %02x, want %02x", leds, LEDCaps|LEDNum)
	}
}

func TestCommandScanCodeSet(t *testing.T) {
	p, kb := testLink(t)

	rsp, err := p.SelectScanCodeSet(1)
	if err != nil {
		t.Fatalf("SelectScanCodeSet: %v", err)
	}
	if rsp != RspAck {
		t.Fatalf("reply %02x, want FA", rsp)
	}
	if s := kb.ScanCodeSet(); s != 1 {
		t.Fatalf("scan code set %d, want 1", s)
	}

	// Key events now come out in set 1.
	p.EnableInterrupts()
	kb.KeyDown(Key{Code: 0x1E})
	kb.KeyUp(Key{Code: 0x1E})
	for i, w := range []byte{0x1E, 0x9E} {
		b, err := p.Wait()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != w {
			t.Errorf("byte %d is %02x, want %02x", i, b, w)
		}
	}

	if _, err := p.SelectScanCodeSet(4); err == nil {
		t.Errorf("scan code set 4 accepted")
	}
}

func TestCommandScanCodeSetReadback(t *testing.T) {
	p, _ := testLink(t)

	if rsp, err := p.SelectScanCodeSet(3); err != nil || rsp != RspAck {
		t.Fatalf("set 3: rsp %02x err %v", rsp, err)
	}

	// Parameter 0 reads the current set back: ACK then the set number.
	rsp, err := p.command(CmdScanCodeSet, 0)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if rsp != RspAck {
		t.Fatalf("readback reply %02x, want FA", rsp)
	}
	b, err := p.Wait()
	if err != nil {
		t.Fatalf("readback value: %v", err)
	}
	if b != 3 {
		t.Errorf("readback value %02x, want 03", b)
	}
}

func TestCommandEcho(t *testing.T) {
	p, _ := testLink(t)

	if err := p.Send(CmdEcho); err != nil {
		t.Fatalf("Send: %v", err)
	}
	b, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if b != RspEcho {
		t.Errorf("echo reply %02x, want EE", b)
	}
}

func TestCommandReset(t *testing.T) {
	bus := NewBus()
	p := NewPort(bus)
	kb := NewKeyboard(bus)
	kb.Speedup = 100 // shrink the 500ms self test
	kb.Start()
	t.Cleanup(kb.Stop)

	if rsp, err := p.SetLEDs(LEDScroll); err != nil || rsp != RspAck {
		t.Fatalf("SetLEDs: rsp %02x err %v", rsp, err)
	}

	if err := p.Send(CmdReset); err != nil {
		t.Fatalf("Send: %v", err)
	}
	b, err := p.Wait()
	if err != nil || b != RspAck {
		t.Fatalf("reset ack %02x err %v", b, err)
	}
	b, err = p.Wait()
	if err != nil || b != RspBATOK {
		t.Fatalf("BAT result %02x err %v, want AA", b, err)
	}

	if leds := kb.LEDs(); leds != 0 {
		t.Errorf("LEDs %02x after reset, want 0", leds)
	}
	if s := kb.ScanCodeSet(); s != 2 {
		t.Errorf("scan code set %d after reset, want 2", s)
	}
}

func TestBackToBackCommands(t *testing.T) {
	p, kb := testLink(t)

	// Each Send begins the instant the previous reply lands, while the
	// keyboard is still clocking out the tail of that reply's frame. The
	// exchanges must stay aligned anyway.
	states := []byte{
		LEDCaps,
		LEDNum | LEDScroll,
		0,
		LEDCaps | LEDNum | LEDScroll,
		LEDNum,
	}
	for i, s := range states {
		rsp, err := p.SetLEDs(s)
		if err != nil {
			t.Fatalf("exchange %d: %v", i, err)
		}
		if rsp != RspAck {
			t.Fatalf("exchange %d: reply %02x, want FA", i, rsp)
		}
		if leds := kb.LEDs(); leds != s {
			t.Fatalf("exchange %d: LED state %02x, want %02x", i, leds, s)
		}
	}

	if rsp, err := p.SetTypematic(Typematic1s2Hz); err != nil || rsp != RspAck {
		t.Fatalf("typematic after LED burst: rsp %02x err %v", rsp, err)
	}
	if rsp, err := p.SelectScanCodeSet(1); err != nil || rsp != RspAck {
		t.Fatalf("scan set after LED burst: rsp %02x err %v", rsp, err)
	}
}

func TestPortReset(t *testing.T) {
	bus := NewBus()
	p := NewPort(bus)
	p.EnableInterrupts()

	// A latched fault and stale buffered bytes, as a reset in the middle
	// of traffic would leave behind.
	bus.Exclusive(func() {
		p.rx.fall(1) // bad start bit
		p.ring.TryEnqueue(0x1E)
		p.ring.TryEnqueue(0x9E)
	})

	p.Reset()

	if err := p.LinkErr(); err != nil {
		t.Errorf("fault survived the reset: %v", err)
	}
	if n := len(p.Buffered()); n != 0 {
		t.Errorf("%d stale bytes survived the reset", n)
	}
	if _, ok := p.Poll(); ok {
		t.Errorf("stale byte dequeued after reset")
	}
	if s := p.LinkState(); s != "idle" {
		t.Errorf("receiver state %q after reset, want idle", s)
	}
}

func TestBufferedDuringTraffic(t *testing.T) {
	p, kb := testLink(t)
	p.EnableInterrupts()

	const taps = 10 // 3 bytes each in set 2
	go func() {
		for i := 0; i < taps; i++ {
			kb.Tap(Key{Code: 0x1E}, false, false)
			time.Sleep(5 * time.Millisecond)
		}
	}()

	// Snapshot and drain while the frames arrive, the way the debug
	// console reads the buffer under the running firmware loop.
	received := 0
	deadline := time.Now().Add(10 * time.Second)
	for received < 3*taps {
		if time.Now().After(deadline) {
			t.Fatalf("received %d bytes, want %d", received, 3*taps)
		}
		p.Buffered()
		if _, ok := p.Poll(); ok {
			received++
			continue
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSendNoDevice(t *testing.T) {
	bus := NewBus()
	p := NewPort(bus)

	start := time.Now()
	err := p.Send(0xED)
	if err == nil {
		t.Fatalf("Send succeeded with nothing on the bus")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Send took too long to give up")
	}

	// The abort must leave both lines released.
	if !bus.ClockHigh() || !bus.DataHigh() {
		t.Errorf("bus still driven after abort: clock=%v data=%v",
			bus.ClockHigh(), bus.DataHigh())
	}
}

func TestTypeOnLink(t *testing.T) {
	p, kb := testLink(t)

	if rsp, err := p.SelectScanCodeSet(1); err != nil || rsp != RspAck {
		t.Fatalf("set 1: rsp %02x err %v", rsp, err)
	}
	p.EnableInterrupts()

	kb.Type("a")
	for i, w := range []byte{0x1E, 0x9E} {
		b, err := p.Wait()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != w {
			t.Errorf("byte %d is %02x, want %02x", i, b, w)
		}
	}

	kb.Type("A")
	for i, w := range []byte{0x2A, 0x1E, 0x9E, 0xAA} {
		b, err := p.Wait()
		if err != nil {
			t.Fatalf("shifted byte %d: %v", i, err)
		}
		if b != w {
			t.Errorf("shifted byte %d is %02x, want %02x", i, b, w)
		}
	}
}
