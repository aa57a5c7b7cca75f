package ps2

import (
	"sync"
	"time"
)

const (
	// half of one serial bit period; a real keyboard clocks at 10-16kHz
	halfBit = 40 * time.Microsecond

	// wall-clock dwells that keep the host/device handshake ordered even
	// when scaled delays are skipped: the host must see the ACK bit while
	// the clock is held low, and must have its receive interrupt back on
	// before the reply frame starts
	ackDwell   = 10 * time.Millisecond
	replyDwell = 10 * time.Millisecond

	hostBitTimeout = time.Second

	// keyboard output buffer; overflowing it drops the event and reports
	// the set-1 overrun code
	outBufferSize = 16
)

// Keyboard is the device end of the link: a model of an AT/PS2 keyboard
// complete enough to boot the bridge against. It clocks queued bytes out as
// 11-bit frames, honours host inhibit, answers the command protocol (LEDs,
// scan code set, typematic, echo, reset) and generates set-1 or set-2
// make/break sequences with typematic repeat.
type Keyboard struct {
	bus     *Bus
	Speedup int

	mu          sync.Mutex
	queue       []byte
	lastSent    byte
	leds        byte
	set         int
	enabled     bool
	typematic   byte
	expectParam byte // command awaiting its parameter byte, or 0

	held       Key // key currently repeating; zero Key when none
	holding    bool
	nextRepeat time.Time

	wake chan struct{}
	quit chan struct{}
	once sync.Once
}

func NewKeyboard(bus *Bus) *Keyboard {
	k := &Keyboard{
		bus:     bus,
		Speedup: 1,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	k.powerOnDefaults()
	return k
}

func (k *Keyboard) powerOnDefaults() {
	k.leds = 0
	k.set = 2
	k.enabled = true
	k.typematic = 0x2B // 500ms, 10.9Hz nominal default
	k.expectParam = 0
	k.holding = false
	k.queue = k.queue[:0]
}

// Start launches the device goroutine. Stop shuts it down.
func (k *Keyboard) Start() { go k.run() }

func (k *Keyboard) Stop() { k.once.Do(func() { close(k.quit) }) }

// LEDs returns the current lock-indicator state for the front ends.
func (k *Keyboard) LEDs() byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.leds
}

// ScanCodeSet reports which scan code set the keyboard is generating.
func (k *Keyboard) ScanCodeSet() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.set
}

// KeyDown queues the make sequence for key k and starts its typematic
// repeat.
func (kb *Keyboard) KeyDown(k Key) {
	kb.mu.Lock()
	if kb.enabled {
		kb.enqueue(k.makeBytes(kb.set))
		kb.held = k
		kb.holding = true
		kb.nextRepeat = time.Now().Add(kb.repeatDelay())
	}
	kb.mu.Unlock()
	kb.notify()
}

// KeyUp queues the break sequence for key k.
func (kb *Keyboard) KeyUp(k Key) {
	kb.mu.Lock()
	if kb.enabled {
		kb.enqueue(k.breakBytes(kb.set))
		if kb.holding && kb.held == k {
			kb.holding = false
		}
	}
	kb.mu.Unlock()
	kb.notify()
}

// Tap presses and releases key k, with shift or ctrl wrapped around it when
// asked. This is the convenience the script runner and terminal front end
// use.
func (kb *Keyboard) Tap(k Key, shift, ctrl bool) {
	if ctrl {
		kb.KeyDown(KeyLCtrl)
	}
	if shift {
		kb.KeyDown(KeyLShift)
	}
	kb.KeyDown(k)
	kb.KeyUp(k)
	if shift {
		kb.KeyUp(KeyLShift)
	}
	if ctrl {
		kb.KeyUp(KeyLCtrl)
	}
}

// Type taps out each rune of text that the layout can produce.
func (kb *Keyboard) Type(text string) {
	for _, r := range text {
		if k, shift, ok := KeyForRune(r); ok {
			kb.Tap(k, shift, false)
		}
	}
}

func (kb *Keyboard) notify() {
	select {
	case kb.wake <- struct{}{}:
	default:
	}
}

// enqueue adds a whole key event; called with mu held.
func (kb *Keyboard) enqueue(ev []byte) {
	if len(kb.queue)+len(ev) > outBufferSize {
		if len(kb.queue) < outBufferSize {
			kb.queue = append(kb.queue, 0xFF)
		}
		return
	}
	kb.queue = append(kb.queue, ev...)
}

// repeatDelay decodes bits 5-6 of the typematic setting: 250/500/750/1000ms.
func (kb *Keyboard) repeatDelay() time.Duration {
	d := time.Duration(1+(kb.typematic>>5)&3) * 250 * time.Millisecond
	return kb.scaled(d)
}

// repeatPeriod decodes bits 0-4: period = (8 + A) * 2^B * 4.17ms.
func (kb *Keyboard) repeatPeriod() time.Duration {
	a := time.Duration(kb.typematic & 7)
	b := uint(kb.typematic>>3) & 3
	return kb.scaled((8 + a) * (1 << b) * 4170 * time.Microsecond)
}

func (kb *Keyboard) scaled(d time.Duration) time.Duration {
	if kb.Speedup <= 0 {
		return time.Millisecond // keep repeat finite in turbo mode
	}
	return d / time.Duration(kb.Speedup)
}

func (k *Keyboard) run() {
	for {
		select {
		case <-k.quit:
			return
		default:
		}

		ch := k.bus.Changed()
		clockHigh := k.bus.ClockHigh()
		dataHigh := k.bus.DataHigh()

		if clockHigh && !dataHigh {
			// host released the clock with data held low: request to send
			k.receiveHostFrame()
			continue
		}

		if clockHigh && dataHigh {
			if b, ok := k.peek(); ok {
				if k.clockOut(b) {
					k.sent()
				}
				continue
			}
		}

		var repeat <-chan time.Time
		var timer *time.Timer
		k.mu.Lock()
		if k.holding && k.enabled {
			timer = time.NewTimer(time.Until(k.nextRepeat))
			repeat = timer.C
		}
		k.mu.Unlock()

		select {
		case <-ch:
		case <-k.wake:
		case <-repeat:
			k.repeatHeld()
		case <-k.quit:
			if timer != nil {
				timer.Stop()
			}
			return
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

func (k *Keyboard) peek() (byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.queue) == 0 {
		return 0, false
	}
	return k.queue[0], true
}

func (k *Keyboard) sent() {
	k.mu.Lock()
	k.lastSent = k.queue[0]
	k.queue = k.queue[1:]
	k.mu.Unlock()
}

func (k *Keyboard) repeatHeld() {
	k.mu.Lock()
	if k.holding && k.enabled {
		k.enqueue(k.held.makeBytes(k.set))
		k.nextRepeat = time.Now().Add(k.repeatPeriod())
	}
	k.mu.Unlock()
}

// clockOut transmits one device-to-host frame: start bit, eight data bits
// LSB first, odd parity, stop. Data is valid at each falling edge; the
// bridge's interrupt samples it there. Returns false if the host inhibited
// the clock, in which case the whole byte stays queued for retransmission.
func (k *Keyboard) clockOut(b byte) bool {
	parity := 1
	v := b
	for i := 0; i < 11; i++ {
		if !k.bus.ClockHigh() {
			k.bus.DriveData(Device, false)
			return false
		}

		var bit byte
		switch {
		case i == 0:
			bit = 0
		case i < 9:
			bit = v & 1
			v >>= 1
			parity += int(bit)
		case i == 9:
			bit = byte(parity) & 1
		default:
			bit = 1
		}

		k.bus.DriveData(Device, bit == 0)
		k.bus.DriveClock(Device, true)
		Sleep(halfBit, k.Speedup)
		k.bus.DriveClock(Device, false)
		Sleep(halfBit, k.Speedup)
	}
	k.bus.DriveData(Device, false)
	return true
}

// receiveHostFrame clocks in a host-to-device byte. The start bit is already
// on the wire; the host puts each subsequent bit on the data line after our
// falling edge, so we wait for its write before sampling. After the stop bit
// we drive the acknowledge bit and hold the clock low long enough for the
// host to sample it.
func (k *Keyboard) receiveHostFrame() {
	var v uint16
	seen := k.bus.DataWrites(Host)
	for i := 0; i < 10; i++ {
		k.bus.DriveClock(Device, true)
		if err := k.bus.WaitDataWrite(Host, seen, hostBitTimeout); err != nil {
			k.bus.DriveClock(Device, false)
			return
		}
		seen = k.bus.DataWrites(Host)
		if k.bus.DataHigh() {
			v |= 1 << i
		}
		k.bus.DriveClock(Device, false)
		Sleep(halfBit, k.Speedup)
	}

	// acknowledge: data low across one final clock pulse
	k.bus.DriveData(Device, true)
	k.bus.DriveClock(Device, true)
	time.Sleep(ackDwell)
	k.bus.DriveClock(Device, false)
	k.bus.DriveData(Device, false)
	time.Sleep(replyDwell)

	data := byte(v)
	parity := byte(v>>8) & 1
	stop := byte(v>>9) & 1

	sum := parity
	for i := 0; i < 8; i++ {
		sum += (data >> i) & 1
	}
	if sum&1 != 1 || stop != 1 {
		k.reply(RspResend)
		return
	}

	k.handleCommand(data)
}

// reply queues a command response ahead of any pending scan codes. A scan
// code frame the host's inhibit cut short stays queued for retransmission,
// and the host must see the response before it.
func (k *Keyboard) reply(bytes ...byte) {
	k.mu.Lock()
	k.queue = append(append([]byte{}, bytes...), k.queue...)
	k.mu.Unlock()
	k.notify()
}

func (k *Keyboard) handleCommand(b byte) {
	k.mu.Lock()
	pending := k.expectParam
	if pending != 0 && b < 0xED {
		// parameter byte for the previous command
		k.expectParam = 0
		switch pending {
		case CmdSetLEDs:
			k.leds = b & 0x07
			k.mu.Unlock()
			k.reply(RspAck)
		case CmdSetTypematic:
			k.typematic = b & 0x7F
			k.mu.Unlock()
			k.reply(RspAck)
		case CmdScanCodeSet:
			switch {
			case b == 0:
				set := byte(k.set)
				k.mu.Unlock()
				k.reply(RspAck, set)
			case b >= 1 && b <= 3:
				k.set = int(b)
				k.mu.Unlock()
				k.reply(RspAck)
			default:
				k.mu.Unlock()
				k.reply(RspResend)
			}
		default:
			k.mu.Unlock()
			k.reply(RspResend)
		}
		return
	}
	k.expectParam = 0

	switch b {
	case CmdSetLEDs, CmdSetTypematic, CmdScanCodeSet:
		k.expectParam = b
		k.mu.Unlock()
		k.reply(RspAck)
	case CmdEcho:
		k.mu.Unlock()
		k.reply(RspEcho)
	case CmdEnable:
		k.enabled = true
		k.queue = k.queue[:0]
		k.mu.Unlock()
		k.reply(RspAck)
	case CmdDisable:
		k.powerOnDefaults()
		k.enabled = false
		k.mu.Unlock()
		k.reply(RspAck)
	case CmdSetDefault:
		k.powerOnDefaults()
		k.mu.Unlock()
		k.reply(RspAck)
	case CmdResend:
		last := k.lastSent
		k.mu.Unlock()
		k.reply(last)
	case CmdReset:
		k.powerOnDefaults()
		k.mu.Unlock()
		k.reply(RspAck)
		Sleep(500*time.Millisecond, k.Speedup) // self test
		k.reply(RspBATOK)
	default:
		k.mu.Unlock()
		k.reply(RspResend)
	}
}
