package ps2

import "fmt"

// Host-to-keyboard commands.
const (
	CmdSetLEDs      byte = 0xED // next byte: LED bitmask
	CmdEcho         byte = 0xEE
	CmdScanCodeSet  byte = 0xF0 // next byte: set number, 0 reads back
	CmdSetTypematic byte = 0xF3 // next byte: encoded rate/delay
	CmdEnable       byte = 0xF4
	CmdDisable      byte = 0xF5
	CmdSetDefault   byte = 0xF6
	CmdResend       byte = 0xFE
	CmdReset        byte = 0xFF
)

// Keyboard-to-host replies.
const (
	RspOverrun byte = 0x00
	RspBATOK   byte = 0xAA
	RspEcho    byte = 0xEE
	RspBreak   byte = 0xF0 // set-2/3 break prefix
	RspAck     byte = 0xFA
	RspBATFail byte = 0xFC
	RspResend  byte = 0xFE
)

// LED bitmask for CmdSetLEDs.
const (
	LEDScroll byte = 1 << 0
	LEDNum    byte = 1 << 1
	LEDCaps   byte = 1 << 2
)

// Typematic1s2Hz encodes a 1 second delay (bits 5-6 = 11) before repeating
// at 2Hz (bits 0-4 = 11111), the slowest setting the protocol offers.
const Typematic1s2Hz byte = 0x7F

// command runs one command exchange: send the command byte, wait for ACK,
// then send the optional parameter and wait again. The last reply byte is
// returned so callers can see a NAK for what it was.
func (p *Port) command(cmd byte, param ...byte) (byte, error) {
	if err := p.Send(cmd); err != nil {
		return 0, err
	}
	rsp, err := p.Wait()
	if err != nil {
		return 0, err
	}
	if rsp != RspAck || len(param) == 0 {
		return rsp, nil
	}

	if err := p.Send(param[0]); err != nil {
		return 0, err
	}
	return p.Wait()
}

// SetLEDs lights the lock indicators given by the LED bitmask; bits outside
// the low three are discarded.
func (p *Port) SetLEDs(state byte) (byte, error) {
	return p.command(CmdSetLEDs, state&0x07)
}

// SelectScanCodeSet asks the keyboard to switch to scan code set 1, 2 or 3.
// Out-of-range sets are rejected locally without touching the wire.
func (p *Port) SelectScanCodeSet(set int) (byte, error) {
	if set < 1 || set > 3 {
		return RspResend, fmt.Errorf("ps2: no such scan code set %d", set)
	}
	return p.command(CmdScanCodeSet, byte(set))
}

// SetTypematic programs the repeat delay and rate. Bit 7 of the encoding
// must be zero and is forced clear here.
func (p *Port) SetTypematic(config byte) (byte, error) {
	return p.command(CmdSetTypematic, config&0x7F)
}
