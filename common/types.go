package common

import "bufio"

// Machine is the generic interface to the simulated board, used by the
// hardware front ends and the debug console to abstract over the wiring in
// main.
type Machine interface {
	AddDevice(Device)
	Devices() []Device
	Debugging() *bool
	DebugPrompt()
	Exit()

	// observation points for the console
	LinkState() string
	Buffered() []byte
	Modifiers() byte
	PortValue() byte
	LEDs() byte
	ScanCodeSet() int
	Resets() int64

	// injection for the console and scripts
	Type(text string)
	Press(name string) bool
	Release(name string) bool
}

// Device is the interface to the hardware front ends: the SDL keyboard and
// display, and the terminal.
type Device interface {
	Name() string
	Tick(Machine)
	Cleanup()
}

// InputReader is shared by the inputs, since os.Stdin is global.
var InputReader *bufio.Reader
