package common

import (
	"fmt"
	"strings"
)

// DebugCommand captures a self-describing debug command.
type DebugCommand interface {
	Describe() string
	Run(m Machine, args []string)
}

type debugBlob struct {
	desc string
	f    func(Machine, []string)
}

// DebugCommands is a map of command strings to command objects.
var DebugCommands = map[string]DebugCommand{
	"q": newCommand("(Q)uit the simulator", func(m Machine, _ []string) { m.Exit() }),

	"c": newCommand("(C)ontinue running", func(m Machine, _ []string) {
		*m.Debugging() = false
	}),

	"l": newCommand("Show the PS/2 (l)ink state and buffered bytes", func(m Machine, _ []string) {
		fmt.Printf("link: %s\n", m.LinkState())
		buf := m.Buffered()
		if len(buf) == 0 {
			fmt.Printf("buffer: empty\n")
			return
		}
		fmt.Printf("buffer (%d):", len(buf))
		for _, b := range buf {
			fmt.Printf(" %02x", b)
		}
		fmt.Printf("\n")
	}),

	"m": newCommand("Show the (m)odifier state", func(m Machine, _ []string) {
		mods := m.Modifiers()
		fmt.Printf("modifiers: %02x (ctrl=%v shift=%v)\n", mods, mods&1 != 0, mods&2 != 0)
	}),

	"p": newCommand("Show the Apple (p)ort latch", func(m Machine, _ []string) {
		v := m.PortValue()
		fmt.Printf("port: %02x (strobe %s)\n", v, strobeName(v))
	}),

	"k": newCommand("Show the (k)eyboard state: LEDs and scan code set", func(m Machine, _ []string) {
		leds := m.LEDs()
		fmt.Printf("leds: scroll=%v num=%v caps=%v  set=%d  watchdog resets=%d\n",
			leds&1 != 0, leds&2 != 0, leds&4 != 0, m.ScanCodeSet(), m.Resets())
	}),

	"t": newCommand("(T)ype the rest of the line on the keyboard", func(m Machine, args []string) {
		if len(args) <= 1 {
			fmt.Println("Nothing to type")
			return
		}
		m.Type(strings.Join(args[1:], " "))
	}),

	"hold": newCommand("Hold a named key down ('hold shift')", func(m Machine, args []string) {
		if len(args) <= 1 || !m.Press(args[1]) {
			fmt.Println("Unknown key name")
		}
	}),

	"release": newCommand("Release a named key ('release shift')", func(m Machine, args []string) {
		if len(args) <= 1 || !m.Release(args[1]) {
			fmt.Println("Unknown key name")
		}
	}),
}

func strobeName(v byte) string {
	if v&0x80 != 0 {
		return "high"
	}
	return "low"
}

func newCommand(desc string, f func(m Machine, args []string)) DebugCommand {
	d := new(debugBlob)
	d.desc = desc
	d.f = f
	return d
}

func (dbg *debugBlob) Describe() string {
	return dbg.desc
}

func (dbg *debugBlob) Run(m Machine, args []string) {
	dbg.f(m, args)
}
