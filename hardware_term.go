package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/term/termios"

	"github.com/gtac2/ps2apple/common"
	"github.com/gtac2/ps2apple/ps2"
)

// Term is a windowless front end. It puts the controlling terminal into
// cbreak mode and feeds each keystroke to the keyboard model, and echoes
// whatever the Apple latches back to stdout. Handy over ssh, and for
// watching the bridge do its thing without SDL.
type Term struct {
	m *machine

	canAttr    syscall.Termios
	cbreakAttr syscall.Termios

	in chan byte
}

func NewTerm(m *machine) *Term {
	t := &Term{m: m, in: make(chan byte, 64)}

	termios.Tcgetattr(os.Stdin.Fd(), &t.canAttr)
	t.cbreakAttr = t.canAttr
	termios.Cfmakecbreak(&t.cbreakAttr)
	termios.Tcsetattr(os.Stdin.Fd(), termios.TCIFLUSH, &t.cbreakAttr)

	m.echo = t.echo

	go t.reader()
	return t
}

func (t *Term) Name() string { return "term" }

func (t *Term) reader() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 1 {
			t.in <- buf[0]
		}
	}
}

// echo prints a latched Apple code on stdout. Codes arrive with the high
// bit already stripped.
func (t *Term) echo(code byte) {
	switch {
	case code == 0x0d:
		fmt.Printf("\r\n")
	case code == 0x08:
		fmt.Printf("\b \b")
	case 0x20 <= code && code < 0x7f:
		fmt.Printf("%c", code)
	}
}

func (t *Term) Tick(m common.Machine) {
	for {
		select {
		case b := <-t.in:
			t.key(m, b)
		default:
			return
		}
	}
}

func (t *Term) key(m common.Machine, b byte) {
	switch {
	case b == 0x03: // ctrl-C
		t.Cleanup()
		m.Exit()

	case b == 0x7f: // DEL arrives for the backspace key on most terminals
		t.m.kbd.Tap(ps2.KeyBackspace, false, false)

	case b == '\r' || b == '\n':
		t.m.kbd.Tap(ps2.KeyEnter, false, false)

	case b == '\t':
		t.m.kbd.Tap(ps2.KeyTab, false, false)

	case b >= 1 && b <= 26: // other control letters
		if k, _, ok := ps2.KeyForRune(rune('a' + b - 1)); ok {
			t.m.kbd.Tap(k, false, true)
		}

	case b < 0x80:
		t.m.kbd.Type(string(rune(b)))
	}
}

func (t *Term) Cleanup() {
	termios.Tcsetattr(os.Stdin.Fd(), termios.TCIFLUSH, &t.canAttr)
}
