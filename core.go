package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gtac2/ps2apple/apple"
	"github.com/gtac2/ps2apple/bridge"
	"github.com/gtac2/ps2apple/common"
	"github.com/gtac2/ps2apple/ps2"
)

func dumpDeviceList() {
	for name, desc := range deviceDescriptions {
		fmt.Printf("%-20s %s\n", name, desc)
	}
}

// machine wires the whole board together: the two-wire PS/2 bus with the
// keyboard model on one end and the bridge firmware on the other, and the
// Apple parallel port with the text screen behind it.
type machine struct {
	bus    *ps2.Bus
	kbd    *ps2.Keyboard
	port   *ps2.Port
	out    *apple.Port
	screen *apple.Screen
	br     *bridge.Bridge

	devices []common.Device
	echo    func(code byte)
	debug   bool
}

func newMachine(speedup int) *machine {
	m := &machine{
		bus:    ps2.NewBus(),
		out:    apple.NewPort(),
		screen: apple.NewScreen(),
	}
	m.kbd = ps2.NewKeyboard(m.bus)
	m.kbd.Speedup = speedup
	m.port = ps2.NewPort(m.bus)
	m.br = bridge.New(m.port, m.out, speedup)

	m.out.SetConsumer(func(code byte) {
		m.screen.Key(code)
		if m.echo != nil {
			m.echo(code)
		}
	})
	return m
}

func (m *machine) AddDevice(d common.Device) { m.devices = append(m.devices, d) }
func (m *machine) Devices() []common.Device  { return m.devices }
func (m *machine) Debugging() *bool          { return &m.debug }
func (m *machine) DebugPrompt()              { fmt.Printf("ps2apple debug> ") }

func (m *machine) Exit() {
	for _, d := range m.devices {
		d.Cleanup()
	}
	m.br.Stop()
	m.kbd.Stop()
	os.Exit(0)
}

func (m *machine) LinkState() string { return m.port.LinkState() }
func (m *machine) Buffered() []byte  { return m.port.Buffered() }
func (m *machine) Modifiers() byte   { return m.br.Modifiers() }
func (m *machine) PortValue() byte   { return m.out.Value() }
func (m *machine) LEDs() byte        { return m.kbd.LEDs() }
func (m *machine) ScanCodeSet() int  { return m.kbd.ScanCodeSet() }
func (m *machine) Resets() int64     { return m.br.Resets() }

func (m *machine) Type(text string) { m.kbd.Type(text) }

func (m *machine) Press(name string) bool {
	k, ok := ps2.KeyNames[name]
	if ok {
		m.kbd.KeyDown(k)
	}
	return ok
}

func (m *machine) Release(name string) bool {
	k, ok := ps2.KeyNames[name]
	if ok {
		m.kbd.KeyUp(k)
	}
	return ok
}

func debugConsole(m common.Machine) {
	// Print the prompt and handle the input.
	m.DebugPrompt()
	in, err := common.InputReader.ReadString('\n')
	if err != nil {
		fmt.Printf("error while reading input: %v\n", err)
		*m.Debugging() = false
		return
	}

	args := strings.Split(strings.TrimSpace(in), " ")
	if cmd, ok := common.DebugCommands[args[0]]; ok {
		cmd.Run(m, args)
	} else {
		fmt.Printf("Unknown command '%s'\n", args[0])
		fmt.Printf("Commands:\n")
		for key, dbg := range common.DebugCommands {
			fmt.Printf("%s\t%s\n", key, dbg.Describe())
		}
	}
}

func main() {
	deviceList := flag.String("hw", "display,keyboard",
		"List of hardware front ends. See -dump-hw for a list.")
	dumpDevices := flag.Bool("dump-hw", false,
		"Dump a list of hardware front ends and exit.")
	speed := flag.Int("speed", 1,
		"Divisor applied to every firmware and keyboard delay. 1 is real time.")
	turboFlag := flag.Bool("turbo", false,
		"Skip all delays entirely. Implies -speed 0.")
	script := flag.String("script", "", "Script file to run.")

	flag.Parse()

	if *dumpDevices {
		dumpDeviceList()
		return
	}

	speedup := *speed
	if *turboFlag {
		speedup = 0
	}

	common.InputReader = bufio.NewReader(os.Stdin)

	m := newMachine(speedup)

	for _, d := range strings.Split(*deviceList, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if dt, ok := deviceTypes[d]; ok {
			fmt.Printf("Loading front end: %s\n", d)
			m.AddDevice(dt(m))
		} else {
			fmt.Printf("Unknown front end: %s\n", d)
			dumpDeviceList()
			return
		}
	}

	m.kbd.Start()
	go m.br.Run()

	if *script != "" {
		RunScript(m, *script)
	}

	run(m)
}

func run(m *machine) {
	// The front ends want servicing often enough that typing feels
	// immediate; 10ms is plenty.
	ticker := time.Tick(10 * time.Millisecond)

	for {
		for !m.debug {
			<-ticker
			for _, d := range m.devices {
				d.Tick(m)
			}
		}

		debugConsole(m)
	}
}
