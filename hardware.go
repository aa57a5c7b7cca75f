package main

import "github.com/gtac2/ps2apple/common"

var deviceTypes = map[string]func(m *machine) common.Device{
	"keyboard": func(m *machine) common.Device { return NewSDLKeyboard(m) },
	"display":  func(m *machine) common.Device { return NewDisplay(m) },
	"term":     func(m *machine) common.Device { return NewTerm(m) },
}

var deviceDescriptions = map[string]string{
	"display":  "SDL window showing the Apple's 40x24 text screen",
	"keyboard": "SDL keyboard capture, fed to the PS/2 keyboard model",
	"term":     "Terminal front end: cbreak stdin in, latched codes out",
}
