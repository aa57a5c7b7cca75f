package main

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/gtac2/ps2apple/common"
)

type command func(m common.Machine, args []string)

var cmds = map[string]command{
	"type":    cmdType,
	"tap":     cmdTap,
	"hold":    cmdHold,
	"release": cmdRelease,
	"wait":    cmdWait,
	"quit":    cmdQuit,
}

func cmdType(m common.Machine, args []string) {
	if len(args) < 1 {
		panic("'type' requires 1 or more arguments to type")
	}
	m.Type(strings.Join(args, " "))
}

func cmdTap(m common.Machine, args []string) {
	if len(args) < 1 {
		panic("'tap' requires a key name as an argument")
	}
	if !m.Press(args[0]) {
		panic(fmt.Errorf("unknown key '%s'", args[0]))
	}
	m.Release(args[0])
}

func cmdHold(m common.Machine, args []string) {
	if len(args) < 1 {
		panic("'hold' requires a key name as an argument")
	}
	if !m.Press(args[0]) {
		panic(fmt.Errorf("unknown key '%s'", args[0]))
	}
}

func cmdRelease(m common.Machine, args []string) {
	if len(args) < 1 {
		panic("'release' requires a key name as an argument")
	}
	if !m.Release(args[0]) {
		panic(fmt.Errorf("unknown key '%s'", args[0]))
	}
}

func cmdWait(m common.Machine, args []string) {
	if len(args) < 1 {
		panic("'wait' requires an argument giving the milliseconds to wait")
	}

	ms, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		panic("'wait' requires a positive integer argument")
	}

	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func cmdQuit(m common.Machine, args []string) {
	m.Exit()
}

func RunScript(m common.Machine, file string) {
	contents, err := ioutil.ReadFile(file)
	if err != nil {
		panic(err)
	}

	lines := strings.Split(string(contents), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		args := strings.Split(line, " ")
		if cmd, ok := cmds[args[0]]; ok {
			cmd(m, args[1:])
		} else {
			panic(fmt.Errorf("unknown command '%s'", args[0]))
		}
	}
}
