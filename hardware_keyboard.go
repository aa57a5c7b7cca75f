package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gtac2/ps2apple/common"
	"github.com/gtac2/ps2apple/ps2"
)

// SDLKeyboard turns SDL key events into make and break codes on the
// simulated keyboard. The window that receives the events belongs to the
// display front end, so this device is only useful alongside it.
type SDLKeyboard struct {
	m *machine
}

func NewSDLKeyboard(m *machine) *SDLKeyboard {
	return &SDLKeyboard{m: m}
}

func (k *SDLKeyboard) Name() string { return "keyboard" }

func (k *SDLKeyboard) Tick(m common.Machine) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			m.Exit()

		case *sdl.KeyboardEvent:
			if t.Repeat != 0 {
				// The keyboard model does its own typematic repeat.
				continue
			}

			if t.Type == sdl.KEYDOWN && k.fKey(m, t.Keysym.Scancode) {
				continue
			}

			key, ok := sdlKeys[t.Keysym.Scancode]
			if !ok {
				continue
			}

			if t.Type == sdl.KEYDOWN {
				k.m.kbd.KeyDown(key)
			} else if t.Type == sdl.KEYUP {
				k.m.kbd.KeyUp(key)
			}
		}
	}
}

// fKey handles the function keys the simulator claims for itself.
// Returns true when the key was consumed.
func (k *SDLKeyboard) fKey(m common.Machine, sc sdl.Scancode) bool {
	switch sc {
	case sdl.SCANCODE_F11:
		printFKeyHelp()
		return true
	case sdl.SCANCODE_F12:
		*m.Debugging() = true
		return true
	}
	return false
}

func printFKeyHelp() {
	fmt.Printf("F11: this help\n")
	fmt.Printf("F12: break into the debug console\n")
}

// sdlKeys maps SDL scancodes to set-1 make codes. SDL scancodes are
// positional like scan codes themselves, so the map ignores the host's
// keyboard layout, which is what a real PS/2 keyboard does too.
var sdlKeys = map[sdl.Scancode]ps2.Key{
	sdl.SCANCODE_ESCAPE:       {Code: 0x01},
	sdl.SCANCODE_1:            {Code: 0x02},
	sdl.SCANCODE_2:            {Code: 0x03},
	sdl.SCANCODE_3:            {Code: 0x04},
	sdl.SCANCODE_4:            {Code: 0x05},
	sdl.SCANCODE_5:            {Code: 0x06},
	sdl.SCANCODE_6:            {Code: 0x07},
	sdl.SCANCODE_7:            {Code: 0x08},
	sdl.SCANCODE_8:            {Code: 0x09},
	sdl.SCANCODE_9:            {Code: 0x0a},
	sdl.SCANCODE_0:            {Code: 0x0b},
	sdl.SCANCODE_MINUS:        {Code: 0x0c},
	sdl.SCANCODE_EQUALS:       {Code: 0x0d},
	sdl.SCANCODE_BACKSPACE:    {Code: 0x0e},
	sdl.SCANCODE_TAB:          {Code: 0x0f},
	sdl.SCANCODE_Q:            {Code: 0x10},
	sdl.SCANCODE_W:            {Code: 0x11},
	sdl.SCANCODE_E:            {Code: 0x12},
	sdl.SCANCODE_R:            {Code: 0x13},
	sdl.SCANCODE_T:            {Code: 0x14},
	sdl.SCANCODE_Y:            {Code: 0x15},
	sdl.SCANCODE_U:            {Code: 0x16},
	sdl.SCANCODE_I:            {Code: 0x17},
	sdl.SCANCODE_O:            {Code: 0x18},
	sdl.SCANCODE_P:            {Code: 0x19},
	sdl.SCANCODE_LEFTBRACKET:  {Code: 0x1a},
	sdl.SCANCODE_RIGHTBRACKET: {Code: 0x1b},
	sdl.SCANCODE_RETURN:       {Code: 0x1c},
	sdl.SCANCODE_LCTRL:        {Code: 0x1d},
	sdl.SCANCODE_A:            {Code: 0x1e},
	sdl.SCANCODE_S:            {Code: 0x1f},
	sdl.SCANCODE_D:            {Code: 0x20},
	sdl.SCANCODE_F:            {Code: 0x21},
	sdl.SCANCODE_G:            {Code: 0x22},
	sdl.SCANCODE_H:            {Code: 0x23},
	sdl.SCANCODE_J:            {Code: 0x24},
	sdl.SCANCODE_K:            {Code: 0x25},
	sdl.SCANCODE_L:            {Code: 0x26},
	sdl.SCANCODE_SEMICOLON:    {Code: 0x27},
	sdl.SCANCODE_APOSTROPHE:   {Code: 0x28},
	sdl.SCANCODE_GRAVE:        {Code: 0x29},
	sdl.SCANCODE_LSHIFT:       {Code: 0x2a},
	sdl.SCANCODE_BACKSLASH:    {Code: 0x2b},
	sdl.SCANCODE_Z:            {Code: 0x2c},
	sdl.SCANCODE_X:            {Code: 0x2d},
	sdl.SCANCODE_C:            {Code: 0x2e},
	sdl.SCANCODE_V:            {Code: 0x2f},
	sdl.SCANCODE_B:            {Code: 0x30},
	sdl.SCANCODE_N:            {Code: 0x31},
	sdl.SCANCODE_M:            {Code: 0x32},
	sdl.SCANCODE_COMMA:        {Code: 0x33},
	sdl.SCANCODE_PERIOD:       {Code: 0x34},
	sdl.SCANCODE_SLASH:        {Code: 0x35},
	sdl.SCANCODE_RSHIFT:       {Code: 0x36},
	sdl.SCANCODE_KP_MULTIPLY:  {Code: 0x37},
	sdl.SCANCODE_LALT:         {Code: 0x38},
	sdl.SCANCODE_SPACE:        {Code: 0x39},
	sdl.SCANCODE_CAPSLOCK:     {Code: 0x3a},
	sdl.SCANCODE_F1:           {Code: 0x3b},
	sdl.SCANCODE_F2:           {Code: 0x3c},
	sdl.SCANCODE_F3:           {Code: 0x3d},
	sdl.SCANCODE_F4:           {Code: 0x3e},
	sdl.SCANCODE_F5:           {Code: 0x3f},
	sdl.SCANCODE_F6:           {Code: 0x40},
	sdl.SCANCODE_F7:           {Code: 0x41},
	sdl.SCANCODE_F8:           {Code: 0x42},
	sdl.SCANCODE_F9:           {Code: 0x43},
	sdl.SCANCODE_F10:          {Code: 0x44},
	sdl.SCANCODE_NUMLOCKCLEAR: {Code: 0x45},
	sdl.SCANCODE_SCROLLLOCK:   {Code: 0x46},
	sdl.SCANCODE_KP_7:         {Code: 0x47},
	sdl.SCANCODE_KP_8:         {Code: 0x48},
	sdl.SCANCODE_KP_9:         {Code: 0x49},
	sdl.SCANCODE_KP_MINUS:     {Code: 0x4a},
	sdl.SCANCODE_KP_4:         {Code: 0x4b},
	sdl.SCANCODE_KP_5:         {Code: 0x4c},
	sdl.SCANCODE_KP_6:         {Code: 0x4d},
	sdl.SCANCODE_KP_PLUS:      {Code: 0x4e},
	sdl.SCANCODE_KP_1:         {Code: 0x4f},
	sdl.SCANCODE_KP_2:         {Code: 0x50},
	sdl.SCANCODE_KP_3:         {Code: 0x51},
	sdl.SCANCODE_KP_0:         {Code: 0x52},
	sdl.SCANCODE_KP_PERIOD:    {Code: 0x53},

	sdl.SCANCODE_RCTRL: {Code: 0x1d, Ext: true},
	sdl.SCANCODE_LEFT:  {Code: 0x4b, Ext: true},
	sdl.SCANCODE_RIGHT: {Code: 0x4d, Ext: true},
	sdl.SCANCODE_UP:    {Code: 0x48, Ext: true},
	sdl.SCANCODE_DOWN:  {Code: 0x50, Ext: true},
}

func (k *SDLKeyboard) Cleanup() {}
