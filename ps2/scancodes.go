package ps2

// Key identifies a physical key by its set-1 make code. Keys reached through
// the 0xE0 escape (right Ctrl, the cursor block, keypad Enter and slash)
// carry Ext.
type Key struct {
	Code byte
	Ext  bool
}

// Familiar keys, named for the scripting layer and the front ends.
var (
	KeyEsc       = Key{Code: 0x01}
	KeyBackspace = Key{Code: 0x0E}
	KeyTab       = Key{Code: 0x0F}
	KeyEnter     = Key{Code: 0x1C}
	KeyLCtrl     = Key{Code: 0x1D}
	KeyLShift    = Key{Code: 0x2A}
	KeyRShift    = Key{Code: 0x36}
	KeySpace     = Key{Code: 0x39}
	KeyCapsLock  = Key{Code: 0x3A}
	KeyNumLock   = Key{Code: 0x45}
	KeyScrollLck = Key{Code: 0x46}
	KeyRCtrl     = Key{Code: 0x1D, Ext: true}
	KeyLeft      = Key{Code: 0x4B, Ext: true}
	KeyRight     = Key{Code: 0x4D, Ext: true}
	KeyUp        = Key{Code: 0x48, Ext: true}
	KeyDown      = Key{Code: 0x50, Ext: true}
)

// KeyNames maps script-friendly names to keys.
var KeyNames = map[string]Key{
	"esc":       KeyEsc,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"ctrl":      KeyLCtrl,
	"rctrl":     KeyRCtrl,
	"shift":     KeyLShift,
	"rshift":    KeyRShift,
	"space":     KeySpace,
	"caps":      KeyCapsLock,
	"numlock":   KeyNumLock,
	"scrlock":   KeyScrollLck,
	"left":      KeyLeft,
	"right":     KeyRight,
	"up":        KeyUp,
	"down":      KeyDown,
	"f1":        {Code: 0x3B},
	"f2":        {Code: 0x3C},
	"f3":        {Code: 0x3D},
	"f4":        {Code: 0x3E},
	"f5":        {Code: 0x3F},
	"f6":        {Code: 0x40},
	"f7":        {Code: 0x41},
	"f8":        {Code: 0x42},
	"f9":        {Code: 0x43},
	"f10":       {Code: 0x44},
}

// The main block of the 83-key layout, keyed by set-1 code: the rune a key
// produces bare and with shift held. Used to turn text into key sequences
// for the terminal front end and the script runner.
var keyLegends = map[byte][2]rune{
	0x02: {'1', '!'}, 0x03: {'2', '@'}, 0x04: {'3', '#'}, 0x05: {'4', '$'},
	0x06: {'5', '%'}, 0x07: {'6', '^'}, 0x08: {'7', '&'}, 0x09: {'8', '*'},
	0x0A: {'9', '('}, 0x0B: {'0', ')'}, 0x0C: {'-', '_'}, 0x0D: {'=', '+'},
	0x10: {'q', 'Q'}, 0x11: {'w', 'W'}, 0x12: {'e', 'E'}, 0x13: {'r', 'R'},
	0x14: {'t', 'T'}, 0x15: {'y', 'Y'}, 0x16: {'u', 'U'}, 0x17: {'i', 'I'},
	0x18: {'o', 'O'}, 0x19: {'p', 'P'}, 0x1A: {'[', '{'}, 0x1B: {']', '}'},
	0x1E: {'a', 'A'}, 0x1F: {'s', 'S'}, 0x20: {'d', 'D'}, 0x21: {'f', 'F'},
	0x22: {'g', 'G'}, 0x23: {'h', 'H'}, 0x24: {'j', 'J'}, 0x25: {'k', 'K'},
	0x26: {'l', 'L'}, 0x27: {';', ':'}, 0x28: {'\'', '"'}, 0x29: {'`', '~'},
	0x2B: {'\\', '|'}, 0x2C: {'z', 'Z'}, 0x2D: {'x', 'X'}, 0x2E: {'c', 'C'},
	0x2F: {'v', 'V'}, 0x30: {'b', 'B'}, 0x31: {'n', 'N'}, 0x32: {'m', 'M'},
	0x33: {',', '<'}, 0x34: {'.', '>'}, 0x35: {'/', '?'}, 0x39: {' ', ' '},
}

var runeKeys map[rune]struct {
	key   Key
	shift bool
}

func init() {
	runeKeys = make(map[rune]struct {
		key   Key
		shift bool
	})
	for code, legend := range keyLegends {
		k := Key{Code: code}
		runeKeys[legend[0]] = struct {
			key   Key
			shift bool
		}{k, false}
		if legend[1] != legend[0] {
			runeKeys[legend[1]] = struct {
				key   Key
				shift bool
			}{k, true}
		}
	}
	runeKeys['\n'] = struct {
		key   Key
		shift bool
	}{KeyEnter, false}
	runeKeys['\r'] = struct {
		key   Key
		shift bool
	}{KeyEnter, false}
	runeKeys['\x1b'] = struct {
		key   Key
		shift bool
	}{KeyEsc, false}
}

// KeyForRune finds the key (and whether shift must be held) that types r.
func KeyForRune(r rune) (Key, bool, bool) {
	e, ok := runeKeys[r]
	return e.key, e.shift, ok
}

// set2Codes maps a set-1 make code to its set-2 equivalent. A keyboard
// powers up in set 2; until the bridge switches it to set 1 its key events
// go through this table (with the 0xF0 break prefix).
var set2Codes = [84]byte{
	0x01: 0x76, 0x02: 0x16, 0x03: 0x1E, 0x04: 0x26, 0x05: 0x25,
	0x06: 0x2E, 0x07: 0x36, 0x08: 0x3D, 0x09: 0x3E, 0x0A: 0x46,
	0x0B: 0x45, 0x0C: 0x4E, 0x0D: 0x55, 0x0E: 0x66, 0x0F: 0x0D,
	0x10: 0x15, 0x11: 0x1D, 0x12: 0x24, 0x13: 0x2D, 0x14: 0x2C,
	0x15: 0x35, 0x16: 0x3C, 0x17: 0x43, 0x18: 0x44, 0x19: 0x4D,
	0x1A: 0x54, 0x1B: 0x5B, 0x1C: 0x5A, 0x1D: 0x14, 0x1E: 0x1C,
	0x1F: 0x1B, 0x20: 0x23, 0x21: 0x2B, 0x22: 0x34, 0x23: 0x33,
	0x24: 0x3B, 0x25: 0x42, 0x26: 0x4B, 0x27: 0x4C, 0x28: 0x52,
	0x29: 0x0E, 0x2A: 0x12, 0x2B: 0x5D, 0x2C: 0x1A, 0x2D: 0x22,
	0x2E: 0x21, 0x2F: 0x2A, 0x30: 0x32, 0x31: 0x31, 0x32: 0x3A,
	0x33: 0x41, 0x34: 0x49, 0x35: 0x4A, 0x36: 0x59, 0x37: 0x7C,
	0x38: 0x11, 0x39: 0x29, 0x3A: 0x58, 0x3B: 0x05, 0x3C: 0x06,
	0x3D: 0x04, 0x3E: 0x0C, 0x3F: 0x03, 0x40: 0x0B, 0x41: 0x83,
	0x42: 0x0A, 0x43: 0x01, 0x44: 0x09, 0x45: 0x77, 0x46: 0x7E,
	0x47: 0x6C, 0x48: 0x75, 0x49: 0x7D, 0x4A: 0x7B, 0x4B: 0x6B,
	0x4C: 0x73, 0x4D: 0x74, 0x4E: 0x79, 0x4F: 0x69, 0x50: 0x72,
	0x51: 0x7A, 0x52: 0x70, 0x53: 0x71,
}

// makeBytes renders a key-down event in the given scan code set.
func (k Key) makeBytes(set int) []byte {
	if set == 1 {
		if k.Ext {
			return []byte{0xE0, k.Code}
		}
		return []byte{k.Code}
	}
	c := set2Codes[k.Code]
	if k.Ext {
		return []byte{0xE0, c}
	}
	return []byte{c}
}

// breakBytes renders a key-up event in the given scan code set.
func (k Key) breakBytes(set int) []byte {
	if set == 1 {
		if k.Ext {
			return []byte{0xE0, k.Code | 0x80}
		}
		return []byte{k.Code | 0x80}
	}
	c := set2Codes[k.Code]
	if k.Ext {
		return []byte{0xE0, 0xF0, c}
	}
	return []byte{0xF0, c}
}
