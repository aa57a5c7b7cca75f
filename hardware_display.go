package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gtac2/ps2apple/apple"
	"github.com/gtac2/ps2apple/common"
	"github.com/gtac2/ps2apple/ps2"
)

const (
	scaleFactor int = 4
	fontWidth       = 4
	fontHeight      = 8
	ledStrip        = 8 // Extra rows at the bottom for the lock LEDs.

	widthPixels  = apple.Columns * fontWidth
	heightPixels = apple.Rows*fontHeight + ledStrip
)

// Display paints the Apple's text screen into an SDL window, green on
// black, with the keyboard's lock LEDs along the bottom edge.
type Display struct {
	m *machine

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte

	lastFrame time.Time
	lastGen   uint64
	lastLEDs  byte
	painted   bool
}

const (
	colText   uint32 = 0xff33ff33
	colBack   uint32 = 0xff000000
	colLEDOn  uint32 = 0xffff4444
	colLEDOff uint32 = 0xff441111
)

func NewDisplay(m *machine) *Display {
	d := &Display{m: m, lastFrame: time.Now()}

	runtime.LockOSThread() // Latch this goroutine to the same thread for SDL.
	sdl.Init(sdl.INIT_VIDEO)
	window, err := sdl.CreateWindow("PS/2 to Apple", sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED, widthPixels*int32(scaleFactor),
		heightPixels*int32(scaleFactor), sdl.WINDOW_SHOWN)
	if err != nil {
		panic(fmt.Errorf("failed to create window: %v", err))
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		panic(fmt.Errorf("failed to create renderer: %v", err))
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING, widthPixels, heightPixels)
	if err != nil {
		panic(fmt.Errorf("failed to create texture: %v", err))
	}

	d.window = window
	d.renderer = renderer
	d.texture = texture
	d.pixels = make([]byte, widthPixels*heightPixels*4)
	return d
}

func (d *Display) Name() string { return "display" }

func (d *Display) Tick(m common.Machine) {
	if time.Since(d.lastFrame) < 50*time.Millisecond {
		return
	}

	gen := d.m.screen.Generation()
	leds := m.LEDs()
	if d.painted && gen == d.lastGen && leds == d.lastLEDs {
		return
	}

	cells := d.m.screen.Cells()
	cx, cy := d.m.screen.Cursor()

	for i := 0; i < apple.Rows; i++ {
		for j := 0; j < apple.Columns; j++ {
			d.writeChar(cells[i][j], i, j, i == cy && j == cx)
		}
	}

	d.writeLEDs(leds)

	// Fully painted, now flip the texture onto the display.
	err := d.texture.Update(nil, d.pixels, widthPixels*4)
	if err != nil {
		panic(fmt.Errorf("failed to update texture: %v", err))
	}
	err = d.renderer.Clear()
	if err != nil {
		panic(fmt.Errorf("failed to clear renderer: %v", err))
	}
	err = d.renderer.Copy(d.texture, nil, nil)
	if err != nil {
		panic(fmt.Errorf("failed to copy texture: %v", err))
	}

	d.renderer.Present()
	d.lastFrame = time.Now()
	d.lastGen = gen
	d.lastLEDs = leds
	d.painted = true
}

func (d *Display) writeChar(char byte, row, col int, cursor bool) {
	c := int(char)
	if c < 0x20 || c > 0x7e {
		c = 0x20
	}
	fontLo := textFont[(c-0x20)*2]
	fontHi := textFont[(c-0x20)*2+1]

	// The LSB in each half-word is the topmost pixel in that column.
	y := row * fontHeight
	x := col * fontWidth
	fg, bg := colText, colBack
	if cursor {
		fg, bg = bg, fg
	}

	d.writeColumn(fg, bg, x, y, uint8(fontLo>>8))
	d.writeColumn(fg, bg, x+1, y, uint8(fontLo))
	d.writeColumn(fg, bg, x+2, y, uint8(fontHi>>8))
	d.writeColumn(fg, bg, x+3, y, uint8(fontHi))
}

func (d *Display) writeColumn(fg, bg uint32, x, y int, pixels uint8) {
	for i := uint(0); i < 8; i++ {
		b := (pixels >> i) & 1
		c := fg
		if b == 0 {
			c = bg
		}
		d.writePixel(c, x, y+int(i))
	}
}

// writeLEDs draws the three lock LEDs as small blocks in the strip under
// the text area: scroll, num, caps, left to right like the masks.
func (d *Display) writeLEDs(leds byte) {
	masks := []byte{ps2.LEDScroll, ps2.LEDNum, ps2.LEDCaps}
	for y := apple.Rows * fontHeight; y < heightPixels; y++ {
		for x := 0; x < int(widthPixels); x++ {
			d.writePixel(colBack, x, y)
		}
	}
	for n, mask := range masks {
		c := colLEDOff
		if leds&mask != 0 {
			c = colLEDOn
		}
		x0 := 2 + n*10
		y0 := apple.Rows*fontHeight + 2
		for y := 0; y < 4; y++ {
			for x := 0; x < 6; x++ {
				d.writePixel(c, x0+x, y0+y)
			}
		}
	}
}

// writePixel stores one ARGB8888 pixel, little-endian byte order as SDL
// expects for this format.
func (d *Display) writePixel(c uint32, x, y int) {
	offset := (y*widthPixels + x) * 4
	d.pixels[offset] = byte(c)
	d.pixels[offset+1] = byte(c >> 8)
	d.pixels[offset+2] = byte(c >> 16)
	d.pixels[offset+3] = byte(c >> 24)
}

func (d *Display) Cleanup() {
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
	sdl.Quit()
}

// 4x8 column font for the printable ASCII range, two half-words per glyph.
var textFont = [192]uint16{
	0x0000, 0x0000, // 0x20 - space
	0x005f, 0x0000, // 0x21 - !
	0x0300, 0x0300, // 0x22 - "
	0x3e14, 0x3e00, // 0x23 - #
	0x266b, 0x3200, // 0x24 - $
	0x611c, 0x4300, // 0x25 - %
	0x3629, 0x7650, // 0x26 - &
	0x0002, 0x0100, // 0x27 - '
	0x1c22, 0x4100, // 0x28 - (
	0x4122, 0x1c00, // 0x29 - )
	0x1408, 0x1400, // 0x2a - *
	0x081c, 0x0800, // 0x2b - +
	0x4020, 0x0000, // 0x2c - ,
	0x0808, 0x0800, // 0x2d - -
	0x0040, 0x0000, // 0x2e - .
	0x601c, 0x0300, // 0x2f - /

	0x3e49, 0x3e00, // 0x30 - 0
	0x427f, 0x4000, // 0x31 - 1
	0x6259, 0x4600, // 0x32 - 2
	0x2249, 0x3600, // 0x33 - 3
	0x0f08, 0x7f00, // 0x34 - 4
	0x2745, 0x3900, // 0x35 - 5
	0x3e49, 0x3200, // 0x36 - 6
	0x6119, 0x0700, // 0x37 - 7
	0x3649, 0x3600, // 0x38 - 8
	0x2649, 0x3e00, // 0x39 - 9
	0x0024, 0x0000, // 0x3a - :
	0x4024, 0x0000, // 0x3b - ;
	0x0814, 0x2200, // 0x3c - <
	0x1414, 0x1400, // 0x3d - =
	0x2214, 0x0800, // 0x3e - >
	0x0259, 0x0600, // 0x3f - ?

	0x3e59, 0x5e00, // 0x40 - @
	0x7e09, 0x7e00, // 0x41 - A
	0x7f49, 0x3600, // 0x42 - B
	0x3e41, 0x2200, // 0x43 - C
	0x7f41, 0x3e00, // 0x44 - D
	0x7f49, 0x4100, // 0x45 - E
	0x7f09, 0x0100, // 0x46 - F
	0x3e41, 0x7a00, // 0x47 - G
	0x7f08, 0x7f00, // 0x48 - H
	0x417f, 0x4100, // 0x49 - I
	0x2040, 0x3f00, // 0x4a - J
	0x7f08, 0x7700, // 0x4b - K
	0x7f40, 0x4000, // 0x4c - L
	0x7f06, 0x7f00, // 0x4d - M
	0x7f01, 0x7e00, // 0x4e - N
	0x3e41, 0x3e00, // 0x4f - O

	0x7f09, 0x0600, // 0x50 - P
	0x3e41, 0xbe00, // 0x51 - Q
	0x7f09, 0x7600, // 0x52 - R
	0x2649, 0x3200, // 0x53 - S
	0x017f, 0x0100, // 0x54 - T
	0x3f40, 0x7f00, // 0x55 - U
	0x1f60, 0x1f00, // 0x56 - V
	0x7f30, 0x7f00, // 0x57 - W
	0x7708, 0x7700, // 0x58 - X
	0x0778, 0x0700, // 0x59 - Y
	0x7149, 0x4700, // 0x5a - Z
	0x007f, 0x4100, // 0x5b - [
	0x031c, 0x6000, // 0x5c - backslash
	0x417f, 0x0000, // 0x5d - ]
	0x0201, 0x0200, // 0x5e - ^
	0x8080, 0x8000, // 0x5f - _

	0x0001, 0x0200, // 0x60 - `
	0x2454, 0x7800, // 0x61 - a
	0x7f44, 0x3800, // 0x62 - b
	0x3844, 0x2800, // 0x63 - c
	0x3844, 0x7f00, // 0x64 - d
	0x3854, 0x5800, // 0x65 - e
	0x087e, 0x0900, // 0x66 - f
	0x4854, 0x3c00, // 0x67 - g
	0x7f04, 0x7800, // 0x68 - h
	0x047d, 0x0000, // 0x69 - i
	0x2040, 0x3d00, // 0x6a - j
	0x7f10, 0x6c00, // 0x6b - k
	0x017f, 0x0000, // 0x6c - l
	0x7c18, 0x7c00, // 0x6d - m
	0x7c04, 0x7800, // 0x6e - n
	0x3844, 0x3800, // 0x6f - o

	0x7c14, 0x0800, // 0x70 - p
	0x0814, 0x7c00, // 0x71 - q
	0x7c04, 0x0800, // 0x72 - r
	0x4854, 0x2400, // 0x73 - s
	0x043e, 0x4400, // 0x74 - t
	0x3c40, 0x7c00, // 0x75 - u
	0x1c60, 0x1c00, // 0x76 - v
	0x7c30, 0x7c00, // 0x77 - w
	0x6c10, 0x6c00, // 0x78 - x
	0x4c50, 0x3c00, // 0x79 - y
	0x6454, 0x4c00, // 0x7a - z
	0x0836, 0x4100, // 0x7b - {
	0x0077, 0x0000, // 0x7c - |
	0x4136, 0x0800, // 0x7d - }
	0x0201, 0x0201, // 0x7e - ~
}
