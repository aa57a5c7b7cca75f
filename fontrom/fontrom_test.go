package fontrom

import (
	"bytes"
	"strings"
	"testing"
)

func TestFixBitsSpotChecks(t *testing.T) {
	cases := []struct {
		in, out byte
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x04}, // bit 0 lands on line 2
		{0x02, 0x80}, // bit 1 lands on line 7
		{0x10, 0x10}, // bit 4 stays put
		{0x40, 0x02}, // bit 6 lands on line 1
		{0x80, 0x01}, // bit 7 lands on line 0
	}
	for _, c := range cases {
		if got := FixBits(c.in); got != c.out {
			t.Errorf("FixBits(%02x) = %02x, want %02x", c.in, got, c.out)
		}
	}
}

func TestFixBitsNotSelfInverse(t *testing.T) {
	// The board's wiring is not a plain reversal: applying the fix twice
	// does not recover the original.
	if FixBits(FixBits(0x01)) == 0x01 {
		t.Errorf("FixBits looks like its own inverse; it must not be")
	}
}

func TestUnfixBitsRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := UnfixBits(FixBits(b)); got != b {
			t.Errorf("UnfixBits(FixBits(%02x)) = %02x", b, got)
		}
		if got := FixBits(UnfixBits(b)); got != b {
			t.Errorf("FixBits(UnfixBits(%02x)) = %02x", b, got)
		}
	}
}

func TestFixBitsPreservesPopCount(t *testing.T) {
	pop := func(b byte) int {
		n := 0
		for ; b != 0; b >>= 1 {
			n += int(b & 1)
		}
		return n
	}
	for i := 0; i < 256; i++ {
		b := byte(i)
		if pop(FixBits(b)) != pop(b) {
			t.Errorf("FixBits(%02x) changed the bit count", b)
		}
	}
}

func TestTranscode(t *testing.T) {
	in := []byte{0x01, 0x02, 0x80, 0xFF, 0x00}
	var fixed bytes.Buffer
	if err := Transcode(&fixed, bytes.NewReader(in), FixBits); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	want := []byte{0x04, 0x80, 0x01, 0xFF, 0x00}
	if !bytes.Equal(fixed.Bytes(), want) {
		t.Fatalf("fixed image % 02x, want % 02x", fixed.Bytes(), want)
	}

	var back bytes.Buffer
	if err := Transcode(&back, bytes.NewReader(fixed.Bytes()), UnfixBits); err != nil {
		t.Fatalf("Transcode back: %v", err)
	}
	if !bytes.Equal(back.Bytes(), in) {
		t.Fatalf("round trip % 02x, want % 02x", back.Bytes(), in)
	}
}

func TestRender(t *testing.T) {
	// One row with all seven visible columns lit, one with none. The
	// rendered row reads the board-ordered bits in column order 1 3 4 5 6
	// 7 2.
	lit := byte(1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<6 | 1<<7)
	var out strings.Builder
	if err := Render(&out, bytes.NewReader([]byte{lit, 0x00})); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if lines[0] != "#######" {
		t.Errorf("lit row %q", lines[0])
	}
	if lines[1] != "       " {
		t.Errorf("dark row %q", lines[1])
	}
}

func TestRenderGlyphSpacing(t *testing.T) {
	// 16 bytes are two glyphs; a blank line separates them.
	img := make([]byte, 16)
	var out strings.Builder
	if err := Render(&out, bytes.NewReader(img)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	// 8 rows, blank, 8 rows, blank, then the final split remainder.
	if len(lines) != 19 {
		t.Fatalf("%d lines, want 19", len(lines))
	}
	if lines[8] != "" || lines[17] != "" {
		t.Errorf("glyph separators missing: %q %q", lines[8], lines[17])
	}
}
