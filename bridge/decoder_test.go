package bridge

import "testing"

type emission struct {
	code int
	mods byte
}

// runDecoder feeds a scan stream and collects what comes out.
func runDecoder(d *Decoder, stream []byte) []emission {
	var out []emission
	for _, b := range stream {
		if code, mods, ok := d.Feed(b); ok {
			out = append(out, emission{code, mods})
		}
	}
	return out
}

func TestDecoderScenarios(t *testing.T) {
	cases := []struct {
		name   string
		stream []byte
		want   []emission
		mods   byte
	}{
		{
			name:   "plain key",
			stream: []byte{0x1E, 0x9E},
			want:   []emission{{0x1E, 0}},
		},
		{
			name:   "shifted key",
			stream: []byte{0x2A, 0x1E, 0x9E, 0xAA},
			want:   []emission{{0x1E, ModShift}},
		},
		{
			name:   "ctrl key",
			stream: []byte{0x1D, 0x2E, 0xAE, 0x9D},
			want:   []emission{{0x2E, ModCtrl}},
		},
		{
			name:   "shift and ctrl together",
			stream: []byte{0x2A, 0x1D, 0x10, 0x90, 0x9D, 0xAA},
			want:   []emission{{0x10, ModShift | ModCtrl}},
		},
		{
			name:   "right shift counts too",
			stream: []byte{0x36, 0x1E, 0x9E, 0xB6},
			want:   []emission{{0x1E, ModShift}},
		},
		{
			name:   "modifier state survives the event",
			stream: []byte{0x2A, 0x1E, 0x9E},
			want:   []emission{{0x1E, ModShift}},
			mods:   ModShift,
		},
		{
			name:   "right ctrl behind E0",
			stream: []byte{0xE0, 0x1D, 0x1E, 0x9E, 0xE0, 0x9D},
			want:   []emission{{0x1E, ModCtrl}},
		},
		{
			name:   "cursor left remaps to 55",
			stream: []byte{0xE0, 0x4B, 0xE0, 0xCB},
			want:   []emission{{55, 0}},
		},
		{
			name:   "cursor right remaps to 56",
			stream: []byte{0xE0, 0x4D, 0xE0, 0xCD},
			want:   []emission{{56, 0}},
		},
		{
			name:   "cursor up has no mapping",
			stream: []byte{0xE0, 0x48, 0xE0, 0xC8},
			want:   nil,
		},
		{
			name: "print screen fake shifts discarded",
			// make is E0 2A E0 37, break is E0 B7 E0 AA
			stream: []byte{0xE0, 0x2A, 0xE0, 0x37, 0xE0, 0xB7, 0xE0, 0xAA},
			want:   nil,
		},
		{
			name: "pause sequence swallowed whole",
			// E1 1D 45 E1 9D C5, and the ctrl state must not be disturbed
			stream: []byte{0xE1, 0x1D, 0x45, 0xE1, 0x9D, 0xC5},
			want:   nil,
		},
		{
			name: "E1 followed by an ordinary key",
			// not the Pause prefix after all: the second byte is decoded
			// normally
			stream: []byte{0xE1, 0x1E, 0x9E},
			want:   []emission{{0x1E, 0}},
		},
		{
			name: "double E1 does not rematch Pause",
			// the second E1 is an ordinary out-of-range code, so the 1D
			// after it is a real ctrl make, not the Pause prefix
			stream: []byte{0xE1, 0xE1, 0x1D, 0x1E, 0x9E, 0x9D},
			want:   []emission{{0x1E, ModCtrl}},
		},
		{
			name: "E1 followed by a modifier",
			stream: []byte{0xE1, 0x2A, 0x1E, 0x9E, 0xAA},
			want:   []emission{{0x1E, ModShift}},
		},
		{
			name:   "filtered keys",
			stream: []byte{14, 15, 26, 27, 40, 41, 43},
			want:   nil,
		},
		{
			name:   "lock and function block discarded",
			stream: []byte{58, 59, 70, 83, 0x7F},
			want:   nil,
		},
		{
			name:   "space works under every modifier",
			stream: []byte{0x39, 0xB9, 0x2A, 0x39, 0xB9, 0x1D, 0x39, 0xB9, 0xAA, 0x39, 0xB9, 0x9D},
			want: []emission{
				{0x39, 0},
				{0x39, ModShift},
				{0x39, ModShift | ModCtrl},
				{0x39, ModCtrl},
			},
		},
	}

	for _, c := range cases {
		var d Decoder
		got := runDecoder(&d, c.stream)
		if len(got) != len(c.want) {
			t.Errorf("%s: %d emissions %v, want %d %v",
				c.name, len(got), got, len(c.want), c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: emission %d is %v, want %v", c.name, i, got[i], c.want[i])
			}
		}
		if d.Modifiers() != c.mods {
			t.Errorf("%s: final modifiers %02x, want %02x", c.name, d.Modifiers(), c.mods)
		}
	}
}

func TestDecoderReset(t *testing.T) {
	var d Decoder
	d.Feed(0x2A)
	d.Feed(0xE0)
	d.Reset()
	if d.Modifiers() != 0 {
		t.Errorf("modifiers %02x after reset", d.Modifiers())
	}
	// The pending escape must be gone too.
	if code, mods, ok := d.Feed(0x1E); !ok || code != 0x1E || mods != 0 {
		t.Errorf("after reset Feed(1E) = %d %02x %v", code, mods, ok)
	}
}
