// Package fontrom works on character-generator ROM images for the GTAC-2
// Apple II clone. The clone's board routes the seven video data lines to
// the ROM in a scrambled order, so a stock font image has to have each
// byte's bits permuted before burning.
package fontrom

import "io"

// fixTable maps each source bit to the data line it actually lands on:
// bit 0 to 2, 1 to 7, 2 to 6, 3 to 5, 4 to 4, 5 to 3, 6 to 1, 7 to 0.
// Note this is not a plain reversal and not its own inverse.
var fixTable = [8]byte{2, 7, 6, 5, 4, 3, 1, 0}

var unfixTable [8]byte

func init() {
	for from, to := range fixTable {
		unfixTable[to] = byte(from)
	}
}

func permute(b byte, table *[8]byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		if b&(1<<i) != 0 {
			out |= 1 << table[i]
		}
	}
	return out
}

// FixBits permutes one font byte into the GTAC-2 wiring order.
func FixBits(b byte) byte { return permute(b, &fixTable) }

// UnfixBits is the inverse of FixBits, recovering the stock byte from a
// board-ordered one.
func UnfixBits(b byte) byte { return permute(b, &unfixTable) }

// Transcode copies r to w applying fix to every byte.
func Transcode(w io.Writer, r io.Reader, fix func(byte) byte) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			buf[i] = fix(buf[i])
		}
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// glyphColumns lists, left to right, which bit of a board-ordered font byte
// drives each of the seven visible columns.
var glyphColumns = [7]uint{1, 3, 4, 5, 6, 7, 2}

// Render writes an ASCII view of a board-ordered font image: one row of
// '#' and spaces per byte, seven columns wide, with a blank line between
// 8-byte glyphs.
func Render(w io.Writer, r io.Reader) error {
	buf := make([]byte, 1)
	row := make([]byte, 8)
	line := 0
	for {
		n, err := r.Read(buf)
		if n == 1 {
			for i, bit := range glyphColumns {
				row[i] = ' '
				if buf[0]&(1<<bit) != 0 {
					row[i] = '#'
				}
			}
			row[7] = '\n'
			if _, werr := w.Write(row); werr != nil {
				return werr
			}
			line++
			if line == 8 {
				line = 0
				if _, werr := w.Write([]byte{'\n'}); werr != nil {
					return werr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
