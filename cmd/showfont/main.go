// showfont prints a board-ordered font ROM image as ASCII art, one 7-wide
// row per byte with a blank line between glyphs:
//
//	showfont < board.bin | less
package main

import (
	"fmt"
	"os"

	"github.com/gtac2/ps2apple/fontrom"
)

func main() {
	if err := fontrom.Render(os.Stdout, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "showfont: %v\n", err)
		os.Exit(1)
	}
}
