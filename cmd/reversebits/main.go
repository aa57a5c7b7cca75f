// reversebits permutes each byte of a font ROM image into the GTAC-2 data
// line order. It is a plain stdin-to-stdout filter:
//
//	reversebits < stock.bin > board.bin
//	reversebits -undo < board.bin > stock.bin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gtac2/ps2apple/fontrom"
)

func main() {
	undo := flag.Bool("undo", false, "Recover the stock image from a board-ordered one.")
	flag.Parse()

	fix := fontrom.FixBits
	if *undo {
		fix = fontrom.UnfixBits
	}

	if err := fontrom.Transcode(os.Stdout, os.Stdin, fix); err != nil {
		fmt.Fprintf(os.Stderr, "reversebits: %v\n", err)
		os.Exit(1)
	}
}
