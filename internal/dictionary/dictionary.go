// Package dictionary holds the immutable character table the CTC decoder
// maps class indices onto.
package dictionary

import (
	_ "embed"
	"strings"
)

//go:embed chars.txt
var rawChars string

// Blank is the CTC blank class index; the decoder never emits it.
const Blank = 0

// Space is the index of the ASCII space character.
const Space = 6624

// Size is the total number of entries, indices 0..Size-1.
const Size = 6625

var table [Size]rune

func init() {
	table[Blank] = 0 // blank sentinel; never rendered
	lines := strings.Split(strings.TrimRight(rawChars, "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		r := []rune(line)[0]
		table[1+i] = r
	}
	table[Space] = ' '
}

// IndexToChar returns the character for class index i. Panics if i is out
// of [0, Size) — an out-of-range index is a model/dictionary mismatch bug,
// not a recoverable runtime condition.
func IndexToChar(i int) rune {
	return table[i]
}
