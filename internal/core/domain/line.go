package domain

import (
	"strings"

	"github.com/tdex-network/seedfinder/pkg/wallet"
)

const commentPrefix = "#"

// Line is a single line of the input source.
type Line struct {
	Number int
	Text   string
	Words  []string
}

// NewLine trims the raw text and splits it into words.
func NewLine(number int, raw string) Line {
	text := strings.TrimSpace(raw)
	return Line{
		Number: number,
		Text:   text,
		Words:  strings.Fields(text),
	}
}

// IsSkippable returns whether the line is empty or a comment.
func (l Line) IsSkippable() bool {
	return l.Text == "" || strings.HasPrefix(l.Text, commentPrefix)
}

// Validate returns an *InputFormatError if the line does not carry exactly
// the number of words of a partial mnemonic.
func (l Line) Validate() error {
	if len(l.Words) != wallet.PartialMnemonicLen {
		return &InputFormatError{Line: l.Number, WordCount: len(l.Words)}
	}
	return nil
}

// Preview returns at most the first n characters of the line.
func (l Line) Preview(n int) string {
	if len(l.Text) <= n {
		return l.Text
	}
	return l.Text[:n]
}
