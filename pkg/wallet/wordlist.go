package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39/wordlists"
)

const (
	// WordlistSize is the number of words of a BIP39 wordlist.
	WordlistSize = 2048
	// bitsPerWord is the number of bits encoded by every word of a mnemonic.
	bitsPerWord = 11
)

var defaultWordlist = mustLoadWordlist(wordlists.English)

// Wordlist maps words to their 11-bit index and back. The order of the words
// defines the bit encoding of a mnemonic, therefore it must never change
// once loaded.
type Wordlist struct {
	words       []string
	indexByWord map[string]int
}

// NewWordlist loads the given ordered list of words. It fails if the list is
// not made of exactly 2048 distinct non-empty words.
func NewWordlist(words []string) (*Wordlist, error) {
	if len(words) != WordlistSize {
		return nil, ErrInvalidWordlistSize
	}

	list := make([]string, WordlistSize)
	indexByWord := make(map[string]int, WordlistSize)
	for i, word := range words {
		if word == "" {
			return nil, ErrEmptyWord
		}
		if _, ok := indexByWord[word]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatedWord, word)
		}
		list[i] = word
		indexByWord[word] = i
	}

	return &Wordlist{list, indexByWord}, nil
}

// DefaultWordlist returns the canonical english BIP39 wordlist.
func DefaultWordlist() *Wordlist {
	return defaultWordlist
}

// IndexOf returns the index of the given word, if found.
func (w *Wordlist) IndexOf(word string) (int, bool) {
	index, ok := w.indexByWord[word]
	return index, ok
}

// WordAt returns the word at the given index.
func (w *Wordlist) WordAt(index int) (string, error) {
	if index < 0 || index >= len(w.words) {
		return "", ErrOutOfRangeWordIndex
	}
	return w.words[index], nil
}

func mustLoadWordlist(words []string) *Wordlist {
	w, err := NewWordlist(words)
	if err != nil {
		panic(fmt.Sprintf("failed to load wordlist: %s", err))
	}
	return w
}
