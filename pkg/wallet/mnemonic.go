package wallet

import (
	"crypto/sha256"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	// PartialMnemonicLen is the number of known words of a partial mnemonic.
	PartialMnemonicLen = 11
	// MnemonicLen is the number of words of a complete mnemonic.
	MnemonicLen = 12
	// NumOfCompletions is the number of checksum-valid last words for any
	// partial mnemonic, one for every value of the free entropy bits.
	NumOfCompletions = 1 << freeEntropyBits

	entropySize     = 128
	freeEntropyBits = entropySize - PartialMnemonicLen*bitsPerWord
	checksumBits    = bitsPerWord - freeEntropyBits
)

// CompleteMnemonicOpts is the struct given to the CompleteMnemonic method
type CompleteMnemonicOpts struct {
	Words    []string
	Wordlist *Wordlist
}

func (o CompleteMnemonicOpts) validate() error {
	if len(o.Words) != PartialMnemonicLen {
		return ErrInvalidWordCount
	}
	return nil
}

// CompleteMnemonic returns all the 12-word mnemonics whose first 11 words are
// the given ones and whose checksum is valid. The result always contains
// exactly NumOfCompletions mnemonics, sorted by the value of the free entropy
// bits encoded by the last word. If Wordlist is not given the english one is
// used.
func CompleteMnemonic(opts CompleteMnemonicOpts) ([][]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	wordlist := opts.Wordlist
	if wordlist == nil {
		wordlist = defaultWordlist
	}

	prefix := new(big.Int)
	for i, word := range opts.Words {
		index, ok := wordlist.IndexOf(word)
		if !ok {
			return nil, &UnknownWordError{Word: word, Position: i + 1}
		}
		prefix.Lsh(prefix, bitsPerWord)
		prefix.Or(prefix, big.NewInt(int64(index)))
	}
	prefix.Lsh(prefix, freeEntropyBits)

	mnemonics := make([][]string, 0, NumOfCompletions)
	entropy := new(big.Int)
	buf := make([]byte, entropySize/8)
	for i := 0; i < NumOfCompletions; i++ {
		entropy.Or(prefix, big.NewInt(int64(i)))
		hash := sha256.Sum256(entropy.FillBytes(buf))
		checksum := int(hash[0] >> (8 - checksumBits))

		lastWord, err := wordlist.WordAt(i<<checksumBits | checksum)
		if err != nil {
			return nil, err
		}

		mnemonic := make([]string, 0, MnemonicLen)
		mnemonic = append(mnemonic, opts.Words...)
		mnemonic = append(mnemonic, lastWord)
		mnemonics = append(mnemonics, mnemonic)
	}

	return mnemonics, nil
}

// IsMnemonicValid returns whether the given english mnemonic has a valid
// checksum.
func IsMnemonicValid(mnemonic []string) bool {
	return bip39.IsMnemonicValid(strings.Join(mnemonic, " "))
}

// MnemonicCompleter completes partial mnemonics against a fixed wordlist.
type MnemonicCompleter struct {
	wordlist *Wordlist
}

// NewMnemonicCompleter returns a MnemonicCompleter for the given wordlist.
func NewMnemonicCompleter(wordlist *Wordlist) (*MnemonicCompleter, error) {
	if wordlist == nil {
		return nil, ErrNullWordlist
	}
	return &MnemonicCompleter{wordlist}, nil
}

// Complete is a shorthand for CompleteMnemonic with the completer's wordlist.
func (c *MnemonicCompleter) Complete(words []string) ([][]string, error) {
	return CompleteMnemonic(CompleteMnemonicOpts{
		Words:    words,
		Wordlist: c.wordlist,
	})
}
