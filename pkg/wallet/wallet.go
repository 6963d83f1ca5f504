package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullWordlist ...
	ErrNullWordlist = errors.New("wordlist must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")

	// ErrInvalidWordCount ...
	ErrInvalidWordCount = fmt.Errorf(
		"partial mnemonic must be made of exactly %d words", PartialMnemonicLen,
	)
	// ErrInvalidMnemonicLength ...
	ErrInvalidMnemonicLength = fmt.Errorf(
		"mnemonic must be made of exactly %d words", MnemonicLen,
	)
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic checksum is invalid")
	// ErrInvalidWordlistSize ...
	ErrInvalidWordlistSize = fmt.Errorf(
		"wordlist must contain exactly %d words", WordlistSize,
	)
	// ErrInvalidAddressType ...
	ErrInvalidAddressType = errors.New("address type is not supported")

	// ErrEmptyWord ...
	ErrEmptyWord = errors.New("wordlist must not contain empty words")
	// ErrDuplicatedWord ...
	ErrDuplicatedWord = errors.New("wordlist must not contain duplicated words")
	// ErrOutOfRangeWordIndex ...
	ErrOutOfRangeWordIndex = fmt.Errorf(
		"word index must be in range [0, %d]", WordlistSize-1,
	)
)

// UnknownWordError is returned when a word of a mnemonic is not part of the
// wordlist in use.
type UnknownWordError struct {
	Word     string
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf(
		"word %q at position %d is not in the wordlist", e.Word, e.Position,
	)
}

// DerivationError wraps any failure that prevented deriving a key or an
// address from a mnemonic.
type DerivationError struct {
	Path string
	Err  error
}

func (e *DerivationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("derivation failed: %s", e.Err)
	}
	return fmt.Sprintf("derivation failed for path %s: %s", e.Path, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

// Wallet holds the master extended key obtained from a 12-word mnemonic and
// derives addresses from it. Every derivation starts from the master key, so
// deriving one address type never affects another.
type Wallet struct {
	mnemonic  []string
	masterKey *hdkeychain.ExtendedKey
	network   *chaincfg.Params
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
	Network  *chaincfg.Params
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if len(o.Mnemonic) != MnemonicLen {
		return ErrInvalidMnemonicLength
	}
	if !IsMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic generates the seed from the given mnemonic with an
// empty passphrase and the master key from the seed. Network defaults to
// bitcoin mainnet.
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, &DerivationError{Err: err}
	}
	network := opts.Network
	if network == nil {
		network = &chaincfg.MainNetParams
	}

	seed := generateSeedFromMnemonic(opts.Mnemonic)
	masterKey, err := hdkeychain.NewMaster(seed, network)
	if err != nil {
		return nil, &DerivationError{Err: err}
	}

	mnemonic := make([]string, len(opts.Mnemonic))
	copy(mnemonic, opts.Mnemonic)

	return &Wallet{
		mnemonic:  mnemonic,
		masterKey: masterKey,
		network:   network,
	}, nil
}

// Mnemonic returns a copy of the wallet's mnemonic.
func (w *Wallet) Mnemonic() []string {
	mnemonic := make([]string, len(w.mnemonic))
	copy(mnemonic, w.mnemonic)
	return mnemonic
}

// DeriveAddress derives the first receiving address for the given type along
// its standard derivation path.
func (w *Wallet) DeriveAddress(addrType AddressType) (*DerivedAddress, error) {
	path, err := addrType.DerivationPath()
	if err != nil {
		return nil, &DerivationError{Err: err}
	}

	key, err := w.deriveKey(path)
	if err != nil {
		return nil, &DerivationError{Path: path.String(), Err: err}
	}
	pubkey, err := key.ECPubKey()
	if err != nil {
		return nil, &DerivationError{Path: path.String(), Err: err}
	}
	addr, err := encodeAddress(addrType, pubkey, w.network)
	if err != nil {
		return nil, &DerivationError{Path: path.String(), Err: err}
	}

	return &DerivedAddress{
		Type:    addrType,
		Path:    path,
		Address: addr,
	}, nil
}

// DeriveAddresses derives one address for every supported type, in the
// order given by AddressTypes.
func (w *Wallet) DeriveAddresses() ([]DerivedAddress, error) {
	addresses := make([]DerivedAddress, 0, len(AddressTypes))
	for _, addrType := range AddressTypes {
		addr, err := w.DeriveAddress(addrType)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *addr)
	}
	return addresses, nil
}

func (w *Wallet) deriveKey(path DerivationPath) (*hdkeychain.ExtendedKey, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}
	key := w.masterKey
	for _, step := range path {
		var err error
		key, err = key.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}

// KeyDeriver turns a 12-word mnemonic into its legacy, wrapped-segwit and
// native-segwit addresses.
type KeyDeriver struct {
	network *chaincfg.Params
}

// NewKeyDeriver returns a KeyDeriver for the given network.
func NewKeyDeriver(network *chaincfg.Params) (*KeyDeriver, error) {
	if network == nil {
		return nil, ErrNullNetwork
	}
	return &KeyDeriver{network}, nil
}

// DeriveAddresses returns the addresses of the given mnemonic. Any failure
// is returned as a *DerivationError.
func (d *KeyDeriver) DeriveAddresses(mnemonic []string) ([]DerivedAddress, error) {
	w, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
		Network:  d.network,
	})
	if err != nil {
		return nil, err
	}
	return w.DeriveAddresses()
}

func generateSeedFromMnemonic(mnemonic []string) []byte {
	return bip39.NewSeed(strings.Join(mnemonic, " "), "")
}
