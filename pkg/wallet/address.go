package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// AddressType identifies one of the supported address formats, each bound to
// its own standard derivation path.
type AddressType int

const (
	// Legacy is a P2PKH address derived along m/44'/0'/0'/0/0
	Legacy AddressType = iota
	// WrappedSegwit is a P2SH-P2WPKH address derived along m/49'/0'/0'/0/0
	WrappedSegwit
	// NativeSegwit is a P2WPKH address derived along m/84'/0'/0'/0/0
	NativeSegwit
)

// AddressTypes lists the supported address types in the order they are
// derived and checked.
var AddressTypes = []AddressType{Legacy, WrappedSegwit, NativeSegwit}

func (t AddressType) String() string {
	switch t {
	case Legacy:
		return "legacy"
	case WrappedSegwit:
		return "segwit"
	case NativeSegwit:
		return "native_segwit"
	default:
		return "unknown"
	}
}

// DerivationPath returns the path the address type is derived along.
func (t AddressType) DerivationPath() (DerivationPath, error) {
	switch t {
	case Legacy:
		return LegacyDerivationPath, nil
	case WrappedSegwit:
		return WrappedSegwitDerivationPath, nil
	case NativeSegwit:
		return NativeSegwitDerivationPath, nil
	default:
		return nil, ErrInvalidAddressType
	}
}

// DerivedAddress is an address together with the type and path it has been
// derived with.
type DerivedAddress struct {
	Type    AddressType
	Path    DerivationPath
	Address string
}

func encodeAddress(
	addrType AddressType, pubkey *btcec.PublicKey, network *chaincfg.Params,
) (string, error) {
	pubkeyHash := btcutil.Hash160(pubkey.SerializeCompressed())

	var addr btcutil.Address
	var err error
	switch addrType {
	case Legacy:
		addr, err = btcutil.NewAddressPubKeyHash(pubkeyHash, network)
	case WrappedSegwit:
		addr, err = wrappedWitnessAddress(pubkeyHash, network)
	case NativeSegwit:
		addr, err = btcutil.NewAddressWitnessPubKeyHash(pubkeyHash, network)
	default:
		err = ErrInvalidAddressType
	}
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// wrappedWitnessAddress returns the P2SH address whose redeem script is the
// P2WPKH witness program of the given pubkey hash.
func wrappedWitnessAddress(
	pubkeyHash []byte, network *chaincfg.Params,
) (btcutil.Address, error) {
	witnessAddr, err := btcutil.NewAddressWitnessPubKeyHash(pubkeyHash, network)
	if err != nil {
		return nil, err
	}
	redeemScript, err := txscript.PayToAddrScript(witnessAddr)
	if err != nil {
		return nil, err
	}
	return btcutil.NewAddressScriptHash(redeemScript, network)
}
