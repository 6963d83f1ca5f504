package wallet

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	purposeLegacy        = 44
	purposeWrappedSegwit = 49
	purposeNativeSegwit  = 84

	coinTypeBitcoin = 0
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet path
type DerivationPath []uint32

var (
	// LegacyDerivationPath m/44'/0'/0'/0/0
	LegacyDerivationPath = firstReceivingPath(purposeLegacy)
	// WrappedSegwitDerivationPath m/49'/0'/0'/0/0
	WrappedSegwitDerivationPath = firstReceivingPath(purposeWrappedSegwit)
	// NativeSegwitDerivationPath m/84'/0'/0'/0/0
	NativeSegwitDerivationPath = firstReceivingPath(purposeNativeSegwit)
)

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("m")
	for _, step := range path {
		sb.WriteString("/")
		if step >= hdkeychain.HardenedKeyStart {
			sb.WriteString(strconv.FormatUint(uint64(step-hdkeychain.HardenedKeyStart), 10))
			sb.WriteString("'")
			continue
		}
		sb.WriteString(strconv.FormatUint(uint64(step), 10))
	}
	return sb.String()
}

// firstReceivingPath returns m/purpose'/0'/0'/0/0, the first external
// address of the first bitcoin account.
func firstReceivingPath(purpose uint32) DerivationPath {
	return DerivationPath{
		hdkeychain.HardenedKeyStart + purpose,
		hdkeychain.HardenedKeyStart + coinTypeBitcoin,
		hdkeychain.HardenedKeyStart + 0,
		0,
		0,
	}
}
