package wallet

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveAddresses(t *testing.T) {
	deriver, err := NewKeyDeriver(&chaincfg.MainNetParams)
	require.NoError(t, err)

	addresses, err := deriver.DeriveAddresses(strings.Fields(testMnemonic))
	require.NoError(t, err)
	require.Len(t, addresses, len(AddressTypes))

	for i, addr := range addresses {
		require.Equal(t, AddressTypes[i], addr.Type)
		path, err := addr.Type.DerivationPath()
		require.NoError(t, err)
		require.Equal(t, path, addr.Path)
	}

	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", addresses[0].Address)
	assert.True(t, strings.HasPrefix(addresses[1].Address, "3"))
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", addresses[2].Address)
}

func TestDeriveAddressesIsDeterministic(t *testing.T) {
	deriver, err := NewKeyDeriver(&chaincfg.MainNetParams)
	require.NoError(t, err)

	mnemonic := strings.Fields(
		"legal winner thank year wave sausage worth useful legal winner thank yellow",
	)
	first, err := deriver.DeriveAddresses(mnemonic)
	require.NoError(t, err)
	second, err := deriver.DeriveAddresses(mnemonic)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDeriveAddressIsIndependentOfOrder(t *testing.T) {
	w, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: strings.Fields(testMnemonic),
	})
	require.NoError(t, err)

	all, err := w.DeriveAddresses()
	require.NoError(t, err)

	for i := len(AddressTypes) - 1; i >= 0; i-- {
		addr, err := w.DeriveAddress(AddressTypes[i])
		require.NoError(t, err)
		require.Equal(t, all[i], *addr)
	}
}

func TestFailingDeriveAddresses(t *testing.T) {
	deriver, err := NewKeyDeriver(&chaincfg.MainNetParams)
	require.NoError(t, err)

	tests := []struct {
		mnemonic string
		err      error
	}{
		{"", ErrNullMnemonic},
		{"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", ErrInvalidMnemonicLength},
		{"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", ErrInvalidMnemonic},
	}
	for _, tt := range tests {
		_, err := deriver.DeriveAddresses(strings.Fields(tt.mnemonic))
		require.Error(t, err)

		var derivationErr *DerivationError
		require.ErrorAs(t, err, &derivationErr)
		require.ErrorIs(t, err, tt.err)
	}

	_, err = NewKeyDeriver(nil)
	require.Equal(t, ErrNullNetwork, err)

	w, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: strings.Fields(testMnemonic),
	})
	require.NoError(t, err)
	_, err = w.DeriveAddress(AddressType(-1))
	require.ErrorIs(t, err, ErrInvalidAddressType)
}
