package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WalletFinding is a candidate mnemonic with at least one address holding
// funds.
type WalletFinding struct {
	Line      int
	Mnemonic  []string
	Addresses []AddressBalance
	Total     decimal.Decimal
}

// NewWalletFinding returns a finding for the given mnemonic and the balances
// of its addresses, or false if none of them holds a positive known balance.
func NewWalletFinding(
	line int, mnemonic []string, balances []AddressBalance,
) (*WalletFinding, bool) {
	total := decimal.Zero
	for _, b := range balances {
		if b.Balance.IsPositive() {
			total = total.Add(b.Balance.Amount)
		}
	}
	if !total.IsPositive() {
		return nil, false
	}

	m := make([]string, len(mnemonic))
	copy(m, mnemonic)
	addresses := make([]AddressBalance, len(balances))
	copy(addresses, balances)

	return &WalletFinding{
		Line:      line,
		Mnemonic:  m,
		Addresses: addresses,
		Total:     total,
	}, true
}

// Seed returns the mnemonic as a space separated string.
func (f WalletFinding) Seed() string {
	return strings.Join(f.Mnemonic, " ")
}

// FundedAddresses returns the addresses with a positive balance.
func (f WalletFinding) FundedAddresses() []AddressBalance {
	funded := make([]AddressBalance, 0, len(f.Addresses))
	for _, a := range f.Addresses {
		if a.Balance.IsPositive() {
			funded = append(funded, a)
		}
	}
	return funded
}
