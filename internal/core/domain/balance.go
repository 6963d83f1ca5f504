package domain

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/seedfinder/pkg/wallet"
)

// Balance is the outcome of a balance lookup. A Balance that is not Known
// means every source failed for the address.
type Balance struct {
	Known  bool
	Amount decimal.Decimal
	Source string
}

// KnownBalance returns a Balance resolved by the given source.
func KnownBalance(amount decimal.Decimal, source string) Balance {
	return Balance{
		Known:  true,
		Amount: amount,
		Source: source,
	}
}

// UnknownBalance returns a Balance that could not be resolved.
func UnknownBalance() Balance {
	return Balance{Amount: decimal.Zero}
}

// IsPositive returns whether the balance is known and greater than zero.
func (b Balance) IsPositive() bool {
	return b.Known && b.Amount.IsPositive()
}

// AddressBalance is a derived address together with its balance.
type AddressBalance struct {
	wallet.DerivedAddress
	Balance Balance
}
