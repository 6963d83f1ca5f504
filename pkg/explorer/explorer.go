package explorer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// BitcoinExponent is the number of decimal places of one bitcoin
	// expressed in satoshis.
	BitcoinExponent = 8
)

var (
	// ErrNullEndpoint ...
	ErrNullEndpoint = errors.New("explorer endpoint must not be null")
	// ErrNullAddress ...
	ErrNullAddress = errors.New("address must not be null")
	// ErrNegativeBalance ...
	ErrNegativeBalance = errors.New("balance must not be negative")
	// ErrAddressNotFound ...
	ErrAddressNotFound = errors.New("address not found in response")
)

// Service is a source of address balances. Implementations query a specific
// block explorer and normalize its response to a whole-coin amount.
type Service interface {
	// Name returns the identifier of the source.
	Name() string
	// GetBalance returns the confirmed plus unconfirmed balance of the given
	// address in BTC.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// ProviderError is returned by a Service for any transport, status or
// parsing failure.
type ProviderError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf(
			"%s: unexpected status %d: %s", e.Source, e.StatusCode, e.Err,
		)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SatsToBTC converts an amount of satoshis to BTC.
func SatsToBTC(sats int64) (decimal.Decimal, error) {
	if sats < 0 {
		return decimal.Zero, ErrNegativeBalance
	}
	return decimal.New(sats, -BitcoinExponent), nil
}

// FormatBTC returns the amount with the full 8 decimal places.
func FormatBTC(amount decimal.Decimal) string {
	return amount.StringFixed(BitcoinExponent)
}

// TrimEndpoint validates the given base url and strips its trailing slashes.
func TrimEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "", ErrNullEndpoint
	}
	return endpoint, nil
}
