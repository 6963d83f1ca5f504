package ports

import (
	"context"
	"time"

	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/pkg/wallet"
)

// MnemonicCompleter returns every checksum-valid 12-word mnemonic starting
// with the given 11 words.
type MnemonicCompleter interface {
	Complete(words []string) ([][]string, error)
}

// KeyDeriver derives the legacy, wrapped-segwit and native-segwit addresses
// of a mnemonic, in this order.
type KeyDeriver interface {
	DeriveAddresses(mnemonic []string) ([]wallet.DerivedAddress, error)
}

// BalanceOracle resolves the balance of an address. It never fails: any
// provider error surfaces as an unknown balance.
type BalanceOracle interface {
	CheckBalance(ctx context.Context, address string) domain.Balance
}

// ReportSink is the append-only destination of a recovery run. Any error
// returned is fatal for the run.
type ReportSink interface {
	// Header opens the report.
	Header(runID string, started time.Time) error
	// InputUnavailable reports that the input source could not be read.
	InputUnavailable(name string, err error) error
	// InputLoaded reports the number of lines read from the input source.
	InputLoaded(name string, numOfLines int) error
	// InvalidLine reports a line skipped because of its word count.
	InvalidLine(err *domain.InputFormatError) error
	// LineStarted reports the beginning of a line's processing.
	LineStarted(line domain.Line, numOfLines int) error
	// LineFailed reports a line whose candidates could not be generated.
	LineFailed(line domain.Line, err error) error
	// CandidatesFound reports the number of completions of the current line.
	CandidatesFound(count int) error
	// CandidateStarted reports the candidate about to be derived and checked.
	CandidateStarted(index int, mnemonic []string) error
	// DerivationFailed reports a candidate whose addresses are skipped.
	DerivationFailed(index int, err error) error
	// AddressChecked reports the balance of an address of the current
	// candidate.
	AddressChecked(result domain.AddressBalance) error
	// WalletFound reports a candidate holding funds.
	WalletFound(finding domain.WalletFinding) error
	// LineFinished closes the current line's section.
	LineFinished() error
	// Summary lists all the findings of the run.
	Summary(findings []domain.WalletFinding) error
	// Footer closes the report.
	Footer(completed time.Time, interrupted bool) error
	// Close releases the sink.
	Close() error
}
