package application_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/pkg/wallet"
)

// **** Completer ****

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(words []string) ([][]string, error) {
	args := m.Called(words)

	var res [][]string
	if a := args.Get(0); a != nil {
		res = a.([][]string)
	}
	return res, args.Error(1)
}

// **** Oracle ****

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) CheckBalance(
	ctx context.Context, address string,
) domain.Balance {
	args := m.Called(ctx, address)

	var res domain.Balance
	if a := args.Get(0); a != nil {
		res = a.(domain.Balance)
	}
	return res
}

// **** Deriver ****

// fakeDeriver derives fake addresses from the last word of a mnemonic.
type fakeDeriver struct {
	lock      sync.Mutex
	failFor   map[string]error
	numOfCall int
}

func (d *fakeDeriver) DeriveAddresses(
	mnemonic []string,
) ([]wallet.DerivedAddress, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.numOfCall++
	lastWord := mnemonic[len(mnemonic)-1]
	if err := d.failFor[lastWord]; err != nil {
		return nil, &wallet.DerivationError{Err: err}
	}
	return fakeAddresses(lastWord), nil
}

func fakeAddresses(word string) []wallet.DerivedAddress {
	return []wallet.DerivedAddress{
		{Type: wallet.Legacy, Address: "1" + word},
		{Type: wallet.WrappedSegwit, Address: "3" + word},
		{Type: wallet.NativeSegwit, Address: "bc1" + word},
	}
}

// **** Sink ****

// recordingSink keeps track of every event of a run. If failOn is set, the
// first event with that prefix fails.
type recordingSink struct {
	lock     sync.Mutex
	events   []string
	findings []domain.WalletFinding
	failOn   string
}

func (s *recordingSink) record(event string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failOn != "" && strings.HasPrefix(event, s.failOn) {
		return fmt.Errorf("disk full")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string{}, s.events...)
}

func (s *recordingSink) EventsWithPrefix(prefix string) []string {
	events := make([]string, 0)
	for _, e := range s.Events() {
		if strings.HasPrefix(e, prefix) {
			events = append(events, e)
		}
	}
	return events
}

func (s *recordingSink) Header(_ string, _ time.Time) error {
	return s.record("header")
}

func (s *recordingSink) InputUnavailable(name string, _ error) error {
	return s.record("unavailable:" + name)
}

func (s *recordingSink) InputLoaded(_ string, numOfLines int) error {
	return s.record(fmt.Sprintf("loaded:%d", numOfLines))
}

func (s *recordingSink) InvalidLine(err *domain.InputFormatError) error {
	return s.record(fmt.Sprintf("invalid:%d:%d", err.Line, err.WordCount))
}

func (s *recordingSink) LineStarted(line domain.Line, _ int) error {
	return s.record(fmt.Sprintf("line:%d", line.Number))
}

func (s *recordingSink) LineFailed(line domain.Line, _ error) error {
	return s.record(fmt.Sprintf("failed:%d", line.Number))
}

func (s *recordingSink) CandidatesFound(count int) error {
	return s.record(fmt.Sprintf("candidates:%d", count))
}

func (s *recordingSink) CandidateStarted(index int, _ []string) error {
	return s.record(fmt.Sprintf("candidate:%d", index))
}

func (s *recordingSink) DerivationFailed(index int, _ error) error {
	return s.record(fmt.Sprintf("derivation:%d", index))
}

func (s *recordingSink) AddressChecked(result domain.AddressBalance) error {
	return s.record("address:" + result.Address)
}

func (s *recordingSink) WalletFound(finding domain.WalletFinding) error {
	return s.record(fmt.Sprintf("found:%d", finding.Line))
}

func (s *recordingSink) LineFinished() error {
	return s.record("finished")
}

func (s *recordingSink) Summary(findings []domain.WalletFinding) error {
	s.lock.Lock()
	s.findings = findings
	s.lock.Unlock()
	return s.record(fmt.Sprintf("summary:%d", len(findings)))
}

func (s *recordingSink) Footer(_ time.Time, interrupted bool) error {
	return s.record(fmt.Sprintf("footer:%t", interrupted))
}

func (s *recordingSink) Close() error {
	return nil
}
