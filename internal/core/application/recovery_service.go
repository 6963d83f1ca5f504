package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/internal/core/ports"
	"github.com/tdex-network/seedfinder/pkg/stats"
	"github.com/tdex-network/seedfinder/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

const (
	// MinWorkers is the number of concurrent balance checks of a sequential
	// run.
	MinWorkers = 1
	// MaxWorkers is the upper bound of concurrent balance checks.
	MaxWorkers = 3

	maxLineSize = 64 * 1024
)

var (
	// ErrNullCompleter ...
	ErrNullCompleter = errors.New("mnemonic completer must not be null")
	// ErrNullDeriver ...
	ErrNullDeriver = errors.New("key deriver must not be null")
	// ErrNullOracle ...
	ErrNullOracle = errors.New("balance oracle must not be null")
	// ErrNullSink ...
	ErrNullSink = errors.New("report sink must not be null")
	// ErrInvalidWorkers ...
	ErrInvalidWorkers = fmt.Errorf(
		"workers must be in range [%d, %d]", MinWorkers, MaxWorkers,
	)
)

// RecoveryService turns every partial mnemonic of an input source into its
// checksum-valid completions, derives their addresses and looks up their
// balances, streaming everything to a report.
type RecoveryService interface {
	// RunFile processes the file at the given path.
	RunFile(ctx context.Context, path string) ([]domain.WalletFinding, error)
	// Run processes the lines read from the given reader. The name only
	// identifies the source in the report.
	Run(
		ctx context.Context, name string, input io.Reader,
	) ([]domain.WalletFinding, error)
}

// RecoveryServiceOpts is the struct given to NewRecoveryService.
type RecoveryServiceOpts struct {
	Completer ports.MnemonicCompleter
	Deriver   ports.KeyDeriver
	Oracle    ports.BalanceOracle
	Sink      ports.ReportSink
	// Workers is the max number of concurrent balance checks. Zero means
	// sequential.
	Workers int
}

func (o RecoveryServiceOpts) validate() error {
	if o.Completer == nil {
		return ErrNullCompleter
	}
	if o.Deriver == nil {
		return ErrNullDeriver
	}
	if o.Oracle == nil {
		return ErrNullOracle
	}
	if o.Sink == nil {
		return ErrNullSink
	}
	if o.Workers != 0 && (o.Workers < MinWorkers || o.Workers > MaxWorkers) {
		return ErrInvalidWorkers
	}
	return nil
}

type recoveryService struct {
	completer ports.MnemonicCompleter
	deriver   ports.KeyDeriver
	oracle    ports.BalanceOracle
	sink      ports.ReportSink
	workers   int
}

func NewRecoveryService(opts RecoveryServiceOpts) (RecoveryService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers == 0 {
		workers = MinWorkers
	}

	return &recoveryService{
		completer: opts.Completer,
		deriver:   opts.Deriver,
		oracle:    opts.Oracle,
		sink:      opts.Sink,
		workers:   workers,
	}, nil
}

func (s *recoveryService) RunFile(
	ctx context.Context, path string,
) ([]domain.WalletFinding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, s.reportInputUnavailable(path, err)
	}
	defer file.Close()

	return s.Run(ctx, path, file)
}

func (s *recoveryService) Run(
	ctx context.Context, name string, input io.Reader,
) ([]domain.WalletFinding, error) {
	runID := uuid.New().String()
	logger := log.WithField("run", runID)

	if err := s.sink.Header(runID, time.Now()); err != nil {
		return nil, sinkError(err)
	}

	lines, err := readLines(input)
	if err != nil {
		return nil, s.inputUnavailable(name, err)
	}

	if err := s.sink.InputLoaded(name, len(lines)); err != nil {
		return nil, sinkError(err)
	}
	logger.Infof("processing %d line(s) from %s", len(lines), name)

	findings := make([]domain.WalletFinding, 0)
	interrupted := false
	for i, raw := range lines {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		line := domain.NewLine(i+1, raw)
		lineFindings, err := s.processLine(ctx, line, len(lines))
		if err != nil {
			return nil, err
		}
		// findings of a line are committed only once the line is complete.
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		findings = append(findings, lineFindings...)
	}

	if err := s.sink.Summary(findings); err != nil {
		return nil, sinkError(err)
	}
	if err := s.sink.Footer(time.Now(), interrupted); err != nil {
		return nil, sinkError(err)
	}

	if interrupted {
		logger.Warnf(
			"run interrupted with %d wallet(s) found so far", len(findings),
		)
		return findings, domain.ErrRunInterrupted
	}

	logger.Infof("run completed with %d wallet(s) found", len(findings))
	return findings, nil
}

func (s *recoveryService) processLine(
	ctx context.Context, line domain.Line, numOfLines int,
) ([]domain.WalletFinding, error) {
	if line.IsSkippable() {
		return nil, nil
	}

	logger := log.WithField("line", line.Number)

	if err := line.Validate(); err != nil {
		formatErr := &domain.InputFormatError{}
		if !errors.As(err, &formatErr) {
			return nil, err
		}
		logger.WithField("words", formatErr.WordCount).Warn(
			"invalid word count, skipping line",
		)
		if err := s.sink.InvalidLine(formatErr); err != nil {
			return nil, sinkError(err)
		}
		return nil, nil
	}

	if err := s.sink.LineStarted(line, numOfLines); err != nil {
		return nil, sinkError(err)
	}

	candidates, err := s.completer.Complete(line.Words)
	if err != nil {
		entry := logger.WithError(err)
		if wordErr := (*wallet.UnknownWordError)(nil); errors.As(err, &wordErr) {
			entry = entry.WithField("word", wordErr.Word)
		}
		entry.Warn("failed to complete mnemonic, skipping line")

		if err := s.sink.LineFailed(line, err); err != nil {
			return nil, sinkError(err)
		}
		return nil, nil
	}

	if err := s.sink.CandidatesFound(len(candidates)); err != nil {
		return nil, sinkError(err)
	}

	findings := make([]domain.WalletFinding, 0)
	for i, mnemonic := range candidates {
		if ctx.Err() != nil {
			return nil, nil
		}

		if err := s.sink.CandidateStarted(i+1, mnemonic); err != nil {
			return nil, sinkError(err)
		}

		addresses, err := s.deriver.DeriveAddresses(mnemonic)
		if err != nil {
			logger.WithError(err).WithField("candidate", i+1).Warn(
				"failed to derive addresses, skipping candidate",
			)
			if err := s.sink.DerivationFailed(i+1, err); err != nil {
				return nil, sinkError(err)
			}
			continue
		}

		balances, err := s.checkBalances(ctx, addresses)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		stats.CandidatesProcessed.Inc()

		finding, ok := domain.NewWalletFinding(line.Number, mnemonic, balances)
		if !ok {
			continue
		}

		logger.WithField("total", finding.Total.String()).Info(
			"wallet with balance found",
		)
		stats.WalletsFound.Inc()
		if err := s.sink.WalletFound(*finding); err != nil {
			return nil, sinkError(err)
		}
		findings = append(findings, *finding)
	}

	if err := s.sink.LineFinished(); err != nil {
		return nil, sinkError(err)
	}
	return findings, nil
}

// checkBalances resolves the balance of every address. Results are reported
// in the same order of the given addresses also when checks run
// concurrently.
func (s *recoveryService) checkBalances(
	ctx context.Context, addresses []wallet.DerivedAddress,
) ([]domain.AddressBalance, error) {
	balances := make([]domain.AddressBalance, len(addresses))

	if s.workers <= MinWorkers {
		for i, addr := range addresses {
			balances[i] = s.checkBalance(ctx, addr)
			if err := s.sink.AddressChecked(balances[i]); err != nil {
				return nil, sinkError(err)
			}
		}
		return balances, nil
	}

	eg := &errgroup.Group{}
	eg.SetLimit(s.workers)
	for i := range addresses {
		i := i
		eg.Go(func() error {
			balances[i] = s.checkBalance(ctx, addresses[i])
			return nil
		})
	}
	// nolint:errcheck
	eg.Wait()

	for _, b := range balances {
		if err := s.sink.AddressChecked(b); err != nil {
			return nil, sinkError(err)
		}
	}
	return balances, nil
}

func (s *recoveryService) checkBalance(
	ctx context.Context, addr wallet.DerivedAddress,
) domain.AddressBalance {
	balance := s.oracle.CheckBalance(ctx, addr.Address)
	if !balance.Known {
		log.WithFields(log.Fields{
			"address": addr.Address,
			"type":    addr.Type.String(),
		}).Debug("balance unknown")
	}
	return domain.AddressBalance{
		DerivedAddress: addr,
		Balance:        balance,
	}
}

// reportInputUnavailable writes a report made of header, the input error and
// footer.
func (s *recoveryService) reportInputUnavailable(name string, err error) error {
	if err := s.sink.Header(uuid.New().String(), time.Now()); err != nil {
		return sinkError(err)
	}
	return s.inputUnavailable(name, err)
}

func (s *recoveryService) inputUnavailable(name string, err error) error {
	log.WithError(err).Errorf("failed to read input %s", name)

	if err := s.sink.InputUnavailable(name, err); err != nil {
		return sinkError(err)
	}
	if err := s.sink.Footer(time.Now(), false); err != nil {
		return sinkError(err)
	}
	return fmt.Errorf("%w: %s", domain.ErrInputUnavailable, err)
}

func readLines(input io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func sinkError(err error) error {
	if errors.Is(err, domain.ErrReportSink) {
		return err
	}
	return fmt.Errorf("%w: %s", domain.ErrReportSink, err)
}
