package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/internal/core/ports"
	"github.com/tdex-network/seedfinder/pkg/explorer"

	log "github.com/sirupsen/logrus"
)

const (
	timeLayout    = "2006-01-02 15:04:05"
	previewLength = 50
	lineWidth     = 80
	title         = "  Bitcoin Wallet Finder from 11-word Seeds"
)

var (
	// ErrNullPath ...
	ErrNullPath = errors.New("report path must not be null")
	// ErrAlreadyClosed ...
	ErrAlreadyClosed = errors.New("report is already closed")

	separator    = strings.Repeat("=", lineWidth)
	subSeparator = strings.Repeat("-", lineWidth)
)

// Opts is the struct given to NewService.
type Opts struct {
	// Path of the report file, truncated if existing.
	Path string
	// Console, if not nil, receives a copy of every line of the report.
	Console io.Writer
	// NoColor disables colors on the console copy.
	NoColor bool
}

type palette struct {
	plain   *color.Color
	title   *color.Color
	funded  *color.Color
	warning *color.Color
	failure *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		plain:   color.New(),
		title:   color.New(color.FgCyan, color.Bold),
		funded:  color.New(color.FgGreen, color.Bold),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{p.plain, p.title, p.funded, p.warning, p.failure} {
			c.DisableColor()
		}
	}
	return p
}

type service struct {
	file    *os.File
	console io.Writer
	colors  palette
	closed  bool
}

// NewService creates the report file and returns it as a ports.ReportSink.
func NewService(opts Opts) (ports.ReportSink, error) {
	if opts.Path == "" {
		return nil, ErrNullPath
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportSink, err)
	}

	return &service{
		file:    file,
		console: opts.Console,
		colors:  newPalette(opts.NoColor),
	}, nil
}

func (s *service) Header(runID string, started time.Time) error {
	return s.writeLines(s.colors.title,
		separator,
		title,
		separator,
		fmt.Sprintf("Started: %s", started.Format(timeLayout)),
		fmt.Sprintf("Run: %s", runID),
		"",
		"WARNING: ETHICAL USE ONLY - For recovering your own lost wallets",
		"WARNING: Unauthorized access to others' funds is illegal",
		"",
	)
}

func (s *service) InputUnavailable(name string, err error) error {
	return s.writeLines(s.colors.failure,
		fmt.Sprintf("Error: cannot read input '%s': %s", name, err),
	)
}

func (s *service) InputLoaded(name string, numOfLines int) error {
	return s.writeLines(s.colors.plain,
		fmt.Sprintf("Processing %d line(s) from %s", numOfLines, name),
		"",
		separator,
	)
}

func (s *service) InvalidLine(err *domain.InputFormatError) error {
	return s.writeLines(s.colors.warning,
		"",
		fmt.Sprintf(
			"Line %d: Invalid word count (%d), skipping...", err.Line, err.WordCount,
		),
	)
}

func (s *service) LineStarted(line domain.Line, numOfLines int) error {
	return s.writeLines(s.colors.plain,
		"",
		fmt.Sprintf(
			"[Line %d/%d] Processing: %s...",
			line.Number, numOfLines, line.Preview(previewLength),
		),
		subSeparator,
	)
}

func (s *service) LineFailed(line domain.Line, err error) error {
	return s.writeLines(s.colors.failure,
		fmt.Sprintf("Line %d: %s, skipping...", line.Number, err),
	)
}

func (s *service) CandidatesFound(count int) error {
	return s.writeLines(s.colors.plain,
		fmt.Sprintf("Found %d valid seed phrase(s)", count),
	)
}

func (s *service) CandidateStarted(index int, mnemonic []string) error {
	lastWord := ""
	if len(mnemonic) > 0 {
		lastWord = mnemonic[len(mnemonic)-1]
	}
	return s.writeLines(s.colors.plain,
		"",
		fmt.Sprintf("  [%d] 12th word: '%s'", index, lastWord),
		fmt.Sprintf("  Full seed: %s", strings.Join(mnemonic, " ")),
	)
}

func (s *service) DerivationFailed(index int, err error) error {
	return s.writeLines(s.colors.failure,
		fmt.Sprintf("  Failed to generate addresses: %s", err),
	)
}

func (s *service) AddressChecked(result domain.AddressBalance) error {
	prefix := fmt.Sprintf("    %-15s : %s ... ", result.Type, result.Address)

	balance := result.Balance
	switch {
	case balance.IsPositive():
		return s.writeLines(s.colors.funded, fmt.Sprintf(
			"%sBALANCE: %s BTC (%s)",
			prefix, explorer.FormatBTC(balance.Amount), balance.Source,
		))
	case balance.Known:
		return s.writeLines(s.colors.plain, fmt.Sprintf(
			"%sBalance: 0 BTC (%s)", prefix, balance.Source,
		))
	default:
		return s.writeLines(s.colors.warning, prefix+"Balance: Unable to check")
	}
}

func (s *service) WalletFound(finding domain.WalletFinding) error {
	return s.writeLines(s.colors.funded,
		"",
		fmt.Sprintf(
			"  WALLET WITH BALANCE FOUND! Total: %s BTC",
			explorer.FormatBTC(finding.Total),
		),
	)
}

func (s *service) LineFinished() error {
	return s.writeLines(s.colors.plain, separator)
}

func (s *service) Summary(findings []domain.WalletFinding) error {
	lines := []string{
		"",
		separator,
		"SUMMARY - WALLETS WITH BALANCE FOUND:",
		separator,
	}
	if len(findings) <= 0 {
		lines = append(lines, "No wallet with balance found.")
	}
	for i, f := range findings {
		lines = append(lines,
			"",
			fmt.Sprintf("[%d] Seed: %s", i+1, f.Seed()),
			fmt.Sprintf("    Line: %d", f.Line),
			fmt.Sprintf("    Total Balance: %s BTC", explorer.FormatBTC(f.Total)),
		)
		for _, a := range f.FundedAddresses() {
			lines = append(lines, fmt.Sprintf(
				"    %-15s : %s = %s BTC",
				a.Type, a.Address, explorer.FormatBTC(a.Balance.Amount),
			))
		}
	}
	lines = append(lines, separator)

	style := s.colors.plain
	if len(findings) > 0 {
		style = s.colors.funded
	}
	return s.writeLines(style, lines...)
}

func (s *service) Footer(completed time.Time, interrupted bool) error {
	if interrupted {
		return s.writeLines(s.colors.warning,
			"",
			fmt.Sprintf("Interrupted: %s", completed.Format(timeLayout)),
			"",
			"Processing interrupted! Lines not completed are not in the summary.",
		)
	}
	return s.writeLines(s.colors.title,
		"",
		fmt.Sprintf("Completed: %s", completed.Format(timeLayout)),
		"",
		"Processing complete!",
	)
}

func (s *service) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrReportSink, err)
	}
	return nil
}

func (s *service) writeLines(style *color.Color, lines ...string) error {
	if s.closed {
		return fmt.Errorf("%w: %s", domain.ErrReportSink, ErrAlreadyClosed)
	}

	text := strings.Join(lines, "\n") + "\n"
	if _, err := io.WriteString(s.file, text); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrReportSink, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrReportSink, err)
	}

	if s.console != nil {
		for _, line := range lines {
			if _, err := fmt.Fprintln(s.console, style.Sprint(line)); err != nil {
				log.WithError(err).Debug("failed to mirror report on console")
				break
			}
		}
	}
	return nil
}
