package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/seedfinder/internal/config"
	"github.com/tdex-network/seedfinder/internal/core/application"
	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/internal/core/ports"
	"github.com/tdex-network/seedfinder/internal/infrastructure/oracle"
	"github.com/tdex-network/seedfinder/internal/infrastructure/report"
	"github.com/tdex-network/seedfinder/pkg/stats"
	"github.com/tdex-network/seedfinder/pkg/wallet"
)

const (
	outputLayout = "20060102_150405"

	exitFailure     = 1
	exitInterrupted = 130
)

var (
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "max number of concurrent balance checks (1 to 3)",
	}
	primaryFlag = &cli.StringFlag{
		Name:  "primary",
		Usage: fmt.Sprintf("balance source queried first %v", config.SupportedSources()),
	}
	secondaryFlag = &cli.StringFlag{
		Name:  "secondary",
		Usage: fmt.Sprintf("balance source queried on failure %v", config.SupportedSources()),
	}
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colors on the console",
	}
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "seedfinder"
	app.Usage = "recover a bitcoin wallet from the first 11 words of its seed"
	app.ArgsUsage = "<input_file> [output_file]"
	app.Description = "Every non-empty line of the input file not starting " +
		"with '#' must contain 11 words of a 12-word BIP39 mnemonic. Each " +
		"valid 12th word is tried and the balance of the derived legacy, " +
		"wrapped segwit and native segwit addresses is looked up. Use it " +
		"only to recover your own wallets."
	app.Flags = []cli.Flag{workersFlag, primaryFlag, secondaryFlag, noColorFlag}
	app.Action = run
	// exit codes are handled by fatal so that deferred calls always run.
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		_ = cli.ShowAppHelp(c)
		return cli.Exit("missing input file", exitFailure)
	}
	inputPath := c.Args().Get(0)
	outputPath := c.Args().Get(1)
	if outputPath == "" {
		outputPath = defaultOutputPath(time.Now())
	}

	if err := initConfig(c); err != nil {
		return cli.Exit(err, exitFailure)
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	svc, sink, err := newRecoveryService(outputPath)
	if err != nil {
		return cli.Exit(err, exitFailure)
	}
	defer sink.Close()

	ctx := c.Context
	if config.GetBool(config.EnableStatsKey) {
		stats.EnableMemoryStatistics(ctx, config.GetSeconds(config.StatsIntervalKey))
	}

	log.Debugf("processing %s, report at %s", inputPath, outputPath)
	findings, err := svc.RunFile(ctx, inputPath)

	stats.PrintRunStatistics()
	if path := config.GetString(config.StatsFileKey); path != "" {
		if err := stats.DumpPrometheusDefaults(path); err != nil {
			log.WithError(err).Warn("failed to dump run statistics")
		}
	}

	if err != nil {
		if errors.Is(err, domain.ErrRunInterrupted) {
			return cli.Exit(
				fmt.Sprintf("interrupted, partial results saved to %s", outputPath),
				exitInterrupted,
			)
		}
		return cli.Exit(err, exitFailure)
	}

	fmt.Fprintf(
		color.Output, "\nResults saved to: %s (%d wallet(s) found)\n",
		outputPath, len(findings),
	)
	return nil
}

func initConfig(c *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}

	if c.IsSet(workersFlag.Name) {
		config.Set(config.WorkersKey, c.Int(workersFlag.Name))
	}
	if c.IsSet(primaryFlag.Name) {
		config.Set(config.PrimarySourceKey, c.String(primaryFlag.Name))
	}
	if c.IsSet(secondaryFlag.Name) {
		config.Set(config.SecondarySourceKey, c.String(secondaryFlag.Name))
	}
	if c.IsSet(noColorFlag.Name) {
		config.Set(config.NoColorKey, c.Bool(noColorFlag.Name))
	}

	return config.Validate()
}

func newRecoveryService(
	outputPath string,
) (application.RecoveryService, ports.ReportSink, error) {
	completer, err := wallet.NewMnemonicCompleter(wallet.DefaultWordlist())
	if err != nil {
		return nil, nil, err
	}
	deriver, err := wallet.NewKeyDeriver(&chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, err
	}

	primary, err := config.GetPrimarySource()
	if err != nil {
		return nil, nil, err
	}
	secondary, err := config.GetSecondarySource()
	if err != nil {
		return nil, nil, err
	}
	oracleSvc, err := oracle.NewService(oracle.Opts{
		Primary:            primary,
		Secondary:          secondary,
		FallbackCooldown:   config.GetMilliseconds(config.FallbackCooldownKey),
		PacingCooldown:     config.GetMilliseconds(config.PacingCooldownKey),
		MaxFailingRequests: config.GetInt(config.BreakerMaxFailuresKey),
		FailingRatio:       config.GetFloat(config.BreakerFailingRatioKey),
	})
	if err != nil {
		return nil, nil, err
	}

	sink, err := report.NewService(report.Opts{
		Path:    outputPath,
		Console: color.Output,
		NoColor: config.GetBool(config.NoColorKey),
	})
	if err != nil {
		return nil, nil, err
	}

	svc, err := application.NewRecoveryService(application.RecoveryServiceOpts{
		Completer: completer,
		Deriver:   deriver,
		Oracle:    oracleSvc,
		Sink:      sink,
		Workers:   config.GetInt(config.WorkersKey),
	})
	if err != nil {
		sink.Close()
		return nil, nil, err
	}
	return svc, sink, nil
}

func defaultOutputPath(now time.Time) string {
	return fmt.Sprintf("results_%s.txt", now.Format(outputLayout))
}

func fatal(err error) {
	code := exitFailure
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	_, _ = fmt.Fprintf(os.Stderr, "[seedfinder] %v\n", err)
	os.Exit(code)
}
