package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/seedfinder/internal/core/domain"
	"github.com/tdex-network/seedfinder/internal/core/ports"
	"github.com/tdex-network/seedfinder/pkg/circuitbreaker"
	"github.com/tdex-network/seedfinder/pkg/explorer"
	"github.com/tdex-network/seedfinder/pkg/stats"
	"go.uber.org/ratelimit"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrNullPrimarySource ...
	ErrNullPrimarySource = errors.New("primary balance source must not be null")
	// ErrNullSecondarySource ...
	ErrNullSecondarySource = errors.New("secondary balance source must not be null")
	// ErrSameSources ...
	ErrSameSources = errors.New("primary and secondary balance sources must differ")
	// ErrInvalidCooldown ...
	ErrInvalidCooldown = errors.New("cooldowns must not be negative")
)

// Opts is the struct given to NewService.
type Opts struct {
	Primary   explorer.Service
	Secondary explorer.Service
	// FallbackCooldown is waited before querying the secondary source.
	FallbackCooldown time.Duration
	// PacingCooldown is waited after every balance check.
	PacingCooldown time.Duration
	// MinRequestInterval is the minimum spacing between two requests to the
	// same source, shared by all callers. Defaults to PacingCooldown.
	MinRequestInterval time.Duration
	// MaxFailingRequests and FailingRatio tune the primary source's circuit
	// breaker.
	MaxFailingRequests int
	FailingRatio       float64
}

func (o Opts) validate() error {
	if o.Primary == nil {
		return ErrNullPrimarySource
	}
	if o.Secondary == nil {
		return ErrNullSecondarySource
	}
	if o.Primary.Name() == o.Secondary.Name() {
		return ErrSameSources
	}
	if o.FallbackCooldown < 0 || o.PacingCooldown < 0 || o.MinRequestInterval < 0 {
		return ErrInvalidCooldown
	}
	return nil
}

type service struct {
	primary   explorer.Service
	secondary explorer.Service
	breaker   *gobreaker.CircuitBreaker
	limiters  map[string]ratelimit.Limiter

	fallbackCooldown time.Duration
	pacingCooldown   time.Duration
}

// NewService returns a BalanceOracle querying the primary source first and,
// on any failure, the secondary one after FallbackCooldown. The secondary is
// queried at most once per address, and every check is followed by
// PacingCooldown. It is safe for concurrent use: requests to the same source
// are spaced by MinRequestInterval across all callers.
func NewService(opts Opts) (ports.BalanceOracle, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	interval := opts.MinRequestInterval
	if interval <= 0 {
		interval = opts.PacingCooldown
	}
	limiters := map[string]ratelimit.Limiter{
		opts.Primary.Name():   newLimiter(interval),
		opts.Secondary.Name(): newLimiter(interval),
	}

	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Opts{
		Name:               opts.Primary.Name(),
		MaxFailingRequests: opts.MaxFailingRequests,
		FailingRatio:       opts.FailingRatio,
	})

	return &service{
		primary:          opts.Primary,
		secondary:        opts.Secondary,
		breaker:          breaker,
		limiters:         limiters,
		fallbackCooldown: opts.FallbackCooldown,
		pacingCooldown:   opts.PacingCooldown,
	}, nil
}

func (s *service) CheckBalance(
	ctx context.Context, address string,
) domain.Balance {
	defer wait(ctx, s.pacingCooldown)

	balance := s.checkBalance(ctx, address)
	if balance.Known {
		stats.AddressesChecked.WithLabelValues("known").Inc()
	} else {
		stats.AddressesChecked.WithLabelValues("unknown").Inc()
	}
	return balance
}

func (s *service) checkBalance(
	ctx context.Context, address string,
) domain.Balance {
	amount, err := s.getPrimaryBalance(ctx, address)
	if err == nil {
		return domain.KnownBalance(amount, s.primary.Name())
	}
	if ctx.Err() != nil {
		return domain.UnknownBalance()
	}

	log.WithError(err).WithFields(log.Fields{
		"address": address,
		"source":  s.primary.Name(),
	}).Warn("primary balance source failed, falling back")

	if err := wait(ctx, s.fallbackCooldown); err != nil {
		return domain.UnknownBalance()
	}

	amount, err = s.getBalance(ctx, s.secondary, address)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).WithFields(log.Fields{
				"address": address,
				"source":  s.secondary.Name(),
			}).Warn("secondary balance source failed, balance is unknown")
		}
		return domain.UnknownBalance()
	}
	return domain.KnownBalance(amount, s.secondary.Name())
}

func (s *service) getPrimaryBalance(
	ctx context.Context, address string,
) (decimal.Decimal, error) {
	iAmount, err := s.breaker.Execute(func() (interface{}, error) {
		return s.getBalance(ctx, s.primary, address)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			stats.ProviderRequests.WithLabelValues(s.primary.Name(), "skipped").Inc()
			return decimal.Zero, &explorer.ProviderError{
				Source: s.primary.Name(),
				Err:    fmt.Errorf("source temporarily disabled: %w", err),
			}
		}
		return decimal.Zero, err
	}
	return iAmount.(decimal.Decimal), nil
}

func (s *service) getBalance(
	ctx context.Context, source explorer.Service, address string,
) (decimal.Decimal, error) {
	s.limiters[source.Name()].Take()

	amount, err := source.GetBalance(ctx, address)
	if err != nil {
		stats.ProviderRequests.WithLabelValues(source.Name(), "failure").Inc()
		return decimal.Zero, err
	}
	stats.ProviderRequests.WithLabelValues(source.Name(), "success").Inc()
	return amount, nil
}

func newLimiter(interval time.Duration) ratelimit.Limiter {
	if interval <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(interval), ratelimit.WithoutSlack)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
