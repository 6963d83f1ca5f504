package oracle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/seedfinder/internal/core/ports"
	"github.com/tdex-network/seedfinder/internal/infrastructure/oracle"
	"github.com/tdex-network/seedfinder/pkg/explorer"
)

const (
	testAddress      = "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA"
	fallbackCooldown = 60 * time.Millisecond
	pacingCooldown   = 40 * time.Millisecond
)

var errProvider = errors.New("service unavailable")

type mockExplorer struct {
	mock.Mock
	name string
}

func (m *mockExplorer) Name() string {
	return m.name
}

func (m *mockExplorer) GetBalance(
	ctx context.Context, address string,
) (decimal.Decimal, error) {
	args := m.Called(address)

	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

func newTestOracle(
	t *testing.T, primary, secondary *mockExplorer,
) ports.BalanceOracle {
	svc, err := oracle.NewService(oracle.Opts{
		Primary:            primary,
		Secondary:          secondary,
		FallbackCooldown:   fallbackCooldown,
		PacingCooldown:     pacingCooldown,
		MinRequestInterval: time.Millisecond,
		MaxFailingRequests: 100,
	})
	require.NoError(t, err)
	return svc
}

func TestCheckBalanceFromPrimary(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}
	primary.On("GetBalance", testAddress).
		Return(decimal.RequireFromString("0.001"), nil)

	svc := newTestOracle(t, primary, secondary)

	start := time.Now()
	balance := svc.CheckBalance(context.Background(), testAddress)
	elapsed := time.Since(start)

	require.True(t, balance.Known)
	require.Equal(t, "primary", balance.Source)
	require.Equal(t, "0.00100000", explorer.FormatBTC(balance.Amount))
	require.GreaterOrEqual(t, elapsed, pacingCooldown)
	require.Less(t, elapsed, pacingCooldown+fallbackCooldown)

	primary.AssertNumberOfCalls(t, "GetBalance", 1)
	secondary.AssertNotCalled(t, "GetBalance", mock.Anything)
}

func TestCheckBalanceFallback(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}
	primary.On("GetBalance", testAddress).Return(nil, errProvider)
	secondary.On("GetBalance", testAddress).Return(decimal.Zero, nil)

	svc := newTestOracle(t, primary, secondary)

	start := time.Now()
	balance := svc.CheckBalance(context.Background(), testAddress)
	elapsed := time.Since(start)

	require.True(t, balance.Known)
	require.Equal(t, "secondary", balance.Source)
	require.True(t, balance.Amount.IsZero())
	require.GreaterOrEqual(t, elapsed, fallbackCooldown+pacingCooldown)

	primary.AssertNumberOfCalls(t, "GetBalance", 1)
	secondary.AssertNumberOfCalls(t, "GetBalance", 1)
}

func TestCheckBalanceUnknown(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}
	primary.On("GetBalance", testAddress).Return(nil, errProvider)
	secondary.On("GetBalance", testAddress).Return(nil, errProvider)

	svc := newTestOracle(t, primary, secondary)

	balance := svc.CheckBalance(context.Background(), testAddress)
	require.False(t, balance.Known)
	require.False(t, balance.IsPositive())

	primary.AssertNumberOfCalls(t, "GetBalance", 1)
	secondary.AssertNumberOfCalls(t, "GetBalance", 1)
}

func TestCheckBalanceCanceled(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}

	ctx, cancel := context.WithCancel(context.Background())
	primary.On("GetBalance", testAddress).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	svc := newTestOracle(t, primary, secondary)

	start := time.Now()
	balance := svc.CheckBalance(ctx, testAddress)
	require.False(t, balance.Known)
	require.Less(t, time.Since(start), fallbackCooldown)

	secondary.AssertNotCalled(t, "GetBalance", mock.Anything)
}

func TestCheckBalanceWithOpenCircuit(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}
	primary.On("GetBalance", mock.Anything).Return(nil, errProvider)
	secondary.On("GetBalance", mock.Anything).
		Return(decimal.RequireFromString("1"), nil)

	svc, err := oracle.NewService(oracle.Opts{
		Primary:            primary,
		Secondary:          secondary,
		FallbackCooldown:   time.Millisecond,
		PacingCooldown:     time.Millisecond,
		MaxFailingRequests: 2,
		FailingRatio:       0.5,
	})
	require.NoError(t, err)

	numOfAddresses := 6
	for i := 0; i < numOfAddresses; i++ {
		balance := svc.CheckBalance(context.Background(), testAddress)
		require.True(t, balance.Known)
		require.Equal(t, "secondary", balance.Source)
	}

	// the breaker opens after the third failure, then the primary is skipped
	primary.AssertNumberOfCalls(t, "GetBalance", 3)
	secondary.AssertNumberOfCalls(t, "GetBalance", numOfAddresses)
}

func TestFailingNewService(t *testing.T) {
	primary := &mockExplorer{name: "primary"}
	secondary := &mockExplorer{name: "secondary"}

	tests := []struct {
		opts oracle.Opts
		err  error
	}{
		{oracle.Opts{Secondary: secondary}, oracle.ErrNullPrimarySource},
		{oracle.Opts{Primary: primary}, oracle.ErrNullSecondarySource},
		{oracle.Opts{Primary: primary, Secondary: primary}, oracle.ErrSameSources},
		{
			oracle.Opts{Primary: primary, Secondary: secondary, PacingCooldown: -1},
			oracle.ErrInvalidCooldown,
		},
	}
	for _, tt := range tests {
		_, err := oracle.NewService(tt.opts)
		require.Equal(t, tt.err, err)
	}
}
