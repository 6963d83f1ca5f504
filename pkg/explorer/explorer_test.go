package explorer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/seedfinder/pkg/explorer"
)

func TestSatsToBTC(t *testing.T) {
	tests := []struct {
		sats int64
		btc  string
	}{
		{0, "0.00000000"},
		{1, "0.00000001"},
		{100000000, "1.00000000"},
		{2100000000000000, "21000000.00000000"},
		{123456789, "1.23456789"},
	}
	for _, tt := range tests {
		amount, err := explorer.SatsToBTC(tt.sats)
		require.NoError(t, err)
		require.Equal(t, tt.btc, explorer.FormatBTC(amount))
	}

	_, err := explorer.SatsToBTC(-1)
	require.Equal(t, explorer.ErrNegativeBalance, err)
}

func TestTrimEndpoint(t *testing.T) {
	endpoint, err := explorer.TrimEndpoint(" https://blockchain.info/ ")
	require.NoError(t, err)
	require.Equal(t, "https://blockchain.info", endpoint)

	_, err = explorer.TrimEndpoint("  ")
	require.Equal(t, explorer.ErrNullEndpoint, err)
}
