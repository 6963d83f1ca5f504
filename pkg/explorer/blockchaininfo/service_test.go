package blockchaininfo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/seedfinder/pkg/explorer"
	"github.com/tdex-network/seedfinder/pkg/explorer/blockchaininfo"
)

const testAddress = "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA"

func TestGetBalance(t *testing.T) {
	tests := []struct {
		body    string
		balance string
	}{
		{"0", "0.00000000"},
		{"546\n", "0.00000546"},
		{"150000000", "1.50000000"},
	}
	for _, tt := range tests {
		body := tt.body
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/q/addressbalance/"+testAddress, r.URL.Path)
				w.Write([]byte(body))
			},
		))

		svc, err := blockchaininfo.NewService(server.URL+"/", 1000)
		require.NoError(t, err)
		require.Equal(t, blockchaininfo.SourceName, svc.Name())

		balance, err := svc.GetBalance(context.Background(), testAddress)
		require.NoError(t, err)
		require.Equal(t, tt.balance, explorer.FormatBTC(balance))

		server.Close()
	}
}

func TestFailingGetBalance(t *testing.T) {
	tests := []struct {
		status int
		body   string
	}{
		{http.StatusTooManyRequests, "Too many requests"},
		{http.StatusInternalServerError, ""},
		{http.StatusOK, "not a number"},
		{http.StatusOK, "-10"},
		{http.StatusOK, ""},
	}
	for _, tt := range tests {
		status, body := tt.status, tt.body
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(body))
			},
		))

		svc, err := blockchaininfo.NewService(server.URL, 1000)
		require.NoError(t, err)

		_, err = svc.GetBalance(context.Background(), testAddress)
		require.Error(t, err)

		var providerErr *explorer.ProviderError
		require.ErrorAs(t, err, &providerErr)
		require.Equal(t, blockchaininfo.SourceName, providerErr.Source)

		server.Close()
	}

	svc, err := blockchaininfo.NewService("http://127.0.0.1:1", 1000)
	require.NoError(t, err)
	_, err = svc.GetBalance(context.Background(), "")
	require.Equal(t, explorer.ErrNullAddress, err)

	_, err = blockchaininfo.NewService("", 1000)
	require.Equal(t, explorer.ErrNullEndpoint, err)
}
