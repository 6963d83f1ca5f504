package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/seedfinder/pkg/explorer"
	"github.com/tdex-network/seedfinder/pkg/httputil"
)

const (
	// SourceName identifies the esplora balance source.
	SourceName = "esplora"
	// DefaultEndpoint is the mempool.space esplora-compatible API.
	DefaultEndpoint = "https://mempool.space/api"
)

type txoStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
}

func (s txoStats) balance() int64 {
	return s.FundedTxoSum - s.SpentTxoSum
}

type addressInfo struct {
	Address      string    `json:"address"`
	ChainStats   *txoStats `json:"chain_stats"`
	MempoolStats *txoStats `json:"mempool_stats"`
}

type esplora struct {
	apiURL string
	client *httputil.Client
}

// NewService returns a new esplora service as an explorer.Service interface.
// The balance is the sum of the confirmed and mempool funded outputs minus
// the spent ones.
func NewService(apiURL string, reqTimeout int) (explorer.Service, error) {
	endpoint, err := explorer.TrimEndpoint(apiURL)
	if err != nil {
		return nil, err
	}
	client := httputil.NewClient(time.Duration(reqTimeout) * time.Millisecond)
	return &esplora{endpoint, client}, nil
}

func (e *esplora) Name() string {
	return SourceName
}

func (e *esplora) GetBalance(
	ctx context.Context, address string,
) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, explorer.ErrNullAddress
	}

	url := fmt.Sprintf("%s/address/%s", e.apiURL, address)
	status, resp, err := e.client.NewHTTPRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, &explorer.ProviderError{Source: SourceName, Err: err}
	}
	if status != http.StatusOK {
		return decimal.Zero, &explorer.ProviderError{
			Source:     SourceName,
			StatusCode: status,
			Err:        fmt.Errorf("%s", strings.TrimSpace(resp)),
		}
	}

	var info addressInfo
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return decimal.Zero, &explorer.ProviderError{
			Source: SourceName,
			Err:    fmt.Errorf("invalid response: %w", err),
		}
	}
	if info.ChainStats == nil {
		return decimal.Zero, &explorer.ProviderError{
			Source: SourceName,
			Err:    explorer.ErrAddressNotFound,
		}
	}

	sats := info.ChainStats.balance()
	if info.MempoolStats != nil {
		sats += info.MempoolStats.balance()
	}
	balance, err := explorer.SatsToBTC(sats)
	if err != nil {
		return decimal.Zero, &explorer.ProviderError{Source: SourceName, Err: err}
	}
	return balance, nil
}
