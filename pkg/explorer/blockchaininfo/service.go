package blockchaininfo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/seedfinder/pkg/explorer"
	"github.com/tdex-network/seedfinder/pkg/httputil"
)

const (
	// SourceName identifies the blockchain.info balance source.
	SourceName = "blockchain.info"
	// DefaultEndpoint is the public blockchain.info API.
	DefaultEndpoint = "https://blockchain.info"
)

type blockchainInfo struct {
	apiURL string
	client *httputil.Client
}

// NewService returns a new blockchain.info service as an explorer.Service
// interface. The balance is read from the plain-text addressbalance query
// that responds with the number of satoshis.
func NewService(apiURL string, reqTimeout int) (explorer.Service, error) {
	endpoint, err := explorer.TrimEndpoint(apiURL)
	if err != nil {
		return nil, err
	}
	client := httputil.NewClient(time.Duration(reqTimeout) * time.Millisecond)
	return &blockchainInfo{endpoint, client}, nil
}

func (b *blockchainInfo) Name() string {
	return SourceName
}

func (b *blockchainInfo) GetBalance(
	ctx context.Context, address string,
) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, explorer.ErrNullAddress
	}

	url := fmt.Sprintf("%s/q/addressbalance/%s", b.apiURL, address)
	status, resp, err := b.client.NewHTTPRequest(ctx, http.MethodGet, url, nil)
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

	sats, err := strconv.ParseInt(strings.TrimSpace(resp), 10, 64)
	if err != nil {
		return decimal.Zero, &explorer.ProviderError{
			Source: SourceName,
			Err:    fmt.Errorf("invalid balance in response: %w", err),
		}
	}
	balance, err := explorer.SatsToBTC(sats)
	if err != nil {
		return decimal.Zero, &explorer.ProviderError{Source: SourceName, Err: err}
	}
	return balance, nil
}
