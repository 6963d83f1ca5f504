package blockchair

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
	// SourceName identifies the blockchair balance source.
	SourceName = "blockchair"
	// DefaultEndpoint is the public blockchair API.
	DefaultEndpoint = "https://api.blockchair.com"
)

type dashboardResponse struct {
	Data map[string]struct {
		Address struct {
			Balance *int64 `json:"balance"`
		} `json:"address"`
	} `json:"data"`
}

type blockchair struct {
	apiURL string
	client *httputil.Client
}

// NewService returns a new blockchair service as an explorer.Service
// interface. The balance is read from the address dashboard, nested under
// data.<address>.address.balance in satoshis.
func NewService(apiURL string, reqTimeout int) (explorer.Service, error) {
	endpoint, err := explorer.TrimEndpoint(apiURL)
	if err != nil {
		return nil, err
	}
	client := httputil.NewClient(time.Duration(reqTimeout) * time.Millisecond)
	return &blockchair{endpoint, client}, nil
}

func (b *blockchair) Name() string {
	return SourceName
}

func (b *blockchair) GetBalance(
	ctx context.Context, address string,
) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, explorer.ErrNullAddress
	}

	url := fmt.Sprintf("%s/bitcoin/dashboards/address/%s", b.apiURL, address)
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

	var dashboard dashboardResponse
	if err := json.Unmarshal([]byte(resp), &dashboard); err != nil {
		return decimal.Zero, &explorer.ProviderError{
			Source: SourceName,
			Err:    fmt.Errorf("invalid response: %w", err),
		}
	}
	entry, ok := dashboard.Data[address]
	if !ok || entry.Address.Balance == nil {
		return decimal.Zero, &explorer.ProviderError{
			Source: SourceName,
			Err:    explorer.ErrAddressNotFound,
		}
	}

	balance, err := explorer.SatsToBTC(*entry.Address.Balance)
	if err != nil {
		return decimal.Zero, &explorer.ProviderError{Source: SourceName, Err: err}
	}
	return balance, nil
}
