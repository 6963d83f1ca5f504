package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodySize = 1 << 20

// Client performs http calls bounded by a fixed timeout.
type Client struct {
	client *http.Client
}

// NewClient returns a Client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration) *Client {
	return &Client{&http.Client{Timeout: timeout}}
}

// NewHTTPRequest function builds http call
// @param method <string>: http method
// @param url <string>: URL http to call
// @return <int>, <string>, error
func (c *Client) NewHTTPRequest(
	ctx context.Context, method, url string, header map[string]string,
) (int, string, error) {
	switch method {
	case http.MethodGet:
		return c.get(ctx, url, header)
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}
}

func (c *Client) get(
	ctx context.Context, url string, header map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(rs.Body, maxBodySize))
	if err != nil {
		return 0, "", err
	}

	return rs.StatusCode, string(bodyBytes), nil
}
