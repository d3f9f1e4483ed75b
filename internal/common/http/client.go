// internal/common/http/client.go
package http

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"unit-lookup/internal/common/metrics"
)

const userAgent = "unit-lookup/1.0"

// Client is the outbound HTTP client handed to the Telegram API client.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a client whose overall timeout must exceed any
// long-poll timeout used on top of it.
func NewClient(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := c.httpClient.Do(req)
	metrics.OutboundRequests.WithLabelValues(req.URL.Host, result(resp, err)).Inc()
	return resp, err
}

// result is "error" for transport failures, otherwise the status class ("2xx").
func result(resp *http.Response, err error) string {
	if err != nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode/100) + "xx"
}
