package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	eosCoinID    = "eos"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	client *resty.Client
}

// NewCoinGeckoClient creates a new CoinGecko client
func NewCoinGeckoClient(baseURL string, timeout time.Duration) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// GetEOSRate gets the EOS price in vsCurrency (e.g. "usd"), formatted with 2 decimals
func (c *CoinGeckoClient) GetEOSRate(ctx context.Context, vsCurrency string) (string, error) {
	var priceResp map[string]map[string]float64
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ids", eosCoinID).
		SetQueryParam("vs_currencies", vsCurrency).
		SetResult(&priceResp).
		Get("/simple/price")
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode())
	}

	price, ok := priceResp[eosCoinID][vsCurrency]
	if !ok {
		return "", fmt.Errorf("failed to get rate: no %s price in response", vsCurrency)
	}

	return strconv.FormatFloat(price, 'f', 2, 64), nil
}
