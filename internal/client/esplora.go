package client

import (
	"context"
	"strings"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	esploraService = "bitcoin"
	// fee target in blocks used from /fee-estimates
	feeTargetBlocks = "6"
)

// EsploraClient is a client for an Esplora-compatible Bitcoin REST API
type EsploraClient struct {
	client *resty.Client
}

// NewEsploraClient creates a new Esplora client
func NewEsploraClient(baseURL string, timeout time.Duration) *EsploraClient {
	return &EsploraClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// UTXO is an unspent output of an address
type UTXO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

// GetUTXOs lists unspent outputs of address
func (c *EsploraClient) GetUTXOs(ctx context.Context, address string) ([]UTXO, error) {
	var utxos []UTXO
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&utxos).
		Get("/address/" + address + "/utxo")
	if err != nil {
		return nil, apperr.NewNetworkError(esploraService, err)
	}
	if resp.IsError() {
		return nil, apperr.NewNetworkError(esploraService, errors.Errorf("utxo status %d: %s", resp.StatusCode(), resp.String()))
	}
	return utxos, nil
}

// GetFeeRate returns the estimated sat/vB for confirmation within a few blocks
func (c *EsploraClient) GetFeeRate(ctx context.Context) (float64, error) {
	var estimates map[string]float64
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&estimates).
		Get("/fee-estimates")
	if err != nil {
		return 0, apperr.NewNetworkError(esploraService, err)
	}
	if resp.IsError() {
		return 0, apperr.NewNetworkError(esploraService, errors.Errorf("fee status %d", resp.StatusCode()))
	}
	rate, ok := estimates[feeTargetBlocks]
	if !ok {
		return 0, errors.New("no fee estimate for target")
	}
	return rate, nil
}

// Broadcast submits a raw transaction in hex and returns its txid
func (c *EsploraClient) Broadcast(ctx context.Context, rawTxHex string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(rawTxHex).
		Post("/tx")
	if err != nil {
		return "", apperr.NewNetworkError(esploraService, err)
	}
	if resp.IsError() {
		return "", apperr.NewNetworkError(esploraService, errors.Errorf("broadcast status %d: %s", resp.StatusCode(), resp.String()))
	}
	return strings.TrimSpace(resp.String()), nil
}
