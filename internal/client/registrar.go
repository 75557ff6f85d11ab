package client

import (
	"context"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const registrarService = "registrar"

// RegistrarClient posts paid activations to the account registration endpoint
type RegistrarClient struct {
	endpoint string
	client   *resty.Client
}

// NewRegistrarClient creates a new registration endpoint client
func NewRegistrarClient(endpoint string, timeout time.Duration) *RegistrarClient {
	return &RegistrarClient{
		endpoint: endpoint,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
	}
}

// Register submits the activation request and returns the chain transaction id
func (c *RegistrarClient) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if c.endpoint == "" {
		return "", apperr.New(apperr.KindInvalidInput, "registration endpoint is not configured")
	}

	var out model.RegisterResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return "", apperr.NewNetworkError(registrarService, err)
	}
	if resp.IsError() {
		return "", apperr.NewNetworkError(registrarService, errors.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	if out.TransactionID == "" {
		return "", apperr.New(apperr.KindInternal, "registration endpoint returned no transaction_id")
	}
	return out.TransactionID, nil
}
