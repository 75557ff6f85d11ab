package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const eosService = "eos"

// EOSClient is a client for the EOS chain HTTP API
type EOSClient struct {
	client   *resty.Client
	attempts uint
}

// NewEOSClient creates a new EOS chain client.
// attempts bounds retries of read-only calls; push_transaction is never retried.
func NewEOSClient(rpcURL string, timeout time.Duration, attempts uint) *EOSClient {
	if attempts == 0 {
		attempts = 1
	}
	return &EOSClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(rpcURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
		attempts: attempts,
	}
}

// KeyWeight is a key entry of a permission
type KeyWeight struct {
	Key    string `json:"key"`
	Weight int    `json:"weight"`
}

// Authority is the required_auth of a permission
type Authority struct {
	Threshold int         `json:"threshold"`
	Keys      []KeyWeight `json:"keys"`
}

// Permission is one permission tier of an account
type Permission struct {
	PermName     string    `json:"perm_name"`
	Parent       string    `json:"parent"`
	RequiredAuth Authority `json:"required_auth"`
}

// Account represents the get_account response (fields used by the wallet)
type Account struct {
	AccountName string       `json:"account_name"`
	Permissions []Permission `json:"permissions"`
}

// ActiveKey returns the first key of the "active" permission.
func (a *Account) ActiveKey() (string, bool) {
	for _, p := range a.Permissions {
		if p.PermName == "active" {
			if len(p.RequiredAuth.Keys) == 0 {
				return "", false
			}
			return p.RequiredAuth.Keys[0].Key, true
		}
	}
	return "", false
}

// ChainInfo represents the get_info response
type ChainInfo struct {
	ChainID                  string `json:"chain_id"`
	HeadBlockNum             uint32 `json:"head_block_num"`
	HeadBlockID              string `json:"head_block_id"`
	HeadBlockTime            string `json:"head_block_time"`
	LastIrreversibleBlockNum uint32 `json:"last_irreversible_block_num"`
	LastIrreversibleBlockID  string `json:"last_irreversible_block_id"`
}

// PushResult represents the push_transaction response
type PushResult struct {
	TransactionID string `json:"transaction_id"`
	Processed     struct {
		Receipt struct {
			Status string `json:"status"`
		} `json:"receipt"`
	} `json:"processed"`
}

// APIError is the error body returned by nodeos
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     struct {
		Code    int    `json:"code"`
		Name    string `json:"name"`
		What    string `json:"what"`
		Details []struct {
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	msg := e.Err.What
	if msg == "" {
		msg = e.Message
	}
	if len(e.Err.Details) > 0 {
		msg += ": " + e.Err.Details[0].Message
	}
	return fmt.Sprintf("eos api error %d (%s): %s", e.Err.Code, e.Err.Name, msg)
}

// isUnknownAccount recognizes nodeos' answer for a missing account
func (e *APIError) isUnknownAccount() bool {
	if e.Err.Name == "unknown_key" || e.Err.Name == "account_query_exception" {
		return true
	}
	for _, d := range e.Err.Details {
		if strings.Contains(d.Message, "unknown key") || strings.Contains(d.Message, "unable to retrieve account") {
			return true
		}
	}
	return false
}

// GetAccount fetches account permissions
func (c *EOSClient) GetAccount(ctx context.Context, accountName string) (*Account, error) {
	var account Account
	err := c.readCall(ctx, "/v1/chain/get_account", map[string]string{"account_name": accountName}, &account)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.isUnknownAccount() {
			return nil, apperr.NewAccountNotFoundError(accountName, err)
		}
		return nil, err
	}
	return &account, nil
}

// GetCurrencyBalance returns balances like "1.0000 EOS" held by account on token contract code
func (c *EOSClient) GetCurrencyBalance(ctx context.Context, code, account, symbol string) ([]string, error) {
	var balances []string
	req := map[string]string{"code": code, "account": account, "symbol": symbol}
	if err := c.readCall(ctx, "/v1/chain/get_currency_balance", req, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetInfo returns chain head information
func (c *EOSClient) GetInfo(ctx context.Context) (*ChainInfo, error) {
	var info ChainInfo
	if err := c.readCall(ctx, "/v1/chain/get_info", map[string]string{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PushTransaction submits a signed packed transaction
func (c *EOSClient) PushTransaction(ctx context.Context, tx *SignedTransaction) (*PushResult, error) {
	body := map[string]any{
		"signatures":               tx.Signatures,
		"compression":              "none",
		"packed_context_free_data": "",
		"packed_trx":               hex.EncodeToString(tx.Packed),
	}
	var result PushResult
	if err := c.call(ctx, "/v1/chain/push_transaction", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// readCall retries idempotent calls on network failures only
func (c *EOSClient) readCall(ctx context.Context, path string, body, out any) error {
	return retry.Do(
		func() error {
			return c.call(ctx, path, body, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return apperr.Is(err, apperr.KindNetworkFailure)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Str("path", path).Uint("attempt", n+1).Msg("retrying eos call")
		}),
	)
}

func (c *EOSClient) call(ctx context.Context, path string, body, out any) error {
	var apiErr APIError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return apperr.NewNetworkError(eosService, err)
	}
	if resp.IsError() {
		if resp.StatusCode() >= http.StatusInternalServerError && apiErr.Err.Name == "" && apiErr.Message == "" {
			return apperr.NewNetworkError(eosService, errors.Errorf("status %d", resp.StatusCode()))
		}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode()
		}
		return &apiErr
	}
	return nil
}
