// Package eos implements the EOS account workflows: login with an existing account,
// new account generation, paid activation, balance and transfers.
package eos

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/session"
	"github.com/AlexZinkM/eos-wallet/internal/store"
)

// Chain is the EOS chain API used by the workflows
type Chain interface {
	GetAccount(ctx context.Context, accountName string) (*client.Account, error)
	GetCurrencyBalance(ctx context.Context, code, account, symbol string) ([]string, error)
	GetInfo(ctx context.Context) (*client.ChainInfo, error)
	PushTransaction(ctx context.Context, tx *client.SignedTransaction) (*client.PushResult, error)
}

// KeyDeriver derives and signs with string-encoded EOS keys
type KeyDeriver interface {
	PrivateToPublic(privateKey string) (string, error)
	GenerateActiveKey() (privateKey, publicKey string, err error)
	SamePublicKey(a, b string) bool
	Sign(privateKey string, digest []byte) (string, error)
}

// BitcoinWallet pays for activation and signs the activation message
type BitcoinWallet interface {
	Address(wif string) (string, error)
	Send(ctx context.Context, fromWIF, toAddress string, amountSat int64) (string, error)
	SignMessage(message, wif string) (string, error)
}

// Registrar performs the chain-side account registration after payment
type Registrar interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
}

// Options are the fixed parameters of the workflows
type Options struct {
	TokenCode          string
	Symbol             string
	ActivationPriceSat int64
	PaymentRecipient   string
	TxTimeout          time.Duration
}

// Service runs the workflows against injected clients, store and session.
// Workflows are serialized: a second call waits for the one in flight.
type Service struct {
	mu        sync.Mutex
	chain     Chain
	keys      KeyDeriver
	store     store.KVStore
	session   *session.Session
	bitcoin   BitcoinWallet
	registrar Registrar
	opts      Options
}

// NewService creates a Service
func NewService(chain Chain, keys KeyDeriver, kv store.KVStore, sess *session.Session, btc BitcoinWallet, registrar Registrar, opts Options) *Service {
	if opts.TokenCode == "" {
		opts.TokenCode = "eosio.token"
	}
	if opts.Symbol == "" {
		opts.Symbol = "EOS"
	}
	return &Service{
		chain:     chain,
		keys:      keys,
		store:     kv,
		session:   sess,
		bitcoin:   btc,
		registrar: registrar,
		opts:      opts,
	}
}

// Session returns the session the service writes to
func (s *Service) Session() *session.Session {
	return s.session
}

// Options returns the service options
func (s *Service) Options() Options {
	return s.opts
}
