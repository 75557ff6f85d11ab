// Package app builds the wallet service from configuration.
package app

import (
	"context"
	"io"

	"github.com/AlexZinkM/eos-wallet/bitcoin"
	"github.com/AlexZinkM/eos-wallet/eos"
	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/common"
	"github.com/AlexZinkM/eos-wallet/internal/config"
	"github.com/AlexZinkM/eos-wallet/internal/crypto"
	"github.com/AlexZinkM/eos-wallet/internal/eoskey"
	"github.com/AlexZinkM/eos-wallet/internal/session"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App is a wired wallet
type App struct {
	Service *eos.Service
	Rates   *client.CoinGeckoClient
	closers []io.Closer
}

// New wires the service. The file store backend prompts for the store password.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	kv, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	priceSat, err := common.BTCToSatoshi(cfg.BuyAccountPriceBTC)
	if err != nil {
		a.Close()
		return nil, errors.Wrapf(err, "invalid BUY_ACCOUNT_PRICE_BTC %q", cfg.BuyAccountPriceBTC)
	}

	params, err := bitcoin.NetworkParams(cfg.BTCNetwork)
	if err != nil {
		a.Close()
		return nil, err
	}

	chain := client.NewEOSClient(cfg.EOSRPCURL, cfg.HTTPTimeout, cfg.RPCAttempts)
	esplora := client.NewEsploraClient(cfg.BTCAPIURL, cfg.HTTPTimeout)
	wallet := bitcoin.NewWallet(esplora, params, cfg.BTCFeeRate)
	registrar := client.NewRegistrarClient(cfg.RegisterEndpoint, cfg.HTTPTimeout)

	a.Service = eos.NewService(chain, eoskey.Deriver{}, kv, session.New(), wallet, registrar, eos.Options{
		TokenCode:          cfg.EOSTokenCode,
		Symbol:             cfg.EOSSymbol,
		ActivationPriceSat: int64(priceSat),
		PaymentRecipient:   cfg.BuyAccountPaymentRecipient,
		TxTimeout:          cfg.TxTimeout,
	})
	a.Rates = client.NewCoinGeckoClient(cfg.PriceAPIURL, cfg.HTTPTimeout)

	if ok, err := a.Service.Resume(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to resume session")
	} else if ok {
		log.Info().Msg("session restored from store")
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (store.KVStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Warn().Msg("using in-memory store: credentials are lost on exit")
		return store.NewMemoryStore(), nil

	case config.StoreBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.RedisAddr)
		}
		a.closers = append(a.closers, rdb)
		return store.NewRedisStore(rdb, ""), nil

	default:
		if err := config.PromptForPassword(); err != nil {
			return nil, err
		}
		password, err := config.GetStorePasswordBytes()
		if err != nil {
			return nil, err
		}
		defer clear(password)

		fs, err := store.OpenFileStore(cfg.StoreFilePath, password, crypto.DefaultKDF)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, fs)
		return fs, nil
	}
}

// Close releases the store
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
