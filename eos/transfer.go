package eos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/common"
	"github.com/AlexZinkM/eos-wallet/internal/eoskey"
	"github.com/AlexZinkM/eos-wallet/internal/session"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxSignAttempts = 10

// Transfer sends amount tokens from the logged-in account to "to" and returns the
// transaction id. Without a session it does nothing and returns "".
func (s *Service) Transfer(ctx context.Context, to, amount string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.session.Get(session.EOSData)
	if !ok || rec.Data.Address == "" {
		return "", nil
	}

	to = strings.TrimSpace(to)

	quantity, err := common.FormatEOSQuantity(amount, s.opts.Symbol)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "invalid amount")
	}

	action, err := client.NewTransferAction(s.opts.TokenCode, rec.Data.Address, to, quantity, "")
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "invalid transfer")
	}

	info, err := s.chain.GetInfo(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to get chain info")
	}

	tx, err := client.NewTransaction(info, s.opts.TxTimeout, action)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to build transaction")
	}

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		packed, err := tx.Pack()
		if err != nil {
			return "", apperr.Wrap(apperr.KindInvalidInput, err, "failed to pack transaction")
		}
		digest, err := client.SigningDigest(info.ChainID, packed)
		if err != nil {
			return "", apperr.Wrap(apperr.KindInternal, err, "failed to compute signing digest")
		}

		signature, err := s.keys.Sign(rec.Data.ActivePrivateKey, digest)
		if errors.Is(err, eoskey.ErrNonCanonical) {
			// a different expiration gives a different digest
			tx.Expiration = tx.Expiration.Add(time.Second)
			continue
		}
		if err != nil {
			return "", apperr.Wrap(apperr.KindInternal, err, "failed to sign transaction")
		}

		result, err := s.chain.PushTransaction(ctx, &client.SignedTransaction{
			Packed:     packed,
			Signatures: []string{signature},
		})
		if err != nil {
			return "", pkgerrors.Wrap(err, "failed to push transfer")
		}

		log.Info().
			Str("from", rec.Data.Address).
			Str("to", to).
			Str("quantity", quantity).
			Str("txId", result.TransactionID).
			Msg("eos transfer pushed")
		return result.TransactionID, nil
	}

	return "", apperr.New(apperr.KindInternal, "failed to produce a canonical signature")
}
