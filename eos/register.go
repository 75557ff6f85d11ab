package eos

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/session"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Register logs in with an existing account after checking that activePrivateKey
// controls the account's active permission. Nothing is persisted on failure.
func (s *Service) Register(ctx context.Context, accountName, activePrivateKey string) error {
	if accountName == "" || activePrivateKey == "" {
		return apperr.New(apperr.KindInvalidInput, "account name and private key are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.chain.GetAccount(ctx, accountName)
	if err != nil {
		return errors.Wrap(err, "failed to get account")
	}

	activePublicKey, err := s.keys.PrivateToPublic(activePrivateKey)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, err, "invalid private key")
	}

	requiredPublicKey, ok := account.ActiveKey()
	if !ok {
		return apperr.New(apperr.KindKeyMismatch, fmt.Sprintf("account %s has no active key", accountName))
	}

	if !s.keys.SamePublicKey(activePublicKey, requiredPublicKey) {
		return apperr.NewKeyMismatchError(activePublicKey, requiredPublicKey)
	}

	if err := s.persistCredential(ctx, accountName, activePrivateKey, true); err != nil {
		return err
	}

	s.login(accountName, activePrivateKey, activePublicKey)

	log.Info().Str("account", accountName).Msg("eos account registered")
	return nil
}

// Login puts the account and its derived public key into the session
func (s *Service) Login(accountName, activePrivateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activePublicKey, err := s.keys.PrivateToPublic(activePrivateKey)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, err, "invalid private key")
	}
	s.login(accountName, activePrivateKey, activePublicKey)
	return nil
}

// Logout clears the EOS session record. Stored credentials are kept.
func (s *Service) Logout() {
	s.session.Clear(session.EOSData)
}

// Forget logs out and removes the stored EOS credential.
// The activation payment record is kept so a later activation never pays twice.
func (s *Service) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Clear(session.EOSData)
	for _, key := range []string{store.KeyEOSPrivateKey, store.KeyEOSAccount, store.KeyEOSAccountActivated} {
		if err := s.store.Remove(ctx, key); err != nil {
			return apperr.Wrap(apperr.KindInternal, err, "failed to remove "+key)
		}
	}
	return nil
}

// Resume restores the session from stored credentials.
// Returns false when no EOS credential is stored.
func (s *Service) Resume(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wif, ok, err := s.store.Get(ctx, store.KeyBTCPrivateKey); err != nil {
		return false, apperr.Wrap(apperr.KindInternal, err, "failed to read stored bitcoin key")
	} else if ok && wif != "" {
		if _, err := s.loginBitcoin(wif); err != nil {
			log.Warn().Err(err).Msg("stored bitcoin key is unusable")
		}
	}

	privateKey, okKey, err := s.store.Get(ctx, store.KeyEOSPrivateKey)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, err, "failed to read stored private key")
	}
	accountName, okName, err := s.store.Get(ctx, store.KeyEOSAccount)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, err, "failed to read stored account")
	}
	if !okKey || !okName || privateKey == "" || accountName == "" {
		return false, nil
	}

	activePublicKey, err := s.keys.PrivateToPublic(privateKey)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInvalidInput, err, "stored private key is invalid")
	}
	s.login(accountName, privateKey, activePublicKey)

	log.Info().Str("account", accountName).Msg("eos session resumed")
	return true, nil
}

// IsActivated reports the stored activation flag
func (s *Service) IsActivated(ctx context.Context) (bool, error) {
	return store.GetBool(ctx, s.store, store.KeyEOSAccountActivated)
}

func (s *Service) login(accountName, activePrivateKey, activePublicKey string) {
	s.session.SetAuthData(session.EOSData, session.AuthData{
		ActivePrivateKey: activePrivateKey,
		ActivePublicKey:  activePublicKey,
		Address:          accountName,
	})
}

func (s *Service) persistCredential(ctx context.Context, accountName, activePrivateKey string, activated bool) error {
	err := s.store.SetMany(ctx, map[string]string{
		store.KeyEOSPrivateKey:       activePrivateKey,
		store.KeyEOSAccount:          accountName,
		store.KeyEOSAccountActivated: strconv.FormatBool(activated),
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to store credential")
	}
	return nil
}
