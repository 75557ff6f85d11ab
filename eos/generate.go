package eos

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const accountNameLen = 12

// GenerateAccountName derives an account name from a public key: the first 12
// characters lowercased, with digits 5-9 shifted down by 4 so they fall into 1-5.
// Other characters are kept as is.
// TODO: the result is not checked for collisions with existing accounts or against
// the chain's naming rules (a '0' in the key survives); settle with the registrar.
func GenerateAccountName(publicKey string) (string, error) {
	runes := []rune(publicKey)
	if len(runes) < accountNameLen {
		return "", apperr.New(apperr.KindInvalidInput, fmt.Sprintf("public key %q is shorter than %d characters", publicKey, accountNameLen))
	}

	var b strings.Builder
	for _, r := range strings.ToLower(string(runes[:accountNameLen])) {
		if r >= '5' && r <= '9' {
			r -= 4
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// LoginWithNewAccount generates a key pair, derives the account name, stores the
// credential as not yet activated and logs in with it
func (s *Service) LoginWithNewAccount(ctx context.Context) (*model.NewAccountResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activePrivateKey, activePublicKey, err := s.keys.GenerateActiveKey()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to generate keys")
	}

	accountName, err := GenerateAccountName(activePublicKey)
	if err != nil {
		return nil, err
	}

	if err := s.persistCredential(ctx, accountName, activePrivateKey, false); err != nil {
		return nil, err
	}

	s.login(accountName, activePrivateKey, activePublicKey)

	qrCode, err := generateQRCode(activePublicKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate public key QR code")
	}

	log.Info().Str("account", accountName).Msg("new eos account generated")

	return &model.NewAccountResponse{
		AccountName: accountName,
		PublicKey:   activePublicKey,
		Activated:   false,
		QR:          qrCode,
	}, nil
}

// generateQRCode generates QR code of content in base64
func generateQRCode(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
