package eos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/common"
	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/session"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoginBitcoin puts the bitcoin key into the session and stores it
func (s *Service) LoginBitcoin(ctx context.Context, wif string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	address, err := s.loginBitcoin(wif)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, store.KeyBTCPrivateKey, wif); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to store bitcoin key")
	}

	log.Info().Str("address", address).Msg("bitcoin wallet logged in")
	return address, nil
}

func (s *Service) loginBitcoin(wif string) (string, error) {
	address, err := s.bitcoin.Address(wif)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "invalid bitcoin private key")
	}
	s.session.SetAuthData(session.BTCData, session.AuthData{
		ActivePrivateKey: wif,
		Address:          address,
	})
	return address, nil
}

// SendActivationPayment pays the activation price to the configured recipient and
// records the payment. A recorded payment is never repeated.
func (s *Service) SendActivationPayment(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, err := s.loadPayment(ctx)
	if err != nil {
		return "", err
	}
	if payment != nil {
		return "", apperr.NewPaymentAlreadyMadeError(payment.PaymentTx)
	}

	btc, ok := s.session.Get(session.BTCData)
	if !ok {
		return "", apperr.New(apperr.KindNoSession, "bitcoin wallet is not logged in")
	}

	payment, err = s.sendActivationPayment(ctx, btc.Data)
	if err != nil {
		return "", err
	}
	return payment.PaymentTx, nil
}

// BuyAccount activates the stored account: pays once, signs "<account>:<publicKey>"
// with the bitcoin key and submits the registration.
func (s *Service) BuyAccount(ctx context.Context) (*model.ActivationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	privateKey, okKey, err := s.store.Get(ctx, store.KeyEOSPrivateKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to read stored private key")
	}
	accountName, okName, err := s.store.Get(ctx, store.KeyEOSAccount)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to read stored account")
	}
	if !okKey || !okName || privateKey == "" || accountName == "" {
		return nil, apperr.New(apperr.KindNoSession, "no stored EOS account: log in or create an account first")
	}

	publicKey, err := s.keys.PrivateToPublic(privateKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "stored private key is invalid")
	}

	btc, ok := s.session.Get(session.BTCData)
	if !ok {
		return nil, apperr.New(apperr.KindNoSession, "bitcoin wallet is not logged in")
	}

	payment, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		payment, err = s.sendActivationPayment(ctx, btc.Data)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().Str("paymentTx", payment.PaymentTx).Msg("activation payment already made, skipping")
	}

	signature, err := s.bitcoin.SignMessage(accountName+":"+publicKey, btc.Data.ActivePrivateKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to sign activation message")
	}

	payment.Signature = signature
	if err := s.savePayment(ctx, payment); err != nil {
		log.Warn().Err(err).Msg("failed to store activation signature")
	}

	transactionID, err := s.registrar.Register(ctx, model.RegisterRequest{
		PublicKey:   publicKey,
		AccountName: accountName,
		Address:     btc.Data.Address,
		Signature:   signature,
		TxID:        payment.PaymentTx,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register account")
	}

	if err := store.SetBool(ctx, s.store, store.KeyEOSAccountActivated, true); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to store activation flag")
	}

	log.Info().
		Str("account", accountName).
		Str("paymentTx", payment.PaymentTx).
		Str("transactionId", transactionID).
		Msg("eos account activated")

	return &model.ActivationResponse{
		AccountName:   accountName,
		PaymentTx:     payment.PaymentTx,
		TransactionID: transactionID,
	}, nil
}

// ActivationInfo describes what activation costs and where it stands
func (s *Service) ActivationInfo(ctx context.Context) (*model.ActivationInfoResponse, error) {
	priceBTC := common.SatoshiToBTC(uint64(s.opts.ActivationPriceSat))

	info := &model.ActivationInfoResponse{
		PriceBTC:  priceBTC,
		Recipient: s.opts.PaymentRecipient,
	}

	payment, err := s.loadPayment(ctx)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		info.PaymentTx = payment.PaymentTx
	}

	info.Activated, err = store.GetBool(ctx, s.store, store.KeyEOSAccountActivated)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to read activation flag")
	}

	if s.opts.PaymentRecipient != "" {
		qrCode, err := generateQRCode(fmt.Sprintf("bitcoin:%s?amount=%s", s.opts.PaymentRecipient, priceBTC))
		if err != nil {
			log.Warn().Err(err).Msg("failed to generate payment QR code")
		}
		info.QR = qrCode
	}

	return info, nil
}

func (s *Service) sendActivationPayment(ctx context.Context, btc session.AuthData) (*model.ActivationPayment, error) {
	if s.opts.PaymentRecipient == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "activation payment recipient is not configured")
	}
	if s.opts.ActivationPriceSat <= 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "activation price is not configured")
	}

	paymentTx, err := s.bitcoin.Send(ctx, btc.ActivePrivateKey, s.opts.PaymentRecipient, s.opts.ActivationPriceSat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send activation payment")
	}

	payment := &model.ActivationPayment{
		PaymentTx:  paymentTx,
		BTCAddress: btc.Address,
	}
	if err := s.savePayment(ctx, payment); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, fmt.Sprintf("payment %s was broadcast but could not be recorded", paymentTx))
	}

	log.Info().
		Str("paymentTx", paymentTx).
		Str("from", btc.Address).
		Int64("amountSat", s.opts.ActivationPriceSat).
		Msg("activation payment sent")
	return payment, nil
}

// loadPayment returns nil when no payment is recorded
func (s *Service) loadPayment(ctx context.Context) (*model.ActivationPayment, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyEOSActivationPayment)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to read activation payment")
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var payment model.ActivationPayment
	if err := json.Unmarshal([]byte(raw), &payment); err != nil {
		// plain transaction id
		return &model.ActivationPayment{PaymentTx: raw}, nil
	}
	return &payment, nil
}

func (s *Service) savePayment(ctx context.Context, payment *model.ActivationPayment) error {
	raw, err := json.Marshal(payment)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, store.KeyEOSActivationPayment, string(raw))
}
