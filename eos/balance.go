package eos

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/session"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RateSource quotes the EOS price in a fiat currency
type RateSource interface {
	GetEOSRate(ctx context.Context, vsCurrency string) (string, error)
}

// GetBalance reads the token balance of the logged-in account and caches it in the
// session. Without a session it returns 0 and leaves the session untouched.
func (s *Service) GetBalance(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getBalance(ctx)
}

func (s *Service) getBalance(ctx context.Context) (float64, error) {
	account := s.session.Address(session.EOSData)
	if account == "" {
		return 0, nil
	}

	balances, err := s.chain.GetCurrencyBalance(ctx, s.opts.TokenCode, account, s.opts.Symbol)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}

	var amount float64
	if len(balances) > 0 {
		if amount, err = parseAssetAmount(balances[0]); err != nil {
			log.Warn().Err(err).Str("balance", balances[0]).Msg("unexpected balance format")
			amount = 0
		}
	}

	s.session.SetBalance(session.EOSData, amount)
	return amount, nil
}

// BalanceReport returns the balance together with its fiat value.
// A failing rate lookup leaves the fiat fields empty.
func (s *Service) BalanceReport(ctx context.Context, rates RateSource, currency string) (*model.EOSBalanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := s.getBalance(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.EOSBalanceResponse{
		Account: s.session.Address(session.EOSData),
		Amount:  amount,
		Symbol:  s.opts.Symbol,
	}
	if report.Account == "" || rates == nil {
		return report, nil
	}

	rate, err := rates.GetEOSRate(ctx, currency)
	if err != nil {
		log.Warn().Err(err).Msg("failed to get EOS rate")
		return report, nil
	}

	// float only for display
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	report.Rate = rate
	report.Currency = currency
	report.Value = fmt.Sprintf("%.2f", amount*rateFloat)
	return report, nil
}

// parseAssetAmount reads the numeric part of "12.5000 EOS"
func parseAssetAmount(asset string) (float64, error) {
	fields := strings.Fields(asset)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty asset")
	}
	return strconv.ParseFloat(fields[0], 64)
}
