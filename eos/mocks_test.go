package eos

import (
	"context"
	"strings"

	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/eoskey"
	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

type mockChain struct {
	mock.Mock
}

func (m *mockChain) GetAccount(ctx context.Context, accountName string) (*client.Account, error) {
	args := m.Called(ctx, accountName)
	acc, _ := args.Get(0).(*client.Account)
	return acc, args.Error(1)
}

func (m *mockChain) GetCurrencyBalance(ctx context.Context, code, account, symbol string) ([]string, error) {
	args := m.Called(ctx, code, account, symbol)
	balances, _ := args.Get(0).([]string)
	return balances, args.Error(1)
}

func (m *mockChain) GetInfo(ctx context.Context) (*client.ChainInfo, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*client.ChainInfo)
	return info, args.Error(1)
}

func (m *mockChain) PushTransaction(ctx context.Context, tx *client.SignedTransaction) (*client.PushResult, error) {
	args := m.Called(ctx, tx)
	res, _ := args.Get(0).(*client.PushResult)
	return res, args.Error(1)
}

type mockBitcoin struct {
	mock.Mock
}

func (m *mockBitcoin) Address(wif string) (string, error) {
	args := m.Called(wif)
	return args.String(0), args.Error(1)
}

func (m *mockBitcoin) Send(ctx context.Context, fromWIF, toAddress string, amountSat int64) (string, error) {
	args := m.Called(ctx, fromWIF, toAddress, amountSat)
	return args.String(0), args.Error(1)
}

func (m *mockBitcoin) SignMessage(message, wif string) (string, error) {
	args := m.Called(message, wif)
	return args.String(0), args.Error(1)
}

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// fakeKeys maps private keys to public keys by table
type fakeKeys struct {
	pairs         map[string]string
	generatedPriv string
	generatedPub  string
	nonCanonical  int
	signed        int
}

func (f *fakeKeys) PrivateToPublic(privateKey string) (string, error) {
	pub, ok := f.pairs[privateKey]
	if !ok {
		return "", errors.New("unknown private key")
	}
	return pub, nil
}

func (f *fakeKeys) GenerateActiveKey() (string, string, error) {
	return f.generatedPriv, f.generatedPub, nil
}

func (f *fakeKeys) SamePublicKey(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (f *fakeKeys) Sign(privateKey string, digest []byte) (string, error) {
	f.signed++
	if f.signed <= f.nonCanonical {
		return "", eoskey.ErrNonCanonical
	}
	return "SIG_K1_test", nil
}

// failingStore rejects any batch that touches failKey
type failingStore struct {
	*store.MemoryStore
	failKey string
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if key == s.failKey {
		return errors.New("boom")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *failingStore) SetMany(ctx context.Context, values map[string]string) error {
	if _, ok := values[s.failKey]; ok {
		return errors.New("boom")
	}
	return s.MemoryStore.SetMany(ctx, values)
}
