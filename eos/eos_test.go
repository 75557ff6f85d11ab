package eos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/session"
	"github.com/AlexZinkM/eos-wallet/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	priv1 = "5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3"
	pub1  = "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"
	pub2  = "EOS7ijWCBmoXBi3CgtK7DJxentZZeTkeUnaSDvyro9dq7Sd1C3dC4"

	btcWIF     = "L1btcTestKey"
	btcAddress = "1BtcSender"
	recipient  = "1BtcRecipient"
)

type fixture struct {
	svc       *Service
	chain     *mockChain
	btc       *mockBitcoin
	registrar *mockRegistrar
	keys      *fakeKeys
	kv        *store.MemoryStore
	sess      *session.Session
}

func newFixture() *fixture {
	f := &fixture{
		chain:     &mockChain{},
		btc:       &mockBitcoin{},
		registrar: &mockRegistrar{},
		keys:      &fakeKeys{pairs: map[string]string{priv1: pub1}},
		kv:        store.NewMemoryStore(),
		sess:      session.New(),
	}
	f.svc = NewService(f.chain, f.keys, f.kv, f.sess, f.btc, f.registrar, Options{
		ActivationPriceSat: 100000,
		PaymentRecipient:   recipient,
		TxTimeout:          30 * time.Second,
	})
	return f
}

func accountWithActiveKey(name, key string) *client.Account {
	return &client.Account{
		AccountName: name,
		Permissions: []client.Permission{
			{PermName: "owner", RequiredAuth: client.Authority{Threshold: 1, Keys: []client.KeyWeight{{Key: pub2, Weight: 1}}}},
			{PermName: "active", Parent: "owner", RequiredAuth: client.Authority{Threshold: 1, Keys: []client.KeyWeight{{Key: key, Weight: 1}}}},
		},
	}
}

func TestRegisterKeyMismatchLeavesStoreUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.chain.On("GetAccount", mock.Anything, "alice").Return(accountWithActiveKey("alice", pub2), nil)

	err := f.svc.Register(ctx, "alice", priv1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindKeyMismatch))
	assert.Equal(t, pub1+" is not equal to "+pub2, apperr.UserMessage(err))

	assert.Empty(t, f.kv.Snapshot())
	_, ok := f.sess.Get(session.EOSData)
	assert.False(t, ok)
}

func TestRegisterStoresCredentialAndLogsIn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.chain.On("GetAccount", mock.Anything, "alice").Return(accountWithActiveKey("alice", pub1), nil)

	require.NoError(t, f.svc.Register(ctx, "alice", priv1))

	assert.Equal(t, map[string]string{
		store.KeyEOSPrivateKey:       priv1,
		store.KeyEOSAccount:          "alice",
		store.KeyEOSAccountActivated: "true",
	}, f.kv.Snapshot())

	rec, ok := f.sess.Get(session.EOSData)
	require.True(t, ok)
	assert.Equal(t, "alice", rec.Data.Address)
	assert.Equal(t, pub1, rec.Data.ActivePublicKey)
	assert.Equal(t, priv1, rec.Data.ActivePrivateKey)
}

func TestRegisterAccountNotFound(t *testing.T) {
	f := newFixture()
	f.chain.On("GetAccount", mock.Anything, "nobody").
		Return(nil, apperr.NewAccountNotFoundError("nobody", nil))

	err := f.svc.Register(context.Background(), "nobody", priv1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAccountNotFound))
	assert.Equal(t, apperr.GenericMessage, apperr.UserMessage(err))
	assert.Empty(t, f.kv.Snapshot())
}

func TestRegisterInvalidPrivateKey(t *testing.T) {
	f := newFixture()
	f.chain.On("GetAccount", mock.Anything, "alice").Return(accountWithActiveKey("alice", pub1), nil)

	err := f.svc.Register(context.Background(), "alice", "garbage")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Empty(t, f.kv.Snapshot())
}

func TestRegisterRequiresInput(t *testing.T) {
	f := newFixture()
	err := f.svc.Register(context.Background(), "", priv1)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	f.chain.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
}

func TestGenerateAccountName(t *testing.T) {
	name, err := GenerateAccountName(pub1)
	require.NoError(t, err)
	assert.Equal(t, "eos2mryajqq4", name)
	assert.Len(t, name, accountNameLen)

	again, err := GenerateAccountName(pub1)
	require.NoError(t, err)
	assert.Equal(t, name, again)

	name, err = GenerateAccountName("EOS56789ABCDxyz")
	require.NoError(t, err)
	assert.Equal(t, "eos12345abcd", name)

	_, err = GenerateAccountName("EOS123")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestLoginWithNewAccount(t *testing.T) {
	f := newFixture()
	f.keys.generatedPriv = priv1
	f.keys.generatedPub = pub1

	resp, err := f.svc.LoginWithNewAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eos2mryajqq4", resp.AccountName)
	assert.Equal(t, pub1, resp.PublicKey)
	assert.False(t, resp.Activated)
	assert.NotEmpty(t, resp.QR)

	snap := f.kv.Snapshot()
	assert.Equal(t, priv1, snap[store.KeyEOSPrivateKey])
	assert.Equal(t, "eos2mryajqq4", snap[store.KeyEOSAccount])
	assert.Equal(t, "false", snap[store.KeyEOSAccountActivated])
	assert.Equal(t, "eos2mryajqq4", f.sess.Address(session.EOSData))
}

func TestGetBalanceWithoutSession(t *testing.T) {
	f := newFixture()

	amount, err := f.svc.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, amount)
	_, ok := f.sess.Get(session.EOSData)
	assert.False(t, ok)
	f.chain.AssertNotCalled(t, "GetCurrencyBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBalance(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Login("alice", priv1))
	f.chain.On("GetCurrencyBalance", mock.Anything, "eosio.token", "alice", "EOS").
		Return([]string{"12.5000 EOS"}, nil)

	amount, err := f.svc.GetBalance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 12.5, amount, 1e-9)

	rec, _ := f.sess.Get(session.EOSData)
	assert.InDelta(t, 12.5, rec.Balance, 1e-9)
}

func TestGetBalanceEmptyList(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Login("alice", priv1))
	f.chain.On("GetCurrencyBalance", mock.Anything, "eosio.token", "alice", "EOS").Return([]string{}, nil)

	amount, err := f.svc.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, amount)
}

type fixedRate string

func (r fixedRate) GetEOSRate(_ context.Context, _ string) (string, error) {
	return string(r), nil
}

func TestBalanceReport(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Login("alice", priv1))
	f.chain.On("GetCurrencyBalance", mock.Anything, "eosio.token", "alice", "EOS").Return([]string{"2.0000 EOS"}, nil)

	report, err := f.svc.BalanceReport(context.Background(), fixedRate("0.75"), "usd")
	require.NoError(t, err)
	assert.Equal(t, "alice", report.Account)
	assert.Equal(t, "1.50", report.Value)
	assert.Equal(t, "usd", report.Currency)
}

func TestTransferWithoutSession(t *testing.T) {
	f := newFixture()
	txID, err := f.svc.Transfer(context.Background(), "bob", "1")
	require.NoError(t, err)
	assert.Empty(t, txID)
	f.chain.AssertNotCalled(t, "GetInfo", mock.Anything)
}

func chainInfo() *client.ChainInfo {
	return &client.ChainInfo{
		ChainID:                  "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906",
		HeadBlockTime:            "2024-01-01T00:00:00.000",
		LastIrreversibleBlockNum: 100,
		LastIrreversibleBlockID:  "00000064aabbccdd11223344556677880000000000000000000000000000000f",
	}
}

func TestTransfer(t *testing.T) {
	f := newFixture()
	f.keys.nonCanonical = 2
	require.NoError(t, f.svc.Login("alice", priv1))

	var pushed []*client.SignedTransaction
	f.chain.On("GetInfo", mock.Anything).Return(chainInfo(), nil)
	f.chain.On("PushTransaction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { pushed = append(pushed, args.Get(1).(*client.SignedTransaction)) }).
		Return(&client.PushResult{TransactionID: "tx123"}, nil)

	txID, err := f.svc.Transfer(context.Background(), " bob\n", "1.5")
	require.NoError(t, err)
	assert.Equal(t, "tx123", txID)

	assert.Equal(t, 3, f.keys.signed)
	require.Len(t, pushed, 1)
	assert.Equal(t, []string{"SIG_K1_test"}, pushed[0].Signatures)
	assert.NotEmpty(t, pushed[0].Packed)
}

func TestTransferInvalidAmount(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Login("alice", priv1))

	_, err := f.svc.Transfer(context.Background(), "bob", "abc")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	f.chain.AssertNotCalled(t, "GetInfo", mock.Anything)
}

func TestLogoutAndResume(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.chain.On("GetAccount", mock.Anything, "alice").Return(accountWithActiveKey("alice", pub1), nil)
	require.NoError(t, f.svc.Register(ctx, "alice", priv1))

	f.svc.Logout()
	assert.Empty(t, f.sess.Address(session.EOSData))

	ok, err := f.svc.Resume(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", f.sess.Address(session.EOSData))
}

func TestResumeWithoutCredential(t *testing.T) {
	f := newFixture()
	ok, err := f.svc.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func setupActivation(t *testing.T, f *fixture) {
	t.Helper()
	f.keys.generatedPriv = priv1
	f.keys.generatedPub = pub1
	_, err := f.svc.LoginWithNewAccount(context.Background())
	require.NoError(t, err)

	f.btc.On("Address", btcWIF).Return(btcAddress, nil)
	_, err = f.svc.LoginBitcoin(context.Background(), btcWIF)
	require.NoError(t, err)
}

func TestBuyAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	setupActivation(t, f)

	f.btc.On("Send", mock.Anything, btcWIF, recipient, int64(100000)).Return("btctx1", nil).Once()
	f.btc.On("SignMessage", "eos2mryajqq4:"+pub1, btcWIF).Return("btcsig", nil)
	f.registrar.On("Register", mock.Anything, model.RegisterRequest{
		PublicKey:   pub1,
		AccountName: "eos2mryajqq4",
		Address:     btcAddress,
		Signature:   "btcsig",
		TxID:        "btctx1",
	}).Return("eostx1", nil)

	resp, err := f.svc.BuyAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "btctx1", resp.PaymentTx)
	assert.Equal(t, "eostx1", resp.TransactionID)

	activated, err := f.svc.IsActivated(ctx)
	require.NoError(t, err)
	assert.True(t, activated)

	var payment model.ActivationPayment
	require.NoError(t, json.Unmarshal([]byte(f.kv.Snapshot()[store.KeyEOSActivationPayment]), &payment))
	assert.Equal(t, "btctx1", payment.PaymentTx)
	assert.Equal(t, "btcsig", payment.Signature)
}

func TestBuyAccountRetryDoesNotPayTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	setupActivation(t, f)

	f.btc.On("Send", mock.Anything, btcWIF, recipient, int64(100000)).Return("btctx1", nil).Once()
	f.btc.On("SignMessage", mock.Anything, btcWIF).Return("btcsig", nil)
	f.registrar.On("Register", mock.Anything, mock.Anything).
		Return("", apperr.NewNetworkError("registrar", assert.AnError)).Once()
	f.registrar.On("Register", mock.Anything, mock.Anything).Return("eostx1", nil).Once()

	_, err := f.svc.BuyAccount(ctx)
	require.Error(t, err)
	activated, _ := f.svc.IsActivated(ctx)
	assert.False(t, activated)

	resp, err := f.svc.BuyAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "btctx1", resp.PaymentTx)

	f.btc.AssertNumberOfCalls(t, "Send", 1)
}

func TestBuyAccountRequiresBitcoinLogin(t *testing.T) {
	f := newFixture()
	f.keys.generatedPriv = priv1
	f.keys.generatedPub = pub1
	_, err := f.svc.LoginWithNewAccount(context.Background())
	require.NoError(t, err)

	_, err = f.svc.BuyAccount(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindNoSession))
	f.btc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyAccountWithoutStoredAccount(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BuyAccount(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindNoSession))
}

func TestSendActivationPaymentOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	setupActivation(t, f)
	f.btc.On("Send", mock.Anything, btcWIF, recipient, int64(100000)).Return("btctx1", nil).Once()

	paymentTx, err := f.svc.SendActivationPayment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "btctx1", paymentTx)

	_, err = f.svc.SendActivationPayment(ctx)
	assert.True(t, apperr.Is(err, apperr.KindPaymentAlreadyMade))
	f.btc.AssertNumberOfCalls(t, "Send", 1)
}

func TestLoadPaymentAcceptsPlainTxID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.kv.Set(ctx, store.KeyEOSActivationPayment, "legacytx"))

	info, err := f.svc.ActivationInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacytx", info.PaymentTx)
	assert.Equal(t, "0.00100000", info.PriceBTC)
	assert.Equal(t, recipient, info.Recipient)
	assert.NotEmpty(t, info.QR)
	assert.False(t, info.Activated)
}

func TestLoginBitcoinInvalidKey(t *testing.T) {
	f := newFixture()
	f.btc.On("Address", "bad").Return("", assert.AnError)

	_, err := f.svc.LoginBitcoin(context.Background(), "bad")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Empty(t, f.kv.Snapshot())
}

func TestGetBalanceUnparseable(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Login("alice", priv1))
	f.chain.On("GetCurrencyBalance", mock.Anything, "eosio.token", "alice", "EOS").Return([]string{"n/a"}, nil)

	amount, err := f.svc.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestForgetKeepsPaymentRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	setupActivation(t, f)
	f.btc.On("Send", mock.Anything, btcWIF, recipient, int64(100000)).Return("btctx1", nil).Once()
	_, err := f.svc.SendActivationPayment(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Forget(ctx))

	snap := f.kv.Snapshot()
	assert.NotContains(t, snap, store.KeyEOSPrivateKey)
	assert.NotContains(t, snap, store.KeyEOSAccount)
	assert.Contains(t, snap, store.KeyEOSActivationPayment)
	assert.Empty(t, f.sess.Address(session.EOSData))
}

func TestRegisterStoreFailureKeepsPreviousCredential(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	kv := &failingStore{MemoryStore: f.kv, failKey: store.KeyEOSAccount}
	f.svc = NewService(f.chain, f.keys, kv, f.sess, f.btc, f.registrar, f.svc.Options())

	require.NoError(t, f.kv.SetMany(ctx, map[string]string{
		store.KeyEOSPrivateKey:       "oldkey",
		store.KeyEOSAccount:          "bob",
		store.KeyEOSAccountActivated: "true",
	}))
	f.chain.On("GetAccount", mock.Anything, "alice").Return(accountWithActiveKey("alice", pub1), nil)

	err := f.svc.Register(ctx, "alice", priv1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	assert.Equal(t, map[string]string{
		store.KeyEOSPrivateKey:       "oldkey",
		store.KeyEOSAccount:          "bob",
		store.KeyEOSAccountActivated: "true",
	}, f.kv.Snapshot())
	_, ok := f.sess.Get(session.EOSData)
	assert.False(t, ok)
}
