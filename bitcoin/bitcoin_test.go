package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/AlexZinkM/eos-wallet/internal/client"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	utxos     []client.UTXO
	feeRate   float64
	feeErr    error
	broadcast []string
}

func (f *fakeChain) GetUTXOs(_ context.Context, _ string) ([]client.UTXO, error) {
	return f.utxos, nil
}

func (f *fakeChain) GetFeeRate(_ context.Context) (float64, error) {
	return f.feeRate, f.feeErr
}

func (f *fakeChain) Broadcast(_ context.Context, rawTxHex string) (string, error) {
	f.broadcast = append(f.broadcast, rawTxHex)
	raw, err := hex.DecodeString(rawTxHex)
	if err != nil {
		return "", err
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}

func newWIF(t *testing.T) *btcutil.WIF {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, true)
	require.NoError(t, err)
	return wif
}

func utxo(txid string, vout uint32, value int64, confirmed bool) client.UTXO {
	u := client.UTXO{TxID: txid, Vout: vout, Value: value}
	u.Status.Confirmed = confirmed
	return u
}

func TestSignAndVerifyMessage(t *testing.T) {
	wif := newWIF(t)
	address, err := AddressFromWIF(wif.String(), &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(address, "1"))

	message := "alice:EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"
	sig, err := SignMessage(message, wif.String())
	require.NoError(t, err)

	ok, err := VerifyMessage(address, sig, message, &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyMessage(address, sig, "bob:"+message, &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendBuildsPayment(t *testing.T) {
	sender := newWIF(t)
	recipient := newWIF(t)
	params := &chaincfg.MainNetParams

	senderAddr, err := AddressFromWIF(sender.String(), params)
	require.NoError(t, err)
	recipientAddr, err := AddressFromWIF(recipient.String(), params)
	require.NoError(t, err)

	chain := &fakeChain{
		feeRate: 2.2,
		utxos: []client.UTXO{
			utxo(strings.Repeat("11", 32), 0, 40_000, true),
			utxo(strings.Repeat("22", 32), 1, 200_000, true),
			utxo(strings.Repeat("33", 32), 0, 900_000, false),
		},
	}
	w := NewWallet(chain, params, 10)

	txid, err := w.Send(context.Background(), sender.String(), recipientAddr, 100_000)
	require.NoError(t, err)
	require.Len(t, chain.broadcast, 1)

	raw, err := hex.DecodeString(chain.broadcast[0])
	require.NoError(t, err)
	var tx wire.MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))
	assert.Equal(t, tx.TxHash().String(), txid)

	// largest confirmed output covers the payment alone
	require.Len(t, tx.TxIn, 1)
	assert.Equal(t, strings.Repeat("22", 32), tx.TxIn[0].PreviousOutPoint.Hash.String())

	require.Len(t, tx.TxOut, 2)
	assert.Equal(t, int64(100_000), tx.TxOut[0].Value)

	toAddr, err := btcutil.DecodeAddress(recipientAddr, params)
	require.NoError(t, err)
	toScript, err := txscript.PayToAddrScript(toAddr)
	require.NoError(t, err)
	assert.Equal(t, toScript, tx.TxOut[0].PkScript)

	fee := estimateFee(1, 2, 3)
	assert.Equal(t, int64(200_000-100_000)-fee, tx.TxOut[1].Value)

	fromAddr, err := btcutil.DecodeAddress(senderAddr, params)
	require.NoError(t, err)
	fromScript, err := txscript.PayToAddrScript(fromAddr)
	require.NoError(t, err)
	assert.Equal(t, fromScript, tx.TxOut[1].PkScript)
}

func TestSendUsesFallbackFeeRate(t *testing.T) {
	sender := newWIF(t)
	recipient := newWIF(t)
	recipientAddr, err := AddressFromWIF(recipient.String(), &chaincfg.MainNetParams)
	require.NoError(t, err)

	chain := &fakeChain{
		feeErr: errors.New("no estimates"),
		utxos:  []client.UTXO{utxo(strings.Repeat("44", 32), 0, 50_000, true)},
	}
	w := NewWallet(chain, &chaincfg.MainNetParams, 5)

	_, err = w.Send(context.Background(), sender.String(), recipientAddr, 10_000)
	require.NoError(t, err)

	raw, _ := hex.DecodeString(chain.broadcast[0])
	var tx wire.MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))
	assert.Equal(t, int64(50_000-10_000)-estimateFee(1, 2, 5), tx.TxOut[1].Value)
}

func TestSendInsufficientFunds(t *testing.T) {
	sender := newWIF(t)
	recipient := newWIF(t)
	recipientAddr, err := AddressFromWIF(recipient.String(), &chaincfg.MainNetParams)
	require.NoError(t, err)

	chain := &fakeChain{utxos: []client.UTXO{utxo(strings.Repeat("55", 32), 0, 1_000, true)}}
	w := NewWallet(chain, &chaincfg.MainNetParams, 5)

	_, err = w.Send(context.Background(), sender.String(), recipientAddr, 100_000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient BTC balance")
	assert.Empty(t, chain.broadcast)
}

func TestSendRejectsBadRecipient(t *testing.T) {
	w := NewWallet(&fakeChain{}, &chaincfg.MainNetParams, 5)
	_, err := w.Send(context.Background(), newWIF(t).String(), "not-an-address", 100_000)
	assert.Error(t, err)
}

func TestNetworkParams(t *testing.T) {
	p, err := NetworkParams("testnet")
	require.NoError(t, err)
	assert.Equal(t, chaincfg.TestNet3Params.Name, p.Name)

	_, err = NetworkParams("litecoin")
	assert.Error(t, err)
}
