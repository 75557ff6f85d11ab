package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"sort"

	"github.com/AlexZinkM/eos-wallet/internal/client"
	"github.com/AlexZinkM/eos-wallet/internal/common"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog/log"
)

const (
	// P2PKH size estimate: overhead + per input + per output (vbytes)
	txOverheadVBytes = 10
	p2pkhInputVBytes = 148
	outputVBytes     = 34
	dustLimitSat     = 546
)

// Chain is the Bitcoin backend the wallet pays through
type Chain interface {
	GetUTXOs(ctx context.Context, address string) ([]client.UTXO, error)
	GetFeeRate(ctx context.Context) (float64, error)
	Broadcast(ctx context.Context, rawTxHex string) (string, error)
}

// Wallet sends P2PKH payments and signs messages with WIF keys
type Wallet struct {
	chain           Chain
	params          *chaincfg.Params
	fallbackFeeRate int64
}

// NewWallet creates a Wallet. fallbackFeeRate (sat/vB) is used when the backend has no estimate.
func NewWallet(chain Chain, params *chaincfg.Params, fallbackFeeRate int64) *Wallet {
	if fallbackFeeRate <= 0 {
		fallbackFeeRate = 1
	}
	return &Wallet{chain: chain, params: params, fallbackFeeRate: fallbackFeeRate}
}

// Address returns the P2PKH address of wifStr on the wallet's network
func (w *Wallet) Address(wifStr string) (string, error) {
	return AddressFromWIF(wifStr, w.params)
}

// SignMessage signs message with wifStr
func (w *Wallet) SignMessage(message, wifStr string) (string, error) {
	return SignMessage(message, wifStr)
}

// Send pays amountSat to toAddress from the P2PKH address of fromWIF and returns the txid
func (w *Wallet) Send(ctx context.Context, fromWIF, toAddress string, amountSat int64) (string, error) {
	if amountSat <= dustLimitSat {
		return "", fmt.Errorf("amount %s BTC is below dust limit", common.SatoshiToBTC(uint64(max(amountSat, 0))))
	}

	wif, fromAddr, err := decodeKey(fromWIF, w.params)
	if err != nil {
		return "", err
	}

	toAddr, err := btcutil.DecodeAddress(toAddress, w.params)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	utxos, err := w.chain.GetUTXOs(ctx, fromAddr.EncodeAddress())
	if err != nil {
		return "", fmt.Errorf("failed to list unspent outputs: %w", err)
	}

	feeRate := w.feeRate(ctx)

	selected, total, fee, err := selectCoins(utxos, amountSat, feeRate)
	if err != nil {
		return "", err
	}

	tx, err := w.buildTx(wif, fromAddr, toAddr, selected, amountSat, total-amountSat-fee)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	txid, err := w.chain.Broadcast(ctx, hex.EncodeToString(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	if local := tx.TxHash().String(); txid != local {
		log.Warn().Str("broadcast", txid).Str("local", local).Msg("broadcast txid differs from local hash")
	}

	log.Info().
		Str("txid", txid).
		Str("to", toAddress).
		Str("amount", common.SatoshiToBTC(uint64(amountSat))).
		Str("fee", common.SatoshiToBTC(uint64(fee))).
		Msg("bitcoin payment broadcast")

	return txid, nil
}

func (w *Wallet) feeRate(ctx context.Context) int64 {
	rate, err := w.chain.GetFeeRate(ctx)
	if err != nil || rate <= 0 {
		log.Debug().Err(err).Int64("fallback", w.fallbackFeeRate).Msg("using fallback fee rate")
		return w.fallbackFeeRate
	}
	return int64(math.Ceil(rate))
}

func (w *Wallet) buildTx(wif *btcutil.WIF, fromAddr, toAddr btcutil.Address, utxos []client.UTXO, amountSat, changeSat int64) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(wire.TxVersion)

	for _, u := range utxos {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("invalid utxo txid %q: %w", u.TxID, err)
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, u.Vout), nil, nil))
	}

	toScript, err := txscript.PayToAddrScript(toAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipient script: %w", err)
	}
	tx.AddTxOut(wire.NewTxOut(amountSat, toScript))

	fromScript, err := txscript.PayToAddrScript(fromAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to build change script: %w", err)
	}
	if changeSat > dustLimitSat {
		tx.AddTxOut(wire.NewTxOut(changeSat, fromScript))
	}

	for i := range tx.TxIn {
		sigScript, err := txscript.SignatureScript(tx, i, fromScript, txscript.SigHashAll, wif.PrivKey, wif.CompressPubKey)
		if err != nil {
			return nil, fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}

	return tx, nil
}

// selectCoins picks confirmed outputs first, largest first, until amount plus fee is covered.
// The fee assumes a change output; dust change is left to the miner.
func selectCoins(utxos []client.UTXO, amountSat, feeRate int64) ([]client.UTXO, int64, int64, error) {
	sorted := make([]client.UTXO, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Status.Confirmed != sorted[j].Status.Confirmed {
			return sorted[i].Status.Confirmed
		}
		return sorted[i].Value > sorted[j].Value
	})

	var selected []client.UTXO
	var total, fee int64
	for _, u := range sorted {
		selected = append(selected, u)
		total += u.Value
		fee = estimateFee(len(selected), 2, feeRate)
		if total >= amountSat+fee {
			return selected, total, fee, nil
		}
	}

	return nil, 0, 0, fmt.Errorf("insufficient BTC balance: have %s, need %s plus fee %s",
		common.SatoshiToBTC(uint64(total)), common.SatoshiToBTC(uint64(amountSat)), common.SatoshiToBTC(uint64(fee)))
}

func estimateFee(inputs, outputs int, feeRate int64) int64 {
	return int64(txOverheadVBytes+inputs*p2pkhInputVBytes+outputs*outputVBytes) * feeRate
}
