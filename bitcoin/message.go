package bitcoin

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const messageMagic = "Bitcoin Signed Message:\n"

// SignMessage signs message with a WIF key in the Bitcoin signed-message format (base64 compact signature)
func SignMessage(message, wifStr string) (string, error) {
	wif, err := btcutil.DecodeWIF(wifStr)
	if err != nil {
		return "", fmt.Errorf("invalid bitcoin private key: %w", err)
	}

	hash, err := messageHash(message)
	if err != nil {
		return "", err
	}

	sig := ecdsa.SignCompact(wif.PrivKey, hash, wif.CompressPubKey)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyMessage checks that signature over message was produced by the key of a P2PKH address
func VerifyMessage(address, signature, message string, params *chaincfg.Params) (bool, error) {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	hash, err := messageHash(message)
	if err != nil {
		return false, err
	}

	pub, compressed, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return false, nil
	}

	serialized := pub.SerializeUncompressed()
	if compressed {
		serialized = pub.SerializeCompressed()
	}
	recovered, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), params)
	if err != nil {
		return false, err
	}
	return recovered.EncodeAddress() == address, nil
}

func messageHash(message string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, messageMagic); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}
