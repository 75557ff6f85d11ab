package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// NetworkParams maps a network name to chain parameters
func NetworkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown bitcoin network %q", network)
	}
}

// AddressFromWIF returns the P2PKH address of a WIF private key
func AddressFromWIF(wifStr string, params *chaincfg.Params) (string, error) {
	_, addr, err := decodeKey(wifStr, params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

func decodeKey(wifStr string, params *chaincfg.Params) (*btcutil.WIF, *btcutil.AddressPubKeyHash, error) {
	wif, err := btcutil.DecodeWIF(wifStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid bitcoin private key: %w", err)
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive address: %w", err)
	}
	return wif, addr, nil
}
