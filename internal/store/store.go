package store

import (
	"context"
	"strconv"
)

// Keys persisted by the wallet workflows.
const (
	KeyEOSPrivateKey        = "eos.privateKey"
	KeyEOSAccount           = "eos.account"
	KeyEOSAccountActivated  = "eos.accountActivated"
	KeyEOSActivationPayment = "eos.activationPayment"
	KeyBTCPrivateKey        = "btc.privateKey"
)

// KVStore is a string key-value store. Writes overwrite, last writer wins.
type KVStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all values or none of them.
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
}

// GetBool reads a flag stored as "true"/"false". Missing or malformed values read as false.
func GetBool(ctx context.Context, s KVStore, key string) (bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return b, nil
}

// SetBool stores a flag as "true"/"false".
func SetBool(ctx context.Context, s KVStore, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}
