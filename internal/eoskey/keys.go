// Package eoskey parses, derives and signs with EOS secp256k1 (K1) keys.
package eoskey

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // EOS checksums are RIPEMD-160
)

const (
	LegacyPublicKeyPrefix = "EOS"
	PublicKeyK1Prefix     = "PUB_K1_"
	PrivateKeyK1Prefix    = "PVT_K1_"
	SignatureK1Prefix     = "SIG_K1_"

	k1Suffix     = "K1"
	checksumLen  = 4
	signatureLen = 65
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature")
	// ErrNonCanonical means the chain would reject the signature; re-sign a modified digest.
	ErrNonCanonical = errors.New("non-canonical signature")
)

// PrivateKey is an EOS K1 private key.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// PublicKey is an EOS K1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// NewRandomPrivateKey generates a fresh key from crypto/rand.
func NewRandomPrivateKey() (*PrivateKey, error) {
	k, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}
	return &PrivateKey{key: k}, nil
}

// PrivateKeyFromBytes builds a key from a 32-byte scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, ErrInvalidPrivateKey
	}
	k, _ := btcec.PrivKeyFromBytes(b)
	return &PrivateKey{key: k}, nil
}

// ParsePrivateKey accepts the legacy WIF form ("5...") and "PVT_K1_..." keys.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, PrivateKeyK1Prefix) {
		raw, err := decodeK1(strings.TrimPrefix(s, PrivateKeyK1Prefix), btcec.PrivKeyBytesLen)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
		}
		return PrivateKeyFromBytes(raw)
	}

	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return &PrivateKey{key: wif.PrivKey}, nil
}

// PublicKey derives the public key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: p.key.PubKey()}
}

// Bytes returns the 32-byte scalar. Caller should zero it after use.
func (p *PrivateKey) Bytes() []byte {
	return p.key.Serialize()
}

// String returns the legacy WIF encoding.
func (p *PrivateKey) String() string {
	wif, err := btcutil.NewWIF(p.key, &chaincfg.MainNetParams, false)
	if err != nil {
		// NewWIF only fails on a nil network
		panic(err)
	}
	return wif.String()
}

// K1String returns the "PVT_K1_" encoding.
func (p *PrivateKey) K1String() string {
	return PrivateKeyK1Prefix + encodeK1(p.key.Serialize())
}

// Sign signs a 32-byte digest and returns a "SIG_K1_" string.
// ErrNonCanonical is returned when the deterministic signature is not canonical.
func (p *PrivateKey) Sign(digest []byte) (string, error) {
	if len(digest) != 32 {
		return "", errors.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	sig := ecdsa.SignCompact(p.key, digest, true)
	if !isCanonical(sig) {
		return "", ErrNonCanonical
	}
	return SignatureK1Prefix + encodeK1(sig), nil
}

// ParsePublicKey accepts "EOS..." and "PUB_K1_..." keys.
func ParsePublicKey(s string) (*PublicKey, error) {
	s = strings.TrimSpace(s)

	var raw []byte
	var err error
	switch {
	case strings.HasPrefix(s, PublicKeyK1Prefix):
		raw, err = decodeK1(strings.TrimPrefix(s, PublicKeyK1Prefix), btcec.PubKeyBytesLenCompressed)
	case strings.HasPrefix(s, LegacyPublicKeyPrefix):
		raw, err = decodeLegacy(strings.TrimPrefix(s, LegacyPublicKeyPrefix), btcec.PubKeyBytesLenCompressed)
	default:
		return nil, errors.Wrapf(ErrInvalidPublicKey, "unknown prefix in %q", s)
	}
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return &PublicKey{key: pub}, nil
}

// String returns the legacy "EOS..." encoding.
func (p *PublicKey) String() string {
	compressed := p.key.SerializeCompressed()
	return LegacyPublicKeyPrefix + base58.Encode(append(compressed, ripemd(compressed)[:checksumLen]...))
}

// K1String returns the "PUB_K1_..." encoding.
func (p *PublicKey) K1String() string {
	return PublicKeyK1Prefix + encodeK1(p.key.SerializeCompressed())
}

// Equal compares the underlying curve points.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return false
	}
	return p.key.IsEqual(other.key)
}

// RecoverPublicKey returns the key that produced a "SIG_K1_" signature over digest.
func RecoverPublicKey(digest []byte, signature string) (*PublicKey, error) {
	if !strings.HasPrefix(signature, SignatureK1Prefix) {
		return nil, ErrInvalidSignature
	}
	sig, err := decodeK1(strings.TrimPrefix(signature, SignatureK1Prefix), signatureLen)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return &PublicKey{key: pub}, nil
}

// isCanonical mirrors the chain's check that r and s encode to exactly 32 DER bytes.
func isCanonical(sig []byte) bool {
	return sig[1]&0x80 == 0 &&
		!(sig[1] == 0 && sig[2]&0x80 == 0) &&
		sig[33]&0x80 == 0 &&
		!(sig[33] == 0 && sig[34]&0x80 == 0)
}

func ripemd(parts ...[]byte) []byte {
	h := ripemd160.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func encodeK1(data []byte) string {
	sum := ripemd(data, []byte(k1Suffix))
	buf := make([]byte, 0, len(data)+checksumLen)
	buf = append(buf, data...)
	return base58.Encode(append(buf, sum[:checksumLen]...))
}

func decodeK1(s string, size int) ([]byte, error) {
	raw := base58.Decode(s)
	if len(raw) != size+checksumLen {
		return nil, errors.Errorf("expected %d bytes, got %d", size+checksumLen, len(raw))
	}
	data, check := raw[:size], raw[size:]
	if !bytes.Equal(ripemd(data, []byte(k1Suffix))[:checksumLen], check) {
		return nil, errors.New("checksum mismatch")
	}
	return data, nil
}

func decodeLegacy(s string, size int) ([]byte, error) {
	raw := base58.Decode(s)
	if len(raw) != size+checksumLen {
		return nil, errors.Errorf("expected %d bytes, got %d", size+checksumLen, len(raw))
	}
	data, check := raw[:size], raw[size:]
	if !bytes.Equal(ripemd(data)[:checksumLen], check) {
		return nil, errors.New("checksum mismatch")
	}
	return data, nil
}
