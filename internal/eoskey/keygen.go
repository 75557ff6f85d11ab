package eoskey

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

const masterKeyPrefix = "PW"

// MasterKeys is a key hierarchy rooted at a master password.
// owner = sha256(master), active = sha256(owner || "active").
type MasterKeys struct {
	Master string
	Owner  *PrivateKey
	Active *PrivateKey
}

// GenerateMasterKeys creates a random master password and derives owner and active keys from it.
func GenerateMasterKeys() (*MasterKeys, error) {
	seed, err := NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return MasterKeysFromPassword(masterKeyPrefix + seed.String())
}

// MasterKeysFromPassword re-derives the hierarchy of an existing master password.
func MasterKeysFromPassword(master string) (*MasterKeys, error) {
	if master == "" {
		return nil, errors.New("master password is empty")
	}
	owner, err := FromSeed(master)
	if err != nil {
		return nil, err
	}
	active, err := owner.ChildKey("active")
	if err != nil {
		return nil, err
	}
	return &MasterKeys{Master: master, Owner: owner, Active: active}, nil
}

// FromSeed derives a private key as sha256(seed).
func FromSeed(seed string) (*PrivateKey, error) {
	sum := sha256.Sum256([]byte(seed))
	defer clear(sum[:])
	return PrivateKeyFromBytes(sum[:])
}

// ChildKey derives sha256(key || name).
func (p *PrivateKey) ChildKey(name string) (*PrivateKey, error) {
	raw := p.Bytes()
	defer clear(raw)

	h := sha256.New()
	h.Write(raw)
	h.Write([]byte(name))
	return PrivateKeyFromBytes(h.Sum(nil))
}
