package eoskey

// Deriver exposes the key operations the wallet workflows need over string-encoded keys.
type Deriver struct{}

// PrivateToPublic returns the legacy "EOS..." public key of privateKey.
func (Deriver) PrivateToPublic(privateKey string) (string, error) {
	k, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	return k.PublicKey().String(), nil
}

// GenerateActiveKey returns the active key pair of a freshly generated master hierarchy.
func (Deriver) GenerateActiveKey() (privateKey, publicKey string, err error) {
	keys, err := GenerateMasterKeys()
	if err != nil {
		return "", "", err
	}
	return keys.Active.String(), keys.Active.PublicKey().String(), nil
}

// SamePublicKey reports whether a and b encode the same key.
// Unparseable keys are compared as plain strings.
func (Deriver) SamePublicKey(a, b string) bool {
	if a == b {
		return true
	}
	pa, err := ParsePublicKey(a)
	if err != nil {
		return false
	}
	pb, err := ParsePublicKey(b)
	if err != nil {
		return false
	}
	return pa.Equal(pb)
}

// Sign signs digest with privateKey.
func (Deriver) Sign(privateKey string, digest []byte) (string, error) {
	k, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	return k.Sign(digest)
}
