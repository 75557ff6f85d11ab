package eoskey

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key pair of a local EOSIO node.
const (
	devPrivateKey = "5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3"
	devPublicKey  = "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"
)

func TestParsePrivateKeyDerivesPublicKey(t *testing.T) {
	k, err := ParsePrivateKey(devPrivateKey)
	require.NoError(t, err)

	assert.Equal(t, devPublicKey, k.PublicKey().String())
	assert.Equal(t, devPrivateKey, k.String())
}

func TestK1RoundTrip(t *testing.T) {
	k, err := ParsePrivateKey(devPrivateKey)
	require.NoError(t, err)

	pvt := k.K1String()
	assert.True(t, strings.HasPrefix(pvt, PrivateKeyK1Prefix))

	again, err := ParsePrivateKey(pvt)
	require.NoError(t, err)
	assert.Equal(t, devPrivateKey, again.String())

	pub, err := ParsePublicKey(k.PublicKey().K1String())
	require.NoError(t, err)
	assert.Equal(t, devPublicKey, pub.String())
}

func TestParseInvalidKeys(t *testing.T) {
	_, err := ParsePrivateKey("not-a-key")
	assert.True(t, errors.Is(err, ErrInvalidPrivateKey))

	// flip the last character to break the checksum
	broken := devPublicKey[:len(devPublicKey)-1] + "D"
	_, err = ParsePublicKey(broken)
	assert.True(t, errors.Is(err, ErrInvalidPublicKey))

	_, err = ParsePublicKey("PUB1")
	assert.True(t, errors.Is(err, ErrInvalidPublicKey))
}

func TestSignRecovers(t *testing.T) {
	k, err := ParsePrivateKey(devPrivateKey)
	require.NoError(t, err)

	// deterministic signatures: walk messages until one is canonical
	for i := 0; i < 16; i++ {
		digest := sha256.Sum256([]byte{byte(i)})
		sig, err := k.Sign(digest[:])
		if errors.Is(err, ErrNonCanonical) {
			continue
		}
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sig, SignatureK1Prefix))

		pub, err := RecoverPublicKey(digest[:], sig)
		require.NoError(t, err)
		assert.True(t, pub.Equal(k.PublicKey()))
		return
	}
	t.Fatal("no canonical signature in 16 attempts")
}

func TestSignRejectsShortDigest(t *testing.T) {
	k, err := NewRandomPrivateKey()
	require.NoError(t, err)
	_, err = k.Sign([]byte("short"))
	assert.Error(t, err)
}

func TestMasterKeysDeterministic(t *testing.T) {
	a, err := MasterKeysFromPassword("PW5Kexample")
	require.NoError(t, err)
	b, err := MasterKeysFromPassword("PW5Kexample")
	require.NoError(t, err)

	assert.Equal(t, a.Owner.String(), b.Owner.String())
	assert.Equal(t, a.Active.String(), b.Active.String())
	assert.NotEqual(t, a.Owner.String(), a.Active.String())

	generated, err := GenerateMasterKeys()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(generated.Master, "PW5"))
}

func TestDeriver(t *testing.T) {
	d := Deriver{}

	pub, err := d.PrivateToPublic(devPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, devPublicKey, pub)

	k, err := ParsePrivateKey(devPrivateKey)
	require.NoError(t, err)
	assert.True(t, d.SamePublicKey(devPublicKey, k.PublicKey().K1String()))
	assert.True(t, d.SamePublicKey("PUB1", "PUB1"))
	assert.False(t, d.SamePublicKey("PUB1", "PUB2"))

	priv, pub, err := d.GenerateActiveKey()
	require.NoError(t, err)
	derived, err := d.PrivateToPublic(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, derived)
}
