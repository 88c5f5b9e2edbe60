package crypto

import (
	"encoding/json"
	"testing"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()
	require.NoError(t, public.Validate())

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)
	assert.NotEqual(t, sig.Ed25519, sig2.Ed25519)

	assert.True(t, public.Verify(msg, sig))
	assert.True(t, public.Verify(msg2, sig2))
	assert.False(t, public.Verify(msg, sig2))
	assert.False(t, public.Verify(msg, &Signature{}))
	assert.False(t, public.Verify(msg, nil))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, public.Address().Equals(other.Address()))
	require.NoError(t, public.Condition().Validate())
}

func TestPrivateKeyJSON(t *testing.T) {
	key := PrivKeyEd25519FromSeed(make([]byte, 32))
	raw, err := json.Marshal(key)
	require.NoError(t, err)

	var loaded PrivateKey
	require.NoError(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, key.Ed25519, loaded.Ed25519)

	err = json.Unmarshal([]byte(`"abcd"`), &loaded)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestDeriveKey(t *testing.T) {
	seed := []byte("000102030405060708090a0b0c0d0e0f")

	a, err := DeriveKey(seed, KeyPath(0))
	require.NoError(t, err)
	again, err := DeriveKey(seed, KeyPath(0))
	require.NoError(t, err)
	b, err := DeriveKey(seed, KeyPath(1))
	require.NoError(t, err)

	assert.Equal(t, a.Ed25519, again.Ed25519)
	assert.NotEqual(t, a.Ed25519, b.Ed25519)

	_, err = DeriveKey(seed, "m/44/1/0")
	assert.True(t, errors.ErrInput.Is(err))
	_, err = DeriveKey([]byte("short"), KeyPath(0))
	assert.True(t, errors.ErrInput.Is(err))
}
