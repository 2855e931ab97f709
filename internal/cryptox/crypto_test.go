package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("device-secret")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeySize {
		t.Errorf("expected key of %d bytes, got %d", KeySize, len(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	secret := []byte("device-secret")

	key1 := DeriveKey(secret, []byte("salt-1"))
	key2 := DeriveKey(secret, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	ct, nonce, err := Seal([]byte("eyJhbGciOi..."), []byte("access_token"), key)
	require.NoError(t, err)
	require.NotEqual(t, []byte("eyJhbGciOi..."), ct)

	plain, err := Open(ct, nonce, []byte("access_token"), key)
	require.NoError(t, err)
	require.Equal(t, []byte("eyJhbGciOi..."), plain)
}

func TestSeal_FreshNonceEachCall(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	_, n1, err := Seal([]byte("v"), nil, key)
	require.NoError(t, err)
	_, n2, err := Seal([]byte("v"), nil, key)
	require.NoError(t, err)

	require.NotEqual(t, n1, n2)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := DeriveKey([]byte("right"), []byte("salt"))
	other := DeriveKey([]byte("wrong"), []byte("salt"))

	ct, nonce, err := Seal([]byte("v"), nil, key)
	require.NoError(t, err)

	_, err = Open(ct, nonce, nil, other)
	require.Error(t, err)
}

func TestOpen_WrongAdditionalDataFails(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	ct, nonce, err := Seal([]byte("v"), []byte("refresh_token"), key)
	require.NoError(t, err)

	_, err = Open(ct, nonce, []byte("access_token"), key)
	require.Error(t, err)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("v"), nil, []byte("short"))
	require.ErrorIs(t, err, ErrShortKey)

	_, err = Open([]byte("v"), []byte("n"), nil, []byte("short"))
	require.ErrorIs(t, err, ErrShortKey)
}
