package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	const n = 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	if string(a) == string(b) {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
	}
}

// ---------- NormalizeEmail ----------

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM \n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

// ---------- Error ----------

func TestError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("search: %w", &Error{Kind: ErrNetworkFailure, Err: cause})

	require.ErrorIs(t, err, ErrNetworkFailure)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrAuthenticationRequired)
	assert.Equal(t, "search: network failure: dial tcp: refused", err.Error())
}

func TestError_MessageWins(t *testing.T) {
	err := &Error{Kind: ErrBackend, Status: 400, Message: "Quantity must be greater than 0"}
	assert.Equal(t, "Quantity must be greater than 0", err.Error())
	assert.Equal(t, 400, HTTPStatus(err))
	assert.Equal(t, 0, HTTPStatus(errors.New("plain")))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Please fill in all fields")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Please fill in all fields", err.Error())
}
