package cose

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicKey(t *testing.T) {
	x := strings.Repeat("cd", Ed25519PublicKeySize)
	// {1: 1, -1: 6, -2: x}
	keyHex := "a3" + "0101" + "2006" + "215820" + x

	got, err := ExtractPublicKey(keyHex)
	require.NoError(t, err)
	assert.Equal(t, x, hex.EncodeToString(got))
}

func TestExtractPublicKeyErrors(t *testing.T) {
	x := strings.Repeat("cd", Ed25519PublicKeySize)

	tests := []struct {
		name   string
		keyHex string
		want   error
	}{
		{
			name:   "missing x coordinate",
			keyHex: "a2" + "0101" + "2006",
			want:   ErrMissingKeyMaterial,
		},
		{
			name:   "wrong key type",
			keyHex: "a2" + "0102" + "215820" + x,
			want:   ErrMissingKeyMaterial,
		},
		{
			name:   "wrong curve",
			keyHex: "a3" + "0101" + "2001" + "215820" + x,
			want:   ErrMissingKeyMaterial,
		},
		{
			name:   "short x coordinate",
			keyHex: "a2" + "0101" + "215818" + strings.Repeat("cd", 24),
			want:   ErrMissingKeyMaterial,
		},
		{
			name: "duplicate x label",
			keyHex: "a3" + "0101" + "215820" + x + "215820" + strings.Repeat("ef", Ed25519PublicKeySize),
			want:  ErrAmbiguousKeyMaterial,
		},
		{
			name:   "x coordinate not a byte string",
			keyHex: "a2" + "0101" + "2101",
			want:   ErrAmbiguousKeyMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPublicKey(tt.keyHex)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractAddress(t *testing.T) {
	addr := []byte{0x01, 0x02, 0x03, 0x04}
	protected, err := Encode(map[interface{}]interface{}{
		int64(1):  int64(-8),
		"address": addr,
	})
	require.NoError(t, err)

	got, err := ExtractAddress(protected)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestExtractAddressAbsent(t *testing.T) {
	protected, err := Encode(map[interface{}]interface{}{int64(1): int64(-8)})
	require.NoError(t, err)

	got, err := ExtractAddress(protected)
	require.NoError(t, err)
	assert.Nil(t, got)

	// empty protected header carries no address either
	got, err = ExtractAddress(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
