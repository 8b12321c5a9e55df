package cose

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// protected header bytes: bstr wrapping {1: -8} (alg EdDSA)
	fixtureProtected = "43a10127"
	// payload "hello" as a byte string
	fixturePayload = "4568656c6c6f"
)

// fixtureEnvelope assembles a canonical COSE_Sign1 envelope
// [protected, {}, payload, signature] in hex.
func fixtureEnvelope(sigHex string) string {
	return "84" + fixtureProtected + "a0" + fixturePayload + "58" +
		hex.EncodeToString([]byte{byte(len(sigHex) / 2)}) + sigHex
}

func fixtureSignature() string {
	return strings.Repeat("ab", Ed25519SignatureSize)
}

func TestRoundTripCanonicalEnvelope(t *testing.T) {
	raw, err := hex.DecodeString(fixtureEnvelope(fixtureSignature()))
	require.NoError(t, err)

	var item interface{}
	require.NoError(t, Decode(raw, &item))

	reencoded, err := Encode(item)
	require.NoError(t, err)
	assert.Equal(t, raw, reencoded)
}

func TestParseCardanoSignature(t *testing.T) {
	sig := fixtureSignature()

	parsed, err := ParseCardanoSignature(fixtureEnvelope(sig))
	require.NoError(t, err)

	// Sig_structure = ["Signature1", h'a10127', h'', h'68656c6c6f']
	wantSigStructure := "84" +
		"6a5369676e617475726531" + // "Signature1"
		fixtureProtected +
		"40" + // empty external_aad
		fixturePayload
	assert.Equal(t, wantSigStructure, hex.EncodeToString(parsed.SigStructure))
	assert.Equal(t, sig, hex.EncodeToString(parsed.Signature))
	assert.Nil(t, parsed.PublicKey)
}

func TestParseCardanoSignatureDeterminism(t *testing.T) {
	input := fixtureEnvelope(fixtureSignature())

	first, err := ParseCardanoSignature(input)
	require.NoError(t, err)
	second, err := ParseCardanoSignature(input)
	require.NoError(t, err)

	assert.Equal(t, first.SigStructure, second.SigStructure)
	assert.Equal(t, first.Signature, second.Signature)
}

func TestParseCardanoSignatureErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "not hex",
			input: "zz",
			want:  ErrMalformedEnvelope,
		},
		{
			name:  "truncated buffer",
			input: "84" + fixtureProtected,
			want:  ErrMalformedEnvelope,
		},
		{
			name:  "trailing garbage",
			input: fixtureEnvelope(fixtureSignature()) + "00",
			want:  ErrMalformedEnvelope,
		},
		{
			name:  "three element array",
			input: "83" + fixtureProtected + "a0" + fixturePayload,
			want:  ErrInvalidEnvelopeShape,
		},
		{
			name:  "top level not an array",
			input: fixturePayload,
			want:  ErrInvalidEnvelopeShape,
		},
		{
			name:  "signature too short",
			input: fixtureEnvelope(strings.Repeat("ab", 32)),
			want:  ErrInvalidSignatureLength,
		},
		{
			name:  "signature element not a byte string",
			input: "84" + fixtureProtected + "a0" + fixturePayload + "01",
			want:  ErrInvalidEnvelopeShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCardanoSignature(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeEnvelopeNormalizesNullProtected(t *testing.T) {
	// [null, {}, payload, signature]
	raw, err := hex.DecodeString("84" + "f6" + "a0" + fixturePayload + "5840" + fixtureSignature())
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.NotNil(t, env.Protected)
	assert.Empty(t, env.Protected)
}

func TestBuildSigStructureRejectsOtherContexts(t *testing.T) {
	_, err := BuildSigStructure("Signature", []byte{0xa1}, []byte("hello"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSignatureContext)
}
