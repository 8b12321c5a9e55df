package cose

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const (
	// SigContextSignature1 is the Sig_structure context for COSE_Sign1.
	// CIP-8 wallet signatures always sign under this context.
	SigContextSignature1 = "Signature1"

	// Ed25519SignatureSize is the raw signature length for the supported curve.
	Ed25519SignatureSize = 64

	// Ed25519PublicKeySize is the raw public key length for the supported curve.
	Ed25519PublicKeySize = 32
)

// SignedEnvelope is a decoded COSE_Sign1 wire envelope.
// The unprotected header is carried only for completeness; nothing in the
// binding pipeline reads it.
type SignedEnvelope struct {
	Protected   []byte
	Unprotected cbor.RawMessage
	Payload     []byte
	Signature   []byte
}

// sigStructure is the ordered 4-tuple that the signer actually hashed.
// Field order is fixed by RFC 9052; re-encoding must be byte-identical to
// the signer's input.
type sigStructure struct {
	_           struct{} `cbor:",toarray"`
	Context     string
	Protected   []byte
	ExternalAad []byte
	Payload     []byte
}

// ParsedSignature is the output of ParseCardanoSignature.
// PublicKey is nil unless companion key material was resolved; callers
// supply it out of band in that case.
type ParsedSignature struct {
	SigStructure []byte
	Signature    []byte
	PublicKey    []byte
}

// DecodeEnvelope decodes raw CBOR into a SignedEnvelope.
// An absent or null protected header normalizes to empty bytes, never nil.
func DecodeEnvelope(raw []byte) (*SignedEnvelope, error) {
	var elems []cbor.RawMessage
	if err := Decode(raw, &elems); err != nil {
		// Distinguish a well-formed non-array item from undecodable bytes.
		var item interface{}
		if itemErr := Decode(raw, &item); itemErr != nil {
			return nil, err
		}
		return nil, errors.Wrap(ErrInvalidEnvelopeShape, "top-level item is not an array")
	}

	if len(elems) != 4 {
		return nil, errors.Wrapf(ErrInvalidEnvelopeShape, "got %d elements", len(elems))
	}

	env := &SignedEnvelope{
		Unprotected: elems[1],
	}

	if err := Decode(elems[0], &env.Protected); err != nil {
		return nil, errors.Wrap(ErrInvalidEnvelopeShape, "protected header is not a byte string")
	}
	if err := Decode(elems[2], &env.Payload); err != nil {
		return nil, errors.Wrap(ErrInvalidEnvelopeShape, "payload is not a byte string")
	}
	if err := Decode(elems[3], &env.Signature); err != nil {
		return nil, errors.Wrap(ErrInvalidEnvelopeShape, "signature is not a byte string")
	}

	env.Protected = emptyIfNil(env.Protected)
	env.Payload = emptyIfNil(env.Payload)
	env.Signature = emptyIfNil(env.Signature)

	return env, nil
}

// BuildSigStructure re-encodes the canonical to-be-signed bytes for the
// given envelope fields. Only the "Signature1" context is supported.
func BuildSigStructure(context string, protected []byte, payload []byte) ([]byte, error) {
	if context != SigContextSignature1 {
		return nil, errors.Wrapf(ErrUnsupportedSignatureContext, "context %q", context)
	}

	return Encode(&sigStructure{
		Context:     context,
		Protected:   emptyIfNil(protected),
		ExternalAad: []byte{},
		Payload:     emptyIfNil(payload),
	})
}

// ParseCardanoSignature decodes a hex-encoded COSE_Sign1 envelope and
// reconstructs the Sig_structure the wallet signed. The input is accepted
// byte for byte as received; no normalization beyond hex parsing.
func ParseCardanoSignature(hexInput string) (*ParsedSignature, error) {
	raw, err := hex.DecodeString(hexInput)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEnvelope, "input is not valid hex")
	}

	env, err := DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	if len(env.Signature) != Ed25519SignatureSize {
		return nil, errors.Wrapf(ErrInvalidSignatureLength, "expected %d bytes, got %d", Ed25519SignatureSize, len(env.Signature))
	}

	sigStruct, err := BuildSigStructure(SigContextSignature1, env.Protected, env.Payload)
	if err != nil {
		return nil, err
	}

	return &ParsedSignature{
		SigStructure: sigStruct,
		Signature:    env.Signature,
	}, nil
}

func emptyIfNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
