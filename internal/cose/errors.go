package cose

import (
	"errors"
)

var (
	// ErrMalformedEnvelope indicates the input is not decodable CBOR
	// (truncated buffer, bad length prefix, trailing garbage).
	ErrMalformedEnvelope = errors.New("malformed signing envelope")

	// ErrInvalidEnvelopeShape indicates the top-level item decoded, but is
	// not the expected 4-element COSE_Sign1 array.
	ErrInvalidEnvelopeShape = errors.New("envelope is not a 4-element COSE_Sign1 array")

	// ErrUnsupportedSignatureContext indicates a Sig_structure context tag
	// other than "Signature1" (non-conforming signer).
	ErrUnsupportedSignatureContext = errors.New("unsupported signature context")

	// ErrInvalidSignatureLength indicates the signature element is not the
	// raw Ed25519 length.
	ErrInvalidSignatureLength = errors.New("invalid signature length")

	// ErrMissingKeyMaterial indicates the COSE_Key blob carries no usable
	// public key. Callers treat this as recoverable and supply the key out
	// of band.
	ErrMissingKeyMaterial = errors.New("no public key in key material")

	// ErrAmbiguousKeyMaterial indicates the key material cannot be
	// disambiguated (duplicate or conflicting key labels).
	ErrAmbiguousKeyMaterial = errors.New("ambiguous key material")
)
