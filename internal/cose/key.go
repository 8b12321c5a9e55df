package cose

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// COSE_Key labels per RFC 9053. Only OKP/Ed25519 keys are accepted.
const (
	keyLabelKty = 1
	keyLabelCrv = -1
	keyLabelX   = -2

	ktyOKP     = 1
	crvEd25519 = 6
)

// addressHeaderLabel is the protected header key under which CIP-8 signers
// place the signing address.
const addressHeaderLabel = "address"

// ExtractPublicKey pulls the raw 32-byte public key out of a hex-encoded
// COSE_Key blob. Extraction is by explicit label; duplicate labels fail the
// decode rather than silently taking the first match.
func ExtractPublicKey(keyHex string) ([]byte, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.Wrap(ErrMissingKeyMaterial, "key material is not valid hex")
	}

	var fields map[int64]cbor.RawMessage
	if err := decMode.Unmarshal(raw, &fields); err != nil {
		var dup *cbor.DupMapKeyError
		if errors.As(err, &dup) {
			return nil, errors.Wrapf(ErrAmbiguousKeyMaterial, "duplicate key label %v", dup.Key)
		}
		return nil, errors.Wrapf(ErrMissingKeyMaterial, "key material is not a CBOR map: %v", err)
	}

	var kty int64
	if rawKty, ok := fields[keyLabelKty]; ok {
		if err := Decode(rawKty, &kty); err != nil {
			return nil, errors.Wrap(ErrAmbiguousKeyMaterial, "kty is not an integer")
		}
	}
	if kty != ktyOKP {
		return nil, errors.Wrapf(ErrMissingKeyMaterial, "unsupported key type %d", kty)
	}

	if rawCrv, ok := fields[keyLabelCrv]; ok {
		var crv int64
		if err := Decode(rawCrv, &crv); err != nil {
			return nil, errors.Wrap(ErrAmbiguousKeyMaterial, "crv is not an integer")
		}
		if crv != crvEd25519 {
			return nil, errors.Wrapf(ErrMissingKeyMaterial, "unsupported curve %d", crv)
		}
	}

	rawX, ok := fields[keyLabelX]
	if !ok {
		return nil, errors.Wrap(ErrMissingKeyMaterial, "key material has no x coordinate")
	}

	var x []byte
	if err := Decode(rawX, &x); err != nil {
		return nil, errors.Wrap(ErrAmbiguousKeyMaterial, "x coordinate is not a byte string")
	}
	if len(x) != Ed25519PublicKeySize {
		return nil, errors.Wrapf(ErrMissingKeyMaterial, "x coordinate is %d bytes, expected %d", len(x), Ed25519PublicKeySize)
	}

	return x, nil
}

// ExtractAddress returns the signing address embedded in a protected
// header, or nil when the signer did not include one. Absence is
// recoverable; callers cross-check against the caller-supplied address
// only when both are present.
func ExtractAddress(protected []byte) ([]byte, error) {
	if len(protected) == 0 {
		return nil, nil
	}

	var hdr map[interface{}]interface{}
	if err := Decode(protected, &hdr); err != nil {
		return nil, errors.Wrap(err, "protected header is not a CBOR map")
	}

	v, ok := hdr[addressHeaderLabel]
	if !ok {
		return nil, nil
	}

	addr, ok := v.([]byte)
	if !ok {
		return nil, errors.Wrap(ErrInvalidEnvelopeShape, "address header is not a byte string")
	}

	return addr, nil
}
