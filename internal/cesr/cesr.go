// Package cesr decodes CESR-coded KERI primitives: indexed signatures
// attached by a Veridian agent and the verification keys carried in key
// state. Only the fixed subset of the code table that the binding flow
// needs is supported; anything else is an unknown code, not a guess.
package cesr

import (
	"encoding/base64"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrUnknownSignatureCode indicates an unrecognized code prefix.
	ErrUnknownSignatureCode = errors.New("unknown signature code")

	// ErrInvalidIndexedSignature indicates a primitive whose decoded length
	// disagrees with its declared code.
	ErrInvalidIndexedSignature = errors.New("invalid indexed signature")
)

// code describes one entry of the supported CESR code table.
// hardSize counts the selector characters (including the index character
// for indexed codes), fullSize the total qb64 length, rawSize the decoded
// raw length.
type code struct {
	selector string
	hardSize int
	fullSize int
	rawSize  int
}

// Signature codes. The single-character "A" selector carries one index
// character for the signing key it attests to; the two-character "0B"/"0C"
// selectors are unindexed attached signatures.
var sigCodes = []code{
	{selector: "0B", hardSize: 2, fullSize: 88, rawSize: 64}, // Ed25519
	{selector: "0C", hardSize: 2, fullSize: 88, rawSize: 64}, // ECDSA secp256k1
	{selector: "A", hardSize: 2, fullSize: 88, rawSize: 64},  // Ed25519 indexed
}

// Verification key codes.
var keyCodes = []code{
	{selector: "D", hardSize: 1, fullSize: 44, rawSize: 32}, // Ed25519 verkey
	{selector: "B", hardSize: 1, fullSize: 44, rawSize: 32}, // Ed25519 non-transferable prefix
}

// ParsedSignature is the output of ParseKeriSignature. PublicKey is nil in
// the common case; callers resolve it from the signer's key state.
type ParsedSignature struct {
	Code      string
	Signature []byte
	PublicKey []byte
}

// ParseKeriSignature decodes an indexed-signature text encoding into the
// raw signature bytes for its declared algorithm.
func ParseKeriSignature(text string) (*ParsedSignature, error) {
	c, err := lookup(sigCodes, text)
	if err != nil {
		return nil, err
	}

	raw, err := decodePrimitive(text, c)
	if err != nil {
		return nil, err
	}

	return &ParsedSignature{
		Code:      c.selector,
		Signature: raw,
	}, nil
}

// DecodeVerfer decodes a qb64 verification key (key-state entry or
// non-transferable prefix) into raw public key bytes.
func DecodeVerfer(text string) ([]byte, error) {
	c, err := lookup(keyCodes, text)
	if err != nil {
		return nil, err
	}
	return decodePrimitive(text, c)
}

func lookup(table []code, text string) (code, error) {
	for _, c := range table {
		if strings.HasPrefix(text, c.selector) {
			return c, nil
		}
	}

	prefix := text
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return code{}, pkgerrors.Wrapf(ErrUnknownSignatureCode, "prefix %q", prefix)
}

// decodePrimitive strips the code characters, re-pads with zero ('A')
// characters so the body aligns on a base64 quadlet, decodes, and drops
// the lead bytes occupied by the code. The lead bytes must decode to zero;
// set bits there mean the primitive was not canonically encoded.
func decodePrimitive(text string, c code) ([]byte, error) {
	if len(text) != c.fullSize {
		return nil, pkgerrors.Wrapf(ErrInvalidIndexedSignature, "code %s expects %d characters, got %d", c.selector, c.fullSize, len(text))
	}

	ps := c.hardSize % 4
	padded := strings.Repeat("A", ps) + text[c.hardSize:]

	decoded, err := base64.RawURLEncoding.DecodeString(padded)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrInvalidIndexedSignature, "code %s: %v", c.selector, err)
	}

	if len(decoded) != ps+c.rawSize {
		return nil, pkgerrors.Wrapf(ErrInvalidIndexedSignature, "code %s declares %d raw bytes, decoded %d", c.selector, c.rawSize, len(decoded)-ps)
	}

	for _, b := range decoded[:ps] {
		if b != 0 {
			return nil, pkgerrors.Wrapf(ErrInvalidIndexedSignature, "code %s: non-zero pad bits", c.selector)
		}
	}

	return decoded[ps:], nil
}
