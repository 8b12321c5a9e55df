// Package binding assembles the canonical BindingProof record that the
// on-chain validator checks. The validator decodes the record structurally,
// not by field name, so the field order and types below are fixed by the
// external schema and must never change.
package binding

import (
	"github.com/pkg/errors"

	"github.com/SenaryLabs/identity-binding/internal/cose"
)

var (
	// ErrMissingBindingField indicates a required upstream value is absent
	// after parsing. The wrapped message names the field.
	ErrMissingBindingField = errors.New("missing binding field")

	// ErrUnresolvedPublicKey indicates that neither the parser output nor
	// the caller supplied a Cardano public key.
	ErrUnresolvedPublicKey = errors.New("unresolved cardano public key")
)

// Proof is the canonical binding record. Field order follows the on-chain
// schema exactly; do not reorder, rename, or omit fields.
type Proof struct {
	BindingSaid       []byte
	IssuerAid         []byte
	HolderAid         []byte
	CardanoAddress    []byte
	CardanoPublicKey  []byte
	SigStructure      []byte
	CardanoSignature  []byte
	CanonicalMessage  []byte
	VeridianSignature []byte
	HolderPublicKey   []byte
	KeriVersion       string
	BindingType       string
	CreatedAt         int64
}

// Request carries the caller-supplied identifiers for one binding.
// CardanoAddress is wallet-native hex; the free-text identifiers map to
// bytes as UTF-8.
type Request struct {
	BindingSaid      string
	IssuerAid        string
	HolderAid        string
	CardanoAddress   string
	CanonicalMessage string
	KeriVersion      string
	BindingType      string

	// CardanoPublicKey is the explicit raw key in hex. It takes precedence
	// over the key extracted from companion COSE key material.
	CardanoPublicKey string

	// HolderPublicKey is the explicit raw KERI key in hex. It takes
	// precedence over an embedded key and over key-state resolution.
	HolderPublicKey string
}

const (
	signatureSize = 64
	publicKeySize = 32
)

// encodedProof is the array form the validator decodes. It mirrors Proof
// field for field; the toarray tag drops the field names from the wire.
type encodedProof struct {
	_ struct{} `cbor:",toarray"`

	BindingSaid       []byte
	IssuerAid         []byte
	HolderAid         []byte
	CardanoAddress    []byte
	CardanoPublicKey  []byte
	SigStructure      []byte
	CardanoSignature  []byte
	CanonicalMessage  []byte
	VeridianSignature []byte
	HolderPublicKey   []byte
	KeriVersion       string
	BindingType       string
	CreatedAt         int64
}

// Encode serializes the proof as a canonical CBOR array. Equal proofs
// always produce identical bytes.
func (p *Proof) Encode() ([]byte, error) {
	data, err := cose.Encode(encodedProof{
		BindingSaid:       p.BindingSaid,
		IssuerAid:         p.IssuerAid,
		HolderAid:         p.HolderAid,
		CardanoAddress:    p.CardanoAddress,
		CardanoPublicKey:  p.CardanoPublicKey,
		SigStructure:      p.SigStructure,
		CardanoSignature:  p.CardanoSignature,
		CanonicalMessage:  p.CanonicalMessage,
		VeridianSignature: p.VeridianSignature,
		HolderPublicKey:   p.HolderPublicKey,
		KeriVersion:       p.KeriVersion,
		BindingType:       p.BindingType,
		CreatedAt:         p.CreatedAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode binding proof")
	}
	return data, nil
}
