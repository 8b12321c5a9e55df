package types

import (
	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
)

// PostBindingProofPayload is the request body for assembling a binding
// proof from a Cardano COSE signature and a KERI indexed signature.
type PostBindingProofPayload struct {
	// Content-addressed identifier of the binding credential
	// Required: true
	BindingSaid *string `json:"bindingSaid"`

	// AID of the issuing party
	// Required: true
	IssuerAid *string `json:"issuerAid"`

	// AID of the credential holder
	// Required: true
	HolderAid *string `json:"holderAid"`

	// Canonical message both parties signed
	// Required: true
	CanonicalMessage *string `json:"canonicalMessage"`

	// Hex-encoded COSE_Sign1 envelope produced by the Cardano wallet
	// Required: true
	CoseSignatureHex *string `json:"coseSignatureHex"`

	// qb64 indexed signature produced by the Veridian agent
	// Required: true
	KeriSignature *string `json:"keriSignature"`

	// Hex-encoded wallet address; falls back to the address header of the
	// protected envelope when omitted
	CardanoAddress string `json:"cardanoAddress,omitempty"`

	// Hex-encoded companion COSE_Key blob carrying the wallet public key
	CoseKeyHex string `json:"coseKeyHex,omitempty"`

	// Explicit 32-byte wallet public key in hex, overrides extraction
	CardanoPublicKeyHex string `json:"cardanoPublicKeyHex,omitempty"`

	// Explicit 32-byte holder public key in hex, overrides key-state lookup
	HolderPublicKeyHex string `json:"holderPublicKeyHex,omitempty"`

	// KERI protocol version label, defaults to KERI10
	KeriVersion string `json:"keriVersion,omitempty"`

	// Binding record type label, defaults to veridian-cardano
	BindingType string `json:"bindingType,omitempty"`
}

// Validate validates this post binding proof payload
func (m *PostBindingProofPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if m.BindingSaid == nil {
		res = append(res, openapierrors.Required("bindingSaid", "body", nil))
	}
	if m.IssuerAid == nil {
		res = append(res, openapierrors.Required("issuerAid", "body", nil))
	}
	if m.HolderAid == nil {
		res = append(res, openapierrors.Required("holderAid", "body", nil))
	}
	if m.CanonicalMessage == nil {
		res = append(res, openapierrors.Required("canonicalMessage", "body", nil))
	}
	if m.CoseSignatureHex == nil {
		res = append(res, openapierrors.Required("coseSignatureHex", "body", nil))
	}
	if m.KeriSignature == nil {
		res = append(res, openapierrors.Required("keriSignature", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// BindingProofResponse carries the assembled proof. ProofCborHex is the
// canonical CBOR array the transaction builder submits on chain.
type BindingProofResponse struct {
	// Canonical CBOR encoding of the proof record, hex
	// Required: true
	ProofCborHex *string `json:"proofCborHex"`

	// Content-addressed identifier of the binding credential
	// Required: true
	BindingSaid *string `json:"bindingSaid"`

	// Reconstructed Sig_structure the wallet signed, hex
	// Required: true
	SigStructureHex *string `json:"sigStructureHex"`

	// Resolved wallet public key, hex
	// Required: true
	CardanoPublicKeyHex *string `json:"cardanoPublicKeyHex"`

	// Resolved holder public key, hex
	// Required: true
	HolderPublicKeyHex *string `json:"holderPublicKeyHex"`

	// Assembly timestamp, unix milliseconds
	// Required: true
	CreatedAt *int64 `json:"createdAt"`
}

// Validate validates this binding proof response
func (m *BindingProofResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if m.ProofCborHex == nil {
		res = append(res, openapierrors.Required("proofCborHex", "body", nil))
	}
	if m.BindingSaid == nil {
		res = append(res, openapierrors.Required("bindingSaid", "body", nil))
	}
	if m.SigStructureHex == nil {
		res = append(res, openapierrors.Required("sigStructureHex", "body", nil))
	}
	if m.CardanoPublicKeyHex == nil {
		res = append(res, openapierrors.Required("cardanoPublicKeyHex", "body", nil))
	}
	if m.HolderPublicKeyHex == nil {
		res = append(res, openapierrors.Required("holderPublicKeyHex", "body", nil))
	}
	if m.CreatedAt == nil {
		res = append(res, openapierrors.Required("createdAt", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// PostVerifyPayload is the request body for structurally verifying
// submitted signature material without assembling a proof.
type PostVerifyPayload struct {
	// Hex-encoded COSE_Sign1 envelope
	// Required: true
	CoseSignatureHex *string `json:"coseSignatureHex"`

	// qb64 indexed signature, checked when present
	KeriSignature string `json:"keriSignature,omitempty"`

	// Hex-encoded companion COSE_Key blob, checked when present
	CoseKeyHex string `json:"coseKeyHex,omitempty"`
}

// Validate validates this post verify payload
func (m *PostVerifyPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if m.CoseSignatureHex == nil {
		res = append(res, openapierrors.Required("coseSignatureHex", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// VerifyResponse reports the structural verification outcome.
type VerifyResponse struct {
	// Whether all submitted material parsed cleanly
	// Required: true
	Valid *bool `json:"valid"`

	// Reconstructed Sig_structure, hex; present when the envelope parsed
	SigStructureHex string `json:"sigStructureHex,omitempty"`

	// Signed payload bytes, hex; present when the envelope parsed
	PayloadHex string `json:"payloadHex,omitempty"`

	// Address embedded in the protected header, hex, if any
	AddressHex string `json:"addressHex,omitempty"`

	// Public key extracted from the COSE_Key blob, hex, if any
	PublicKeyHex string `json:"publicKeyHex,omitempty"`

	// Reason the material failed verification
	Reason string `json:"reason,omitempty"`

	// Verification timestamp
	// Required: true
	VerifiedAt *strfmt.DateTime `json:"verifiedAt"`
}

// Validate validates this verify response
func (m *VerifyResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if m.Valid == nil {
		res = append(res, openapierrors.Required("valid", "body", nil))
	}
	if m.VerifiedAt == nil {
		res = append(res, openapierrors.Required("verifiedAt", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}
