package binding

import (
	"context"
	"encoding/hex"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/SenaryLabs/identity-binding/internal/cesr"
	"github.com/SenaryLabs/identity-binding/internal/cose"
)

// KeyResolver resolves the holder's current signing key from the key-event
// state of their AID. It is consulted only when the request and the parsed
// signature both carry no key.
type KeyResolver interface {
	ResolveHolderKey(ctx context.Context, aid string) ([]byte, error)
}

// Assembler builds BindingProof records from parser outputs.
type Assembler struct {
	resolver KeyResolver
	clock    time2.Clock
}

// NewAssembler creates an assembler. resolver may be nil when key-state
// resolution is unavailable; assembly then requires an explicit or
// embedded holder key.
func NewAssembler(resolver KeyResolver, clock time2.Clock) *Assembler {
	return &Assembler{
		resolver: resolver,
		clock:    clock,
	}
}

// Assemble composes both parsers' outputs and the caller-supplied
// identifiers into one canonical Proof. Pure except for the optional
// key-state lookup; the result is immutable and consumed by the external
// transaction builder.
func (a *Assembler) Assemble(ctx context.Context, req *Request, cardano *cose.ParsedSignature, keri *cesr.ParsedSignature) (*Proof, error) {
	if req == nil {
		return nil, errors.Wrap(ErrMissingBindingField, "request")
	}

	bindingSaid, err := requireText("bindingSaid", req.BindingSaid)
	if err != nil {
		return nil, err
	}
	issuerAid, err := requireText("issuerAid", req.IssuerAid)
	if err != nil {
		return nil, err
	}
	holderAid, err := requireText("holderAid", req.HolderAid)
	if err != nil {
		return nil, err
	}
	canonicalMessage, err := requireText("canonicalMessage", req.CanonicalMessage)
	if err != nil {
		return nil, err
	}
	if req.KeriVersion == "" {
		return nil, errors.Wrap(ErrMissingBindingField, "keriVersion")
	}
	if req.BindingType == "" {
		return nil, errors.Wrap(ErrMissingBindingField, "bindingType")
	}

	address, err := requireHex("cardanoAddress", req.CardanoAddress)
	if err != nil {
		return nil, err
	}

	if cardano == nil || len(cardano.SigStructure) == 0 {
		return nil, errors.Wrap(ErrMissingBindingField, "sigStructure")
	}
	if len(cardano.Signature) != signatureSize {
		return nil, errors.Wrapf(ErrMissingBindingField, "cardanoSignature: expected %d bytes, got %d", signatureSize, len(cardano.Signature))
	}
	if keri == nil || len(keri.Signature) != signatureSize {
		return nil, errors.Wrap(ErrMissingBindingField, "veridianSignature")
	}

	cardanoKey, err := a.resolveCardanoKey(req, cardano)
	if err != nil {
		return nil, err
	}

	holderKey, err := a.resolveHolderKey(ctx, req, keri)
	if err != nil {
		return nil, err
	}

	return &Proof{
		BindingSaid:       bindingSaid,
		IssuerAid:         issuerAid,
		HolderAid:         holderAid,
		CardanoAddress:    address,
		CardanoPublicKey:  cardanoKey,
		SigStructure:      cardano.SigStructure,
		CardanoSignature:  cardano.Signature,
		CanonicalMessage:  canonicalMessage,
		VeridianSignature: keri.Signature,
		HolderPublicKey:   holderKey,
		KeriVersion:       req.KeriVersion,
		BindingType:       req.BindingType,
		CreatedAt:         a.clock.Now().UnixMilli(),
	}, nil
}

// resolveCardanoKey applies the fixed precedence: explicit request value,
// then the key extracted from companion COSE key material. Both absent is
// the one case that maps to ErrUnresolvedPublicKey.
func (a *Assembler) resolveCardanoKey(req *Request, cardano *cose.ParsedSignature) ([]byte, error) {
	if req.CardanoPublicKey != "" {
		return requireKey("cardanoPublicKey", req.CardanoPublicKey)
	}

	if len(cardano.PublicKey) == publicKeySize {
		return cardano.PublicKey, nil
	}

	return nil, errors.Wrap(ErrUnresolvedPublicKey, "no explicit key and none extractable from the envelope")
}

// resolveHolderKey applies the fixed precedence: explicit request value,
// key embedded in the indexed signature, then key-state lookup.
func (a *Assembler) resolveHolderKey(ctx context.Context, req *Request, keri *cesr.ParsedSignature) ([]byte, error) {
	if req.HolderPublicKey != "" {
		return requireKey("holderPublicKey", req.HolderPublicKey)
	}

	if len(keri.PublicKey) == publicKeySize {
		return keri.PublicKey, nil
	}

	if a.resolver != nil {
		key, err := a.resolver.ResolveHolderKey(ctx, req.HolderAid)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve holder key from key state")
		}
		if len(key) == publicKeySize {
			return key, nil
		}

		log.Warn().
			Str("holder_aid", req.HolderAid).
			Int("key_length", len(key)).
			Msg("Key state returned a key of unexpected length")
	}

	return nil, errors.Wrap(ErrMissingBindingField, "holderPublicKey")
}

func requireText(field, value string) ([]byte, error) {
	if value == "" {
		return nil, errors.Wrap(ErrMissingBindingField, field)
	}
	return []byte(value), nil
}

func requireHex(field, value string) ([]byte, error) {
	if value == "" {
		return nil, errors.Wrap(ErrMissingBindingField, field)
	}

	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingBindingField, "%s is not valid hex", field)
	}
	return raw, nil
}

func requireKey(field, value string) ([]byte, error) {
	raw, err := requireHex(field, value)
	if err != nil {
		return nil, err
	}
	if len(raw) != publicKeySize {
		return nil, errors.Wrapf(ErrMissingBindingField, "%s: expected %d bytes, got %d", field, publicKeySize, len(raw))
	}
	return raw, nil
}
