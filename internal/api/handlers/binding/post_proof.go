package binding

import (
	"encoding/hex"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SenaryLabs/identity-binding/internal/api"
	"github.com/SenaryLabs/identity-binding/internal/api/httperrors"
	"github.com/SenaryLabs/identity-binding/internal/binding"
	"github.com/SenaryLabs/identity-binding/internal/cesr"
	"github.com/SenaryLabs/identity-binding/internal/cose"
	"github.com/SenaryLabs/identity-binding/internal/types"
	"github.com/SenaryLabs/identity-binding/internal/util"
)

const (
	defaultKeriVersion = "KERI10"
	defaultBindingType = "veridian-cardano"
)

func PostBindingProofRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Binding.POST("/proof", postBindingProofHandler(s))
}

func postBindingProofHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostBindingProofPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		cardano, err := cose.ParseCardanoSignature(swag.StringValue(body.CoseSignatureHex))
		if err != nil {
			log.Debug().Err(err).Msg("Failed to parse Cardano signature")
			return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Invalid Cardano signature", err.Error())
		}

		if body.CoseKeyHex != "" {
			key, err := cose.ExtractPublicKey(body.CoseKeyHex)
			if err != nil {
				log.Debug().Err(err).Msg("Failed to extract public key from COSE key material")
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Invalid COSE key material", err.Error())
			}
			cardano.PublicKey = key
		}

		address := body.CardanoAddress
		if address == "" {
			embedded, err := extractEmbeddedAddress(swag.StringValue(body.CoseSignatureHex))
			if err != nil {
				log.Debug().Err(err).Msg("Failed to extract address from protected header")
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Invalid protected header", err.Error())
			}
			address = embedded
		}

		keri, err := cesr.ParseKeriSignature(swag.StringValue(body.KeriSignature))
		if err != nil {
			log.Debug().Err(err).Msg("Failed to parse KERI signature")
			return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Invalid KERI signature", err.Error())
		}

		req := &binding.Request{
			BindingSaid:      swag.StringValue(body.BindingSaid),
			IssuerAid:        swag.StringValue(body.IssuerAid),
			HolderAid:        swag.StringValue(body.HolderAid),
			CardanoAddress:   address,
			CanonicalMessage: swag.StringValue(body.CanonicalMessage),
			KeriVersion:      defaultString(body.KeriVersion, defaultKeriVersion),
			BindingType:      defaultString(body.BindingType, defaultBindingType),
			CardanoPublicKey: body.CardanoPublicKeyHex,
			HolderPublicKey:  body.HolderPublicKeyHex,
		}

		proof, err := s.Assembler.Assemble(ctx, req, cardano, keri)
		if err != nil {
			if errors.Is(err, binding.ErrMissingBindingField) || errors.Is(err, binding.ErrUnresolvedPublicKey) {
				log.Debug().Err(err).Msg("Binding proof assembly rejected the request")
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Incomplete binding request", err.Error())
			}

			log.Error().Err(err).Msg("Failed to assemble binding proof")
			return httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.HTTPErrorTypeGeneric, "Failed to assemble binding proof")
		}

		encoded, err := proof.Encode()
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode binding proof")
			return httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.HTTPErrorTypeGeneric, "Failed to encode binding proof")
		}

		response := &types.BindingProofResponse{
			ProofCborHex:        swag.String(hex.EncodeToString(encoded)),
			BindingSaid:         body.BindingSaid,
			SigStructureHex:     swag.String(hex.EncodeToString(proof.SigStructure)),
			CardanoPublicKeyHex: swag.String(hex.EncodeToString(proof.CardanoPublicKey)),
			HolderPublicKeyHex:  swag.String(hex.EncodeToString(proof.HolderPublicKey)),
			CreatedAt:           swag.Int64(proof.CreatedAt),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

// extractEmbeddedAddress pulls the CIP-8 address header out of the
// envelope's protected headers, returning "" when the signer included
// none.
func extractEmbeddedAddress(envelopeHex string) (string, error) {
	raw, err := hex.DecodeString(envelopeHex)
	if err != nil {
		return "", err
	}

	env, err := cose.DecodeEnvelope(raw)
	if err != nil {
		return "", err
	}

	addr, err := cose.ExtractAddress(env.Protected)
	if err != nil {
		return "", err
	}
	if addr == nil {
		return "", nil
	}

	return hex.EncodeToString(addr), nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
