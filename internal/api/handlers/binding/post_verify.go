package binding

import (
	"encoding/hex"
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api"
	"github.com/SenaryLabs/identity-binding/internal/cesr"
	"github.com/SenaryLabs/identity-binding/internal/cose"
	"github.com/SenaryLabs/identity-binding/internal/types"
	"github.com/SenaryLabs/identity-binding/internal/util"
)

func PostVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Binding.POST("/verify", postVerifyHandler(s))
}

// postVerifyHandler checks submitted signature material structurally.
// Parse failures are a negative result, not an error response; only a
// payload that fails schema validation is rejected outright.
func postVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostVerifyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		verifiedAt := strfmt.DateTime(s.Clock.Now().UTC())
		response := &types.VerifyResponse{
			Valid:      swag.Bool(false),
			VerifiedAt: &verifiedAt,
		}

		cardano, err := cose.ParseCardanoSignature(swag.StringValue(body.CoseSignatureHex))
		if err != nil {
			log.Debug().Err(err).Msg("Cardano signature failed verification")
			response.Reason = err.Error()
			return util.ValidateAndReturn(c, http.StatusOK, response)
		}

		response.SigStructureHex = hex.EncodeToString(cardano.SigStructure)

		if raw, err := hex.DecodeString(swag.StringValue(body.CoseSignatureHex)); err == nil {
			if env, err := cose.DecodeEnvelope(raw); err == nil {
				response.PayloadHex = hex.EncodeToString(env.Payload)

				if addr, err := cose.ExtractAddress(env.Protected); err == nil && addr != nil {
					response.AddressHex = hex.EncodeToString(addr)
				}
			}
		}

		if body.CoseKeyHex != "" {
			key, err := cose.ExtractPublicKey(body.CoseKeyHex)
			if err != nil {
				log.Debug().Err(err).Msg("COSE key material failed verification")
				response.Reason = err.Error()
				return util.ValidateAndReturn(c, http.StatusOK, response)
			}
			response.PublicKeyHex = hex.EncodeToString(key)
		}

		if body.KeriSignature != "" {
			if _, err := cesr.ParseKeriSignature(body.KeriSignature); err != nil {
				log.Debug().Err(err).Msg("KERI signature failed verification")
				response.Reason = err.Error()
				return util.ValidateAndReturn(c, http.StatusOK, response)
			}
		}

		response.Valid = swag.Bool(true)
		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
