package router

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api/httperrors"
	"github.com/SenaryLabs/identity-binding/internal/types"
	"github.com/SenaryLabs/identity-binding/internal/util"
)

type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
}

// HTTPErrorHandlerWithConfig maps every error a handler returns onto the
// public error envelope. Internal detail of unexpected errors is exposed
// only when the config allows it.
func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var payload interface{}

		switch e := err.(type) {
		case *httperrors.HTTPValidationError:
			code = int(*e.Code)
			payload = &e.PublicHTTPValidationError
		case *httperrors.HTTPError:
			code = int(*e.Code)
			payload = &e.PublicHTTPError
		case *echo.HTTPError:
			code = e.Code

			he := &types.PublicHTTPError{
				Code:  swag.Int64(int64(e.Code)),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(http.StatusText(e.Code)),
			}
			if msg, ok := e.Message.(string); ok && !config.HideInternalServerErrorDetails {
				he.Detail = msg
			}
			payload = he
		default:
			code = http.StatusInternalServerError

			he := &types.PublicHTTPError{
				Code:  swag.Int64(int64(http.StatusInternalServerError)),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(http.StatusText(http.StatusInternalServerError)),
			}
			if !config.HideInternalServerErrorDetails {
				he.Detail = err.Error()
			}
			payload = he
		}

		if writeErr := c.JSON(code, payload); writeErr != nil {
			util.LogFromEchoContext(c).Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
