package util

import (
	"net/http"

	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api/httperrors"
	"github.com/SenaryLabs/identity-binding/internal/types"
)

// BindAndValidateBody binds the request body to the payload struct and
// runs its schema validation. Validation failures become public HTTP
// validation errors listing each failed field.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "unsupported binder")
	}

	if err := binder.BindBody(c, v); err != nil {
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before writing it, so a
// handler can never emit a response violating its own schema.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := validatePayload(c, v); err != nil {
		return err
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		switch e := err.(type) {
		case *openapierrors.CompositeError:
			LogFromEchoContext(c).Debug().Errs("validation_errors", e.Errors).Msg("Payload did not pass schema validation")
			return httperrors.NewHTTPValidationError(
				http.StatusBadRequest,
				httperrors.HTTPErrorTypeGeneric,
				http.StatusText(http.StatusBadRequest),
				formatValidationErrors(e.Errors),
			)
		case *openapierrors.Validation:
			LogFromEchoContext(c).Debug().AnErr("validation_error", e).Msg("Payload did not pass schema validation")
			return httperrors.NewHTTPValidationError(
				http.StatusBadRequest,
				httperrors.HTTPErrorTypeGeneric,
				http.StatusText(http.StatusBadRequest),
				formatValidationErrors([]error{e}),
			)
		}

		LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload")
		return err
	}

	return nil
}

func formatValidationErrors(errs []error) []*types.HTTPValidationErrorDetail {
	details := make([]*types.HTTPValidationErrorDetail, 0, len(errs))

	for _, err := range errs {
		switch e := err.(type) {
		case *openapierrors.Validation:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(e.Name),
				In:    swag.String(e.In),
				Error: swag.String(e.Error()),
			})
		case *openapierrors.CompositeError:
			details = append(details, formatValidationErrors(e.Errors)...)
		default:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String("unknown"),
				In:    swag.String("body"),
				Error: swag.String(err.Error()),
			})
		}
	}

	return details
}
