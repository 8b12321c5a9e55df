// Package httperrors defines the error types the HTTP layer returns and
// the central echo error handler converts into public error envelopes.
package httperrors

import (
	"fmt"

	"github.com/go-openapi/swag"

	"github.com/SenaryLabs/identity-binding/internal/types"
)

// HTTPErrorTypeGeneric is used when no more specific error type applies.
const HTTPErrorTypeGeneric = types.PublicHTTPErrorTypeGeneric

// HTTPError wraps the public error envelope with internal-only context.
// Internal never reaches the client.
type HTTPError struct {
	types.PublicHTTPError
	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:   swag.Int64(int64(code)),
			Type:   swag.String(errorType),
			Title:  swag.String(title),
			Detail: detail,
		},
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", *e.Code, *e.Type, *e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", *e.Code, *e.Type, *e.Title)
}

// HTTPValidationError carries per-field failures from payload validation.
type HTTPValidationError struct {
	types.PublicHTTPValidationError
	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

func NewHTTPValidationError(code int, errorType string, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  swag.String(errorType),
				Title: swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s (%d fields)", *e.Code, *e.Type, *e.Title, len(e.ValidationErrors))
}
