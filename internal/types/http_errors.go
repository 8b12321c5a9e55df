// Package types holds the wire payloads of the public HTTP surface. All
// payloads validate themselves go-swagger style via the go-openapi
// tool chain.
package types

import (
	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
)

// PublicHTTPErrorTypeGeneric is the catch-all machine-readable error type.
const PublicHTTPErrorTypeGeneric = "generic"

// PublicHTTPError is the public error envelope returned on every
// non-2xx response.
type PublicHTTPError struct {
	// HTTP status code
	// Required: true
	Code *int64 `json:"status"`

	// Machine-readable error type
	// Required: true
	Type *string `json:"type"`

	// Short human-readable summary
	// Required: true
	Title *string `json:"title"`

	// Optional explanation specific to this occurrence
	Detail string `json:"detail,omitempty"`
}

// Validate validates this public HTTP error
func (m *PublicHTTPError) Validate(_ strfmt.Registry) error {
	var res []error

	if m.Code == nil {
		res = append(res, openapierrors.Required("status", "body", nil))
	}
	if m.Type == nil {
		res = append(res, openapierrors.Required("type", "body", nil))
	}
	if m.Title == nil {
		res = append(res, openapierrors.Required("title", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// PublicHTTPValidationError extends the error envelope with per-field
// validation failures.
type PublicHTTPValidationError struct {
	PublicHTTPError

	// List of failed fields
	// Required: true
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

// Validate validates this public HTTP validation error
func (m *PublicHTTPValidationError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.PublicHTTPError.Validate(formats); err != nil {
		res = append(res, err)
	}
	if m.ValidationErrors == nil {
		res = append(res, openapierrors.Required("validationErrors", "body", nil))
	}
	for _, detail := range m.ValidationErrors {
		if detail == nil {
			continue
		}
		if err := detail.Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// HTTPValidationErrorDetail names one failed field.
type HTTPValidationErrorDetail struct {
	// Key of the field that failed
	// Required: true
	Key *string `json:"key"`

	// Location of the field, e.g. body or query
	// Required: true
	In *string `json:"in"`

	// Error describing the failure
	// Required: true
	Error *string `json:"error"`
}

// Validate validates this HTTP validation error detail
func (m *HTTPValidationErrorDetail) Validate(_ strfmt.Registry) error {
	var res []error

	if m.Key == nil {
		res = append(res, openapierrors.Required("key", "body", nil))
	}
	if m.In == nil {
		res = append(res, openapierrors.Required("in", "body", nil))
	}
	if m.Error == nil {
		res = append(res, openapierrors.Required("error", "body", nil))
	}

	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}
