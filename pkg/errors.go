package pkg

import (
	"fmt"
	"strings"

	"github.com/keybridge-io/license-bridge/constant"
)

// EntityNotFoundError records an error indicating an entity was not found.
// The resolver uses it when a subscription's entries carry no original order.
type EntityNotFoundError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e EntityNotFoundError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		if strings.TrimSpace(e.EntityType) != "" {
			return fmt.Sprintf("Entity %s not found", e.EntityType)
		}

		if e.Err != nil {
			return e.Err.Error()
		}

		return "entity not found"
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError records a boundary validation failure: quantity out of
// bounds, missing identifying fields. Always raised before any remote call.
type ValidationError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string
	Message    string
	Code       string
	Err        error `json:"err,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// UnauthorizedError indicates a request whose signature did not verify.
type UnauthorizedError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e UnauthorizedError) Error() string {
	return e.Message
}

// UnprocessableOperationError indicates a payload whose required shape is
// missing or wrong-typed. The shape is a precondition, so the whole request
// fails rather than a single unit.
type UnprocessableOperationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

// HTTPError indicates an error raised by an upstream HTTP API.
type HTTPError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	StatusCode int
	Err        error
}

func (e HTTPError) Error() string {
	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e HTTPError) Unwrap() error {
	return e.Err
}

// InternalServerError indicates an unexpected failure during an operation.
type InternalServerError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e InternalServerError) Error() string {
	return e.Message
}

// Methods to create errors for different scenarios:

// ValidateInternalError validates the error and returns an appropriate InternalServerError.
func ValidateInternalError(err error, entityType string) error {
	return InternalServerError{
		EntityType: entityType,
		Code:       constant.ErrUpstreamLicenseAPI,
		Title:      "Internal Server Error",
		Message:    "The server encountered an unexpected error. Please try again later.",
		Err:        err,
	}
}

// UnauthorizedWebhookError builds the rejection for a failed signature check.
// The response body carries no detail about which check failed.
func UnauthorizedWebhookError(entityType string) error {
	return UnauthorizedError{
		EntityType: entityType,
		Code:       constant.ErrUnauthorizedWebhook,
		Title:      "Unauthorized",
		Message:    "",
	}
}

// MalformedPayloadError builds the rejection for a payload missing its
// required shape. Upstream payload internals are never echoed back.
func MalformedPayloadError(entityType, field string) error {
	return UnprocessableOperationError{
		EntityType: entityType,
		Code:       constant.ErrMalformedEventPayload,
		Title:      "Malformed Payload",
		Message:    fmt.Sprintf("invalid format (%s)", field),
	}
}

// QuantityOutOfRangeError builds the rejection for an issuance quantity
// outside the allowed bounds.
func QuantityOutOfRangeError(entityType string) error {
	return ValidationError{
		EntityType: entityType,
		Code:       constant.ErrQuantityOutOfRange,
		Title:      "Quantity Out Of Range",
		Message: fmt.Sprintf("license quantity must be between %d and %d",
			constant.MinLicenseQuantity, constant.MaxLicenseQuantity),
	}
}

// OriginalOrderNotFoundError builds the hard error raised when every order
// entry of a subscription is a billing-cycle order.
func OriginalOrderNotFoundError(subscriptionID string) error {
	return EntityNotFoundError{
		EntityType: "order",
		Code:       constant.ErrOriginalOrderNotFound,
		Title:      "Original Order Not Found",
		Message:    fmt.Sprintf("could not find original order for subscription %s", subscriptionID),
	}
}
