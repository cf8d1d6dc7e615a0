// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Email service specific errors
var (
	// ErrInvalidAddress marks a malformed recipient address, rejected
	// before any database or SMTP I/O.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrResolution marks a directory store failure. Fatal for the whole
	// request: no recipient was reached.
	ErrResolution = errors.New("recipient resolution failed")

	// ErrTemplate marks a per-recipient rendering failure.
	ErrTemplate = errors.New("template rendering failed")

	// ErrTransientDelivery marks a retryable SMTP failure (4xx response,
	// connection errors). Recorded on an outcome once retries are exhausted.
	ErrTransientDelivery = errors.New("transient delivery failure")

	// ErrPermanentDelivery marks a non-retryable SMTP failure (5xx response).
	ErrPermanentDelivery = errors.New("permanent delivery failure")

	// ErrTimeout marks a recipient whose send was never scheduled because
	// the request deadline fired first.
	ErrTimeout = errors.New("dispatch deadline exceeded")

	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidCategory = errors.New("invalid recipient category")
)

// Error codes
const (
	CodeInvalidAddress  = "INVALID_ADDRESS"
	CodeInvalidCategory = "INVALID_CATEGORY"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeResolution      = "RESOLUTION_FAILED"
	CodeSendFailed      = "SEND_FAILED"
	CodeValidation      = "VALIDATION_FAILED"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError maps dispatch service errors onto HTTP responses.
// Only resolution-time failures reach here; post-resolution failures are
// reported inside the DispatchResult, never as a request error.
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidAddress):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidAddress,
			Message: "Invalid email address",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidCategory):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidCategory,
			Message: "Invalid recipient category",
			Details: err.Error(),
		})
	case errors.Is(err, ErrResolution):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeResolution,
			Message: "Failed to resolve recipients",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidation,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles unparseable request bodies with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}
