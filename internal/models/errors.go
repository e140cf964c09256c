package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the service. The wire contract only exposes the
// message inside the {success:false, error} envelope; codes are for logs,
// metrics and tests.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeExpired            = "EXPIRED"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeModerationRejected = "MODERATION_REJECTED"
	CodeTransient          = "TRANSIENT"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewExpiredError(message string) *AppError {
	return &AppError{
		Code:    CodeExpired,
		Message: message,
	}
}

func NewSessionInvalidError() *AppError {
	return &AppError{
		Code:    CodeSessionInvalid,
		Message: "Invalid or unknown session. Please refresh the page.",
	}
}

func NewModerationRejectedError(reason string) *AppError {
	if reason == "" {
		reason = "Your roast violates the community guidelines"
	}
	return &AppError{
		Code:    CodeModerationRejected,
		Message: reason,
	}
}

func NewTransientError(err error) *AppError {
	return &AppError{
		Code:    CodeTransient,
		Message: "Service temporarily unavailable, please try again",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HTTPStatus maps an error to the HTTP status used at the API boundary.
// Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeModerationRejected:
		return fiber.StatusBadRequest
	case CodeExpired:
		return fiber.StatusGone
	case CodeSessionInvalid:
		return fiber.StatusUnauthorized
	case CodeTransient:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the fixed failure envelope. Every response the
// front-end sees carries a success boolean; it treats success:false as an
// application error regardless of transport status code.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	message := "Internal server error"
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else if err != nil {
		message = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// RespondWithAppError maps the error to a status itself before writing the envelope.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, HTTPStatus(err), err)
}
