package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes form a closed enumeration; handlers and clients branch on the
// code, never on message text.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeAuthRequired        = "AUTH_REQUIRED"
	CodeUnresolvedCommunity = "UNRESOLVED_COMMUNITY"
	CodeNotFound            = "NOT_FOUND"
	CodeNetwork             = "NETWORK_ERROR"
	CodeBackend             = "BACKEND_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
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

// HTTPStatus maps the error code to an HTTP status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeAuthRequired:
		return fiber.StatusUnauthorized
	case CodeUnresolvedCommunity:
		return fiber.StatusConflict
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeNetwork:
		return fiber.StatusServiceUnavailable
	case CodeBackend:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewAuthRequiredError(message string) *AppError {
	return &AppError{Code: CodeAuthRequired, Message: message}
}

// NewUnresolvedCommunityError signals a data-setup gap (seeding or
// reconciliation has not produced a mapping), not bad user input.
func NewUnresolvedCommunityError(localID string) *AppError {
	return &AppError{
		Code:    CodeUnresolvedCommunity,
		Message: fmt.Sprintf("Community %q has no backend record; re-run seeding and reload", localID),
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// backendErrorHints maps known backend error substrings to human-readable
// messages. Scanned only for errors that classify as opaque backend failures.
var backendErrorHints = []struct {
	substr  string
	message string
}{
	{"duplicate key", "A record with the same value already exists"},
	{"violates unique constraint", "A record with the same value already exists"},
	{"violates foreign key", "A referenced record does not exist"},
	{"value too long", "A field exceeds the maximum allowed length"},
	{"too many connections", "The data service is overloaded, try again shortly"},
	{"permission denied", "The data service rejected this operation"},
}

// WrapBackendError classifies an error from a data-service call into the
// closed error enumeration. AppErrors pass through unchanged. Not-found and
// transient network failures get their own kinds; everything else becomes a
// BACKEND_ERROR whose message is drawn from the hint table, falling back to
// a generic message embedding the raw error text.
func WrapBackendError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{Code: CodeNotFound, Message: "Record not found", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "connection refused") {
		return &AppError{Code: CodeNetwork, Message: "The data service is unreachable, try again", Err: err}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, hint := range backendErrorHints {
		if strings.Contains(lower, hint.substr) {
			return &AppError{Code: CodeBackend, Message: hint.message, Err: err}
		}
	}
	return &AppError{Code: CodeBackend, Message: fmt.Sprintf("Unexpected data service error: %s", msg), Err: err}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError writes err using its own status mapping, wrapping
// unclassified errors first.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	wrapped := WrapBackendError(err)
	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		appErr = NewInternalError(err)
	}
	return RespondWithError(c, appErr.HTTPStatus(), appErr)
}
