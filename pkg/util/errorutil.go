package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the client-side failure taxonomy.
const (
	CodeInvalidCredential    = "INVALID_CREDENTIAL"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeNetworkUnavailable   = "NETWORK_UNAVAILABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeValidationRejected   = "VALIDATION_REJECTED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// ClientError standardizes application errors.
type ClientError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError constructs a ClientError.
func NewClientError(code, message string, status int, err error) *ClientError {
	return &ClientError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NewInvalidCredential flags a malformed or undecodable session credential.
func NewInvalidCredential(err error) error {
	return NewClientError(CodeInvalidCredential, "invalid session credential", http.StatusUnauthorized, err)
}

// NewAuthenticationFailed flags a rejected login attempt.
func NewAuthenticationFailed(message string) error {
	if message == "" {
		message = "authentication failed"
	}
	return NewClientError(CodeAuthenticationFailed, message, http.StatusUnauthorized, nil)
}

// NewNetworkUnavailable wraps a transport-level failure.
func NewNetworkUnavailable(err error) error {
	return NewClientError(CodeNetworkUnavailable, "network unavailable", 0, err)
}

// NewNotFound flags an absent resource.
func NewNotFound(resource string) error {
	return NewClientError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewValidationRejected flags a server-rejected payload.
func NewValidationRejected(message string) error {
	if message == "" {
		message = "request rejected by server"
	}
	return NewClientError(CodeValidationRejected, message, http.StatusUnprocessableEntity, nil)
}

// NewInternalError wraps everything that has no better classification.
func NewInternalError(err error) error {
	return NewClientError(CodeInternalError, "internal error", http.StatusInternalServerError, err)
}

// ToClientError converts generic errors to ClientError.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return &ClientError{
		Code:       CodeInternalError,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func hasCode(err error, code string) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Code == code
}

// IsInvalidCredential reports an undecodable credential error.
func IsInvalidCredential(err error) bool { return hasCode(err, CodeInvalidCredential) }

// IsAuthenticationFailed reports a rejected login error.
func IsAuthenticationFailed(err error) bool { return hasCode(err, CodeAuthenticationFailed) }

// IsNetworkUnavailable reports a transport-level failure.
func IsNetworkUnavailable(err error) bool { return hasCode(err, CodeNetworkUnavailable) }

// IsNotFound reports an absent-resource error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsValidationRejected reports a server-side payload rejection.
func IsValidationRejected(err error) bool { return hasCode(err, CodeValidationRejected) }
