package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes form a closed enum on the wire; anything outside it is reported
// with the error's Go type name as a diagnostic hint.
const (
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodePermission     = "PERMISSION_DENIED"
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeLinkViolation  = "LINK_VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAuthenticationRequired = NewDomainError(CodeAuthentication, "Authentication required")
	ErrPermissionDenied       = NewDomainError(CodePermission, "Not permitted to perform this action")
	ErrAlreadyExists          = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeValidation, "Invalid input provided")
)

// ValidationFailed builds a validation error with a caller-supplied message.
// Validation failures are expected errors: they travel back in the response
// envelope and are never logged as incidents.
func ValidationFailed(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NotFound builds a not-found error naming the missing resource.
func NotFound(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// PermissionDenied builds a permission error with a caller-supplied message.
func PermissionDenied(message string) *DomainError {
	return NewDomainError(CodePermission, message)
}

// LinkViolation builds an error for a reference to a missing or closed document.
func LinkViolation(message string) *DomainError {
	return NewDomainError(CodeLinkViolation, message)
}

// IsExpected reports whether err belongs to the expected error family
// (authentication, permission, validation, not-found, link violations).
// Expected errors are returned to the client without server-side incident logs.
func IsExpected(err error) bool {
	switch CodeOf(err) {
	case CodeAuthentication, CodePermission, CodeValidation, CodeNotFound, CodeLinkViolation:
		return true
	}
	return false
}

// CodeOf extracts the taxonomy code from an error, unwrapping as needed.
// Anything without a DomainError in its chain is internal.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
