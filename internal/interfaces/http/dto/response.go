package dto

import (
	"time"

	"github.com/possync/backend/internal/domain/shared"
)

// Response is the envelope every endpoint answers with. ServerTime lets
// disconnected clients correct their clock drift against the authority.
type Response struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Error      *ErrorInfo `json:"error"`
	RequestID  string     `json:"request_id,omitempty"`
	ServerTime time.Time  `json:"server_time"`
}

// ErrorInfo carries the taxonomy code plus a human-readable message. Details
// holds field-level validation failures when there are any.
type ErrorInfo struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one field that failed binding validation.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data any, requestID string) Response {
	return Response{
		Success:    true,
		Data:       data,
		RequestID:  requestID,
		ServerTime: time.Now().UTC(),
	}
}

// NewErrorResponse wraps an error code and message in a failure envelope.
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success:    false,
		Error:      &ErrorInfo{Code: code, Message: message},
		RequestID:  requestID,
		ServerTime: time.Now().UTC(),
	}
}

// NewValidationErrorResponse builds a failure envelope with field details.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success:    false,
		Error:      &ErrorInfo{Code: shared.CodeValidation, Message: message, Details: details},
		RequestID:  requestID,
		ServerTime: time.Now().UTC(),
	}
}
