package dto

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/possync/backend/internal/domain/shared"
)

// errorCodeHTTPStatus maps the closed taxonomy to HTTP status codes.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeAuthentication: http.StatusUnauthorized,
	shared.CodePermission:     http.StatusForbidden,
	shared.CodeValidation:     http.StatusBadRequest,
	shared.CodeNotFound:       http.StatusNotFound,
	shared.CodeLinkViolation:  http.StatusUnprocessableEntity,
	shared.CodeConflict:       http.StatusConflict,
	shared.CodeInternal:       http.StatusInternalServerError,
}

// HTTPStatus returns the status for a taxonomy code, 500 for anything else.
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCode extracts the wire code for an error. Domain errors keep their
// taxonomy code; anything else is reported under its Go type name so the
// client at least sees a stable diagnostic hint.
func ErrorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return typeNameCode(err)
}

// typeNameCode derives a code like "PathError" from the error's dynamic type.
func typeNameCode(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return shared.CodeInternal
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		// Anonymous types, e.g. errors.New values.
		return shared.CodeInternal
	}
	return name
}

// ErrorMessage returns the client-facing message for an error. Expected
// errors pass their message through; unexpected ones are masked because the
// raw text may leak internals.
func ErrorMessage(err error) string {
	if shared.IsExpected(err) || shared.CodeOf(err) == shared.CodeConflict {
		return err.Error()
	}
	return "An unexpected error occurred"
}

// FieldName trims a validator namespace like "CreateInvoiceRequest.items" to
// the leaf field the client sent.
func FieldName(namespace string) string {
	if i := strings.LastIndex(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
