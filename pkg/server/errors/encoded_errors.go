package errors

import (
	"net/http"
)

// ErrorCode is the machine readable code carried in every error body.
type ErrorCode string

const (
	NodeNotFound       ErrorCode = "node_not_found"
	TreeNotFound       ErrorCode = "tree_not_found"
	UndefinedEndpoint  ErrorCode = "undefined_endpoint"
	InvalidOperation   ErrorCode = "invalid_operation"
	ParentNotFound     ErrorCode = "parent_not_found"
	ValidationFailed   ErrorCode = "validation_error"
	UsernameTaken      ErrorCode = "username_taken"
	Unauthenticated    ErrorCode = "unauthenticated"
	BearerTokenMissing ErrorCode = "bearer_token_missing"
	PermissionDenied   ErrorCode = "forbidden"
	Cancelled          ErrorCode = "cancelled"
	DeadlineExceeded   ErrorCode = "deadline_exceeded"
	Unavailable        ErrorCode = "unavailable"
	Internal           ErrorCode = "internal_error"
)

var httpStatusByCode = map[ErrorCode]int{
	NodeNotFound:       http.StatusNotFound,
	TreeNotFound:       http.StatusNotFound,
	UndefinedEndpoint:  http.StatusNotFound,
	InvalidOperation:   http.StatusBadRequest,
	ParentNotFound:     http.StatusBadRequest,
	ValidationFailed:   http.StatusBadRequest,
	UsernameTaken:      http.StatusConflict,
	Unauthenticated:    http.StatusUnauthorized,
	BearerTokenMissing: http.StatusUnauthorized,
	PermissionDenied:   http.StatusForbidden,
	Cancelled:          http.StatusRequestTimeout,
	DeadlineExceeded:   http.StatusGatewayTimeout,
	Unavailable:        http.StatusServiceUnavailable,
	Internal:           http.StatusInternalServerError,
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EncodedError allows customized error with code in string and specified http status field.
type EncodedError struct {
	HTTPStatusCode int
	ActualError    ErrorResponse
}

// Error returns the encoded message.
func (e *EncodedError) Error() string {
	return e.ActualError.Message
}

// Code returns the encoded error code in string.
func (e *EncodedError) Code() string {
	return e.ActualError.Code
}

// HTTPStatus returns the HTTP Status code.
func (e *EncodedError) HTTPStatus() int {
	return e.HTTPStatusCode
}

// Is reports whether target is an EncodedError with the same code, so that sentinel
// errors match values created with a different message.
func (e *EncodedError) Is(target error) bool {
	t, ok := target.(*EncodedError)
	return ok && t.ActualError.Code == e.ActualError.Code
}

// NewEncodedError returns an error with the given code and message. Codes without a
// known status are reported as internal server errors.
func NewEncodedError(code ErrorCode, message string) *EncodedError {
	status, ok := httpStatusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	return &EncodedError{
		HTTPStatusCode: status,
		ActualError: ErrorResponse{
			Code:    string(code),
			Message: message,
		},
	}
}
