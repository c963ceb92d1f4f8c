// Package errors contains the errors returned by the server operations and their HTTP
// encoding.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/canopyhq/canopy/pkg/storage"
)

const InternalServerErrorMsg = "Internal Server Error"

var (
	ErrTreeNotFound          = NewEncodedError(TreeNotFound, "Tree not found")
	ErrNodeHasChildren       = NewEncodedError(InvalidOperation, "Cannot delete node with children")
	ErrSelfParent            = NewEncodedError(InvalidOperation, "A node cannot be its own parent")
	ErrCycle                 = NewEncodedError(InvalidOperation, "Cannot move a node under one of its descendants")
	ErrUsernameTaken         = NewEncodedError(UsernameTaken, "Username is already taken")
	ErrAuthFailed            = NewEncodedError(Unauthenticated, "Invalid username or password")
	ErrUnauthenticated       = NewEncodedError(Unauthenticated, "unauthenticated")
	ErrMissingBearerToken    = NewEncodedError(BearerTokenMissing, "missing bearer token")
	ErrForbidden             = NewEncodedError(PermissionDenied, "insufficient role for this operation")
	ErrRequestCancelled      = NewEncodedError(Cancelled, "Request Cancelled")
	ErrRequestDeadlineExceed = NewEncodedError(DeadlineExceeded, "Request Deadline Exceeded")
	ErrUndefinedEndpoint     = NewEncodedError(UndefinedEndpoint, "undefined endpoint")
)

// InternalError is an error that is not exposed to the caller. Error returns the public
// message and Unwrap the cause, which is only logged.
type InternalError struct {
	public   error
	internal error
}

func (e InternalError) Error() string {
	return e.public.Error()
}

func (e InternalError) Is(target error) bool {
	return errors.Is(e.public, target)
}

func (e InternalError) Unwrap() error {
	return e.internal
}

// Internal returns the cause of the error.
func (e InternalError) Internal() error {
	return e.internal
}

// NewInternalError returns an error whose public message is public, or a generic one if
// public is empty, and whose cause is internal.
func NewInternalError(public string, internal error) InternalError {
	if public == "" {
		public = InternalServerErrorMsg
	}

	return InternalError{
		public:   NewEncodedError(Internal, public),
		internal: internal,
	}
}

// NodeNotFoundError is returned when no node has the given id.
func NodeNotFoundError(id int64) *EncodedError {
	return NewEncodedError(NodeNotFound, fmt.Sprintf("Node with id %d not found", id))
}

// ParentNotFoundError is returned when the requested parent of a node does not exist.
func ParentNotFoundError(id int64) *EncodedError {
	return NewEncodedError(ParentNotFound, fmt.Sprintf("Parent node with id %d not found", id))
}

// ValidationError is returned for malformed requests.
func ValidationError(cause error) *EncodedError {
	return NewEncodedError(ValidationFailed, cause.Error())
}

// HandleError is used to surface known errors unchanged and hide everything else behind an
// InternalError with the given public message.
func HandleError(public string, err error) error {
	if err == nil {
		return nil
	}

	var internal InternalError
	var encoded *EncodedError
	switch {
	case errors.As(err, &internal):
		return internal
	case errors.As(err, &encoded):
		return encoded
	case errors.Is(err, context.DeadlineExceeded):
		return ErrRequestDeadlineExceed
	case errors.Is(err, storage.ErrCancelled), errors.Is(err, context.Canceled):
		return ErrRequestCancelled
	default:
		return NewInternalError(public, err)
	}
}

// Encode returns the wire representation of err.
func Encode(err error) *EncodedError {
	var internal InternalError
	if errors.As(err, &internal) {
		var public *EncodedError
		if errors.As(internal.public, &public) {
			return public
		}
	}

	var encoded *EncodedError
	if errors.As(err, &encoded) {
		return encoded
	}

	return NewEncodedError(Internal, InternalServerErrorMsg)
}
