package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
)

func TestEncodedError(t *testing.T) {
	tests := []struct {
		code           ErrorCode
		expectedStatus int
	}{
		{code: NodeNotFound, expectedStatus: http.StatusNotFound},
		{code: TreeNotFound, expectedStatus: http.StatusNotFound},
		{code: InvalidOperation, expectedStatus: http.StatusBadRequest},
		{code: ParentNotFound, expectedStatus: http.StatusBadRequest},
		{code: ValidationFailed, expectedStatus: http.StatusBadRequest},
		{code: UsernameTaken, expectedStatus: http.StatusConflict},
		{code: Unauthenticated, expectedStatus: http.StatusUnauthorized},
		{code: BearerTokenMissing, expectedStatus: http.StatusUnauthorized},
		{code: PermissionDenied, expectedStatus: http.StatusForbidden},
		{code: Internal, expectedStatus: http.StatusInternalServerError},
		{code: ErrorCode("made_up"), expectedStatus: http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(string(test.code), func(t *testing.T) {
			actualError := NewEncodedError(test.code, "error message")

			require.Equal(t, test.expectedStatus, actualError.HTTPStatus())
			require.Equal(t, string(test.code), actualError.Code())
			require.Equal(t, "error message", actualError.Error())
		})
	}
}

func TestEncodedErrorIs(t *testing.T) {
	require.ErrorIs(t, NodeNotFoundError(4), NewEncodedError(NodeNotFound, "other message"))
	require.NotErrorIs(t, NodeNotFoundError(4), ErrTreeNotFound)
	require.ErrorIs(t, fmt.Errorf("wrapped: %w", ErrCycle), ErrSelfParent)
}

func TestHandleError(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		expected *EncodedError
	}{
		{name: "encoded_passthrough", err: ParentNotFoundError(3), expected: ParentNotFoundError(3)},
		{name: "wrapped_encoded", err: fmt.Errorf("ctx: %w", ErrUsernameTaken), expected: ErrUsernameTaken},
		{name: "context_cancelled", err: context.Canceled, expected: ErrRequestCancelled},
		{name: "storage_cancelled", err: fmt.Errorf("%w: %w", storage.ErrCancelled, context.Canceled), expected: ErrRequestCancelled},
		{name: "deadline", err: context.DeadlineExceeded, expected: ErrRequestDeadlineExceed},
		{name: "storage_deadline", err: fmt.Errorf("%w: %w", storage.ErrCancelled, context.DeadlineExceeded), expected: ErrRequestDeadlineExceed},
		{name: "unexpected", err: cause, expected: NewEncodedError(Internal, "Error reading nodes")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := HandleError("Error reading nodes", test.err)
			require.Equal(t, test.expected, Encode(got))
		})
	}

	require.NoError(t, HandleError("", nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	err := HandleError("", cause)

	var internal InternalError
	require.ErrorAs(t, err, &internal)
	require.Equal(t, InternalServerErrorMsg, err.Error())
	require.ErrorIs(t, err, cause)
	require.Equal(t, cause, internal.Internal())

	encoded := Encode(err)
	require.Equal(t, http.StatusInternalServerError, encoded.HTTPStatus())
	require.Equal(t, string(Internal), encoded.Code())
	require.NotContains(t, encoded.Error(), "password")

	require.Equal(t, err, HandleError("other", err))
}

func TestEncodeUnknownError(t *testing.T) {
	encoded := Encode(errors.New("boom"))
	require.Equal(t, string(Internal), encoded.Code())
	require.Equal(t, InternalServerErrorMsg, encoded.Error())
}
