package rtbhouse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ClientError{Message: "request failed: connection refused", Err: cause}

	assert.Equal(t, "request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestVersionRejectedError(t *testing.T) {
	err := newVersionRejectedError("v2", "v3")

	assert.ErrorIs(t, err, ErrVersionRejected)
	assert.Contains(t, err.Error(), `"v2"`)
	assert.Contains(t, err.Error(), `"v3"`)
	assert.Contains(t, err.Error(), "update")
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "with app code",
			err:      &APIError{StatusCode: 404, Message: "Not found", AppCode: "ADV_NOT_FOUND"},
			expected: "rtbhouse API error: status 404 (ADV_NOT_FOUND): Not found",
		},
		{
			name:     "synthesized",
			err:      &APIError{StatusCode: 500, Message: "Internal Server Error (500)"},
			expected: "rtbhouse API error: status 500: Internal Server Error (500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		code         int
		notFound     bool
		unauthorized bool
	}{
		{401, false, true},
		{403, false, true},
		{404, true, false},
		{500, false, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.notFound, err.IsNotFound())
			assert.Equal(t, tt.unauthorized, err.IsUnauthorized())
		})
	}
}

func TestMalformedErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &MalformedError{Reason: "response body is not valid JSON", Err: cause}

	assert.Contains(t, err.Error(), "malformed response")
	assert.Contains(t, err.Error(), "not valid JSON")
	assert.ErrorIs(t, err, cause)
}
