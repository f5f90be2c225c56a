package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeUpstream, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.code), string(tt.code))
	}
}

func TestAsAppError(t *testing.T) {
	err := Upstream("gateway down", errors.New("dial tcp: refused"))
	app := AsAppError(err)
	assert.Equal(t, CodeUpstream, app.Code)
	assert.Contains(t, err.Error(), "dial tcp")

	// wrapped deeper in a chain still resolves
	wrapped := errors.Join(errors.New("outer"), err)
	assert.Equal(t, CodeUpstream, AsAppError(wrapped).Code)

	// plain errors default to internal
	plain := AsAppError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}
