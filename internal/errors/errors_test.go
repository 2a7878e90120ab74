package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidMetadata, http.StatusBadRequest},
		{CodeInputTooShort, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := InputTooShortf("need %d characters", 20)

	assert.True(t, Is(err, ErrInputTooShort))
	assert.False(t, Is(err, ErrInvalidMetadata))
	assert.Equal(t, "need 20 characters", err.Error())

	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, Is(wrapped, ErrInputTooShort))
}

func TestError_WrapAndUnwrap(t *testing.T) {
	err := Wrap(io.EOF, CodeInternal, "read narrative")

	assert.Equal(t, "read narrative: EOF", err.Error())
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestError_WithDetailsCopies(t *testing.T) {
	details := map[string]string{"likes": "must be >= 0"}
	err := ErrInvalidMetadata.WithDetails(details)

	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrInvalidMetadata.Details)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}
