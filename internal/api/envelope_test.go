package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

func marshalEnvelope(t *testing.T, v any) map[string]any {
	t.Helper()
	wrapped, err := EnvelopeTransformer(nil, "200", v)
	require.NoError(t, err)

	b, err := json.Marshal(wrapped)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestEnvelope_Success(t *testing.T) {
	out := marshalEnvelope(t, map[string]string{"id": "dream-1"})

	assert.Equal(t, float64(EnvelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "dream-1"}, out["data"])
	assert.NotContains(t, out, "error")
	assert.NotContains(t, out, "version")
}

func TestEnvelope_NilData(t *testing.T) {
	out := marshalEnvelope(t, nil)

	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelope_Error(t *testing.T) {
	out := marshalEnvelope(t, &APIError{
		Code:    "CONFLICT",
		Message: "dream already liked",
		Details: map[string]string{"dream_id": "dream-1"},
	})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "dream already liked", out["error"])
	assert.Equal(t, "CONFLICT", out["code"])
	assert.Equal(t, map[string]any{"dream_id": "dream-1"}, out["details"])
	assert.NotContains(t, out, "data")
}

func TestEnvelope_AlreadyWrapped(t *testing.T) {
	env := Envelope{V: EnvelopeVersion, Success: true, Data: 1}
	wrapped, err := EnvelopeTransformer(nil, "200", env)
	require.NoError(t, err)
	assert.Equal(t, env, wrapped)
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		errs   []error
		want   int
		code   string
	}{
		{
			name:   "domain error wins",
			status: http.StatusInternalServerError,
			errs:   []error{domainerrors.InputTooShortf("need %d", 20)},
			want:   http.StatusUnprocessableEntity,
			code:   "INPUT_TOO_SHORT",
		},
		{
			name:   "wrapped domain error",
			status: http.StatusInternalServerError,
			errs:   []error{errors.Join(errors.New("ctx"), domainerrors.Conflict("busy"))},
			want:   http.StatusConflict,
			code:   "CONFLICT",
		},
		{
			name:   "store not found",
			status: http.StatusInternalServerError,
			errs:   []error{store.ErrNotFound.WithMessage("dream not found")},
			want:   http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "schema failure",
			status: http.StatusUnprocessableEntity,
			errs:   []error{&huma.ErrorDetail{Message: "expected required property text to be present", Location: "body"}},
			want:   http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "plain error",
			status: http.StatusInternalServerError,
			errs:   []error{errors.New("disk on fire")},
			want:   http.StatusInternalServerError,
			code:   "INTERNAL",
		},
		{
			name:   "status only",
			status: http.StatusTooManyRequests,
			want:   http.StatusTooManyRequests,
			code:   "RATE_LIMITED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.status, "message", tt.errs...)
			assert.Equal(t, tt.want, err.GetStatus())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestNewAPIError_SchemaDetails(t *testing.T) {
	err := newAPIError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Message: "expected string", Location: "body.user_id"},
		&huma.ErrorDetail{Message: "expected length <= 64", Location: "path.id"},
	)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"body.user_id": "expected string",
		"path.id":      "expected length <= 64",
	}, apiErr.Details)
}
