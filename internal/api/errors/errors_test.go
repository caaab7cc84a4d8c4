package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestWriteAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperror.Validation("name is required"), 400, CodeValidationError},
		{"credentials", apperror.InvalidCredentials(), 401, CodeInvalidCredentials},
		{"token", apperror.InvalidToken(), 401, CodeInvalidToken},
		{"forbidden", apperror.Forbidden(), 403, CodeForbidden},
		{"not found", apperror.NotFound("role", "r1"), 404, CodeNotFound},
		{"conflict", apperror.Conflict("user", "x"), 409, CodeConflict},
		{"external 503", apperror.External(503, "down"), 503, CodeExternalServiceError},
		{"external 400", apperror.External(400, "bad"), 400, CodeExternalServiceError},
		{"external 200", apperror.External(200, "odd"), 502, CodeExternalServiceError},
		{"transport", apperror.Transport("dial tcp", nil), 502, CodeExternalServiceError},
		{"wrapped", fmt.Errorf("ctx: %w", apperror.Forbidden()), 403, CodeForbidden},
		{"unknown", fmt.Errorf("boom"), 500, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			detail := decode(t, rec)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Equal(t, tt.wantStatus, detail.Status)
			assert.Equal(t, Source, detail.Source)
			assert.NotEmpty(t, detail.Message)
		})
	}
}

func TestWriteAppError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, fmt.Errorf("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec).Message)
}

func TestWriteAppError_Message(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperror.NotFound("user", "abc"))
	assert.Equal(t, "user with id abc not found", decode(t, rec).Message)
}

func TestWriteAppError_TransportDetailsNotExposed(t *testing.T) {
	cause := fmt.Errorf(`Get "http://keycloak:8080/admin/realms/constrsw/users/u1": dial tcp 10.0.0.7:8080: connect: connection refused`)
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperror.Transport("get_user: "+cause.Error(), cause))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	detail := decode(t, rec)
	assert.Equal(t, CodeExternalServiceError, detail.Code)
	assert.Equal(t, upstreamFailureMessage, detail.Message)
	assert.NotContains(t, rec.Body.String(), "keycloak:8080")
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func TestWriteAppError_UpstreamBodyKept(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperror.External(503, "down"))
	assert.Equal(t, "external service error: down", decode(t, rec).Message)
}
