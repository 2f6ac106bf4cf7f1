package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paayo-backend/internal/domain"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation maps to 400",
			err:        domain.ValidationError("bad input"),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation_error",
		},
		{
			name:       "not found maps to 404",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "unprocessable maps to 422",
			err:        &domain.Error{Kind: domain.KindUnprocessable, Message: "cannot process"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "unprocessable_entity",
		},
		{
			name:       "rate limit maps to 429",
			err:        domain.ErrTooManyRequests,
			wantStatus: http.StatusTooManyRequests,
			wantError:  "too_many_requests",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			rec := httptest.NewRecorder()
			WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, errors.New("pg: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_server_error")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
