package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumni-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serveHealth(t *testing.T, h *HealthHandler) (int, healthBody) {
	t.Helper()
	r := gin.New()
	r.GET("/health", h.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	code, body := serveHealth(t, NewHealthHandler(stubPinger{}, rdb, zerolog.Nop()))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	code, body = serveHealth(t, NewHealthHandler(stubPinger{err: errors.New("refused")}, rdb, zerolog.Nop()))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Checks["postgres"])
	assert.Equal(t, "ok", body.Checks["redis"])
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &service.ValidationError{Fields: map[string]string{"email": "bad"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"email taken before generic conflict", service.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"wrapped sentinel", fmt.Errorf("create: %w", service.ErrSapIDTaken), http.StatusConflict, "SAP_ID_TAKEN"},
		{"terminal state", service.ErrInvalidTransition, http.StatusConflict, "INVALID_STATE"},
		{"invalid mentor", service.ErrInvalidMentor, http.StatusBadRequest, "INVALID_MENTOR"},
		{"upstream", service.ErrLinkedInUpstream, http.StatusBadGateway, "UPSTREAM_FAILED"},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zerolog.Nop(), tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body struct {
				Error json.RawMessage `json:"error"`
				Code  string          `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, string(body.Error), "pool exhausted")
		})
	}
}
