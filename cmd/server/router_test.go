package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-api/internal/config"
	"github.com/taskfolio/taskfolio-api/internal/mocks"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
)

// newTestApplication builds an application wired to in-memory mocks, enough
// to exercise routing and middleware without a database.
func newTestApplication(jwtService auth.JWTService) *application {
	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 0, LogLevel: "error"},
		},
		logger:           slog.Default(),
		userStore:        mocks.NewMockUserStore(),
		taskStore:        mocks.NewMockTaskStore(),
		jwtService:       jwtService,
		passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
	}
}

func TestRouterAuthEnforcement(t *testing.T) {
	t.Parallel()

	jwtService := &mocks.MockJWTService{
		Claims:      &auth.Claims{UserID: 1},
		ValidateErr: nil,
	}
	router := newTestApplication(jwtService).setupRouter()

	t.Run("task routes require authentication", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("bearer token grants access", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("register is public", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"Secret123"}`)
		req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("unknown route is not found", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/api/nope", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestRouterRejectsInvalidToken(t *testing.T) {
	t.Parallel()

	jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrInvalidToken}
	router := newTestApplication(jwtService).setupRouter()

	req := httptest.NewRequest("DELETE", "/api/tasks/1", nil)
	req.Header.Set("Authorization", "Bearer forged")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}
