package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/mocks"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	newHandler := func() (*AuthHandler, *mocks.MockUserStore) {
		userStore := mocks.NewMockUserStore()
		jwtService := &mocks.MockJWTService{Token: "test-token"}
		passwordVerifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		return NewAuthHandler(userStore, jwtService, passwordVerifier), userStore
	}

	validPayload := func() map[string]interface{} {
		return map[string]interface{}{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"email":      "ada@example.com",
			"password":   "Secret123",
		}
	}

	tests := []struct {
		name       string
		mutate     func(p map[string]interface{})
		wantStatus int
	}{
		{
			name:       "valid registration",
			mutate:     func(p map[string]interface{}) {},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "valid with middle name",
			mutate:     func(p map[string]interface{}) { p["middle_name"] = "King" },
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			mutate:     func(p map[string]interface{}) { p["email"] = "not-an-email" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			mutate:     func(p map[string]interface{}) { p["password"] = "Ab1" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password missing uppercase",
			mutate:     func(p map[string]interface{}) { p["password"] = "secret123" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password missing digit",
			mutate:     func(p map[string]interface{}) { p["password"] = "SecretSecret" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "first name with digits",
			mutate:     func(p map[string]interface{}) { p["first_name"] = "Ada99" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing last name",
			mutate:     func(p map[string]interface{}) { delete(p, "last_name") },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, _ := newHandler()
			payload := validPayload()
			tt.mutate(payload)

			body, err := json.Marshal(payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handler.Register(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "User registered successfully", resp.Message)
				assert.Equal(t, "test-token", resp.Token)
				require.NotNil(t, resp.User)
				assert.NotZero(t, resp.User.ID)
				assert.Equal(t, "ada@example.com", resp.User.Email)
			}
		})
	}

	t.Run("duplicate email is rejected", func(t *testing.T) {
		t.Parallel()

		handler, _ := newHandler()

		register := func() *httptest.ResponseRecorder {
			body, err := json.Marshal(validPayload())
			require.NoError(t, err)
			req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
			recorder := httptest.NewRecorder()
			handler.Register(recorder, req)
			return recorder
		}

		assert.Equal(t, http.StatusCreated, register().Code)
		recorder := register()
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "already exists")
	})

	t.Run("email uniqueness is case-insensitive", func(t *testing.T) {
		t.Parallel()

		handler, _ := newHandler()

		send := func(email string) int {
			payload := validPayload()
			payload["email"] = email
			body, err := json.Marshal(payload)
			require.NoError(t, err)
			req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
			recorder := httptest.NewRecorder()
			handler.Register(recorder, req)
			return recorder.Code
		}

		assert.Equal(t, http.StatusCreated, send("Ada@Example.com"))
		assert.Equal(t, http.StatusBadRequest, send("ada@example.com"))
	})

	t.Run("response never includes password material", func(t *testing.T) {
		t.Parallel()

		handler, _ := newHandler()
		body, err := json.Marshal(validPayload())
		require.NoError(t, err)
		req := httptest.NewRequest("POST", "/api/register", bytes.NewBuffer(body))
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "Secret123")
		assert.NotContains(t, recorder.Body.String(), "hashed:")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	const testEmail = "ada@example.com"

	seededStore := func(t *testing.T) *mocks.MockUserStore {
		t.Helper()
		userStore := mocks.NewMockUserStore()
		user := &domain.User{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     testEmail,
			Password:  "Secret123",
		}
		require.NoError(t, userStore.Create(context.Background(), user))
		return userStore
	}

	tests := []struct {
		name          string
		payload       map[string]interface{}
		shouldSucceed bool
		wantStatus    int
	}{
		{
			name: "valid login",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": "Secret123",
			},
			shouldSucceed: true,
			wantStatus:    http.StatusOK,
		},
		{
			name: "unknown email",
			payload: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "Secret123",
			},
			shouldSucceed: false,
			wantStatus:    http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"email":    testEmail,
				"password": "WrongPass1",
			},
			shouldSucceed: false,
			wantStatus:    http.StatusUnauthorized,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"email": testEmail,
			},
			shouldSucceed: true,
			wantStatus:    http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{Token: "test-token"}
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tt.shouldSucceed}
			handler := NewAuthHandler(seededStore(t), jwtService, verifier)

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
			recorder := httptest.NewRecorder()

			handler.Login(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "Login successful", resp.Message)
				assert.Equal(t, "test-token", resp.Token)
				require.NotNil(t, resp.User)
				assert.Equal(t, testEmail, resp.User.Email)
			}
		})
	}

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Token: "test-token"}

		send := func(email, password string, verifierOK bool) string {
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: verifierOK}
			handler := NewAuthHandler(seededStore(t), jwtService, verifier)
			body, err := json.Marshal(map[string]string{"email": email, "password": password})
			require.NoError(t, err)
			req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
			recorder := httptest.NewRecorder()
			handler.Login(recorder, req)
			require.Equal(t, http.StatusUnauthorized, recorder.Code)

			var resp map[string]interface{}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			return resp["error"].(string)
		}

		unknownEmail := send("nobody@example.com", "Secret123", false)
		wrongPassword := send(testEmail, "WrongPass1", false)
		assert.Equal(t, unknownEmail, wrongPassword)
		assert.Equal(t, "Invalid email or password", wrongPassword)
	})
}
