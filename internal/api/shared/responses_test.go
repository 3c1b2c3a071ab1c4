package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/test", nil)
	recorder := httptest.NewRecorder()

	RespondWithJSON(recorder, req, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "world", body["hello"])
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("includes trace ID when present", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/test", nil)
		req = req.WithContext(SetTraceID(req.Context()))
		recorder := httptest.NewRecorder()

		RespondWithError(recorder, req, http.StatusNotFound, "Task not found")

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Task not found", resp.Error)
		assert.NotEmpty(t, resp.TraceID)
	})

	t.Run("omits trace ID when absent", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/test", nil)
		recorder := httptest.NewRecorder()

		RespondWithError(recorder, req, http.StatusBadRequest, "Invalid request format")

		assert.NotContains(t, recorder.Body.String(), "trace_id")
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/test", nil)
	recorder := httptest.NewRecorder()

	err := errors.New("dial failed: postgres://admin:hunter2@db/tasks")
	RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError, "Something went wrong", err)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	// The raw error must never reach the client.
	assert.NotContains(t, recorder.Body.String(), "hunter2")
	assert.Contains(t, recorder.Body.String(), "Something went wrong")
}
