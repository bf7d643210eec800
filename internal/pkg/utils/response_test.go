package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildErrorResponse(t *testing.T) {
	t.Run("Custom Error Keeps Status", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		recorder := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), recorder, exceptions.WrapWithoutError(http.StatusConflict, "session already submitted", "session s1 is submitted"))

		assert.Equal(t, http.StatusConflict, recorder.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "session already submitted", body["message"])
		assert.Equal(t, "session s1 is submitted", body["dev_message"])
	})

	t.Run("Production Hides Dev Message", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		recorder := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), recorder, exceptions.WrapWithoutError(http.StatusBadRequest, "bad request", "field tag invalid"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.NotContains(t, body, "dev_message")
		assert.NotContains(t, body, "locations")
	})

	t.Run("Plain Error Is Internal", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), recorder, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), constvars.ErrClientSomethingWrongWithApplication)
	})
}

func TestBuildSuccessResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	BuildSuccessResponse(recorder, http.StatusCreated, "created", map[string]string{"id": "s1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, constvars.MIMEApplicationJSON, recorder.Header().Get(constvars.HeaderContentType))
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":"s1"}}`, recorder.Body.String())
}
