package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mlima-digital/whatsapp-bridge/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPhoneRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if logging.Logger == nil {
		require.NoError(t, logging.InitLogger())
	}
	router := gin.New()
	router.POST("/validate/phone", ValidatePhone)
	return router
}

func postPhone(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate/phone", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestValidatePhone_Valid(t *testing.T) {
	router := setupPhoneRouter(t)

	w := postPhone(t, router, `{"phone": "+55 11 99988-7766"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp PhoneValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "55", resp.DDI)
	assert.Equal(t, "11", resp.DDD)
	assert.Equal(t, "999887766", resp.Numero)
	assert.Equal(t, "+5511999887766", resp.E164)
}

func TestValidatePhone_NationalFormat(t *testing.T) {
	router := setupPhoneRouter(t)

	w := postPhone(t, router, `{"phone": "11999887766"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp PhoneValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "11", resp.DDD)
}

func TestValidatePhone_Invalid(t *testing.T) {
	router := setupPhoneRouter(t)

	w := postPhone(t, router, `{"phone": "123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp PhoneValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestValidatePhone_MissingField(t *testing.T) {
	router := setupPhoneRouter(t)

	w := postPhone(t, router, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
