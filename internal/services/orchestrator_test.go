package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorClient_Process(t *testing.T) {
	var received processRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orchestrator/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(models.OrchestratorResponse{
			Response:     "Qual é o seu caso?",
			ResponseType: "orchestrated",
			CurrentStep:  "case_details",
			MessageCount: 2,
		})
	}))
	defer server.Close()

	client := NewOrchestratorClient(server.URL, testLogger(t))

	resp, err := client.Process(context.Background(), "oi", "session_abc-123", "5511987654321", models.PlatformWhatsApp)
	require.NoError(t, err)

	assert.Equal(t, "oi", received.Message)
	assert.Equal(t, "session_abc-123", received.SessionID)
	assert.Equal(t, models.PlatformWhatsApp, received.Platform)

	assert.Equal(t, "Qual é o seu caso?", resp.Response)
	assert.Equal(t, "orchestrated", resp.ResponseType)
	assert.Equal(t, 2, resp.MessageCount)
}

func TestOrchestratorClient_ProcessNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOrchestratorClient(server.URL, testLogger(t))

	_, err := client.Process(context.Background(), "oi", "session_abc-123", "5511987654321", models.PlatformWhatsApp)
	assert.Error(t, err)
}
