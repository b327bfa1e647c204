package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlima-digital/whatsapp-bridge/internal/config"
	"github.com/mlima-digital/whatsapp-bridge/internal/logging"
	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory SessionStore for handler tests
type memoryStore struct {
	data   map[string]map[string]interface{}
	setErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]map[string]interface{})}
}

func (m *memoryStore) Get(_ context.Context, key string) (map[string]interface{}, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value map[string]interface{}) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// fakeOrchestrator records the delegated message and returns a canned reply
type fakeOrchestrator struct {
	response models.OrchestratorResponse
	err      error
	calls    int
	lastMsg  string
}

func (f *fakeOrchestrator) Process(_ context.Context, message, _, _, _ string) (*models.OrchestratorResponse, error) {
	f.calls++
	f.lastMsg = message
	if f.err != nil {
		return nil, f.err
	}
	resp := f.response
	return &resp, nil
}

// fakeGateway records sent messages
type fakeGateway struct {
	sent    []string
	sendErr error
}

func (f *fakeGateway) Send(_ context.Context, _, message string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeGateway) Status(_ context.Context) (*services.GatewayStatus, error) {
	return &services.GatewayStatus{Status: "healthy", Connected: true}, nil
}

type handlerFixture struct {
	router       *gin.Engine
	store        *memoryStore
	orchestrator *fakeOrchestrator
	gateway      *fakeGateway
}

func setupWhatsAppHandlers(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if logging.Logger == nil {
		require.NoError(t, logging.InitLogger())
	}

	cfg := &config.Config{
		VerifyToken:    "test-token",
		SessionAuthTTL: time.Hour,
	}

	store := newMemoryStore()
	orchestrator := &fakeOrchestrator{
		response: models.OrchestratorResponse{
			Response:     "Qual é o seu caso?",
			ResponseType: "orchestrated",
			CurrentStep:  "case_details",
			MessageCount: 1,
		},
	}
	gateway := &fakeGateway{}

	auth := services.NewAuthorizationService(store, cfg.SessionAuthTTL, logging.Logger)
	handlers := NewWhatsAppHandlers(cfg, logging.Logger, auth, orchestrator, gateway, services.NewMessageLog(logging.Logger), nil)

	router := gin.New()
	router.GET("/whatsapp/webhook", handlers.VerifyWebhook)
	router.POST("/whatsapp/webhook", handlers.ReceiveMessage)
	router.POST("/whatsapp/authorize", handlers.Authorize)

	return &handlerFixture{
		router:       router,
		store:        store,
		orchestrator: orchestrator,
		gateway:      gateway,
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) models.WebhookResult {
	t.Helper()
	var result models.WebhookResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestVerifyWebhook_Success(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=test-token&hub.challenge=12345", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyWebhook_WrongToken(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", w.Body.String())
}

func TestReceiveMessage_EmptyText(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		From:      "5511987654321",
		MessageID: "msg-1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusError, result.Status)
	assert.Empty(t, f.gateway.sent)
	assert.Zero(t, f.orchestrator.calls)
}

func TestReceiveMessage_NoSessionFallback(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "oi, preciso de ajuda",
		From:      "5511987654321@s.whatsapp.net",
		MessageID: "msg-1",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusFallback, result.Status)
	assert.Equal(t, models.ActionAskForFicha, result.Action)
	assert.Equal(t, "5511987654321", result.PhoneNumber)
	assert.Contains(t, result.Response, "landing page")

	// the fallback text is returned, never sent through the gateway
	assert.Empty(t, f.gateway.sent)
	assert.Zero(t, f.orchestrator.calls)
}

func TestReceiveMessage_NewSessionGreetsAndResponds(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "oi, session_abc-123 aqui",
		From:      "5511987654321@s.whatsapp.net",
		MessageID: "msg-1",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusSuccess, result.Status)
	assert.Equal(t, "session_abc-123", result.SessionID)
	assert.True(t, result.Authorized)
	assert.Equal(t, models.LeadTypeLandingWhatsApp, result.LeadType)

	// greeting first, engine reply second
	require.Len(t, f.gateway.sent, 2)
	assert.Contains(t, f.gateway.sent[0], "Bem-vindo")
	assert.Equal(t, "Qual é o seu caso?", f.gateway.sent[1])

	// authorization persisted under both keys
	assert.NotNil(t, f.store.data["auth_session:session_abc-123"])
	assert.Equal(t, "session_abc-123", f.store.data["phone_index:5511987654321"]["session_id"])
}

func TestReceiveMessage_AuthorizedSessionSkipsGreeting(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"phone_number": "5511987654321",
		"source":       "landing_page",
		"expires_at":   models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "continuando session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-2",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusSuccess, result.Status)
	assert.Equal(t, models.LeadTypeContinuousChat, result.LeadType)

	require.Len(t, f.gateway.sent, 1)
	assert.Equal(t, "Qual é o seu caso?", f.gateway.sent[0])
}

func TestReceiveMessage_SessionRecoveredByPhone(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.store.data["phone_index:5511987654321"] = map[string]interface{}{"session_id": "session_abc-123"}
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"phone_number": "5511987654321",
		"expires_at":   models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "mensagem sem marcador",
		From:      "5511987654321",
		MessageID: "msg-3",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusSuccess, result.Status)
	assert.Equal(t, "session_abc-123", result.SessionID)
}

func TestReceiveMessage_ExpiredSessionReauthorizes(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"phone_number": "5511987654321",
		"expires_at":   models.NewTimestamp(time.Now().Add(-time.Second)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "voltei, session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-4",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusSuccess, result.Status)

	// new authorization window, greeting sent again
	require.Len(t, f.gateway.sent, 2)
	assert.Contains(t, f.gateway.sent[0], "Bem-vindo")
}

func TestReceiveMessage_PhoneQuestionOverridden(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.orchestrator.response.Response = "Qual o seu número de WhatsApp?"
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"expires_at": models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-5",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusSuccess, result.Status)
	assert.Contains(t, result.Response, "documentos/provas")
	require.Len(t, f.gateway.sent, 1)
	assert.Contains(t, f.gateway.sent[0], "documentos/provas")
}

func TestReceiveMessage_EmptyEngineReplySubstituted(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.orchestrator.response.Response = "   "
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"expires_at": models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-6",
	})

	result := decodeResult(t, w)
	assert.Contains(t, result.Response, "entrará em contato")
}

func TestReceiveMessage_OrchestratorFailure(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.orchestrator.err = errors.New("engine down")
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"expires_at": models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-7",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusError, result.Status)
	assert.Contains(t, result.Response, "erro temporário")
	assert.Empty(t, f.gateway.sent)
}

func TestReceiveMessage_GatewayFailure(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.gateway.sendErr = errors.New("gateway down")
	f.store.data["auth_session:session_abc-123"] = map[string]interface{}{
		"expires_at": models.NewTimestamp(time.Now().Add(time.Hour)),
	}

	w := postJSON(t, f.router, "/whatsapp/webhook", models.WebhookPayload{
		Message:   "session_abc-123",
		From:      "5511987654321",
		MessageID: "msg-8",
	})

	result := decodeResult(t, w)
	assert.Equal(t, models.WebhookStatusError, result.Status)
	assert.Contains(t, result.Response, "erro temporário")
}

func TestAuthorize_Success(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/authorize", models.AuthorizeRequest{
		SessionID:   "session_abc-123",
		PhoneNumber: "11987654321",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "authorized", resp.Status)
	assert.Equal(t, "5511987654321", resp.PhoneNumber)
	assert.Equal(t, models.SourceLandingPage, resp.Source)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "https://wa.me/5511987654321", resp.WhatsAppURL)

	assert.NotNil(t, f.store.data["auth_session:session_abc-123"])
}

func TestAuthorize_InvalidSessionID(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/authorize", models.AuthorizeRequest{
		SessionID:   "short",
		PhoneNumber: "11987654321",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, models.WebhookStatusError, resp.Status)
	// raw values echoed back
	assert.Equal(t, "short", resp.SessionID)
	assert.Equal(t, 0, resp.ExpiresIn)
	assert.Empty(t, resp.WhatsAppURL)
}

func TestAuthorize_InvalidPhone(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := postJSON(t, f.router, "/whatsapp/authorize", models.AuthorizeRequest{
		SessionID:   "session_abc-123",
		PhoneNumber: "abc",
	})

	var resp models.AuthorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.WebhookStatusError, resp.Status)
	assert.Equal(t, "abc", resp.PhoneNumber)
}

func TestAuthorize_StoreFailure(t *testing.T) {
	f := setupWhatsAppHandlers(t)
	f.store.setErr = errors.New("store unavailable")

	w := postJSON(t, f.router, "/whatsapp/authorize", models.AuthorizeRequest{
		SessionID:   "session_abc-123",
		PhoneNumber: "11987654321",
	})

	var resp models.AuthorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.WebhookStatusError, resp.Status)
	assert.Equal(t, 0, resp.ExpiresIn)
}

func TestAuthorize_MalformedBody(t *testing.T) {
	f := setupWhatsAppHandlers(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/authorize", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
