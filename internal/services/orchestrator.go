package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"github.com/mlima-digital/whatsapp-bridge/internal/utils/httpclient"
	"go.uber.org/zap"
)

// Orchestrator converts message text plus session context into a reply
// and conversation-progress metadata
type Orchestrator interface {
	Process(ctx context.Context, message, sessionID, phoneNumber, platform string) (*models.OrchestratorResponse, error)
}

type processRequest struct {
	Message     string `json:"message"`
	SessionID   string `json:"session_id"`
	PhoneNumber string `json:"phone_number"`
	Platform    string `json:"platform"`
}

// OrchestratorClient talks to the orchestration engine over HTTP
type OrchestratorClient struct {
	baseURL string
	logger  *zap.Logger
}

// NewOrchestratorClient creates a new orchestration engine client
func NewOrchestratorClient(baseURL string, logger *zap.Logger) *OrchestratorClient {
	return &OrchestratorClient{
		baseURL: baseURL,
		logger:  logger,
	}
}

// Process delegates a message to the orchestration engine
func (c *OrchestratorClient) Process(ctx context.Context, message, sessionID, phoneNumber, platform string) (*models.OrchestratorResponse, error) {
	logger := c.logger.With(
		zap.String("session_id", sessionID),
		zap.String("phone_number", observability.MaskPhone(phoneNumber)))

	jsonBody, err := json.Marshal(processRequest{
		Message:     message,
		SessionID:   sessionID,
		PhoneNumber: phoneNumber,
		Platform:    platform,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process request: %w", err)
	}

	url := fmt.Sprintf("%s/orchestrator/process", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := httpclient.GetGlobalPool().Get()
	defer httpclient.GetGlobalPool().Put(client)

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("failed to reach orchestrator", zap.Error(err))
		return nil, fmt.Errorf("failed to reach orchestrator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read orchestrator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("orchestrator request failed", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("orchestrator request failed with status: %d", resp.StatusCode)
	}

	var engineResp models.OrchestratorResponse
	if err := json.Unmarshal(body, &engineResp); err != nil {
		return nil, fmt.Errorf("failed to decode orchestrator response: %w", err)
	}

	return &engineResp, nil
}
