package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"github.com/mlima-digital/whatsapp-bridge/internal/utils/httpclient"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Gateway delivers text messages to a phone number over the messaging
// network
type Gateway interface {
	Send(ctx context.Context, phoneNumber, message string) error
	Status(ctx context.Context) (*GatewayStatus, error)
}

// GatewayStatus is the health information reported by the gateway sidecar
type GatewayStatus struct {
	Status    string  `json:"status"`
	Connected bool    `json:"connected"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

type sendMessageRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

type sendMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// BaileysClient talks to the Baileys gateway sidecar over HTTP. Sends go
// through a circuit breaker so a disconnected gateway fails fast instead
// of holding webhook requests for the full client timeout.
type BaileysClient struct {
	baseURL string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBaileysClient creates a new gateway client
func NewBaileysClient(baseURL string, logger *zap.Logger) *BaileysClient {
	settings := gobreaker.Settings{
		Name:        "baileys-gateway",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("gateway circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaileysClient{
		baseURL: baseURL,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Send delivers a message to a phone number through the gateway
func (c *BaileysClient) Send(ctx context.Context, phoneNumber, message string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(ctx, phoneNumber, message)
	})
	if err != nil {
		observability.GatewaySends.WithLabelValues("error").Inc()
		return err
	}

	observability.GatewaySends.WithLabelValues("success").Inc()
	return nil
}

func (c *BaileysClient) send(ctx context.Context, phoneNumber, message string) error {
	logger := c.logger.With(zap.String("phone_number", observability.MaskPhone(phoneNumber)))

	jsonBody, err := json.Marshal(sendMessageRequest{
		PhoneNumber: phoneNumber,
		Message:     message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/send-message", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := httpclient.GetGlobalPool().Get()
	defer httpclient.GetGlobalPool().Put(client)

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("failed to reach gateway", zap.Error(err))
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	var sendResp sendMessageResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !sendResp.Success {
		logger.Error("gateway send failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("gateway_error", sendResp.Error))
		if sendResp.Error != "" {
			return fmt.Errorf("gateway send failed: %s", sendResp.Error)
		}
		return fmt.Errorf("gateway send failed with status: %d", resp.StatusCode)
	}

	logger.Debug("message sent", zap.String("gateway_message_id", sendResp.MessageID))
	return nil
}

// Status queries the gateway health endpoint
func (c *BaileysClient) Status(ctx context.Context) (*GatewayStatus, error) {
	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	client := httpclient.GetGlobalPool().Get()
	defer httpclient.GetGlobalPool().Put(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	var status GatewayStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode gateway status: %w", err)
	}

	return &status, nil
}
