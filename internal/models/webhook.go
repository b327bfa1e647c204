package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Webhook result status constants
const (
	WebhookStatusSuccess  = "success"
	WebhookStatusFallback = "fallback"
	WebhookStatusError    = "error"
)

// ActionAskForFicha is returned on the fallback path when no session id
// could be extracted or recovered
const ActionAskForFicha = "ASK_FOR_FICHA"

// WebhookPayload is the raw inbound message payload. The gateway uses two
// alternate spellings for the sender and message id fields; both are
// accepted here and resolved by Normalize.
type WebhookPayload struct {
	Message      string `json:"message"`
	From         string `json:"from"`
	PhoneNumber  string `json:"phone_number"`
	MessageID    string `json:"messageId"`
	MessageIDAlt string `json:"message_id"`
}

// WebhookMessage is the parsed, validated form of a webhook payload
type WebhookMessage struct {
	Text        string
	PhoneNumber string
	MessageID   string
}

// Normalize resolves alternate field spellings and strips the messaging
// network suffixes from the sender identifier. Returns ErrMalformedPayload
// when any required field is missing.
func (p *WebhookPayload) Normalize() (*WebhookMessage, error) {
	text := strings.TrimSpace(p.Message)

	phone := p.From
	if phone == "" {
		phone = p.PhoneNumber
	}
	phone = strings.ReplaceAll(phone, "@s.whatsapp.net", "")
	phone = strings.ReplaceAll(phone, "@g.us", "")

	messageID := p.MessageID
	if messageID == "" {
		messageID = p.MessageIDAlt
	}

	if text == "" || phone == "" || messageID == "" {
		return nil, ErrMalformedPayload
	}

	return &WebhookMessage{
		Text:        text,
		PhoneNumber: phone,
		MessageID:   messageID,
	}, nil
}

// WebhookResult is the JSON body returned by the webhook handler. The
// handler always answers 200; failures are carried in Status.
type WebhookResult struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	MessageID    string `json:"message_id,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Source       string `json:"source,omitempty"`
	LeadType     string `json:"lead_type,omitempty"`
	Authorized   bool   `json:"authorized,omitempty"`
	Action       string `json:"action,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Response     string `json:"response"`
	ResponseType string `json:"response_type,omitempty"`
	CurrentStep  string `json:"current_step,omitempty"`
	MessageCount int    `json:"message_count,omitempty"`
}

// OrchestratorResponse is the reply of the orchestration engine
type OrchestratorResponse struct {
	Response     string `json:"response"`
	ResponseType string `json:"response_type"`
	CurrentStep  string `json:"current_step"`
	MessageCount int    `json:"message_count"`
}

// MessageLogEntry is the MongoDB audit record written for each processed
// webhook message
type MessageLogEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MessageID    string             `bson:"message_id" json:"message_id"`
	SessionID    string             `bson:"session_id" json:"session_id"`
	PhoneNumber  string             `bson:"phone_number" json:"phone_number"`
	Status       string             `bson:"status" json:"status"`
	ResponseType string             `bson:"response_type" json:"response_type"`
	ReceivedAt   time.Time          `bson:"received_at" json:"received_at"`
}
