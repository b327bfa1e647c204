package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPayload_Normalize(t *testing.T) {
	payload := &WebhookPayload{
		Message:   "oi, tudo bem?",
		From:      "5511987654321@s.whatsapp.net",
		MessageID: "ABCD1234",
	}

	msg, err := payload.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "oi, tudo bem?", msg.Text)
	assert.Equal(t, "5511987654321", msg.PhoneNumber)
	assert.Equal(t, "ABCD1234", msg.MessageID)
}

func TestWebhookPayload_Normalize_AlternateFields(t *testing.T) {
	payload := &WebhookPayload{
		Message:      "mensagem",
		PhoneNumber:  "5511987654321@g.us",
		MessageIDAlt: "msg-42",
	}

	msg, err := payload.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", msg.PhoneNumber)
	assert.Equal(t, "msg-42", msg.MessageID)
}

func TestWebhookPayload_Normalize_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload WebhookPayload
	}{
		{"empty message", WebhookPayload{From: "5511987654321", MessageID: "id"}},
		{"whitespace message", WebhookPayload{Message: "   ", From: "5511987654321", MessageID: "id"}},
		{"missing sender", WebhookPayload{Message: "oi", MessageID: "id"}},
		{"missing message id", WebhookPayload{Message: "oi", From: "5511987654321"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.payload.Normalize()
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
