package services

import (
	"context"
	"time"

	"github.com/mlima-digital/whatsapp-bridge/internal/config"
	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"go.uber.org/zap"
)

// MessageLog writes an audit record for each processed webhook message.
// Writes are best effort: a failed insert is logged and never surfaces to
// the webhook caller.
type MessageLog struct {
	logger *zap.Logger
}

// NewMessageLog creates a new message log
func NewMessageLog(logger *zap.Logger) *MessageLog {
	return &MessageLog{logger: logger}
}

// Record persists a message log entry
func (l *MessageLog) Record(ctx context.Context, entry models.MessageLogEntry) {
	if config.MongoDB == nil {
		return
	}

	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now().UTC()
	}
	entry.PhoneNumber = observability.MaskPhone(entry.PhoneNumber)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := config.MongoDB.Collection(config.AppConfig.MessageLogCollection)
	if _, err := collection.InsertOne(ctx, entry); err != nil {
		l.logger.Warn("failed to write message log entry",
			zap.String("message_id", entry.MessageID),
			zap.Error(err))
	}
}
