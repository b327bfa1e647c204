package observability

import (
	"go.uber.org/zap"

	"github.com/mlima-digital/whatsapp-bridge/internal/logging"
)

// Logger returns the global logger instance
func Logger() *zap.Logger {
	return logging.Logger
}

// MaskPhone masks a phone number for logging, keeping country and area codes
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return "****"
	}
	return phone[:4] + "****" + phone[len(phone)-2:]
}

// MaskSensitiveData masks sensitive fields in a user data map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	sensitiveFields := []string{"phone_number", "telefone", "email", "cpf", "nome"}
	masked := make(map[string]interface{})

	for k, v := range data {
		if contains(sensitiveFields, k) {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}

	return masked
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
