package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mlima-digital/whatsapp-bridge/internal/models"
)

var illegalSessionChars = regexp.MustCompile("[<>\"'\\\\\n\r\t]")

// sessionPatterns are checked in priority order; the first match wins.
// They cover the ids minted by the landing page, the web chat widget and
// the printable "Ficha" tag.
var sessionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)whatsapp_\w+_\w+`),
	regexp.MustCompile(`(?i)session_[\w-]+`),
	regexp.MustCompile(`(?i)web_\d+`),
	regexp.MustCompile(`(?i)[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`),
	regexp.MustCompile(`(?i)\[Ficha:[^\]]+\]`),
}

// NormalizeSessionID validates an opaque session identifier. 36-character
// ids must parse as UUIDs; control and HTML-special characters are
// rejected everywhere.
func NormalizeSessionID(raw string) (string, error) {
	if len(raw) < 10 {
		return "", models.ErrSessionTooShort
	}

	if len(raw) == 36 {
		if _, err := uuid.Parse(raw); err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrInvalidUUID, err)
		}
	}

	if illegalSessionChars.MatchString(raw) {
		return "", models.ErrIllegalCharacters
	}

	return strings.TrimSpace(raw), nil
}

// ExtractSessionID scans a message text for an embedded session id and
// returns the first matching substring verbatim, or "" if none matches.
func ExtractSessionID(message string) string {
	if message == "" {
		return ""
	}

	for _, pattern := range sessionPatterns {
		if match := pattern.FindString(message); match != "" {
			return match
		}
	}

	return ""
}
