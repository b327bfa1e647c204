package models

import "time"

// Action constants for authorization check results
const (
	ActionRespond = "RESPOND"
	ActionIgnore  = "IGNORE"
)

// Reason constants for unauthorized outcomes
const (
	ReasonNoSessionID          = "no_session_id"
	ReasonSessionNotAuthorized = "session_not_authorized"
	ReasonSessionExpired       = "session_expired"
	ReasonError                = "error"
)

// Source and lead type constants
const (
	SourceLandingPage      = "landing_page"
	LeadTypeLandingWhatsApp = "landing_whatsapp"
	LeadTypeContinuousChat  = "continuous_chat"
)

// PlatformWhatsApp is the platform tag passed to the orchestration engine
const PlatformWhatsApp = "whatsapp"

// AuthorizationRecord represents a session authorization stored in Redis.
// Timestamps are stored as RFC 3339 strings; the store never evicts the
// record, expiry is checked at read time.
type AuthorizationRecord struct {
	SessionID        string                 `json:"session_id,omitempty"`
	PhoneNumber      string                 `json:"phone_number"`
	Source           string                 `json:"source"`
	UserData         map[string]interface{} `json:"user_data"`
	AuthorizedAt     string                 `json:"authorized_at"`
	ExpiresAt        string                 `json:"expires_at"`
	LeadType         string                 `json:"lead_type"`
	FirstInteraction bool                   `json:"first_interaction"`
}

// PhoneIndexRecord points a phone number at its most recent session id.
// It is written alongside every AuthorizationRecord and may outlive the
// authorization window of the session it references.
type PhoneIndexRecord struct {
	SessionID string `json:"session_id"`
}

// AuthorizationStatus is the result of a session authorization check
type AuthorizationStatus struct {
	Authorized   bool                   `json:"authorized"`
	Action       string                 `json:"action"`
	Reason       string                 `json:"reason,omitempty"`
	SessionID    string                 `json:"session_id,omitempty"`
	Source       string                 `json:"source,omitempty"`
	UserData     map[string]interface{} `json:"user_data,omitempty"`
	AuthorizedAt string                 `json:"authorized_at,omitempty"`
	LeadType     string                 `json:"lead_type,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// AuthorizeRequest is the payload of the explicit authorization endpoint
type AuthorizeRequest struct {
	SessionID   string                 `json:"session_id"`
	PhoneNumber string                 `json:"phone_number"`
	Source      string                 `json:"source"`
	UserData    map[string]interface{} `json:"user_data"`
	Timestamp   string                 `json:"timestamp"`
}

// AuthorizeResponse is returned by the explicit authorization endpoint
type AuthorizeResponse struct {
	Status      string `json:"status"`
	SessionID   string `json:"session_id"`
	PhoneNumber string `json:"phone_number"`
	Source      string `json:"source"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	ExpiresIn   int    `json:"expires_in"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// NewTimestamp returns the RFC 3339 representation of t in UTC
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
