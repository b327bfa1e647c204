package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"go.uber.org/zap"
)

// AuthorizationService manages session authorization records in the
// session store. Records live for the configured authorization window;
// the store never evicts them, staleness is checked on read.
type AuthorizationService struct {
	store  SessionStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(store SessionStore, ttl time.Duration, logger *zap.Logger) *AuthorizationService {
	return &AuthorizationService{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Check determines whether a session is authorized to receive automated
// replies. It never returns an error; store failures map to an
// unauthorized result with reason "error".
func (s *AuthorizationService) Check(ctx context.Context, sessionID string) *models.AuthorizationStatus {
	if sessionID == "" {
		observability.AuthorizationChecks.WithLabelValues(models.ReasonNoSessionID).Inc()
		return &models.AuthorizationStatus{
			Authorized: false,
			Action:     models.ActionIgnore,
			Reason:     models.ReasonNoSessionID,
		}
	}

	record, err := s.store.Get(ctx, AuthSessionKey(sessionID))
	if err != nil {
		s.logger.Error("failed to check authorization",
			zap.String("session_id", sessionID),
			zap.Error(err))
		observability.AuthorizationChecks.WithLabelValues(models.ReasonError).Inc()
		return &models.AuthorizationStatus{
			Authorized: false,
			Action:     models.ActionIgnore,
			Reason:     models.ReasonError,
			Error:      err.Error(),
		}
	}

	if record == nil {
		observability.AuthorizationChecks.WithLabelValues(models.ReasonSessionNotAuthorized).Inc()
		return &models.AuthorizationStatus{
			Authorized: false,
			Action:     models.ActionIgnore,
			Reason:     models.ReasonSessionNotAuthorized,
		}
	}

	if expiresAt, _ := record["expires_at"].(string); expiresAt != "" {
		parsed, perr := time.Parse(time.RFC3339, expiresAt)
		if perr != nil {
			// fail open: an unreadable expiry must not lock the user out
			s.logger.Warn("failed to parse authorization expiry",
				zap.String("session_id", sessionID),
				zap.String("expires_at", expiresAt),
				zap.Error(perr))
		} else if s.now().After(parsed) {
			observability.AuthorizationChecks.WithLabelValues(models.ReasonSessionExpired).Inc()
			return &models.AuthorizationStatus{
				Authorized: false,
				Action:     models.ActionIgnore,
				Reason:     models.ReasonSessionExpired,
			}
		}
	}

	status := &models.AuthorizationStatus{
		Authorized: true,
		Action:     models.ActionRespond,
		SessionID:  sessionID,
		LeadType:   models.LeadTypeContinuousChat,
	}
	if source, _ := record["source"].(string); source != "" {
		status.Source = source
	}
	if userData, _ := record["user_data"].(map[string]interface{}); userData != nil {
		status.UserData = userData
	}
	if authorizedAt, _ := record["authorized_at"].(string); authorizedAt != "" {
		status.AuthorizedAt = authorizedAt
	}
	if leadType, _ := record["lead_type"].(string); leadType != "" {
		status.LeadType = leadType
	}

	observability.AuthorizationChecks.WithLabelValues("authorized").Inc()
	return status
}

// Create builds and persists a new authorization record together with the
// phone index entry pointing back at it. Store write failures propagate;
// there is no rollback between the two writes.
func (s *AuthorizationService) Create(ctx context.Context, sessionID, phoneNumber, source string, userData map[string]interface{}) (*models.AuthorizationRecord, error) {
	if source == "" {
		source = models.SourceLandingPage
	}
	if userData == nil {
		userData = map[string]interface{}{}
	}

	now := s.now()
	record := &models.AuthorizationRecord{
		PhoneNumber:      phoneNumber,
		Source:           source,
		UserData:         userData,
		AuthorizedAt:     models.NewTimestamp(now),
		ExpiresAt:        models.NewTimestamp(now.Add(s.ttl)),
		LeadType:         models.LeadTypeLandingWhatsApp,
		FirstInteraction: true,
	}

	value := map[string]interface{}{
		"phone_number":      record.PhoneNumber,
		"source":            record.Source,
		"user_data":         record.UserData,
		"authorized_at":     record.AuthorizedAt,
		"expires_at":        record.ExpiresAt,
		"lead_type":         record.LeadType,
		"first_interaction": record.FirstInteraction,
	}
	if err := s.store.Set(ctx, AuthSessionKey(sessionID), value); err != nil {
		s.logger.Error("failed to save authorization",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save authorization: %w", err)
	}

	index := map[string]interface{}{"session_id": sessionID}
	if err := s.store.Set(ctx, PhoneIndexKey(phoneNumber), index); err != nil {
		s.logger.Error("failed to save phone index",
			zap.String("session_id", sessionID),
			zap.String("phone_number", observability.MaskPhone(phoneNumber)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save phone index: %w", err)
	}

	s.logger.Info("authorization saved",
		zap.String("session_id", sessionID),
		zap.String("phone_number", observability.MaskPhone(phoneNumber)),
		zap.String("source", source),
		zap.Any("user_data", observability.MaskSensitiveData(userData)))

	return record, nil
}

// RecoverSessionID looks up the active session id for a phone number that
// sent a message without an embedded session identifier. Returns "" when
// no index record exists. The index is not invalidated alongside the
// authorization record, so the returned id may belong to an expired
// session.
func (s *AuthorizationService) RecoverSessionID(ctx context.Context, phoneNumber string) (string, error) {
	record, err := s.store.Get(ctx, PhoneIndexKey(phoneNumber))
	if err != nil {
		observability.SessionRecoveries.WithLabelValues("error").Inc()
		return "", err
	}
	if record == nil {
		observability.SessionRecoveries.WithLabelValues("miss").Inc()
		return "", nil
	}

	sessionID, _ := record["session_id"].(string)
	if sessionID == "" {
		observability.SessionRecoveries.WithLabelValues("miss").Inc()
		return "", nil
	}

	observability.SessionRecoveries.WithLabelValues("hit").Inc()
	return sessionID, nil
}
