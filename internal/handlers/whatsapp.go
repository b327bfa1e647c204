package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlima-digital/whatsapp-bridge/internal/config"
	"github.com/mlima-digital/whatsapp-bridge/internal/models"
	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"github.com/mlima-digital/whatsapp-bridge/internal/services"
	"github.com/mlima-digital/whatsapp-bridge/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Fixed user-facing messages. The bridge fronts a Brazilian law office;
// all canned copy is Portuguese.
const (
	fallbackPrompt = "Olá! Para continuar o atendimento, precisamos identificar sua ficha.\n\n ⚠️ Clique no botão da nossa landing page para gerar sua ficha e voltar aqui."

	greetingMessage = "Olá, Bem-vindo ao escritório m.lima!⚖️ Vou te ajudar com algumas perguntas rápidas para entendermos melhor seu caso."

	// sent instead of any engine reply that asks for a phone number; the
	// number is already known from the channel
	phoneFollowUpReply = "Obrigado pelos detalhes! 📝\n\nVocê já reuniu documentos/provas sobre essa situação ou ainda não?"

	emptyResponseReply = "Obrigado pela sua mensagem! Nossa equipe entrará em contato em breve."

	genericApology = "Desculpe, ocorreu um erro temporário. Tente novamente em alguns minutos."
)

// WhatsAppHandlers bundles the webhook and authorization endpoints with
// their collaborators
type WhatsAppHandlers struct {
	cfg          *config.Config
	logger       *zap.Logger
	auth         *services.AuthorizationService
	orchestrator services.Orchestrator
	gateway      services.Gateway
	messageLog   *services.MessageLog
	limiter      *services.RateLimiter
}

// NewWhatsAppHandlers creates the WhatsApp handler set
func NewWhatsAppHandlers(cfg *config.Config, logger *zap.Logger, auth *services.AuthorizationService, orchestrator services.Orchestrator, gateway services.Gateway, messageLog *services.MessageLog, limiter *services.RateLimiter) *WhatsAppHandlers {
	return &WhatsAppHandlers{
		cfg:          cfg,
		logger:       logger,
		auth:         auth,
		orchestrator: orchestrator,
		gateway:      gateway,
		messageLog:   messageLog,
		limiter:      limiter,
	}
}

// VerifyWebhook godoc
// @Summary Verificação do webhook do WhatsApp
// @Description Handshake de verificação: responde o challenge quando o token confere.
// @Tags whatsapp
// @Produce plain
// @Param hub.mode query string true "Modo de verificação"
// @Param hub.verify_token query string true "Token de verificação"
// @Param hub.challenge query string true "Challenge a ser ecoado"
// @Success 200 {string} string "challenge"
// @Failure 403 {string} string "Forbidden"
// @Router /whatsapp/webhook [get]
func (h *WhatsAppHandlers) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.cfg.VerifyToken {
		h.logger.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.logger.Warn("webhook verification failed", zap.String("mode", mode))
	c.String(http.StatusForbidden, "Forbidden")
}

// ReceiveMessage godoc
// @Summary Webhook de mensagens do WhatsApp
// @Description Processa uma mensagem recebida: autoriza a sessão, delega ao orquestrador e envia a resposta.
// @Tags whatsapp
// @Accept json
// @Produce json
// @Param data body models.WebhookPayload true "Mensagem recebida"
// @Success 200 {object} models.WebhookResult
// @Router /whatsapp/webhook [post]
func (h *WhatsAppHandlers) ReceiveMessage(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ReceiveMessage")
	defer span.End()

	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.rejectPayload(c, err)
		return
	}

	msg, err := payload.Normalize()
	if err != nil {
		h.rejectPayload(c, err)
		return
	}

	span.SetAttributes(attribute.String("message_id", msg.MessageID))

	logger := h.logger.With(
		zap.String("message_id", msg.MessageID),
		zap.String("phone_number", observability.MaskPhone(msg.PhoneNumber)))

	if h.limiter != nil && !h.limiter.Allow(ctx, "webhook") {
		observability.WebhookMessages.WithLabelValues("rate_limited").Inc()
		c.JSON(http.StatusOK, models.WebhookResult{
			Status:       models.WebhookStatusError,
			Message:      "rate limited",
			MessageID:    msg.MessageID,
			PhoneNumber:  msg.PhoneNumber,
			ResponseType: "error_message",
			Response:     genericApology,
		})
		return
	}

	sessionID := utils.ExtractSessionID(msg.Text)
	if sessionID == "" {
		sessionID, err = h.auth.RecoverSessionID(ctx, msg.PhoneNumber)
		if err != nil {
			h.internalError(c, msg, err, logger)
			return
		}
		if sessionID == "" {
			logger.Info("no session id found, answering fallback")
			observability.WebhookMessages.WithLabelValues(models.WebhookStatusFallback).Inc()
			result := models.WebhookResult{
				Status:      models.WebhookStatusFallback,
				PhoneNumber: msg.PhoneNumber,
				MessageID:   msg.MessageID,
				Action:      models.ActionAskForFicha,
				Reason:      "no_session_id_in_message",
				Response:    fallbackPrompt,
			}
			// the fallback text goes back to the webhook caller only,
			// nothing is pushed through the gateway on this path
			h.messageLog.Record(ctx, models.MessageLogEntry{
				MessageID:   msg.MessageID,
				PhoneNumber: msg.PhoneNumber,
				Status:      result.Status,
			})
			c.JSON(http.StatusOK, result)
			return
		}
		logger.Info("session recovered by phone number", zap.String("session_id", sessionID))
	}

	authCheck := h.auth.Check(ctx, sessionID)
	if !authCheck.Authorized {
		logger.Info("session not authorized, creating authorization",
			zap.String("session_id", sessionID),
			zap.String("reason", authCheck.Reason))

		record, err := h.auth.Create(ctx, sessionID, msg.PhoneNumber, "", nil)
		if err != nil {
			h.internalError(c, msg, err, logger)
			return
		}
		authCheck = &models.AuthorizationStatus{
			Authorized:   true,
			Action:       models.ActionRespond,
			SessionID:    sessionID,
			Source:       record.Source,
			UserData:     record.UserData,
			AuthorizedAt: record.AuthorizedAt,
			LeadType:     record.LeadType,
		}

		// first contact: greet before the engine reply
		if err := h.gateway.Send(ctx, msg.PhoneNumber, greetingMessage); err != nil {
			h.internalError(c, msg, err, logger)
			return
		}
		logger.Info("greeting sent")
	}

	engineResp, err := h.orchestrator.Process(ctx, msg.Text, sessionID, msg.PhoneNumber, models.PlatformWhatsApp)
	if err != nil {
		h.internalError(c, msg, err, logger)
		return
	}

	response := engineResp.Response
	lower := strings.ToLower(response)
	if strings.Contains(lower, "telefone") || strings.Contains(lower, "whatsapp") {
		logger.Info("engine asked for phone number, overriding reply")
		response = phoneFollowUpReply
	}
	if strings.TrimSpace(response) == "" {
		logger.Warn("empty engine response, using fallback reply")
		response = emptyResponseReply
	}

	if err := h.gateway.Send(ctx, msg.PhoneNumber, response); err != nil {
		h.internalError(c, msg, err, logger)
		return
	}

	source := authCheck.Source
	if source == "" {
		source = models.SourceLandingPage
	}
	leadType := authCheck.LeadType
	if leadType == "" {
		leadType = models.LeadTypeContinuousChat
	}

	result := models.WebhookResult{
		Status:       models.WebhookStatusSuccess,
		MessageID:    msg.MessageID,
		SessionID:    sessionID,
		PhoneNumber:  msg.PhoneNumber,
		Source:       source,
		LeadType:     leadType,
		Authorized:   true,
		Response:     response,
		ResponseType: engineResp.ResponseType,
		CurrentStep:  engineResp.CurrentStep,
		MessageCount: engineResp.MessageCount,
	}

	h.messageLog.Record(ctx, models.MessageLogEntry{
		MessageID:    msg.MessageID,
		SessionID:    sessionID,
		PhoneNumber:  msg.PhoneNumber,
		Status:       result.Status,
		ResponseType: result.ResponseType,
	})

	observability.WebhookMessages.WithLabelValues(models.WebhookStatusSuccess).Inc()
	c.JSON(http.StatusOK, result)
}

// rejectPayload answers a malformed webhook payload. The result carries
// the error, nothing is sent through the gateway.
func (h *WhatsAppHandlers) rejectPayload(c *gin.Context, err error) {
	h.logger.Warn("invalid webhook payload", zap.Error(err))
	observability.WebhookMessages.WithLabelValues("rejected").Inc()
	c.JSON(http.StatusOK, models.WebhookResult{
		Status:   models.WebhookStatusError,
		Message:  "Invalid payload",
		Response: "Erro: mensagem inválida",
	})
}

// internalError maps any failure of the webhook flow to the uniform error
// payload with the fixed apology. Internal detail is logged, never sent to
// the message recipient.
func (h *WhatsAppHandlers) internalError(c *gin.Context, msg *models.WebhookMessage, err error, logger *zap.Logger) {
	logger.Error("webhook processing failed", zap.Error(err))
	observability.WebhookMessages.WithLabelValues(models.WebhookStatusError).Inc()

	result := models.WebhookResult{
		Status:       models.WebhookStatusError,
		Message:      err.Error(),
		MessageID:    msg.MessageID,
		PhoneNumber:  msg.PhoneNumber,
		ResponseType: "error_message",
		Response:     genericApology,
	}
	h.messageLog.Record(c.Request.Context(), models.MessageLogEntry{
		MessageID:   msg.MessageID,
		PhoneNumber: msg.PhoneNumber,
		Status:      result.Status,
	})
	c.JSON(http.StatusOK, result)
}

// Authorize godoc
// @Summary Autoriza uma sessão de WhatsApp
// @Description Valida sessão e telefone e persiste a autorização com janela de 1 hora.
// @Tags whatsapp
// @Accept json
// @Produce json
// @Param data body models.AuthorizeRequest true "Autorização solicitada"
// @Success 200 {object} models.AuthorizeResponse
// @Failure 400 {object} models.AuthorizeResponse
// @Router /whatsapp/authorize [post]
func (h *WhatsAppHandlers) Authorize(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Authorize")
	defer span.End()

	var req models.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.AuthorizeResponse{
			Status:    models.WebhookStatusError,
			Message:   "Erro ao autorizar: " + models.ErrMalformedPayload.Error(),
			Timestamp: models.NewTimestamp(time.Now()),
		})
		return
	}
	if req.Source == "" {
		req.Source = models.SourceLandingPage
	}

	sessionID, err := utils.NormalizeSessionID(req.SessionID)
	if err != nil {
		h.authorizeError(c, &req, err)
		return
	}

	phone, err := utils.NormalizePhone(req.PhoneNumber)
	if err != nil {
		h.authorizeError(c, &req, err)
		return
	}

	if _, err := h.auth.Create(ctx, sessionID, phone, req.Source, req.UserData); err != nil {
		h.authorizeError(c, &req, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthorizeResponse{
		Status:      "authorized",
		SessionID:   sessionID,
		PhoneNumber: phone,
		Source:      req.Source,
		Message:     "Sessão autorizada com sucesso",
		Timestamp:   models.NewTimestamp(time.Now()),
		ExpiresIn:   int(h.cfg.SessionAuthTTL.Seconds()),
		WhatsAppURL: utils.WhatsAppDeepLink(phone),
	})
}

// authorizeError answers a failed authorization, echoing back the raw
// request values
func (h *WhatsAppHandlers) authorizeError(c *gin.Context, req *models.AuthorizeRequest, err error) {
	h.logger.Error("authorization failed",
		zap.String("session_id", req.SessionID),
		zap.Error(err))

	c.JSON(http.StatusOK, models.AuthorizeResponse{
		Status:      models.WebhookStatusError,
		SessionID:   req.SessionID,
		PhoneNumber: req.PhoneNumber,
		Source:      req.Source,
		Message:     "Erro ao autorizar: " + err.Error(),
		Timestamp:   models.NewTimestamp(time.Now()),
		ExpiresIn:   0,
		WhatsAppURL: "",
	})
}
