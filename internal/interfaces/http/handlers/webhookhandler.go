package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appgateway "tably/internal/application/billing/gateway"
	"tably/internal/application/billing/usecases"
	"tably/internal/shared/logger"
	"tably/internal/shared/utils"
)

const (
	// SignatureHeader carries the hex HMAC of the raw request body.
	SignatureHeader = "X-Signature"
	// maxWebhookBodySize caps webhook payloads (64KB)
	maxWebhookBodySize = 64 << 10
)

type webhookSignatureVerifier interface {
	Verify(body []byte, signature string) error
}

type webhookEventDecoder interface {
	Decode(body []byte) (*appgateway.WebhookEvent, error)
}

type processWebhookEventUseCase interface {
	Execute(ctx context.Context, cmd usecases.ProcessWebhookEventCommand) error
}

// WebhookHandler receives payment gateway webhook deliveries. The body is
// authenticated before it is parsed; nothing in an unverified body is
// trusted, logged, or echoed back.
type WebhookHandler struct {
	verifier  webhookSignatureVerifier
	decoder   webhookEventDecoder
	processUC processWebhookEventUseCase
	logger    logger.Interface
}

func NewWebhookHandler(
	verifier webhookSignatureVerifier,
	decoder webhookEventDecoder,
	processUC processWebhookEventUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		decoder:   decoder,
		processUC: processUC,
		logger:    logger,
	}
}

// HandleWebhook godoc
// @Summary Receive a payment gateway webhook delivery
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string true "Hex HMAC-SHA256 of the raw body"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /webhooks/gateway [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize+1))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxWebhookBodySize {
		h.logger.Warnw("webhook body exceeds size limit", "size", len(body))
		utils.ErrorResponse(c, http.StatusBadRequest, "request body too large")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		h.logger.Warnw("webhook delivery without signature", "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusBadRequest, "missing webhook signature")
		return
	}

	// Neither the configured secret nor any computed digest appears in logs
	// or responses.
	if err := h.verifier.Verify(body, signature); err != nil {
		h.logger.Warnw("webhook signature verification failed", "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	event, err := h.decoder.Decode(body)
	if err != nil {
		h.logger.Warnw("failed to decode webhook event", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if err := h.processUC.Execute(c.Request.Context(), usecases.ProcessWebhookEventCommand{Event: *event}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ok", nil)
}
