package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/application/billing/usecases"
	"tably/internal/shared/logger"
	"tably/internal/shared/utils"
)

// SubscriptionHandler handles user subscription operations
type SubscriptionHandler struct {
	createUseCase    createSubscriptionUseCase
	getUseCase       getSubscriptionUseCase
	cancelUseCase    cancelSubscriptionUseCase
	abortUseCase     abortSubscriptionUseCase
	gatewayPublicKey string
	logger           logger.Interface
}

// NewSubscriptionHandler creates a new subscription handler. gatewayPublicKey
// is the gateway's publishable key id, handed to the caller so its checkout
// SDK can talk to the gateway directly.
func NewSubscriptionHandler(
	createUC createSubscriptionUseCase,
	getUC getSubscriptionUseCase,
	cancelUC cancelSubscriptionUseCase,
	abortUC abortSubscriptionUseCase,
	gatewayPublicKey string,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:    createUC,
		getUseCase:       getUC,
		cancelUseCase:    cancelUC,
		abortUseCase:     abortUC,
		gatewayPublicKey: gatewayPublicKey,
		logger:           logger,
	}
}

// CreateSubscriptionRequest represents the request to start a subscription checkout
type CreateSubscriptionRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// CreateSubscriptionResponse carries the pending record plus everything the
// caller needs to finish checkout: the gateway subscription id (also its
// handle for abort cleanup should the checkout go sideways), the gateway's
// publishable key, and the hosted checkout URL.
type CreateSubscriptionResponse struct {
	Subscription          *SubscriptionDTO `json:"subscription"`
	GatewaySubscriptionID string           `json:"gateway_subscription_id"`
	GatewayPublicKey      string           `json:"gateway_public_key"`
	CheckoutURL           string           `json:"checkout_url,omitempty"`
}

// AbortSubscriptionRequest optionally names a gateway subscription with no
// local record, left orphaned by a failed checkout persist.
type AbortSubscriptionRequest struct {
	GatewaySubscriptionID string `json:"gateway_subscription_id"`
}

// AbortSubscriptionResponse reports the freed record and whether the
// gateway-side cleanup went through.
type AbortSubscriptionResponse struct {
	Subscription         *SubscriptionDTO `json:"subscription,omitempty"`
	GatewayCleanupFailed bool             `json:"gateway_cleanup_failed"`
}

// CreateSubscription godoc
// @Summary Start a subscription checkout
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body CreateSubscriptionRequest true "Plan to subscribe to"
// @Success 201 {object} utils.APIResponse{data=CreateSubscriptionResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "plan_id is required")
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID: userID.(uint),
		PlanID: req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var gatewaySubscriptionID string
	if id := result.Subscription.GatewaySubscriptionID(); id != nil {
		gatewaySubscriptionID = *id
	}

	utils.CreatedResponse(c, CreateSubscriptionResponse{
		Subscription:          toSubscriptionDTO(result.Subscription),
		GatewaySubscriptionID: gatewaySubscriptionID,
		GatewayPublicKey:      h.gatewayPublicKey,
		CheckoutURL:           result.CheckoutURL,
	}, "Subscription checkout started")
}

// GetSubscription godoc
// @Summary Get the current user's subscription
// @Tags subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse{data=SubscriptionDTO}
// @Router /api/subscriptions/current [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	sub, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionCommand{
		UserID: userID.(uint),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toSubscriptionDTO(sub))
}

// CancelSubscription godoc
// @Summary Cancel the current user's subscription at the end of the paid period
// @Tags subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse{data=SubscriptionDTO}
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/subscriptions/current [delete]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		UserID: userID.(uint),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancellation recorded", toSubscriptionDTO(result.Subscription))
}

// AbortSubscription godoc
// @Summary Abort an unconfirmed subscription checkout
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body AbortSubscriptionRequest false "Optional orphaned gateway subscription id"
// @Success 200 {object} utils.APIResponse{data=AbortSubscriptionResponse}
// @Failure 409 {object} utils.APIResponse
// @Router /api/subscriptions/current/abort [post]
func (h *SubscriptionHandler) AbortSubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	// Body is optional; it only matters for orphan cleanup.
	var req AbortSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid request body for abort subscription", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.abortUseCase.Execute(c.Request.Context(), usecases.AbortSubscriptionCommand{
		UserID:                userID.(uint),
		GatewaySubscriptionID: req.GatewaySubscriptionID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkout aborted", AbortSubscriptionResponse{
		Subscription:         toSubscriptionDTO(result.Subscription),
		GatewayCleanupFailed: result.GatewayCleanupFailed,
	})
}
