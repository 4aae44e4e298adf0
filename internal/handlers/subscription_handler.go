package handlers

import (
	"net/http"

	"github.com/LocalStoryMap/Oz-Backand/internal/dto"
	"github.com/LocalStoryMap/Oz-Backand/internal/services"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(authMW)
	{
		subscriptions.GET("", h.ListSubscriptions)
		subscriptions.POST("", h.CreateSubscription)
		subscriptions.GET("/:subscriptionId", h.GetSubscription)
		subscriptions.DELETE("/:subscriptionId", h.CancelSubscription)
	}
}

// ListSubscriptions returns the caller's full subscription history,
// newest first, active and expired alike.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": dto.NewSubscriptionListResponse(subs),
		"total":         len(subs),
	})
}

// CreateSubscription verifies a completed gateway charge and provisions
// entitlement. Replays of an already-provisioned order return the existing
// subscription unchanged.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Provision(c.Request.Context(), userID, req.ImpUID, req.MerchantUID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSubscriptionResponse(sub))
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), userID, c.Param("subscriptionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubscriptionResponse(sub))
}

// CancelSubscription refunds the charge at the gateway and deactivates the
// subscription. Gateway failure leaves the subscription active.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), userID, c.Param("subscriptionId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
