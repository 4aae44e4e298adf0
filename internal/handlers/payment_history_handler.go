package handlers

import (
	"net/http"

	"github.com/LocalStoryMap/Oz-Backand/internal/dto"
	"github.com/LocalStoryMap/Oz-Backand/internal/services"
	"github.com/gin-gonic/gin"
)

type PaymentHistoryHandler struct {
	*BaseHandler
	historyService services.PaymentHistoryService
}

func NewPaymentHistoryHandler(base *BaseHandler, historyService services.PaymentHistoryService) *PaymentHistoryHandler {
	return &PaymentHistoryHandler{
		BaseHandler:    base,
		historyService: historyService,
	}
}

func (h *PaymentHistoryHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	payments := r.Group("/payments")
	payments.Use(authMW)
	{
		payments.GET("/history", h.ListHistory)
		payments.GET("/history/:historyId", h.GetHistory)
		payments.DELETE("/history/:historyId", h.DeleteHistory)
	}
}

func (h *PaymentHistoryHandler) ListHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	histories, err := h.historyService.ListHistory(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": dto.NewPaymentHistoryListResponse(histories),
		"total":    len(histories),
	})
}

func (h *PaymentHistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	history, err := h.historyService.GetHistory(c.Request.Context(), userID, c.Param("historyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaymentHistoryResponse(history))
}

// DeleteHistory hides the row from the user's listing. The underlying
// ledger row is kept.
func (h *PaymentHistoryHandler) DeleteHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.historyService.DeleteHistory(c.Request.Context(), userID, c.Param("historyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment history deleted"})
}
