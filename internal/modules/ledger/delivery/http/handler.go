package handler

import (
	"net/http"

	"anoa.com/reviewrewards/internal/modules/ledger/dto"
	ledger "anoa.com/reviewrewards/internal/modules/ledger/service"
	"anoa.com/reviewrewards/pkg/response"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service ledger.LedgerService
}

func NewLedgerHandler(service ledger.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	points, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{UserID: userID, Points: points})
}

func (h *LedgerHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// AdjustPoints is admin-only, wired behind RequireAdmin.
func (h *LedgerHandler) AdjustPoints(c *gin.Context) {
	var req dto.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newBalance, err := h.service.AdjustPoints(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "points adjusted", "new_balance": newBalance})
}
