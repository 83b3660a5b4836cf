package handler

import (
	"net/http"

	"anoa.com/reviewrewards/internal/modules/redemption/dto"
	redemption "anoa.com/reviewrewards/internal/modules/redemption/service"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"anoa.com/reviewrewards/pkg/response"
	"anoa.com/reviewrewards/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	service redemption.RedemptionService
}

func NewRedemptionHandler(service redemption.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{service: service}
}

func (h *RedemptionHandler) CreateRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RedemptionHandler) GetRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}
	requestID, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}

	isAdmin := c.GetBool("is_admin")
	resp, err := h.service.GetRequest(c.Request.Context(), userID, requestID, isAdmin)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RedemptionHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.RedemptionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RedemptionHandler) List(c *gin.Context) {
	var filter dto.RedemptionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RedemptionHandler) Approve(c *gin.Context) {
	h.adjudicate(c, true)
}

func (h *RedemptionHandler) Reject(c *gin.Context) {
	h.adjudicate(c, false)
}

func (h *RedemptionHandler) adjudicate(c *gin.Context, approve bool) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}
	requestID, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}

	var req dto.AdjudicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if approve {
		err = h.service.Approve(c.Request.Context(), adminID, requestID, req.Notes)
	} else {
		err = h.service.Reject(c.Request.Context(), adminID, requestID, req.Notes)
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message := "redemption approved"
	if !approve {
		message = "redemption rejected and points refunded"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
