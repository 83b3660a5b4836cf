package handler

import (
	"net/http"

	"anoa.com/reviewrewards/internal/modules/mission/dto"
	mission "anoa.com/reviewrewards/internal/modules/mission/service"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"anoa.com/reviewrewards/pkg/response"
	"anoa.com/reviewrewards/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MissionHandler struct {
	service mission.MissionService
}

func NewMissionHandler(service mission.MissionService) *MissionHandler {
	return &MissionHandler{service: service}
}

func (h *MissionHandler) CreateMission(c *gin.Context) {
	var req dto.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.CreateMission(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *MissionHandler) UpdateMission(c *gin.Context) {
	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	id, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	var req dto.UpdateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.UpdateMission(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MissionHandler) DeleteMission(c *gin.Context) {
	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	id, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	if err := h.service.DeleteMission(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mission deleted"})
}

func (h *MissionHandler) GetMission(c *gin.Context) {
	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	id, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	resp, err := h.service.GetMission(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MissionHandler) ListMissions(c *gin.Context) {
	var filter dto.MissionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.ListMissions(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MissionHandler) Join(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	missionID, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	resp, err := h.service.Join(c.Request.Context(), userID, missionID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *MissionHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	missionID, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, missionID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *MissionHandler) Approve(c *gin.Context) {
	h.adjudicate(c, true)
}

func (h *MissionHandler) Reject(c *gin.Context) {
	h.adjudicate(c, false)
}

func (h *MissionHandler) adjudicate(c *gin.Context, approve bool) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param commonDto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}
	participationID, err := param.ParseID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participation id"})
		return
	}

	var req dto.AdjudicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if approve {
		err = h.service.Approve(c.Request.Context(), adminID, participationID, req.Notes)
	} else {
		err = h.service.Reject(c.Request.Context(), adminID, participationID, req.Notes)
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message := "participation approved"
	if !approve {
		message = "participation rejected"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *MissionHandler) ListParticipations(c *gin.Context) {
	var filter dto.ParticipationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.ListParticipations(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MissionHandler) ListMyParticipations(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.ParticipationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.ListMyParticipations(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
