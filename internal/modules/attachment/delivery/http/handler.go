package handler

import (
	"net/http"

	attachment "anoa.com/reviewrewards/internal/modules/attachment/service"
	"anoa.com/reviewrewards/pkg/response"
	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	service attachment.AttachmentService
}

func NewAttachmentHandler(service attachment.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.UploadAttachment(c.Request.Context(), userID, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
