package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crewops-backend/internal/model"
)

type putDeviceRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android"`
}

// PutDevice registers or refreshes a native device token.
func (h *Handler) PutDevice(c *gin.Context) {
	var req putDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tok := model.DeviceToken{
		UserID:   req.UserID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.store.UpsertDeviceToken(c.Request.Context(), &tok); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// DeleteDevice removes a native device token.
func (h *Handler) DeleteDevice(c *gin.Context) {
	var req deleteDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteDeviceToken(c.Request.Context(), req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
