package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetActivityTypes lists the activity catalog used for fallback
// notification labels. Served through the response cache.
func (h *Handler) GetActivityTypes(c *gin.Context) {
	types, err := h.store.ActivityTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve activity types"})
		return
	}
	c.JSON(http.StatusOK, types)
}
