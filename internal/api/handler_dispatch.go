package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crewops-backend/internal/notification"
)

// DispatchNotification accepts a domain event and fans it out. The
// default is synchronous: the response carries the aggregate outcome
// list. With ?async=true the event is queued on the worker pool and
// the caller gets an immediate 202; business code that must never wait
// on delivery uses that path.
func (h *Handler) DispatchNotification(c *gin.Context) {
	var e notification.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventType is required"})
		return
	}

	if c.Query("async") == "true" {
		h.pool.Enqueue(e)
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	res := h.dispatcher.Dispatch(c.Request.Context(), e)
	c.JSON(http.StatusOK, res)
}
