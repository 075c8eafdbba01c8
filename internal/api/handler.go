package api

import (
	"crewops-backend/internal/notification"
	"crewops-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	webpush    *webpush.Options
	dispatcher *notification.Dispatcher
	pool       *notification.WorkerPool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, d *notification.Dispatcher, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:      s,
		webpush:    webpushOptions,
		dispatcher: d,
		pool:       pool,
	}
}
