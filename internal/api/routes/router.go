package routes

import (
	"net/http"

	"github.com/caseflow/ratingbot/internal/api/handlers"
	"github.com/caseflow/ratingbot/internal/api/middleware"
	"github.com/caseflow/ratingbot/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	interactionHandler *handlers.InteractionHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(interactionHandler *handlers.InteractionHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		interactionHandler: interactionHandler,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Interaction endpoints
	r.mux.HandleFunc("POST /api/interactions/callback", r.interactionHandler.SubmitCallback)
	r.mux.HandleFunc("POST /api/interactions/message", r.interactionHandler.SubmitMessage)

	// Case engine events
	r.mux.HandleFunc("POST /api/events/case-completed", r.interactionHandler.CaseCompleted)

	var handler http.Handler = r.mux
	handler = middleware.MetricsMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}
