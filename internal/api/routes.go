package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check (public)
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Protected device status routes
	r.Route("/device", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.HandleGetDevice)
		r.Get("/interfaces", s.HandleGetInterfaces)
		r.Get("/channel", s.HandleGetChannel)
		r.Get("/channels/{band}", s.HandleGetSupportedChannels)
		r.Get("/qos", s.HandleGetQoS)
		r.Get("/aggregation", s.HandleGetAggregation)
		r.Get("/stats", s.HandleGetStats)
	})
}
