package server

import (
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/health"
)

// Routes builds the API mux. The route table is the full public surface of
// the service; everything else is on the metrics port.
func (s *Server) Routes(checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /document", s.handleCreateDocument)
	mux.HandleFunc("PUT /document/{id}", s.handlePutDocument)
	mux.HandleFunc("GET /document/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /document/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("GET /search", s.handleSearch)

	mux.HandleFunc("GET /analytics", analytics.Handler(s.aggregator))
	mux.HandleFunc("GET /cache/stats", s.handleCacheStats)
	mux.HandleFunc("POST /cache/invalidate", s.handleCacheInvalidate)

	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	return mux
}
