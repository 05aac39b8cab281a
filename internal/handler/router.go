package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/realty/internal/async"
	"github.com/w-h-a/realty/internal/service/chat"
	"github.com/w-h-a/realty/internal/service/source"
)

// Router assembles the API surface. CORS is left to the caller so that
// preflight requests are answered even for unmatched methods.
func Router(
	sources *source.Service,
	chatService *chat.Service,
	runner *async.Runner,
) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Real Estate RAG Assistant API",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"data_sources": "/api/data-sources",
				"ingest":       "/api/ingest",
				"chat":         "/api/chat",
			},
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	sourcesHandler := NewSourcesHandler(sources)
	api.HandleFunc("/data-sources", sourcesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/data-sources", sourcesHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/data-sources/{id}", sourcesHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/data-sources/{id}", sourcesHandler.Delete).Methods(http.MethodDelete)

	ingestHandler := NewIngestHandler(runner)
	api.HandleFunc("/ingest", ingestHandler.Trigger).Methods(http.MethodPost)
	api.HandleFunc("/ingest/status", ingestHandler.Status).Methods(http.MethodGet)

	chatHandler := NewChatHandler(chatService)
	api.HandleFunc("/chat", chatHandler.Chat).Methods(http.MethodPost)

	return router
}
