package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/w-h-a/realty/internal/service/source"
	"github.com/w-h-a/realty/registry"
)

type sourcesHandler struct {
	sources *source.Service
}

type createSourceRequest struct {
	Url string `json:"url"`
}

func (h *sourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list data sources")
		return
	}

	writeJSON(w, http.StatusOK, sources)
}

func (h *sourcesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Url)) == 0 {
		writeError(w, http.StatusBadRequest, "a url is required")
		return
	}

	src, err := h.sources.Create(r.Context(), req.Url)
	if errors.Is(err, source.ErrDisallowedURL) || errors.Is(err, source.ErrDuplicateURL) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create data source")
		return
	}

	writeJSON(w, http.StatusOK, src)
}

func (h *sourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	src, err := h.sources.Get(r.Context(), id)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Data source not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get data source")
		return
	}

	writeJSON(w, http.StatusOK, src)
}

func (h *sourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deleted, err := h.sources.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete data source")
		return
	}

	if !deleted {
		writeError(w, http.StatusNotFound, "Data source not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Data source deleted successfully"})
}

func NewSourcesHandler(sources *source.Service) *sourcesHandler {
	return &sourcesHandler{
		sources: sources,
	}
}
