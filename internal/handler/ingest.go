package handler

import (
	"net/http"

	"github.com/w-h-a/realty/internal/async"
)

type ingestHandler struct {
	runner *async.Runner
}

func (h *ingestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if started := h.runner.Submit(r.Context()); !started {
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Data ingestion already in progress"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Data ingestion started"})
}

func (h *ingestHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runner.Snapshot())
}

func NewIngestHandler(runner *async.Runner) *ingestHandler {
	return &ingestHandler{
		runner: runner,
	}
}
