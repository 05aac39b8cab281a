package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/w-h-a/realty/internal/service/chat"
)

type chatHandler struct {
	chat *chat.Service
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *chatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Message)) == 0 {
		writeError(w, http.StatusBadRequest, "a message is required")
		return
	}

	answer := h.chat.Answer(r.Context(), req.Message)

	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

func NewChatHandler(service *chat.Service) *chatHandler {
	return &chatHandler{
		chat: service,
	}
}
