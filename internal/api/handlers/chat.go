// HTTP handler for the chat endpoint. Translates requests into
// domain/chat.Dispatcher calls and maps the typed dispatch errors to HTTP
// codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mercurylabs/mercury/internal/domain/agent"
	"github.com/mercurylabs/mercury/internal/domain/chat"
	"github.com/mercurylabs/mercury/internal/infra/llm"
)

// ChatDispatcher is the domain collaborator for ChatHandler.
type ChatDispatcher interface {
	Dispatch(ctx context.Context, req chat.Request) (string, error)
}

// ChatHandler handles POST /api/chat.
type ChatHandler struct {
	dispatcher ChatDispatcher
}

func NewChatHandler(dispatcher ChatDispatcher) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher}
}

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Model   string `json:"model"`
	Message string `json:"message"`
}

// ChatResponse is the response body for a successful chat turn.
type ChatResponse struct {
	Text string `json:"text"`
}

// Chat handles POST /api/chat.
//
// Response codes:
//   - 200 OK: normalized response text
//   - 400 Bad Request: invalid JSON or empty message
//   - 501 Not Implemented: backend family is declared but not wired
//   - 500 Internal Server Error: missing credential, backend or agent failure
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.dispatcher.Dispatch(r.Context(), chat.Request{Model: req.Model, Message: req.Message})
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Text: text})
}

// writeChatError maps dispatch errors to status codes without losing the
// diagnostic detail the client-side console shows.
func writeChatError(w http.ResponseWriter, err error) {
	var missing *llm.MissingCredentialError
	var backend *llm.BackendError
	var agentErr *agent.AgentError

	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.As(err, &missing):
		writeError(w, http.StatusInternalServerError, missing.Error())
	case errors.As(err, &backend):
		writeErrorDetails(w, http.StatusInternalServerError, "model backend request failed", backend.Error())
	case errors.As(err, &agentErr):
		writeErrorDetails(w, http.StatusInternalServerError, "agent execution failed", agentErr.Stderr)
	case errors.Is(err, agent.ErrUnrecognizedFormat):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "chat request failed")
	}
}
