package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aionysus/dionysus/internal/agent"
)

// aguiRequest is the agent-UI protocol payload. State and context were
// already consumed by the inbound bridge; the handler only needs the turns.
type aguiRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// handleAgui serves the agent-UI streaming protocol: named SSE events with
// incremental text chunks, an optional scene hint, and a closing done event.
// Failures become an error event followed by done, never a broken stream.
func (s *Server) handleAgui(w http.ResponseWriter, r *http.Request) {
	var req aguiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "messages must not be empty")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer cannot stream")
		return
	}

	turns := make([]agent.Turn, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case "user":
			turns = append(turns, agent.Turn{Role: agent.RoleUser, Text: msg.Content})
		case "assistant":
			turns = append(turns, agent.Turn{Role: agent.RoleAssistant, Text: msg.Content})
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emit := func(event string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			s.logger.Error("event marshal failed", "event", event, "error", err)
			return
		}
		_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
		flusher.Flush()
	}

	reply, err := s.sommelier.Respond(r.Context(), identityFrom(r.Context()), turns,
		func(chunk string) error {
			if chunk != "" {
				emit("chunk", map[string]string{"text": chunk})
			}
			return r.Context().Err()
		})
	if err != nil {
		emit("error", map[string]string{"message": reply.Text})
		emit("done", struct{}{})
		return
	}

	if reply.Scene != nil {
		emit("scene", reply.Scene)
	}
	emit("done", struct{}{})
}
