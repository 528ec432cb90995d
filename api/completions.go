package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aionysus/dionysus/internal/agent"
)

const completionModelName = "dionysus"

// handleCompletions serves the voice-relay chat-completions endpoint. The
// answer is generated once, then shaped as either a single completion object
// or a word-per-chunk SSE stream.
func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "messages must not be empty")
		return
	}

	turns := make([]agent.Turn, 0, len(req.Messages))
	promptWords := 0
	for _, msg := range req.Messages {
		promptWords += len(strings.Fields(msg.Content))
		switch msg.Role {
		case "user":
			turns = append(turns, agent.Turn{Role: agent.RoleUser, Text: msg.Content})
		case "assistant":
			turns = append(turns, agent.Turn{Role: agent.RoleAssistant, Text: msg.Content})
		}
	}

	// The answer is produced in full before shaping; a generation failure
	// still yields an apology reply, so both branches always have text to
	// send and the stream terminates validly.
	reply, err := s.sommelier.Respond(r.Context(), identityFrom(r.Context()), turns, nil)
	if err != nil {
		s.logger.Warn("completion degraded to apology", "error", err)
	}

	model := req.Model
	if model == "" {
		model = completionModelName
	}
	respID := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()

	if req.Stream {
		s.streamCompletion(w, r, respID, created, model, reply.Text)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ID:      respID,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      &ChatMessage{Role: "assistant", Content: reply.Text},
			FinishReason: "stop",
		}},
		Usage: wordUsage(promptWords, reply.Text),
	})
}

// streamCompletion emits the answer as chat.completion.chunk frames, one per
// word. Every word but the last keeps its trailing space so the client can
// concatenate deltas verbatim. The stream always ends with an empty-delta
// stop frame and the [DONE] sentinel.
func (s *Server) streamCompletion(w http.ResponseWriter, r *http.Request, respID string, created int64, model, text string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer cannot stream")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	frame := func(choice ChatChoice) ChatResponse {
		return ChatResponse{
			ID:      respID,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []ChatChoice{choice},
		}
	}

	words := strings.Fields(text)
	for i, word := range words {
		content := word
		if i < len(words)-1 {
			content += " "
		}
		role := ""
		if i == 0 {
			role = "assistant"
		}
		if !s.writeFrame(w, flusher, frame(ChatChoice{
			Index: 0,
			Delta: &ChatMessage{Role: role, Content: content},
		})) {
			return
		}
		if s.streamDelay > 0 && i < len(words)-1 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(s.streamDelay):
			}
		}
	}

	s.writeFrame(w, flusher, frame(ChatChoice{
		Index:        0,
		Delta:        &ChatMessage{},
		FinishReason: "stop",
	}))
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// writeFrame marshals v as one SSE data frame. Returns false when the client
// has gone away.
func (s *Server) writeFrame(w http.ResponseWriter, flusher http.Flusher, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("frame marshal failed", "error", err)
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

// wordUsage builds synthetic token counts from whitespace word counts.
func wordUsage(promptWords int, answer string) *Usage {
	completionWords := len(strings.Fields(answer))
	return &Usage{
		PromptTokens:     promptWords,
		CompletionTokens: completionWords,
		TotalTokens:      promptWords + completionWords,
	}
}
