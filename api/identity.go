package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aionysus/dionysus/internal/identity"
)

// maxInboundBody bounds how much of a request body identity extraction will
// buffer. Extraction only ever looks at this prefix; the handler still
// receives the body in full.
const maxInboundBody = 1 << 20

type identityKey struct{}

// identityFrom returns the identity the inbound bridge resolved for r, or a
// zero Identity when extraction found nothing.
func identityFrom(ctx context.Context) identity.Identity {
	id, _ := ctx.Value(identityKey{}).(identity.Identity)
	return id
}

// identityMiddleware is the inbound protocol bridge. It buffers the body up
// to maxInboundBody, runs identity extraction over whichever payload shape
// is present, updates the session cache, and reassembles the body so the
// handler sees the original bytes unchanged. Extraction failures are logged
// and swallowed, never failing the request.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxInboundBody))
		if err != nil {
			s.logger.Warn("identity extraction skipped", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		// The handler must see the original stream in full: the buffered
		// prefix first, then whatever lies beyond the extraction cap.
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

		id := extractIdentity(body)
		if id.HasUserID() {
			s.cache.Put(id)
		}
		if !id.IsZero() {
			s.logger.Debug("identity resolved",
				"user_id", id.UserID, "name", id.Name)
			r = r.WithContext(context.WithValue(r.Context(), identityKey{}, id))
		}
		next.ServeHTTP(w, r)
	})
}

// inboundPayload is the superset of the three protocol shapes: chat
// completions carry messages only, the agent-UI protocol adds state and
// context. Unknown fields are ignored.
type inboundPayload struct {
	Messages []ChatMessage `json:"messages"`
	State    struct {
		User json.RawMessage `json:"user"`
	} `json:"state"`
	Context []struct {
		Description string `json:"description"`
		Value       string `json:"value"`
	} `json:"context"`
}

// extractIdentity resolves an identity from a raw request body. Malformed
// payloads yield a zero identity rather than an error.
func extractIdentity(body []byte) identity.Identity {
	var payload inboundPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return identity.Identity{}
	}

	var systemParts, userTurns []string
	for _, msg := range payload.Messages {
		switch msg.Role {
		case "system":
			systemParts = append(systemParts, msg.Content)
		case "user":
			userTurns = append(userTurns, msg.Content)
		}
	}
	systemText := strings.Join(systemParts, "\n")

	tokenText := systemText
	for _, item := range payload.Context {
		tokenText += "\n" + item.Description + "\n" + item.Value
	}

	return identity.Resolve(identity.Sources{
		StateUser:      stateUser(payload.State.User),
		Instructions:   systemText,
		SystemText:     tokenText,
		UserUtterances: userTurns,
	})
}

// stateUser decodes the structured state's user field. The field arrives
// either as an object or as a bare id string.
func stateUser(raw json.RawMessage) identity.Identity {
	if len(raw) == 0 {
		return identity.Identity{}
	}

	var obj struct {
		UserID string `json:"user_id"`
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		id := identity.Identity{UserID: obj.UserID, Name: obj.Name, Email: obj.Email}
		if id.UserID == "" {
			id.UserID = obj.ID
		}
		if !id.IsZero() {
			return id
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		return identity.Identity{UserID: strings.TrimSpace(s)}
	}
	return identity.Identity{}
}
