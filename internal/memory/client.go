// Package memory is a thin client for the external fact graph that holds
// long-term user preferences.
//
// Both operations are best-effort: a slow or broken memory service must never
// fail the surrounding conversational turn, so every failure path degrades to
// "no data" and is logged rather than returned.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aionysus/dionysus/internal/log"
)

const (
	// requestTimeout bounds every call to the memory service.
	requestTimeout = 5 * time.Second

	// searchLimit is how many fact edges we ask the graph for.
	searchLimit = 10

	// maxFacts is how many non-empty facts make it into the prompt block.
	maxFacts = 5

	// factsHeading introduces the preference block embedded in the prompt.
	factsHeading = "## Wine preferences I remember:"

	// preferenceQuery is the fixed graph query for wine-relevant edges.
	preferenceQuery = "wine preferences regions varietals taste red white sparkling"
)

// Client talks to a Zep-style fact graph over HTTP.
// The zero-value BaseURL disables the client: every call degrades silently.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  log.Logger
}

// New creates a memory client. baseURL empty means "not configured":
// FetchFacts returns empty and AppendFact reports saved without writing.
func New(baseURL, apiKey string, logger log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Enabled reports whether a memory service is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// SaveResult is the caller-visible outcome of AppendFact.
type SaveResult struct {
	Saved          bool   `json:"saved"`
	PreferenceType string `json:"preference_type,omitempty"`
	Value          string `json:"value,omitempty"`
	Message        string `json:"message,omitempty"`
}

type searchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Scope  string `json:"scope"`
}

type searchResponse struct {
	Edges []struct {
		Fact string `json:"fact"`
	} `json:"edges"`
}

// FetchFacts retrieves up to maxFacts remembered preferences for the user and
// formats them as a bulleted block under a fixed heading. Missing user id,
// unconfigured service, network failure, non-200 status, and malformed bodies
// all yield ("", nil).
func (c *Client) FetchFacts(ctx context.Context, userID string) (string, []string) {
	if userID == "" || !c.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(searchRequest{
		UserID: userID,
		Query:  preferenceQuery,
		Limit:  searchLimit,
		Scope:  "edges",
	})
	if err != nil {
		return "", nil
	}

	resp, err := c.post(ctx, "/search", body)
	if err != nil {
		c.logger.Warn("memory search failed (continuing without preferences)",
			"error", err, "user_id", userID)
		return "", nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("memory search returned non-200 (continuing without preferences)",
			"status", resp.StatusCode, "user_id", userID)
		return "", nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("memory search body malformed (continuing without preferences)",
			"error", err)
		return "", nil
	}

	var facts []string
	for _, edge := range parsed.Edges {
		if edge.Fact == "" {
			continue
		}
		facts = append(facts, edge.Fact)
		if len(facts) == maxFacts {
			break
		}
	}
	if len(facts) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(factsHeading)
	for _, f := range facts {
		b.WriteString("\n- ")
		b.WriteString(f)
	}
	return b.String(), facts
}

type appendRequest struct {
	Messages []appendMessage `json:"messages"`
}

type appendMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AppendFact registers the user if needed and appends one conversational fact
// of the form "User prefers {type}: {value}" to the user's preference thread.
// Saved is false only when there is no user id to write under; service
// failures are swallowed and still report saved, matching the best-effort
// contract (the preference was accepted, persistence is opportunistic).
func (c *Client) AppendFact(ctx context.Context, userID, preferenceType, value string) SaveResult {
	if userID == "" {
		return SaveResult{Saved: false, Message: "Please sign in to save preferences"}
	}

	if c.Enabled() {
		if err := c.ensureUser(ctx, userID); err != nil {
			c.logger.Warn("memory user registration failed", "error", err, "user_id", userID)
		}

		body, _ := json.Marshal(appendRequest{
			Messages: []appendMessage{{
				Role:    "user",
				Content: fmt.Sprintf("User prefers %s: %s", preferenceType, value),
			}},
		})
		resp, err := c.post(ctx, "/threads/wine-prefs-"+userID+"/messages", body)
		if err != nil {
			c.logger.Warn("memory fact append failed", "error", err, "user_id", userID)
		} else {
			_ = resp.Body.Close()
		}
	}

	return SaveResult{Saved: true, PreferenceType: preferenceType, Value: value}
}

func (c *Client) ensureUser(ctx context.Context, userID string) error {
	body, _ := json.Marshal(map[string]string{"user_id": userID})
	resp, err := c.post(ctx, "/users", body)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	}
	return c.http.Do(req)
}
