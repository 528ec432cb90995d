// Package agent runs the sommelier conversation: it resolves who is asking,
// gathers their remembered preferences, composes the system prompt and drives
// a tool-enabled model generation.
package agent

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/aionysus/dionysus/internal/identity"
	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/prompt"
	"github.com/aionysus/dionysus/internal/tools"
)

// Memory supplies remembered preferences for the prompt.
type Memory interface {
	FetchFacts(ctx context.Context, userID string) (string, []string)
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role string
	Text string
}

// Reply is the agent's answer to one request.
type Reply struct {
	Text     string
	Identity identity.Identity
	Scene    *tools.Scene
}

// Apology is spoken when generation fails mid-request. The caller still
// receives a well-formed reply.
const Apology = "I'm sorry, I'm having a little trouble with my cellar notes right now. Could you ask me that again in a moment?"

const defaultMaxTurns = 8

// Config assembles a Sommelier.
type Config struct {
	Genkit    *genkit.Genkit
	ModelName string
	Memory    Memory
	Cache     *identity.Cache
	Logger    log.Logger

	// MaxTurns bounds tool-call round trips per request. Zero means 8.
	MaxTurns int
	// RequestsPerSecond throttles generation. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// Sommelier is the conversational wine agent.
type Sommelier struct {
	g        *genkit.Genkit
	model    string
	memory   Memory
	cache    *identity.Cache
	limiter  *rate.Limiter
	maxTurns int
	logger   log.Logger
}

// New creates a Sommelier from cfg.
func New(cfg Config) *Sommelier {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = identity.NewCache()
	}
	return &Sommelier{
		g:        cfg.Genkit,
		model:    cfg.ModelName,
		memory:   cfg.Memory,
		cache:    cache,
		limiter:  limiter,
		maxTurns: maxTurns,
		logger:   cfg.Logger,
	}
}

// Respond answers the conversation ending in the last user turn. The request
// identity is reconciled against the session cache, remembered preferences
// are loaded, and the model is run with the full tool set. When onChunk is
// non-nil it receives response text as the model produces it.
//
// On generation failure the returned Reply carries Apology alongside the
// error, so callers can still speak.
func (s *Sommelier) Respond(ctx context.Context, req identity.Identity, turns []Turn, onChunk func(string) error) (Reply, error) {
	eff := s.cache.Effective(req)
	// Only the request's own identity may update the cache: eff can carry a
	// request-local name overlay that must not outlive this turn.
	if req.HasUserID() {
		s.cache.Put(req)
	}
	reply := Reply{Identity: eff}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			reply.Text = Apology
			return reply, err
		}
	}

	var memoryBlock string
	if s.memory != nil && eff.HasUserID() {
		memoryBlock, _ = s.memory.FetchFacts(ctx, eff.UserID)
	}
	system := prompt.Compose(eff, memoryBlock)

	st := tools.NewState(eff.UserID)
	ctx = tools.WithState(ctx, st)

	messages := make([]*ai.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(turn.Text)))
		default:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(turn.Text)))
		}
	}

	toolRefs := make([]ai.ToolRef, 0, len(tools.Names()))
	for _, name := range tools.Names() {
		if tool := genkit.LookupTool(s.g, name); tool != nil {
			toolRefs = append(toolRefs, tool)
		}
	}

	opts := []ai.GenerateOption{
		ai.WithModelName(s.model),
		ai.WithSystem(system),
		ai.WithMessages(messages...),
		ai.WithTools(toolRefs...),
		ai.WithMaxTurns(s.maxTurns),
	}
	if onChunk != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			return onChunk(chunk.Text())
		}))
	}

	response, err := genkit.Generate(ctx, s.g, opts...)
	if err != nil {
		s.logger.Error("generation failed", "user_id", eff.UserID, "error", err)
		reply.Text = Apology
		return reply, err
	}

	reply.Text = response.Text()
	reply.Scene = st.Scene()
	return reply, nil
}
