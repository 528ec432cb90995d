package tools

import (
	"context"
	"strings"
	"sync"
)

// Scene is a rendering hint for the caller's frontend, emitted by tools whose
// result is better shown as a widget than read aloud.
type Scene struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// Scene kinds. The widget kinds carry the tool result as payload; the
// ambient kinds carry a lowercased region or wine type for the background.
const (
	SceneRegions         = "wineRegions"
	SceneTypes           = "wineTypes"
	SceneInvestmentChart = "investmentChart"
	SceneMarket          = "wineMarket"
	ScenePortfolio       = "portfolio"
	SceneRegion          = "region"
	SceneWineType        = "wineType"
)

// setAmbientScene records a background hint when the conversation settles on
// a region or wine type. Region wins when both are present.
func setAmbientScene(ctx context.Context, region, wineType string) {
	st := StateFrom(ctx)
	if st == nil {
		return
	}
	switch {
	case strings.TrimSpace(region) != "":
		st.SetScene(Scene{Kind: SceneRegion, Payload: strings.ToLower(strings.TrimSpace(region))})
	case strings.TrimSpace(wineType) != "":
		st.SetScene(Scene{Kind: SceneWineType, Payload: strings.ToLower(strings.TrimSpace(wineType))})
	}
}

// State carries per-request data into tool invocations: the resolved user and
// the scene side-channel. Tools run sequentially within one generation turn,
// but State stays safe under concurrent access anyway.
type State struct {
	mu     sync.Mutex
	userID string
	scene  *Scene
}

// NewState creates a State for one request on behalf of userID (may be empty).
func NewState(userID string) *State {
	return &State{userID: userID}
}

// UserID returns the resolved user for this request.
func (s *State) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SetScene records a scene hint. Last write wins within a request.
func (s *State) SetScene(scene Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = &scene
}

// Scene returns the recorded scene hint, or nil when no tool set one.
func (s *State) Scene() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

type stateKey struct{}

// WithState attaches st to ctx for retrieval inside tool callbacks.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// StateFrom returns the request State from ctx, or nil when none is attached.
func StateFrom(ctx context.Context) *State {
	st, _ := ctx.Value(stateKey{}).(*State)
	return st
}
