package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/identity"
	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/testutil"
)

type stubMemory struct {
	block   string
	facts   []string
	queried []string
}

func (m *stubMemory) FetchFacts(_ context.Context, userID string) (string, []string) {
	m.queried = append(m.queried, userID)
	return m.block, m.facts
}

func newTestSommelier(t *testing.T, mock *testutil.MockLLM, mem Memory) *Sommelier {
	t.Helper()
	g := genkit.Init(context.Background())
	mock.RegisterModel(g)
	return New(Config{
		Genkit:    g,
		ModelName: testutil.MockModelName,
		Memory:    mem,
		Logger:    log.NewNop(),
	})
}

func TestRespondAnswersWithModelText(t *testing.T) {
	mock := testutil.NewMockLLM("Let me pour you something nice.")
	s := newTestSommelier(t, mock, nil)

	reply, err := s.Respond(context.Background(), identity.Identity{},
		[]Turn{{Role: RoleUser, Text: "hello"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Let me pour you something nice.", reply.Text)
	assert.Nil(t, reply.Scene)
}

func TestRespondComposesPromptForKnownUser(t *testing.T) {
	mem := &stubMemory{block: "## Wine preferences I remember:\n- Loves Burgundy"}
	mock := testutil.NewMockLLM("Welcome back.")
	s := newTestSommelier(t, mock, mem)

	id := identity.Identity{UserID: "usr-9", Name: "Margaux"}
	_, err := s.Respond(context.Background(), id,
		[]Turn{{Role: RoleUser, Text: "hi again"}}, nil)

	require.NoError(t, err)
	require.Equal(t, []string{"usr-9"}, mem.queried)
	system := mock.LastCall().System
	assert.Contains(t, system, "Margaux")
	assert.Contains(t, system, "Loves Burgundy")
}

func TestRespondSkipsMemoryForAnonymousUser(t *testing.T) {
	mem := &stubMemory{}
	mock := testutil.NewMockLLM("Hello stranger.")
	s := newTestSommelier(t, mock, mem)

	_, err := s.Respond(context.Background(), identity.Identity{},
		[]Turn{{Role: RoleUser, Text: "hi"}}, nil)

	require.NoError(t, err)
	assert.Empty(t, mem.queried)
}

func TestRespondReusesSessionIdentity(t *testing.T) {
	mem := &stubMemory{}
	mock := testutil.NewMockLLM("Of course.")
	s := newTestSommelier(t, mock, mem)

	known := identity.Identity{UserID: "usr-7", Name: "Henri"}
	_, err := s.Respond(context.Background(), known,
		[]Turn{{Role: RoleUser, Text: "hello"}}, nil)
	require.NoError(t, err)

	// follow-up arrives with no identity, as voice requests often do
	reply, err := s.Respond(context.Background(), identity.Identity{},
		[]Turn{{Role: RoleUser, Text: "and my preferences?"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "usr-7", reply.Identity.UserID)
	assert.Equal(t, []string{"usr-7", "usr-7"}, mem.queried)
	assert.Contains(t, mock.LastCall().System, "Henri")
}

func TestRespondNameOverlayLastsOneTurn(t *testing.T) {
	mem := &stubMemory{}
	mock := testutil.NewMockLLM("Certainly.")
	s := newTestSommelier(t, mock, mem)

	known := identity.Identity{UserID: "usr-7", Name: "Henri"}
	_, err := s.Respond(context.Background(), known,
		[]Turn{{Role: RoleUser, Text: "hello"}}, nil)
	require.NoError(t, err)

	// a name without a user id overlays the cached identity for this turn only
	reply, err := s.Respond(context.Background(), identity.Identity{Name: "Hugo"},
		[]Turn{{Role: RoleUser, Text: "call me Hugo"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "usr-7", reply.Identity.UserID)
	assert.Equal(t, "Hugo", reply.Identity.Name)

	reply, err = s.Respond(context.Background(), identity.Identity{},
		[]Turn{{Role: RoleUser, Text: "and now?"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Henri", reply.Identity.Name)
}

func TestRespondStreamsChunks(t *testing.T) {
	mock := testutil.NewMockLLM("A fine choice.")
	s := newTestSommelier(t, mock, nil)

	var got []string
	reply, err := s.Respond(context.Background(), identity.Identity{},
		[]Turn{{Role: RoleUser, Text: "recommend"}},
		func(chunk string) error {
			got = append(got, chunk)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, reply.Text, strings.Join(got, ""))
}

func TestRespondApologisesOnFailure(t *testing.T) {
	mock := testutil.NewMockLLM("unused")
	mock.FailWith(errors.New("model unavailable"))
	s := newTestSommelier(t, mock, nil)

	reply, err := s.Respond(context.Background(), identity.Identity{UserID: "usr-1"},
		[]Turn{{Role: RoleUser, Text: "hello"}}, nil)

	require.Error(t, err)
	assert.Equal(t, Apology, reply.Text)
	assert.Equal(t, "usr-1", reply.Identity.UserID)
}

func TestRespondKeepsConversationHistory(t *testing.T) {
	mock := testutil.NewMockLLM("Indeed.")
	s := newTestSommelier(t, mock, nil)

	_, err := s.Respond(context.Background(), identity.Identity{}, []Turn{
		{Role: RoleUser, Text: "do you have Barolo?"},
		{Role: RoleAssistant, Text: "We hold several."},
		{Role: RoleUser, Text: "which vintage is best?"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "which vintage is best?", mock.LastCall().UserMessage)
}
