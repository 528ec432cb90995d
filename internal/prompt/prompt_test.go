package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/identity"
)

func TestCompose_KnownUser(t *testing.T) {
	memBlock := "\n\n## Wine preferences I remember:\n- prefers burgundy"
	out := Compose(identity.Identity{UserID: "u1", Name: "Dana"}, memBlock)

	assert.Contains(t, out, "You are speaking with Dana")
	assert.Contains(t, out, "never claim you lack information")
	assert.Contains(t, out, "- prefers burgundy")
	assert.NotContains(t, out, firstConversationNotice)
}

func TestCompose_KnownUserNoMemory(t *testing.T) {
	out := Compose(identity.Identity{UserID: "u1", Name: "Dana"}, "")

	assert.Contains(t, out, "You are speaking with Dana")
	assert.Contains(t, out, firstConversationNotice)
}

func TestCompose_AnonymousUser(t *testing.T) {
	out := Compose(identity.Identity{}, "")

	assert.Contains(t, out, "You don't know who you are talking to yet")
	assert.NotContains(t, out, "never claim")
}

// The identity block must come before any business text.
func TestCompose_IdentityBlockFirst(t *testing.T) {
	for _, id := range []identity.Identity{{}, {Name: "Dana"}} {
		out := Compose(id, "")
		ctxIdx := strings.Index(out, "## User Context:")
		briefIdx := strings.Index(out, "You are DIONYSUS")
		require.NotEqual(t, -1, ctxIdx)
		require.NotEqual(t, -1, briefIdx)
		assert.Equal(t, 0, ctxIdx, "user context block must open the prompt")
		assert.Greater(t, briefIdx, ctxIdx)
	}
}

func TestCompose_DomainBriefPresent(t *testing.T) {
	out := Compose(identity.Identity{}, "")
	for _, tool := range []string{
		"searchWines", "getWineDetails", "calculateWineROI",
		"buildPortfolio", "saveWinePreference",
	} {
		assert.Contains(t, out, tool)
	}
	assert.Contains(t, out, "limit to 6-8 at a time")
	assert.Contains(t, out, "GBP")
}
