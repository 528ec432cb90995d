package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTripsThroughContext(t *testing.T) {
	st := NewState("usr-1")
	ctx := WithState(context.Background(), st)

	got := StateFrom(ctx)
	require.Same(t, st, got)
	assert.Equal(t, "usr-1", got.UserID())
}

func TestStateFromMissing(t *testing.T) {
	assert.Nil(t, StateFrom(context.Background()))
}

func TestSceneLastWriteWins(t *testing.T) {
	st := NewState("")
	require.Nil(t, st.Scene())

	st.SetScene(Scene{Kind: SceneRegions})
	st.SetScene(Scene{Kind: SceneMarket, Payload: "overview"})

	got := st.Scene()
	require.NotNil(t, got)
	assert.Equal(t, SceneMarket, got.Kind)
	assert.Equal(t, "overview", got.Payload)
}
