package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSEEventsNamedEvents(t *testing.T) {
	body := "event: chunk\ndata: hello\n\nevent: chunk\ndata: world\n\nevent: done\ndata: {}\n\n"

	events := ParseSSEEvents(t, body)
	require.Len(t, events, 3)
	assert.Equal(t, "chunk", events[0].Type)
	assert.Equal(t, "hello", events[0].Data)
	assert.Equal(t, "done", events[2].Type)

	chunks := FindAllEvents(events, "chunk")
	assert.Len(t, chunks, 2)
	require.NotNil(t, FindEvent(events, "done"))
	assert.Nil(t, FindEvent(events, "error"))
}

func TestParseSSEEventsMultilineData(t *testing.T) {
	body := "event: chunk\ndata: line one\ndata: line two\n\n"

	events := ParseSSEEvents(t, body)
	require.Len(t, events, 1)
	assert.Equal(t, "line one\nline two", events[0].Data)
}

func TestParseDataFrames(t *testing.T) {
	body := "data: {\"a\":1}\n\ndata: {\"a\":2}\n\ndata: [DONE]\n\n"

	frames := ParseDataFrames(t, body)
	require.Len(t, frames, 2)
	assert.Equal(t, `{"a":1}`, frames[0])
	assert.Equal(t, `{"a":2}`, frames[1])
}

func TestParseDataFramesMissingTerminator(t *testing.T) {
	failed := runSubtest(t, func(st *testing.T) {
		ParseDataFrames(st, "data: {\"a\":1}\n\n")
	})
	assert.True(t, failed, "missing [DONE] must fail the test")
}

// runSubtest runs fn in a subtest and reports whether it failed.
func runSubtest(t *testing.T, fn func(*testing.T)) bool {
	t.Helper()
	return !t.Run("probe", func(st *testing.T) {
		defer func() { _ = recover() }()
		fn(st)
	})
}
