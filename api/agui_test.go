package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/testutil"
)

func TestAguiStreamsChunksThenDone(t *testing.T) {
	mock := testutil.NewMockLLM("Try the Barolo tonight")
	s := newTestServer(t, mock)

	rec := doJSON(t, s, http.MethodPost, "/agui",
		`{"messages":[{"role":"user","content":"what should I drink"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := testutil.ParseSSEEvents(t, rec.Body.String())
	chunks := testutil.FindAllEvents(events, "chunk")
	require.NotEmpty(t, chunks)

	var text strings.Builder
	for _, ev := range chunks {
		var payload struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.Unmarshal([]byte(ev.Data), &payload))
		text.WriteString(payload.Text)
	}
	assert.Equal(t, "Try the Barolo tonight", text.String())

	require.NotNil(t, testutil.FindEvent(events, "done"))
	assert.Nil(t, testutil.FindEvent(events, "error"))
	assert.Equal(t, "done", events[len(events)-1].Type)
}

func TestAguiFailureEmitsErrorThenDone(t *testing.T) {
	mock := testutil.NewMockLLM("unused")
	mock.FailWith(errors.New("model down"))
	s := newTestServer(t, mock)

	rec := doJSON(t, s, http.MethodPost, "/agui",
		`{"messages":[{"role":"user","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	events := testutil.ParseSSEEvents(t, rec.Body.String())

	require.NotNil(t, testutil.FindEvent(events, "error"))
	assert.Equal(t, "done", events[len(events)-1].Type)
}

func TestAguiRejectsEmptyMessages(t *testing.T) {
	s := newTestServer(t, testutil.NewMockLLM("ok"))

	rec := doJSON(t, s, http.MethodPost, "/agui", `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAguiExtractsIdentityFromState(t *testing.T) {
	mock := testutil.NewMockLLM("Hello again")
	s := newTestServer(t, mock)

	rec := doJSON(t, s, http.MethodPost, "/agui",
		`{"messages":[{"role":"user","content":"hi"}],
		  "state":{"user":{"user_id":"usr-11","name":"Dana"}}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, mock.LastCall().System, "Dana")
}
