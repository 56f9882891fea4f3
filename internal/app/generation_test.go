package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StutiiiG/readai/internal/ai"
)

type stubCompletionClient struct {
	reply    string
	err      error
	requests []ai.CompletionRequest
}

func (s *stubCompletionClient) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestGenerateGroundedMode(t *testing.T) {
	client := &stubCompletionClient{reply: "answer [1]"}
	g := NewGenerator(client, nil)

	text, usedFallback := g.Generate(context.Background(), "sess-1", "\n\n=== Source [1]: a.txt ===\ncontent", "\nUser: hi", "what?")

	assert.Equal(t, "answer [1]", text)
	assert.False(t, usedFallback)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Contains(t, req.User, "Based on the following documents:")
	assert.Contains(t, req.User, "=== Source [1]: a.txt ===")
	assert.Contains(t, req.User, "User question: what?")
	assert.Contains(t, req.System, "inline citations like [1], [2]")
}

func TestGenerateUngroundedMode(t *testing.T) {
	client := &stubCompletionClient{reply: "no docs answer"}
	g := NewGenerator(client, nil)

	_, usedFallback := g.Generate(context.Background(), "sess-1", "", "", "what?")

	assert.False(t, usedFallback)
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].User, "No documents have been uploaded to this session yet")
	assert.NotContains(t, client.requests[0].User, "Based on the following documents:")
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	client := &stubCompletionClient{err: errors.New("connection refused")}
	g := NewGenerator(client, nil)

	text, usedFallback := g.Generate(context.Background(), "sess-1", "", "", "what?")

	assert.True(t, usedFallback)
	assert.Equal(t, FallbackReply, text)
}

func TestGenerateMintsFreshSessionToken(t *testing.T) {
	client := &stubCompletionClient{reply: "ok"}
	g := NewGenerator(client, nil)

	g.Generate(context.Background(), "sess-1", "", "", "q1")
	g.Generate(context.Background(), "sess-1", "", "", "q2")

	require.Len(t, client.requests, 2)
	first := client.requests[0].SessionToken
	second := client.requests[1].SessionToken
	assert.Contains(t, first, "readai-sess-1-")
	assert.NotEqual(t, first, second, "tokens must never repeat across turns")
}
