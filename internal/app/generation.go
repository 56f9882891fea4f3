package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StutiiiG/readai/internal/ai"
)

// FallbackReply is persisted as the assistant's answer whenever generation
// fails; a turn always completes with some assistant message.
const FallbackReply = "I apologize, but I encountered an error while processing your request. Please try again."

const systemPrompt = `You are ReadAI, an expert AI research assistant helping researchers and graduate students analyze academic documents.

Your responses must:
1. Be accurate, comprehensive, and directly address the user's question
2. Include inline citations like [1], [2] referring to specific sources when you reference information
3. Use clear academic language appropriate for researchers
4. If the question cannot be answered from the provided documents, say so clearly

Format your response naturally with citations inline where you use information from the documents.`

// CompletionClient is the single external generation call.
type CompletionClient interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// Generator wraps the model call: it picks the grounded or ungrounded
// prompt, mints a fresh session token per invocation, and absorbs every
// provider failure into the fallback reply.
type Generator struct {
	client CompletionClient
	logger *zap.Logger
}

func NewGenerator(client CompletionClient, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate returns the assistant text and whether the fallback was used.
func (g *Generator) Generate(ctx context.Context, sessionID, documentContext, historyText, question string) (string, bool) {
	var userPrompt string
	if documentContext != "" {
		userPrompt = fmt.Sprintf(`Based on the following documents:
%s

Previous conversation:
%s

User question: %s

Please provide a detailed, accurate response with citations [1], [2], etc. referencing the specific documents.`, documentContext, historyText, question)
	} else {
		userPrompt = fmt.Sprintf(`Previous conversation:
%s

User question: %s

Note: No documents have been uploaded to this session yet. Please let the user know they should upload documents for analysis, but still try to help with their question if possible.`, historyText, question)
	}

	// Fresh token every call; providers that key internal memory by this
	// value must never correlate two turns.
	sessionToken := fmt.Sprintf("readai-%s-%s", sessionID, uuid.NewString())

	text, err := g.client.Complete(ctx, ai.CompletionRequest{
		System:       systemPrompt,
		User:         userPrompt,
		SessionToken: sessionToken,
	})
	if err != nil {
		g.logger.Error("llm completion failed", zap.String("session_id", sessionID), zap.Error(err))
		return FallbackReply, true
	}
	return text, false
}
