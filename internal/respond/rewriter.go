// Package respond turns routed customer queries into user-facing replies.
//
// Every generator in this package degrades instead of failing: a model or
// lookup error becomes a fixed friendly message, never an error returned to
// the conversation loop.
package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopez/supportbot/internal/session"
)

// Generator produces text from a prompt. Implemented by *llm.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// rewriteContextTurns is how many recent turns feed the rewrite prompt.
const rewriteContextTurns = 6

// Rewriter makes follow-up questions self-contained by folding recent
// conversation context into the query.
type Rewriter struct {
	llm    Generator
	logger *slog.Logger
}

// NewRewriter creates a Rewriter.
func NewRewriter(llm Generator, logger *slog.Logger) *Rewriter {
	return &Rewriter{llm: llm, logger: logger.With("component", "rewriter")}
}

const rewritePromptTemplate = `Given the conversation history and the current user query, rewrite the query to include all necessary context.
Make sure the rewritten query is self-contained and clear.

Conversation History:
%s

Current Query: %s

Rewritten Query (be concise, include context, and avoid unnecessary pleasantries):`

// Rewrite returns a context-enriched version of query. With at most one
// prior turn there is no context worth folding in, so the query passes
// through without a model call. A rewrite failure also falls back to the
// original query: a degraded rewrite must never block an answer.
func (r *Rewriter) Rewrite(ctx context.Context, query string, history []session.Turn) string {
	if len(history) <= 1 {
		return query
	}

	recent := history
	if len(recent) > rewriteContextTurns {
		recent = recent[len(recent)-rewriteContextTurns:]
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		switch turn.Role {
		case session.RoleUser:
			lines = append(lines, "User: "+turn.Content)
		case session.RoleAssistant:
			lines = append(lines, "Assistant: "+turn.Content)
		}
	}

	prompt := fmt.Sprintf(rewritePromptTemplate, strings.Join(lines, "\n"), query)

	rewritten, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("query rewrite failed, using original query", "error", err)
		return query
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query
	}

	r.logger.Debug("query rewritten", "original_len", len(query), "rewritten_len", len(rewritten))
	return rewritten
}
