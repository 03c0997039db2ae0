package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopez/supportbot/internal/vector"
)

// Retriever fetches policy chunks relevant to a query.
// Implemented by *rag.Retriever.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]vector.Result, error)
}

// PolicyResponder answers store policy questions grounded in retrieved
// compliance document chunks.
type PolicyResponder struct {
	retriever Retriever
	llm       Generator
	logger    *slog.Logger
}

// NewPolicyResponder creates a PolicyResponder.
func NewPolicyResponder(retriever Retriever, llm Generator, logger *slog.Logger) *PolicyResponder {
	return &PolicyResponder{
		retriever: retriever,
		llm:       llm,
		logger:    logger.With("component", "policy_responder"),
	}
}

const policyPromptTemplate = `You are a customer support agent for ShopEZ. Use the following pieces of context from our policy documents to answer the customer's question.
If you don't know the answer from the context, just say that you don't know; don't try to make up an answer.

Context:
%s

Question: %s

Helpful Answer:`

// Respond answers a policy question. Retrieval uses the retriever's default
// result count; retrieval or generation failures degrade to a fixed fallback.
// An empty index yields an empty context and the model answers that it does
// not know.
func (r *PolicyResponder) Respond(ctx context.Context, query string) string {
	results, err := r.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		r.logger.Error("policy retrieval failed", "error", err)
		return generationFallback
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, res.Text)
	}

	reply, err := r.llm.Generate(ctx, fmt.Sprintf(policyPromptTemplate, strings.Join(chunks, "\n\n"), query))
	if err != nil {
		r.logger.Error("policy answer generation failed", "error", err)
		return generationFallback
	}

	r.logger.Debug("policy question answered", "sources", len(results))
	return strings.TrimSpace(reply)
}
