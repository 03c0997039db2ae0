package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ChitchatResponder handles greetings and small talk in the ShopEZ support
// persona.
type ChitchatResponder struct {
	llm    Generator
	logger *slog.Logger
}

// NewChitchatResponder creates a ChitchatResponder.
func NewChitchatResponder(llm Generator, logger *slog.Logger) *ChitchatResponder {
	return &ChitchatResponder{llm: llm, logger: logger.With("component", "chitchat_responder")}
}

const chitchatPromptTemplate = `You are a friendly customer support agent for ShopEZ, an e-commerce store.
Respond warmly to the customer's message and focus on how you can assist them with their shopping needs.
Keep responses concise and professional.

Customer: %s`

const chitchatFallback = "Hello! I'm here to help you with any questions about your orders, returns, or our policies. How can I assist you today?"

// Respond replies to conversational messages. A generation failure degrades
// to a fixed greeting.
func (r *ChitchatResponder) Respond(ctx context.Context, query string) string {
	reply, err := r.llm.Generate(ctx, fmt.Sprintf(chitchatPromptTemplate, query))
	if err != nil {
		r.logger.Error("chitchat generation failed", "error", err)
		return chitchatFallback
	}
	return strings.TrimSpace(reply)
}
