package respond

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopez/supportbot/internal/router"
	"github.com/shopez/supportbot/internal/session"
)

// IntentRouter classifies a query into a support action.
// Implemented by *router.Router.
type IntentRouter interface {
	Route(ctx context.Context, query string) (router.Decision, error)
}

// clarificationReply is returned whenever the customer's intent could not be
// determined, including malformed tool arguments.
const clarificationReply = "Could not determine the appropriate response. Please try rephrasing your query. And if you are trying to ask about order status please provide a valid order ID like ABC-123, XYZ-456 etc."

// generationFallback is the generic degraded reply for model or retrieval
// failures that have no more specific fallback.
const generationFallback = "I apologize, but I'm having trouble generating a response right now. Please try again."

// Service is the single entry point for turning a customer query into a
// reply. It never returns an error: every failure mode downstream of startup
// degrades to a fixed friendly message.
//
// Deadlines are not applied here; every model and vector store call is
// already bounded by its own timeout downstream.
type Service struct {
	rewriter *Rewriter
	router   IntentRouter
	order    *OrderResponder
	policy   *PolicyResponder
	chitchat *ChitchatResponder
	logger   *slog.Logger
}

// NewService wires the rewriter, router and responders into a Service.
func NewService(
	rewriter *Rewriter,
	intentRouter IntentRouter,
	order *OrderResponder,
	policy *PolicyResponder,
	chitchat *ChitchatResponder,
	logger *slog.Logger,
) *Service {
	return &Service{
		rewriter: rewriter,
		router:   intentRouter,
		order:    order,
		policy:   policy,
		chitchat: chitchat,
		logger:   logger.With("component", "respond"),
	}
}

// GenerateResponse produces the reply for query given the conversation so
// far. The query is first rewritten to be self-contained, then routed to one
// of the three responders. A routing miss yields a clarification asking for a
// rephrase or a valid order ID.
func (s *Service) GenerateResponse(ctx context.Context, query string, history []session.Turn) string {
	routed := s.rewriter.Rewrite(ctx, query, history)

	decision, err := s.router.Route(ctx, routed)
	switch {
	case errors.Is(err, router.ErrNoToolProposed), errors.Is(err, router.ErrMalformedArguments):
		s.logger.Debug("intent unresolved, asking for clarification", "error", err)
		return clarificationReply
	case err != nil:
		s.logger.Error("routing failed", "error", err)
		return generationFallback
	}

	switch decision.Action {
	case router.ActionOrderStatus:
		return s.order.Respond(ctx, decision.Params["order_id"])
	case router.ActionPolicyAnswer:
		return s.policy.Respond(ctx, decision.Params["query"])
	case router.ActionChitchat:
		return s.chitchat.Respond(ctx, decision.Params["query"])
	default:
		s.logger.Error("router returned unknown action", "action", decision.Action)
		return clarificationReply
	}
}
