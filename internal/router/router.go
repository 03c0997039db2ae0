// Package router classifies customer queries into one of three support
// actions using model function calling.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

var (
	// ErrNoToolProposed indicates the model proposed no tool call, so the
	// customer's intent could not be determined.
	ErrNoToolProposed = errors.New("no tool proposed")

	// ErrMalformedArguments indicates the model proposed a tool call whose
	// arguments do not match the tool's schema.
	ErrMalformedArguments = errors.New("malformed tool arguments")
)

// Action identifies which response generator handles a query.
type Action string

const (
	ActionOrderStatus  Action = toolOrderStatus
	ActionPolicyAnswer Action = toolPolicy
	ActionChitchat     Action = toolChitchat
)

// Decision is the routing outcome for one query.
type Decision struct {
	Action Action
	// Params carries the tool call arguments, e.g. "order_id" for
	// ActionOrderStatus and "query" for the other actions.
	Params map[string]string
}

// ToolProposer asks the model to pick among tools without executing them.
// Implemented by *llm.Client.
type ToolProposer interface {
	ProposeToolCalls(ctx context.Context, prompt string, tools []ai.ToolRef) ([]*ai.ToolRequest, error)
}

// Router maps free-form customer queries to Decisions.
type Router struct {
	proposer ToolProposer
	tools    []ai.ToolRef
	logger   *slog.Logger
}

// New registers the routing tools with g and creates a Router.
func New(g *genkit.Genkit, proposer ToolProposer, logger *slog.Logger) *Router {
	return &Router{
		proposer: proposer,
		tools:    defineTools(g),
		logger:   logger.With("component", "router"),
	}
}

// newWithTools is the test seam: a Router without a Genkit registry.
func newWithTools(proposer ToolProposer, tools []ai.ToolRef, logger *slog.Logger) *Router {
	return &Router{proposer: proposer, tools: tools, logger: logger.With("component", "router")}
}

const routePromptTemplate = `You are the intent classifier for ShopEZ, an e-commerce customer support assistant.
Select exactly one tool that best handles the customer's message.
Use get_order_status only when the message is about a specific order; extract the order ID exactly as written.
Use answer_policy_question for questions about returns, refunds, shipping, warranties, privacy or other store policies.
Use chitchat for greetings, thanks and anything conversational.

Customer message: %s`

// Route classifies query. Exactly one proposed tool call is honored: the
// first. Zero proposals surface as ErrNoToolProposed and schema-violating
// arguments as ErrMalformedArguments; the caller turns both into a
// clarification reply.
func (r *Router) Route(ctx context.Context, query string) (Decision, error) {
	requests, err := r.proposer.ProposeToolCalls(ctx, fmt.Sprintf(routePromptTemplate, query), r.tools)
	if err != nil {
		return Decision{}, fmt.Errorf("routing query: %w", err)
	}
	if len(requests) == 0 {
		return Decision{}, ErrNoToolProposed
	}
	if len(requests) > 1 {
		r.logger.Debug("model proposed multiple tools, honoring the first",
			"proposed", len(requests),
			"selected", requests[0].Name,
		)
	}

	req := requests[0]
	params, err := stringParams(req.Input)
	if err != nil {
		return Decision{}, err
	}

	switch req.Name {
	case toolOrderStatus:
		if strings.TrimSpace(params["order_id"]) == "" {
			return Decision{}, fmt.Errorf("%w: %s requires order_id", ErrMalformedArguments, toolOrderStatus)
		}
	case toolPolicy, toolChitchat:
		// The model occasionally omits the query argument; fall back to
		// the customer's own words.
		if strings.TrimSpace(params["query"]) == "" {
			params["query"] = query
		}
	default:
		return Decision{}, fmt.Errorf("%w: unknown tool %q", ErrNoToolProposed, req.Name)
	}

	r.logger.Debug("query routed", "action", req.Name)
	return Decision{Action: Action(req.Name), Params: params}, nil
}

// stringParams converts a tool request input into a string map.
// Anything other than an object with scalar string values is malformed.
func stringParams(input any) (map[string]string, error) {
	params := make(map[string]string)
	if input == nil {
		return params, nil
	}

	fields, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: input is %T, expected object", ErrMalformedArguments, input)
	}
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is %T, expected string", ErrMalformedArguments, key, value)
		}
		params[key] = s
	}
	return params, nil
}
