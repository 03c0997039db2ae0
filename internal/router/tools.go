package router

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Tool names double as routing actions.
const (
	toolOrderStatus = "get_order_status"
	toolPolicy      = "answer_policy_question"
	toolChitchat    = "chitchat"
)

type orderStatusInput struct {
	OrderID string `json:"order_id" jsonschema_description:"The order identifier mentioned by the customer, e.g. ABC-123"`
}

type policyInput struct {
	Query string `json:"query" jsonschema_description:"The customer's question about store policies, shipping, returns, refunds or compliance"`
}

type chitchatInput struct {
	Query string `json:"query" jsonschema_description:"The customer's conversational message"`
}

// defineTools registers the routing tools with Genkit. The handlers never
// execute: generation runs with ai.WithReturnToolRequests, so the model only
// proposes calls and the router dispatches them itself.
func defineTools(g *genkit.Genkit) []ai.ToolRef {
	orderStatus := genkit.DefineTool(g, toolOrderStatus,
		"Look up the current status of a customer's order. Use when the customer asks where their order is or mentions an order ID.",
		func(toolCtx *ai.ToolContext, input orderStatusInput) (string, error) {
			return "", nil
		})

	policy := genkit.DefineTool(g, toolPolicy,
		"Answer questions about store policies: returns, refunds, shipping, warranties, privacy and compliance.",
		func(toolCtx *ai.ToolContext, input policyInput) (string, error) {
			return "", nil
		})

	chitchat := genkit.DefineTool(g, toolChitchat,
		"Respond to greetings, thanks and small talk that is not an order or policy question.",
		func(toolCtx *ai.ToolContext, input chitchatInput) (string, error) {
			return "", nil
		})

	return []ai.ToolRef{orderStatus, policy, chitchat}
}
