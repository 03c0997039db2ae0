package respond

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopez/supportbot/internal/orders"
)

// OrderStore looks up order status. Implemented by *orders.Store.
type OrderStore interface {
	Status(ctx context.Context, orderID string) (orders.Order, error)
}

// OrderResponder answers order status queries from the orders store.
type OrderResponder struct {
	store  OrderStore
	llm    Generator
	logger *slog.Logger
}

// NewOrderResponder creates an OrderResponder.
func NewOrderResponder(store OrderStore, llm Generator, logger *slog.Logger) *OrderResponder {
	return &OrderResponder{
		store:  store,
		llm:    llm,
		logger: logger.With("component", "order_responder"),
	}
}

const orderStatusPromptTemplate = `You are a customer support agent for ShopEZ. A customer asked about their order.

Order details:
- Order ID: %s
- Status: %s%s

Write a short, friendly message telling the customer the current status of their order.
[INST] Provide just the message without any additional commentary or startup message. [/INST]`

const orderErrorFallback = "I apologize, but I'm having trouble accessing your order information right now. Please try again or contact support."

// Respond answers an order status query. An unknown order ID gets an apology
// naming the ID; a store or model failure degrades to a fixed fallback.
func (r *OrderResponder) Respond(ctx context.Context, orderID string) string {
	order, err := r.store.Status(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		return fmt.Sprintf("I'm sorry, I couldn't find any information for order ID: %s. Please check the ID and try again.", orderID)
	}
	if err != nil {
		r.logger.Error("order lookup failed", "order_id", orderID, "error", err)
		return orderErrorFallback
	}

	var tracking string
	if order.TrackingID != "" {
		tracking = "\n- Tracking ID: " + order.TrackingID
	}

	reply, err := r.llm.Generate(ctx, fmt.Sprintf(orderStatusPromptTemplate, order.ID, order.Status, tracking))
	if err != nil {
		r.logger.Error("order status generation failed", "order_id", orderID, "error", err)
		return orderErrorFallback
	}
	return strings.TrimSpace(reply)
}
