// Package app provides application initialization and dependency wiring.
//
// App is the container that connects configuration, Genkit, the vector
// store, the orders database, and the response pipeline. Setup builds it;
// Close releases everything it opened.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"

	"github.com/shopez/supportbot/internal/config"
	"github.com/shopez/supportbot/internal/orders"
	"github.com/shopez/supportbot/internal/respond"
	"github.com/shopez/supportbot/internal/vector"
)

// App is the core application container.
type App struct {
	Config *config.Config

	// Core services
	Genkit  *genkit.Genkit
	Vector  *vector.Store
	Orders  *orders.Store
	Service *respond.Service

	logger *slog.Logger
}

// Close gracefully releases all resources the App holds.
func (a *App) Close() error {
	a.logger.Info("shutting down application")

	var firstErr error
	if a.Vector != nil {
		if err := a.Vector.Close(); err != nil {
			a.logger.Warn("closing vector store", "error", err)
			firstErr = err
		}
	}
	if a.Orders != nil {
		if err := a.Orders.Close(); err != nil {
			a.logger.Warn("closing orders database", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
