// Package cmd contains the CLI entry point and the interactive chat loop.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopez/supportbot/internal/app"
	"github.com/shopez/supportbot/internal/config"
	"github.com/shopez/supportbot/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	GitCommit  = "unknown"
)

// Execute is the main entry point for the support assistant CLI.
// It handles flag parsing, initialization, and the interactive loop.
//
// Designed to be called from main() and testable in unit tests.
func Execute() error {
	// Handle special flags before full initialization so --version and
	// --help work even when config or the environment is invalid.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			printVersion()
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	logger := initLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := checkRequiredEnv(); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	return runChat(ctx, a, os.Stdin, os.Stdout)
}

// initLogger initializes the structured logger.
//
// Log level is controlled by the DEBUG environment variable:
//   - DEBUG set (any value): debug level logging
//   - DEBUG not set: info level logging
//
// Logs go to stderr; stdout is reserved for the conversation.
func initLogger() log.Logger {
	return log.New(log.Config{
		Level: logLevel(),
	})
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// checkRequiredEnv verifies that all required environment variables are set.
//
// Currently checks:
//   - GEMINI_API_KEY: required for model and embedding access
func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "The ShopEZ support assistant requires a Gemini API key.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")

		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}

func printVersion() {
	fmt.Printf("supportbot v%s\n", AppVersion)
	fmt.Printf("Commit: %s\n", GitCommit)
}

func printHelp() {
	fmt.Println("supportbot - ShopEZ customer support assistant")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  supportbot             Start interactive chat mode (default)")
	fmt.Println("  supportbot --version   Show version information")
	fmt.Println("  supportbot --help      Show this help")
	fmt.Println()
	fmt.Println("Interactive Commands:")
	fmt.Println("  /help            Show available commands")
	fmt.Println("  /clear           Clear conversation history")
	fmt.Println("  /exit, /quit     Exit")
	fmt.Println("  Ctrl+D           Exit")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY        Required: Gemini API key")
	fmt.Println("  DEBUG                 Optional: Enable debug logging")
	fmt.Println("  SHOPEZ_QDRANT_HOST    Optional: Qdrant host (default localhost)")
	fmt.Println("  SHOPEZ_DOCUMENTS_DIR  Optional: Policy documents folder (default artefacts)")
}
