// Package llm wraps Genkit text generation for the support assistant.
//
// Every call is bounded by a timeout, rate limited, and retried with
// exponential backoff on transient provider errors. Callers receive either
// text or an error wrapping ErrGeneration; they decide the user-facing
// fallback.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shopez/supportbot/internal/config"
)

// ErrGeneration indicates the model failed to produce a response.
var ErrGeneration = errors.New("text generation failed")

// generateFunc matches genkit.Generate; swapped out in tests.
type generateFunc func(ctx context.Context, g *genkit.Genkit, opts ...ai.GenerateOption) (*ai.ModelResponse, error)

// Client issues generation requests against a single configured model.
type Client struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	timeout     time.Duration
	limiter     *rate.Limiter
	retry       RetryConfig
	generate    generateFunc
	logger      *slog.Logger
}

// NewClient creates a Client bound to the configured model.
func NewClient(g *genkit.Genkit, cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		g:           g,
		modelName:   cfg.FullModelName(),
		temperature: cfg.Temperature,
		timeout:     cfg.RequestTimeout,
		// Gemini free-tier quota is per-minute; smooth bursts instead of
		// tripping the provider's rate limiter.
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
		retry:    DefaultRetryConfig(),
		generate: genkit.Generate,
		logger:   logger.With("component", "llm"),
	}
}

// Generate produces text for prompt. Failures and empty model output are
// both reported as ErrGeneration.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.executeWithRetry(ctx, []ai.GenerateOption{
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: model returned empty response", ErrGeneration)
	}
	return text, nil
}

// ProposeToolCalls asks the model to pick among tools for prompt and returns
// the proposed calls without executing any tool handler.
func (c *Client) ProposeToolCalls(ctx context.Context, prompt string, tools []ai.ToolRef) ([]*ai.ToolRequest, error) {
	resp, err := c.executeWithRetry(ctx, []ai.GenerateOption{
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
		ai.WithTools(tools...),
		ai.WithReturnToolRequests(true),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return resp.ToolRequests(), nil
}

// executeWithRetry executes a generation with exponential backoff retry.
// Each attempt is rate limited and bounded by the client timeout.
func (c *Client) executeWithRetry(ctx context.Context, opts []ai.GenerateOption) (*ai.ModelResponse, error) {
	var lastErr error
	delay := c.retry.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := c.attempt(ctx, opts)
		if err == nil {
			c.logger.Debug("generation succeeded",
				"attempts", attempt+1,
				"elapsed", time.Since(start),
			)
			return resp, nil
		}

		lastErr = err

		// Non-retryable error - fail immediately
		if !retryableError(err) {
			return nil, fmt.Errorf("generate: %w", err)
		}

		// Last attempt - don't sleep
		if attempt == c.retry.MaxRetries {
			break
		}

		c.logger.Debug("retrying after error",
			"attempt", attempt+1,
			"delay", delay,
			"elapsed", time.Since(start),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, c.retry.MaxInterval)
		}
	}

	return nil, fmt.Errorf("generate after %d retries (elapsed: %v): %w",
		c.retry.MaxRetries, time.Since(start), lastErr)
}

// attempt runs one generation bounded by the client timeout.
func (c *Client) attempt(ctx context.Context, opts []ai.GenerateOption) (*ai.ModelResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.generate(ctx, c.g, opts...)
}
