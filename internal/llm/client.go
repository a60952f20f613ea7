// Package llm wraps an Eino chat model behind a small text-in text-out
// client with bounded retries and JSON response handling. The resolution
// pipeline talks to the model exclusively through this package.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/filterchat/filterchat-go/internal/logging"
)

// ErrNotJSON reports that a JSON-mode generation returned content from which
// no JSON document could be recovered, even after extraction.
var ErrNotJSON = errors.New("llm: response is not valid JSON")

// Client is the minimal LLM surface the pipeline depends on. Implementations
// must be safe to call from multiple goroutines.
type Client interface {
	// Generate sends a system and user prompt to the model and returns the
	// assistant's text. When jsonMode is true the returned string is
	// guaranteed to be a valid JSON document.
	Generate(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error)
}

// DefaultRetries is the number of generation attempts made before giving up.
const DefaultRetries = 3

// defaultRetryDelay is the base delay between attempts. The actual delay
// grows linearly with the attempt number.
const defaultRetryDelay = time.Second

// EinoClient implements Client on top of an Eino chat model.
type EinoClient struct {
	// model is the underlying chat model.
	model model.BaseChatModel

	// retries is the total number of attempts per Generate call.
	retries int

	// retryDelay is the base delay between attempts.
	retryDelay time.Duration
}

// NewEinoClient wraps a chat model. retries <= 0 selects DefaultRetries.
func NewEinoClient(chatModel model.BaseChatModel, retries int) (*EinoClient, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("llm: chat model must not be nil")
	}
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &EinoClient{model: chatModel, retries: retries, retryDelay: defaultRetryDelay}, nil
}

// Generate sends the prompts to the model, retrying transient failures with
// a linearly increasing delay. In JSON mode, content that does not parse as
// JSON is run through bracket extraction before the attempt counts as failed.
func (c *EinoClient) Generate(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	logger := logging.FromContext(ctx)

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			delay := c.retryDelay * time.Duration(attempt-1)
			logger.Debug("retrying generation", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("llm: generation cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		msg, err := c.model.Generate(ctx, messages)
		if err != nil {
			lastErr = fmt.Errorf("llm: generation failed: %w", err)
			logger.Warn("generation attempt failed", "attempt", attempt, "error", err)
			continue
		}

		content := msg.Content
		if !jsonMode {
			return content, nil
		}

		extracted, err := EnsureJSON(content)
		if err != nil {
			lastErr = err
			logger.Warn("model returned non-JSON content in JSON mode", "attempt", attempt)
			continue
		}
		return extracted, nil
	}

	return "", fmt.Errorf("llm: all %d attempts failed: %w", c.retries, lastErr)
}
