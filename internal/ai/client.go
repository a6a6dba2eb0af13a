// Package ai implements the model client for the agent loop on top of the
// Anthropic Messages API, using the beta computer-use tool surface.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
)

// ProviderError wraps a transport, HTTP, or stream failure from the model
// provider. Provider errors are fatal to an agent run.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Config carries the model parameters for a client. Model identity and the
// beta flag are explicit configuration rather than package-level constants so
// callers can pin them per run.
type Config struct {
	Model           anthropic.Model
	MaxOutputTokens int64
	Betas           []anthropic.AnthropicBeta
	RequestTimeout  time.Duration
}

// DefaultConfig returns the configuration for the current computer-use
// model generation.
func DefaultConfig() Config {
	return Config{
		Model:           anthropic.ModelClaudeSonnet4_20250514,
		MaxOutputTokens: 4096,
		Betas:           []anthropic.AnthropicBeta{anthropic.AnthropicBetaComputerUse2025_01_24},
		RequestTimeout:  5 * time.Minute,
	}
}

// Client submits agent conversations to the Anthropic Messages API. It
// implements agent.ModelClient.
type Client struct {
	client       anthropic.Client
	cfg          Config
	systemPrompt string
}

func NewClient(anthropicClient anthropic.Client, cfg Config, systemPrompt string) *Client {
	return &Client{
		client:       anthropicClient,
		cfg:          cfg,
		systemPrompt: systemPrompt,
	}
}

// Send submits the conversation and tool schema and returns the assistant's
// reply content. The response is streamed and folded into a single message,
// so callers see the same content blocks whether or not the transport
// streams.
func (c *Client) Send(ctx context.Context, conversation *agent.Conversation, schema agent.ToolSchema) ([]agent.ContentBlock, error) {
	params, err := c.buildParams(conversation, schema)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	stream := c.client.Beta.Messages.NewStreaming(ctx, params)
	message := anthropic.BetaMessage{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, &ProviderError{Err: fmt.Errorf("failed to accumulate response content stream: %w", err)}
		}
	}
	if stream.Err() != nil {
		return nil, &ProviderError{Err: fmt.Errorf("failed to stream response: %w", stream.Err())}
	}
	if message.StopReason == "" {
		b, err := json.Marshal(message)
		if err != nil {
			log.Printf("error while marshalling corrupt message for inspection: %v", err)
		}
		return nil, &ProviderError{Err: fmt.Errorf("malformed message: %v", string(b))}
	}

	log.Printf("Token usage - Input: %d, Output: %d, Stop reason: %s",
		message.Usage.InputTokens, message.Usage.OutputTokens, message.StopReason)

	return decodeContent(message.Content), nil
}
