// Package agent drives a computer-use conversation with a vision-language
// model against a live browser session, relaying screenshots out and
// synthetic input events in until the model finishes or the iteration budget
// runs out.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/heatseekerbot/heatseeker-agent/internal/telemetry"
)

// ToolSchema describes the single computer tool advertised to the model. It
// is fixed for the duration of a run, and its display dimensions must match
// the viewport of the browser session that interprets coordinates.
type ToolSchema struct {
	Type            string
	Name            string
	DisplayWidthPx  int
	DisplayHeightPx int
	DisplayNumber   int
}

// ModelClient submits the conversation so far, together with the tool
// schema, and returns the assistant's reply content.
type ModelClient interface {
	Send(ctx context.Context, conversation *Conversation, schema ToolSchema) ([]ContentBlock, error)
}

// BrowserDriver is the browser automation capability the loop dispatches
// actions to. Implementations report failures as browser.DriverError values;
// any error from the driver is fatal to the run.
type BrowserDriver interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, x int, y int) error
	TypeText(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
	Scroll(ctx context.Context, x int, y int, deltaX float64, deltaY float64) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Status tags the terminal state of a run.
type Status string

const (
	StatusCompleted            Status = "completed"
	StatusMaxIterationsReached Status = "max_iterations_reached"
	StatusError                Status = "error"
)

// RunResult is the terminal record of one run. It is created once at loop
// exit and never mutated afterwards.
type RunResult struct {
	Status     Status `json:"status"`
	Iterations int    `json:"iterations"`
	Transcript []Turn `json:"transcript"`
	Cause      string `json:"cause,omitempty"`
}

// Agent owns one run's conversation and browser session.
type Agent struct {
	model  ModelClient
	driver BrowserDriver
	schema ToolSchema

	settleDelay time.Duration
	telemetry   *telemetry.Provider
}

// Option configures an Agent.
type Option func(*Agent)

// WithSettleDelay sets the pause applied after navigation and after each tool
// call's actions, before the screenshot is captured. Gives the game time to
// render the effects of the preceding actions.
func WithSettleDelay(d time.Duration) Option {
	return func(a *Agent) { a.settleDelay = d }
}

// WithTelemetry records per-tool-use telemetry on the given provider.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(a *Agent) { a.telemetry = p }
}

func New(model ModelClient, driver BrowserDriver, schema ToolSchema, opts ...Option) *Agent {
	a := &Agent{
		model:  model,
		driver: driver,
		schema: schema,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run drives the conversation until the model replies without requesting a
// tool use, the iteration budget is exhausted, or a model or browser failure
// ends the run. The browser session is released on every exit path. The
// returned RunResult always carries the status, the iteration count, and the
// transcript accumulated so far; the error is non-nil exactly when the status
// is StatusError.
func (a *Agent) Run(ctx context.Context, instruction string, gameURL string, maxIterations int) (RunResult, error) {
	defer func() {
		if err := a.driver.Close(); err != nil {
			log.Printf("failed to close browser session: %v", err)
		}
	}()

	if maxIterations < 1 {
		err := fmt.Errorf("max iterations must be at least 1, got %d", maxIterations)
		return RunResult{Status: StatusError, Cause: err.Error()}, err
	}

	conversation := &Conversation{}
	iterations := 0

	fail := func(err error) (RunResult, error) {
		return RunResult{
			Status:     StatusError,
			Iterations: iterations,
			Transcript: conversation.Turns(),
			Cause:      err.Error(),
		}, err
	}

	log.Printf("Starting run: url=%s maxIterations=%d display=%dx%d",
		gameURL, maxIterations, a.schema.DisplayWidthPx, a.schema.DisplayHeightPx)

	if err := a.driver.Navigate(ctx, gameURL); err != nil {
		return fail(fmt.Errorf("failed to navigate to %s: %w", gameURL, err))
	}
	if err := a.settle(ctx); err != nil {
		return fail(err)
	}
	screenshot, err := a.driver.Screenshot(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to capture initial screenshot: %w", err))
	}
	conversation.appendUser(NewTextBlock(instruction), NewImageBlock(screenshot))

	for iterations < maxIterations {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("run cancelled: %w", err))
		}

		reply, err := a.model.Send(ctx, conversation, a.schema)
		if err != nil {
			return fail(fmt.Errorf("model request failed: %w", err))
		}
		conversation.appendAssistant(reply...)

		toolUses := collectToolUses(reply)
		if len(toolUses) == 0 {
			log.Printf("Model ended its turn after %d iterations", iterations)
			return RunResult{
				Status:     StatusCompleted,
				Iterations: iterations,
				Transcript: conversation.Turns(),
			}, nil
		}

		results := make([]ContentBlock, 0, len(toolUses))
		for _, toolUse := range toolUses {
			result, err := a.handleToolUse(ctx, toolUse)
			if err != nil {
				return fail(err)
			}
			results = append(results, result)
		}
		conversation.appendUser(results...)

		iterations++
		log.Printf("Iteration %d/%d: handled %d tool call(s)", iterations, maxIterations, len(toolUses))
	}

	log.Printf("Iteration budget exhausted after %d iterations", iterations)
	return RunResult{
		Status:     StatusMaxIterationsReached,
		Iterations: iterations,
		Transcript: conversation.Turns(),
	}, nil
}

// handleToolUse executes one tool call: translate the input, dispatch the
// resulting actions in order, then capture exactly one trailing screenshot
// for the tool result. Tool calls naming an unknown tool are answered with an
// error result so the reply always carries one result per request.
func (a *Agent) handleToolUse(ctx context.Context, toolUse ToolUseBlock) (ContentBlock, error) {
	if toolUse.Name != a.schema.Name {
		log.Printf("Skipping unsupported tool %q", toolUse.Name)
		return NewErrorToolResultBlock(toolUse.ID, fmt.Sprintf("unsupported tool: %s", toolUse.Name)), nil
	}

	actions := ParseActions(toolUse.Input)
	if len(actions) == 0 {
		log.Printf("Tool input did not decode to any actions; returning a fresh screenshot")
	}

	for _, action := range actions {
		if err := a.perform(ctx, action); err != nil {
			return ContentBlock{}, fmt.Errorf("failed to perform %s action: %w", action.kind(), err)
		}
	}
	a.recordToolUse(ctx, toolUse, actions)

	if err := a.settle(ctx); err != nil {
		return ContentBlock{}, err
	}
	screenshot, err := a.driver.Screenshot(ctx)
	if err != nil {
		return ContentBlock{}, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return NewToolResultBlock(toolUse.ID, NewImageBlock(screenshot)), nil
}

// perform dispatches a single action against the browser.
func (a *Agent) perform(ctx context.Context, action Action) error {
	switch action := action.(type) {
	case ClickAction:
		log.Printf("    click (%d, %d)", action.X, action.Y)
		return a.driver.Click(ctx, action.X, action.Y)
	case TypeAction:
		log.Printf("    type %q", action.Text)
		return a.driver.TypeText(ctx, action.Text)
	case KeyAction:
		log.Printf("    key %q", action.Key)
		return a.driver.PressKey(ctx, action.Key)
	case ScrollAction:
		delta := action.WheelDelta()
		log.Printf("    scroll %s at (%d, %d), wheel delta %.0f", action.Direction, action.X, action.Y, delta)
		return a.driver.Scroll(ctx, action.X, action.Y, 0, delta)
	case ScreenshotAction:
		// The loop captures a screenshot after every tool call.
		return nil
	case UnknownAction:
		log.Printf("    skipping unknown action: %s", string(action.Raw))
		return nil
	default:
		log.Printf("    skipping unhandled action type %T", action)
		return nil
	}
}

func (a *Agent) settle(ctx context.Context) error {
	if a.settleDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("run cancelled: %w", ctx.Err())
	case <-time.After(a.settleDelay):
		return nil
	}
}

func (a *Agent) recordToolUse(ctx context.Context, toolUse ToolUseBlock, actions []Action) {
	if a.telemetry == nil {
		return
	}
	a.telemetry.RecordToolUse(ctx, telemetry.ToolUse{
		ToolName:    toolUse.Name,
		InputSize:   len(toolUse.Input),
		ActionCount: len(actions),
	})
}

func collectToolUses(content []ContentBlock) []ToolUseBlock {
	var toolUses []ToolUseBlock
	for _, block := range content {
		if block.OfToolUse != nil {
			toolUses = append(toolUses, *block.OfToolUse)
		}
	}
	return toolUses
}
