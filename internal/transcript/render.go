// Package transcript renders and persists finished agent runs so a game can
// be reviewed after the fact without replaying it.
package transcript

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
)

//go:embed transcript_template.tmpl
var transcriptTemplate string

// markdownData is the flattened view of a run handed to the template.
type markdownData struct {
	RunID      string
	Status     string
	Iterations int
	Cause      string
	CreatedAt  string
	Messages   []markdownMessage
}

// markdownMessage is one sequential entry in the rendered transcript. Type is
// one of "user_text", "assistant_text", "tool_use", or "tool_result".
type markdownMessage struct {
	Type    string
	Text    string
	Actions []string
	IsError bool
}

// ToMarkdown renders the run as a readable markdown document. Screenshots are
// summarized by size rather than inlined.
func ToMarkdown(runID string, result agent.RunResult) (string, error) {
	data := buildMarkdownData(runID, result)

	tmpl, err := template.New("transcript").Parse(transcriptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse transcript template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render transcript: %w", err)
	}
	return buf.String(), nil
}

func buildMarkdownData(runID string, result agent.RunResult) markdownData {
	data := markdownData{
		RunID:      runID,
		Status:     string(result.Status),
		Iterations: result.Iterations,
		Cause:      result.Cause,
		CreatedAt:  time.Now().Format("2006-01-02 15:04:05 MST"),
	}

	for _, turn := range result.Transcript {
		for _, block := range turn.Content {
			switch {
			case block.OfText != nil:
				messageType := "user_text"
				if turn.Role == agent.RoleAssistant {
					messageType = "assistant_text"
				}
				data.Messages = append(data.Messages, markdownMessage{
					Type: messageType,
					Text: block.OfText.Text,
				})
			case block.OfImage != nil:
				data.Messages = append(data.Messages, markdownMessage{
					Type: "user_text",
					Text: fmt.Sprintf("(screenshot, %d bytes)", len(block.OfImage.Data)),
				})
			case block.OfToolUse != nil:
				data.Messages = append(data.Messages, markdownMessage{
					Type:    "tool_use",
					Actions: summarizeActions(block.OfToolUse.Input),
				})
			case block.OfToolResult != nil:
				data.Messages = append(data.Messages, markdownMessage{
					Type:    "tool_result",
					Text:    summarizeToolResult(block.OfToolResult),
					IsError: block.OfToolResult.IsError,
				})
			}
		}
	}
	return data
}

// summarizeActions renders each decoded action as one human-readable line.
func summarizeActions(input json.RawMessage) []string {
	actions := agent.ParseActions(input)
	summaries := make([]string, 0, len(actions))
	for _, action := range actions {
		switch action := action.(type) {
		case agent.ClickAction:
			summaries = append(summaries, fmt.Sprintf("click (%d, %d)", action.X, action.Y))
		case agent.TypeAction:
			summaries = append(summaries, fmt.Sprintf("type %q", action.Text))
		case agent.KeyAction:
			summaries = append(summaries, fmt.Sprintf("press %q", action.Key))
		case agent.ScrollAction:
			summaries = append(summaries, fmt.Sprintf("scroll %s at (%d, %d)", action.Direction, action.X, action.Y))
		case agent.ScreenshotAction:
			summaries = append(summaries, "screenshot")
		case agent.UnknownAction:
			summaries = append(summaries, fmt.Sprintf("unknown action: %s", string(action.Raw)))
		}
	}
	if len(summaries) == 0 {
		summaries = append(summaries, fmt.Sprintf("no actions decoded from input: %s", string(input)))
	}
	return summaries
}

func summarizeToolResult(result *agent.ToolResultBlock) string {
	for _, block := range result.Content {
		switch {
		case block.OfText != nil:
			return block.OfText.Text
		case block.OfImage != nil:
			return fmt.Sprintf("(screenshot, %d bytes)", len(block.OfImage.Data))
		}
	}
	return "(empty result)"
}
