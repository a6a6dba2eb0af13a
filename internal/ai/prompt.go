package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed system_prompt.md
var systemPrompt string

//go:embed instruction_template.tmpl
var instructionTemplate string

// SystemPrompt returns the system prompt for computer-use runs.
func SystemPrompt() string {
	return systemPrompt
}

// InstructionData parameterizes the initial instruction sent to the model.
type InstructionData struct {
	URL         string
	PlayerName  string
	TargetLevel int
}

// BuildInstruction renders the initial game instruction for the given run.
func BuildInstruction(data InstructionData) (string, error) {
	if data.TargetLevel <= 0 {
		data.TargetLevel = 10
	}

	tmpl, err := template.New("instruction").Parse(instructionTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse instruction template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instruction template: %w", err)
	}
	return buf.String(), nil
}
