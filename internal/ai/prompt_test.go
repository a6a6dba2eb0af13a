package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt_NotEmpty(t *testing.T) {
	prompt := SystemPrompt()
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "browser")
}

func TestBuildInstruction_IncludesRunDetails(t *testing.T) {
	instruction, err := BuildInstruction(InstructionData{
		URL:         "https://heatseeker-one.vercel.app",
		PlayerName:  "Claude 4.5",
		TargetLevel: 10,
	})
	require.NoError(t, err)

	assert.Contains(t, instruction, "https://heatseeker-one.vercel.app")
	assert.Contains(t, instruction, `"Claude 4.5"`)
	assert.Contains(t, instruction, "level 10")
}

func TestBuildInstruction_OmitsPlayerNameWhenEmpty(t *testing.T) {
	instruction, err := BuildInstruction(InstructionData{
		URL:         "https://example.test",
		TargetLevel: 3,
	})
	require.NoError(t, err)

	assert.NotContains(t, instruction, "Leaderboard score")
	assert.Contains(t, instruction, "level 3")
}

func TestBuildInstruction_DefaultsTargetLevel(t *testing.T) {
	instruction, err := BuildInstruction(InstructionData{URL: "https://example.test"})
	require.NoError(t, err)

	assert.Contains(t, instruction, "level 10")
}
