package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
)

func sampleResult() agent.RunResult {
	return agent.RunResult{
		Status:     agent.StatusCompleted,
		Iterations: 2,
		Transcript: []agent.Turn{
			{Role: agent.RoleUser, Content: []agent.ContentBlock{
				agent.NewTextBlock("play the game"),
				agent.NewImageBlock([]byte("initial-png")),
			}},
			{Role: agent.RoleAssistant, Content: []agent.ContentBlock{
				agent.NewTextBlock("I'll start by clicking the button."),
				agent.NewToolUseBlock("toolu_1", "computer", json.RawMessage(`{"click":{"x":100,"y":200}}`)),
			}},
			{Role: agent.RoleUser, Content: []agent.ContentBlock{
				agent.NewToolResultBlock("toolu_1", agent.NewImageBlock([]byte("after-png"))),
			}},
		},
	}
}

func TestToMarkdown_RendersRun(t *testing.T) {
	markdown, err := ToMarkdown("run-123", sampleResult())
	require.NoError(t, err)

	assert.Contains(t, markdown, "run-123")
	assert.Contains(t, markdown, "completed")
	assert.Contains(t, markdown, "play the game")
	assert.Contains(t, markdown, "I'll start by clicking the button.")
	assert.Contains(t, markdown, "click (100, 200)")
}

func TestToMarkdown_SummarizesUndecodableInput(t *testing.T) {
	result := agent.RunResult{
		Status: agent.StatusCompleted,
		Transcript: []agent.Turn{
			{Role: agent.RoleAssistant, Content: []agent.ContentBlock{
				agent.NewToolUseBlock("toolu_1", "computer", json.RawMessage(`{"click":`)),
			}},
		},
	}

	markdown, err := ToMarkdown("run-456", result)
	require.NoError(t, err)
	assert.Contains(t, markdown, "no actions decoded")
}

func TestFileSystemStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSystemStore(filepath.Join(dir, "runs"))
	require.NoError(t, err)

	original := sampleResult()
	require.NoError(t, store.Save("run-789", original))

	// Both artifacts exist.
	_, err = os.Stat(filepath.Join(dir, "runs", "run-789.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "runs", "run-789.md"))
	require.NoError(t, err)

	loaded, err := store.Load("run-789")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original.Status, loaded.Status)
	assert.Equal(t, original.Iterations, loaded.Iterations)
	require.Len(t, loaded.Transcript, 3)
	assert.Equal(t, "play the game", loaded.Transcript[0].Content[0].OfText.Text)
}

func TestFileSystemStore_LoadMissingReturnsNil(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
