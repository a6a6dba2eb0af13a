package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
)

// Store persists finished runs keyed by run ID.
type Store interface {
	// Save persists the run result and its rendered markdown transcript.
	Save(runID string, result agent.RunResult) error
	// Load returns the stored run result, or nil if no run with that ID exists.
	Load(runID string) (*agent.RunResult, error)
}

// FileSystemStore implements Store on a directory: <runID>.json holds the raw
// result, <runID>.md the rendered transcript.
type FileSystemStore struct {
	dir string
}

// NewFileSystemStore creates the directory if needed and returns a store
// rooted at it.
func NewFileSystemStore(dir string) (*FileSystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}
	return &FileSystemStore{dir: dir}, nil
}

func (s *FileSystemStore) Save(runID string, result agent.RunResult) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, runID+".json"), b, 0o644); err != nil {
		return fmt.Errorf("failed to write run result: %w", err)
	}

	markdown, err := ToMarkdown(runID, result)
	if err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, runID+".md"), []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

func (s *FileSystemStore) Load(runID string) (*agent.RunResult, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, runID+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read run result: %w", err)
	}
	var result agent.RunResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
	}
	return &result, nil
}
