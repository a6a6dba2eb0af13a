package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsInert(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{Enabled: false})
	require.NoError(t, err)

	runCtx, runID := provider.StartRun(ctx, "https://example.test", 10)
	assert.NotEmpty(t, runID)
	provider.RecordToolUse(runCtx, ToolUse{ToolName: "computer", InputSize: 12, ActionCount: 1})
	provider.EndRun("completed", 3, nil)

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestNewRunID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}
