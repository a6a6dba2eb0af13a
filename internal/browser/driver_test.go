package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_OperationsBeforeLaunchReportNotStarted(t *testing.T) {
	ctx := context.Background()
	var d Driver

	assert.ErrorIs(t, d.Navigate(ctx, "https://example.test"), ErrNotStarted)
	assert.ErrorIs(t, d.Click(ctx, 1, 2), ErrNotStarted)
	assert.ErrorIs(t, d.TypeText(ctx, "hi"), ErrNotStarted)
	assert.ErrorIs(t, d.PressKey(ctx, "Enter"), ErrNotStarted)
	assert.ErrorIs(t, d.Scroll(ctx, 1, 2, 0, 100), ErrNotStarted)

	_, err := d.Screenshot(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestDriver_CloseBeforeLaunchIsNoOp(t *testing.T) {
	var d Driver
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
}

func TestDriverError_FormatsAndUnwraps(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := driverErr("navigate", cause)

	var driverError *DriverError
	require.True(t, errors.As(err, &driverError))
	assert.Equal(t, "navigate", driverError.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "navigate")
	assert.Contains(t, err.Error(), "connection refused")
}
