// Package browser provides the Playwright-backed browser session the agent
// dispatches computer-use actions to.
package browser

import (
	"errors"
	"fmt"
)

// ErrNotStarted is reported by every driver operation invoked before the
// session is started or after it is closed.
var ErrNotStarted = errors.New("browser session not started")

// DriverError wraps a browser automation failure with the operation that
// produced it. Driver errors are fatal to an agent run.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("browser %s failed: %s", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

func driverErr(op string, err error) error {
	return &DriverError{Op: op, Err: err}
}
