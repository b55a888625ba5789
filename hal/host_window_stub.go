//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Scale int
}

func RunWindow(_ context.Context, _ HAL, _ Runner, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
