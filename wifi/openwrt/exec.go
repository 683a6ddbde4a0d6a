package openwrt

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner runs a command and returns its stdout. Errors include stderr.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands on the local system.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return runWithOutput(exec.CommandContext(ctx, name, args...))
}

// runWithOutput wraps exec.Command to capture stderr and wrap errors.
func runWithOutput(c *exec.Cmd) ([]byte, error) {
	var stderr strings.Builder
	c.Stderr = &stderr
	slog.Debug("running command", "cmd", c.String())
	out, err := c.Output()
	if err != nil {
		return out, fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func run(ctx context.Context, r Runner, name string, args ...string) ([]byte, error) {
	if r == nil {
		r = ExecRunner
	}
	return r(ctx, name, args...)
}
