package util

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// HasCommand checks if a command is available in the system PATH.
func HasCommand(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// Runner executes an external command and returns its trimmed combined
// output. Tests swap in fakes.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Run is the exec-backed Runner.
func Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := strings.TrimSpace(buf.String())
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}
