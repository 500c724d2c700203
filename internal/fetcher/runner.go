package fetcher

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner runs an external command and returns its captured output.
// Tests substitute a fake to avoid invoking yt-dlp.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner is the os/exec implementation of CommandRunner.
type ExecRunner struct{}

// Run executes name with args, killing it if ctx is cancelled.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
