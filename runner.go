package trello2pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/alnah/go-trello2pdf/internal/process"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string // working directory; empty inherits ours
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (stdout string, stderr string, err error)
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)

// ExecRunner implements CommandRunner using os/exec.
// Output is always captured; when Stdout or Stderr is set the child's
// streams are also copied there as they arrive.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command in its own process group and waits for it.
// Cancelling ctx kills the whole group.
func (r *ExecRunner) Run(ctx context.Context, c Command) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- binaries come from trusted config
	cmd.Dir = c.Dir
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, r.Stdout)
	cmd.Stderr = tee(&stderr, r.Stderr)

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%s interrupted: %w", c.Name, ctx.Err())
	}
	return stdout.String(), stderr.String(), err
}

func tee(capture *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return capture
	}
	return io.MultiWriter(capture, w)
}
