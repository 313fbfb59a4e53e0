package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

type runner struct {
	dir string
	env []string
}

// Option configures the subprocess runner
type Option func(*runner)

// WithDir sets the working directory of every command
func WithDir(dir string) Option {
	return func(r *runner) {
		r.dir = dir
	}
}

// WithEnv appends KEY=VALUE entries to the inherited environment
func WithEnv(env ...string) Option {
	return func(r *runner) {
		r.env = append(r.env, env...)
	}
}

// New creates a CommandRunner that executes real processes
func New(opts ...Option) interfaces.CommandRunner {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command and returns its standard output. A non-zero exit
// status is reported as types.ErrCommandFailed with stderr attached.
func (r *runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger := ctxlog.From(ctx)
	cmdline := strings.Join(append([]string{name}, args...), " ")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Running command", "command", cmdline, "dir", r.dir)
	out, err := cmd.Output()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		return out, goerr.Wrap(types.ErrCommandFailed, "command failed",
			goerr.V("command", cmdline),
			goerr.V("exit_code", exitCode),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
			goerr.V("cause", err.Error()),
		)
	}

	return out, nil
}
