package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
)

// stderrTail bounds how much tool stderr ends up in an error message.
const stderrTail = 2048

// shellRunner executes tool scripts in an embedded POSIX shell.
type shellRunner struct {
	workDir string
	timeout time.Duration
	environ func() []string
}

func newShellRunner(workDir string, timeout time.Duration) *shellRunner {
	return &shellRunner{
		workDir: workDir,
		timeout: timeout,
		environ: os.Environ,
	}
}

// run parses and executes script with the process environment extended by
// env. It returns the captured stdout.
func (r *shellRunner) run(ctx context.Context, tool, script string, env map[string]string) ([]byte, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: %s", ErrToolNotConfigured, tool)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidToolScript, tool, err)
	}

	workDir := r.workDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolve tool working dir: %w", err)
		}
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(append(r.environ(), envToSlice(env)...)...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err = runner.Run(runCtx, prog)
	log.Debug().
		Str("tool", tool).
		Dur("elapsed", time.Since(start)).
		Int("stdout_bytes", stdout.Len()).
		Msg("tool finished")

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s after %s", ErrToolTimeout, tool, r.timeout)
	}
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return nil, fmt.Errorf("%w: %s exited with status %d: %s", ErrToolFailed, tool, int(exitStatus), tail(stderr.String()))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrToolFailed, tool, err)
	}

	if stderr.Len() > 0 {
		log.Debug().Str("tool", tool).Str("stderr", tail(stderr.String())).Msg("tool stderr")
	}
	return stdout.Bytes(), nil
}

// envToSlice renders env as sorted KEY=VALUE pairs.
func envToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTail {
		return s
	}
	return "..." + s[len(s)-stderrTail:]
}
