package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
	"mutafuzz.dev/pkg/mutafuzz/internal/state"
)

// InputFileMarker in a target argument list is replaced with the path of a
// file holding the current input. Without it the input is written to stdin.
const InputFileMarker = "@@"

// DefaultTargetTimeout bounds a single target execution.
const DefaultTargetTimeout = time.Second

// waitDelay bounds how long output pipes are drained after the target is killed.
const waitDelay = 100 * time.Millisecond

// CommandConfig describes how to run the target program.
type CommandConfig struct {
	// Args is the program followed by its arguments.
	Args []string
	// Timeout bounds one execution. Zero means DefaultTargetTimeout.
	Timeout time.Duration
	// CrashOnNonZero reports a non-zero exit status as a crash.
	CrashOnNonZero bool
	// WorkDir is the working directory of the target.
	WorkDir string
}

// CommandExecutor runs an external program once per input.
type CommandExecutor[I m.Input] struct {
	cfg       CommandConfig
	toBytes   func(I) ([]byte, error)
	inputDir  string
	inputPath string
	fileArg   []bool
}

// NewCommandExecutor prepares a target. toBytes renders an input into what the
// target reads.
func NewCommandExecutor[I m.Input](cfg CommandConfig, toBytes func(I) ([]byte, error)) (*CommandExecutor[I], error) {
	if len(cfg.Args) == 0 || cfg.Args[0] == "" {
		return nil, m.IllegalArgument("target command is empty")
	}

	if toBytes == nil {
		return nil, m.IllegalArgument("target input renderer is nil")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTargetTimeout
	}

	e := &CommandExecutor[I]{
		cfg:     cfg,
		toBytes: toBytes,
		fileArg: make([]bool, len(cfg.Args)),
	}

	usesFile := false

	for i, arg := range cfg.Args {
		if i > 0 && arg == InputFileMarker {
			e.fileArg[i] = true
			usesFile = true
		}
	}

	if usesFile {
		dir, err := os.MkdirTemp("", "mutafuzz-input-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create input dir: %w", err)
		}

		e.inputDir = dir
		e.inputPath = filepath.Join(dir, ".cur_input")
	}

	return e, nil
}

// BytesTarget renders a BytesInput as its raw bytes.
func BytesTarget(input *m.BytesInput) ([]byte, error) {
	return input.Bytes(), nil
}

// RunTarget executes the program on input and classifies how it ended.
func (e *CommandExecutor[I]) RunTarget(ctx context.Context, _ *state.State[I], input I) (m.ExitKind, m.Observation, error) {
	data, err := e.toBytes(input)
	if err != nil {
		return m.ExitOk, m.Observation{}, fmt.Errorf("failed to render input: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := e.cfg.Args
	if e.inputPath != "" {
		if err := os.WriteFile(e.inputPath, data, 0o600); err != nil {
			return m.ExitOk, m.Observation{}, fmt.Errorf("failed to write input file: %w", err)
		}

		args = make([]string, len(e.cfg.Args))
		for i, arg := range e.cfg.Args {
			if e.fileArg[i] {
				arg = e.inputPath
			}

			args[i] = arg
		}
	}

	// #nosec G204 - running the user-supplied target is the purpose of the fuzzer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = e.cfg.WorkDir
	cmd.WaitDelay = waitDelay

	if e.inputPath == "" {
		cmd.Stdin = bytes.NewReader(data)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	obs := m.Observation{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctx.Err() != nil {
		return m.ExitOk, obs, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		obs.ExitCode = -1
		return m.ExitTimeout, obs, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		obs.ExitCode = exitErr.ExitCode()

		// ExitCode is -1 when the process was terminated by a signal.
		if obs.ExitCode == -1 || e.cfg.CrashOnNonZero {
			return m.ExitCrash, obs, nil
		}

		return m.ExitOk, obs, nil
	}

	if runErr != nil {
		slog.Error("Failed to start target", "command", args[0], "error", runErr)
		return m.ExitOk, obs, fmt.Errorf("failed to run target: %w", runErr)
	}

	return m.ExitOk, obs, nil
}

// Close removes the input file directory, if any.
func (e *CommandExecutor[I]) Close() error {
	if e.inputDir == "" {
		return nil
	}

	return os.RemoveAll(e.inputDir)
}
