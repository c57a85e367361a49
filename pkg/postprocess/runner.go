// Package postprocess hands a finished unit to an external program.
package postprocess

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"smartstitch/pkg/work"
)

const maxLine = 1024 * 1024

func New(fs afero.Fs, logger *zap.Logger) *Runner {
	return &Runner{fs: fs, logger: logger}
}

type Runner struct {
	fs     afero.Fs
	logger *zap.Logger
}

// Run executes command with argsTemplate resolved against unit, streaming
// its merged stdout and stderr to console line by line. An empty command is
// skipped.
func (r *Runner) Run(ctx context.Context, unit *work.Unit, command, argsTemplate string, console work.ConsoleFunc) error {
	if strings.TrimSpace(command) == "" {
		console.Print("No post process application configured. Skipping.")
		return nil
	}

	args := ResolveArgs(argsTemplate, unit.OutputPath, unit.PostprocessPath)
	logger := r.logger.With(zap.String("command", command), zap.Strings("args", args))

	if unit.PostprocessPath != "" {
		if err := r.fs.MkdirAll(unit.PostprocessPath, 0755); err != nil {
			return work.NewError(work.KindWrite, unit.PostprocessPath, errors.Wrap(err, "create postprocess dir"))
		}
	}

	console.Print("Executing post process: " + strings.Join(append([]string{command}, args...), " "))

	cmd := exec.CommandContext(ctx, command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return work.NewProcessError(command, -1, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return work.NewProcessError(command, -1, err)
	}
	logger.Debug("process started", zap.Int("pid", cmd.Process.Pid))
	console.Print("Post process started!")

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		console.Print(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("output not streamed", zap.Error(err))
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Info("process failed", zap.Int("code", exitErr.ExitCode()))
			return work.NewProcessError(command, exitErr.ExitCode(), err)
		}
		return work.NewProcessError(command, -1, err)
	}

	logger.Info("process finished")
	console.Print("Post process finished successfully!")
	return nil
}
