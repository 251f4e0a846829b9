package avrdude

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"time"
)

// ToolNotFoundExitCode is reported when avrdude could not be started at all.
// Use Result.ToolNotFound or Result.LaunchFailed to tell it apart from a real
// exit status, since avrdude itself may exit with any code.
const ToolNotFoundExitCode = -1

// waitDelay caps how long Wait keeps copying output once the context is done.
// Wrapper scripts can leave a grandchild holding stdout or stderr open.
const waitDelay = 2 * time.Second

// Executor launches a process, waits for it to exit and reports its exit code.
type Executor interface {
	Exec(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error)
}

// LaunchError means the process never started.
type LaunchError struct {
	Tool string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Tool, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// NotFound reports whether the executable could not be located.
func (e *LaunchError) NotFound() bool {
	return errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, fs.ErrNotExist)
}

// OSExecutor runs processes with os/exec.
type OSExecutor struct{}

func (OSExecutor) Exec(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return ToolNotFoundExitCode, &LaunchError{Tool: name, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return ToolNotFoundExitCode, &LaunchError{Tool: name, Err: err}
	}

	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	// A kill on deadline surfaces as an ExitError or exec.ErrWaitDelay.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return code, ctxErr
	}
	if exitErr != nil {
		return code, nil
	}
	return code, err
}
