package avrdude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTool is the executable looked up on PATH when no tool path is set.
const DefaultTool = "avrdude"

// SuccessSummary is the verify summary when avrdude exits with code 0.
const SuccessSummary = "Board responded, verification OK"

// Result is the raw outcome of one avrdude invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the process could not be started (*LaunchError),
	// was stopped by its context, or its output could not be collected.
	Err error
}

// LaunchFailed reports whether the process never started.
func (r Result) LaunchFailed() bool {
	var le *LaunchError
	return errors.As(r.Err, &le)
}

// ToolNotFound reports whether the executable could not be located.
func (r Result) ToolNotFound() bool {
	var le *LaunchError
	return errors.As(r.Err, &le) && le.NotFound()
}

// TimedOut reports whether the process was killed by its deadline.
func (r Result) TimedOut() bool {
	return errors.Is(r.Err, context.DeadlineExceeded)
}

// Check is a Result classified into success or failure with a one-line summary.
type Check struct {
	Result
	OK      bool
	Summary string
}

// Client builds avrdude invocations and runs them.
type Client struct {
	tool    string
	exec    Executor
	log     logrus.FieldLogger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTool sets the avrdude executable name or path.
func WithTool(tool string) Option {
	return func(c *Client) {
		if tool != "" {
			c.tool = tool
		}
	}
}

// WithExecutor replaces the process launcher.
func WithExecutor(e Executor) Option {
	return func(c *Client) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithLogger sets the logger used for invocation records.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each invocation. Zero waits for the tool forever.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a Client that runs DefaultTool through OSExecutor.
func New(opts ...Option) *Client {
	c := &Client{
		tool: DefaultTool,
		exec: OSExecutor{},
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tool returns the executable the client launches.
func (c *Client) Tool() string { return c.tool }

// Erase wipes the board's flash.
func (c *Client) Erase(ctx context.Context, port, board string) (Result, error) {
	args, err := Args(ActionErase, port, board)
	if err != nil {
		return Result{}, err
	}
	return c.invoke(ctx, args), nil
}

// Verify asks avrdude to connect to the board and classifies the outcome.
func (c *Client) Verify(ctx context.Context, port, board string) (Check, error) {
	args, err := Args(ActionVerify, port, board)
	if err != nil {
		return Check{}, err
	}
	return Classify(c.tool, c.invoke(ctx, args)), nil
}

// Run dispatches a request to Erase or Verify. Erase results carry no summary.
func (c *Client) Run(ctx context.Context, req Request) (Check, error) {
	switch req.Action {
	case ActionErase:
		res, err := c.Erase(ctx, req.Port, req.Board)
		if err != nil {
			return Check{}, err
		}
		return Check{Result: res, OK: res.ExitCode == 0 && res.Err == nil}, nil
	case ActionVerify:
		return c.Verify(ctx, req.Port, req.Board)
	}
	return Check{}, &ConfigError{Field: "action", Value: req.Action.String(), Err: ErrUnknownAction}
}

// ErrUnknownAction is wrapped by the ConfigError returned for an invalid Request.Action.
var ErrUnknownAction = errors.New("unknown action")

func (c *Client) invoke(ctx context.Context, args []string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := c.log.WithFields(logrus.Fields{
		"tool": c.tool,
		"args": strings.Join(args, " "),
	})
	log.Debug("starting avrdude")

	var stdout, stderr bytes.Buffer
	start := time.Now()
	code, err := c.exec.Exec(ctx, c.tool, args, &stdout, &stderr)
	duration := time.Since(start)

	var le *LaunchError
	if errors.As(err, &le) {
		log.WithError(err).Error("avrdude could not be started")
		msg := err.Error()
		if le.NotFound() {
			msg = ToolNotFoundMessage(c.tool)
		}
		return Result{ExitCode: ToolNotFoundExitCode, Stderr: msg, Err: err}
	}

	res := Result{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
	log.WithFields(logrus.Fields{
		"exit_code": code,
		"duration":  duration.Round(time.Millisecond),
	}).Debug("avrdude finished")
	return res
}

// ToolNotFoundMessage is the stderr text reported when tool is missing.
func ToolNotFoundMessage(tool string) string {
	return fmt.Sprintf("%s not found. Check that it is installed and on PATH.", tool)
}

// Classify turns a raw result into a pass/fail check with a short summary.
func Classify(tool string, r Result) Check {
	if r.ExitCode == 0 && r.Err == nil {
		return Check{Result: r, OK: true, Summary: SuccessSummary}
	}

	var summary string
	switch {
	case r.ToolNotFound():
		summary = fmt.Sprintf("tool not found: %s is not installed or not on PATH", tool)
	case r.LaunchFailed():
		summary = fmt.Sprintf("could not start %s: %v", tool, errors.Unwrap(r.Err))
	case r.TimedOut():
		summary = fmt.Sprintf("%s timed out", tool)
	default:
		summary = fmt.Sprintf("%s failed (exit code %d)", tool, r.ExitCode)
		if line := LastLine(r.Stderr); line != "" {
			summary += ": " + line
		}
	}
	return Check{Result: r, Summary: summary}
}

// LastLine returns the last non-blank line of s, trimmed.
func LastLine(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
