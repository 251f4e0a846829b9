package avrdude

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// OutputMsg carries avrdude's standard output for a request.
type OutputMsg struct {
	RequestID string
	Text      string
}

// ErrorMsg carries avrdude's standard error, or the reason it could not run.
type ErrorMsg struct {
	RequestID string
	Text      string
}

// FinishedMsg is always the last event for a request.
type FinishedMsg struct {
	RequestID string
	Request   Request
	Check     Check
	Duration  time.Duration
	// Err is a configuration error returned before anything was launched.
	Err error
}

// StartedMsg hands the event channel of a running request to the model.
type StartedMsg struct {
	RequestID string
	Events    <-chan tea.Msg
}

// Runner executes a request to completion.
type Runner interface {
	Run(ctx context.Context, req Request) (Check, error)
}

// Start runs req on its own goroutine and returns a StartedMsg. The goroutine
// only ever sends messages; the caller drains them with WaitForEvent.
func Start(ctx context.Context, r Runner, requestID string, req Request) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg, 4)
		go func() {
			defer close(ch)
			start := time.Now()
			check, err := r.Run(ctx, req)
			done := FinishedMsg{
				RequestID: requestID,
				Request:   req,
				Check:     check,
				Duration:  time.Since(start),
				Err:       err,
			}
			if err != nil {
				ch <- ErrorMsg{RequestID: requestID, Text: err.Error()}
				ch <- done
				return
			}

			if check.LaunchFailed() {
				ch <- ErrorMsg{RequestID: requestID, Text: check.Stderr}
			} else {
				if check.Stdout != "" {
					ch <- OutputMsg{RequestID: requestID, Text: check.Stdout}
				}
				if check.Stderr != "" {
					ch <- ErrorMsg{RequestID: requestID, Text: check.Stderr}
				}
			}
			ch <- done
		}()
		return StartedMsg{RequestID: requestID, Events: ch}
	}
}

// WaitForEvent reads the next event from a running request.
func WaitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
