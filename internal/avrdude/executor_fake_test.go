package avrdude

import (
	"context"
	"io"
)

type execCall struct {
	name string
	args []string
}

type fakeExecutor struct {
	exitCode int
	stdout   string
	stderr   string
	err      error

	calls []execCall
}

func (f *fakeExecutor) Exec(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	f.calls = append(f.calls, execCall{name: name, args: append([]string(nil), args...)})
	io.WriteString(stdout, f.stdout)
	io.WriteString(stderr, f.stderr)
	return f.exitCode, f.err
}
