package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/config"
	"github.com/buckleypaul/dude/internal/serial"
)

type fakeExecutor struct {
	exitCode int
	stdout   string
	stderr   string
	err      error

	names []string
	args  [][]string
}

func (f *fakeExecutor) Exec(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	f.names = append(f.names, name)
	f.args = append(f.args, append([]string(nil), args...))
	io.WriteString(stdout, f.stdout)
	io.WriteString(stderr, f.stderr)
	return f.exitCode, f.err
}

func run(t *testing.T, fake *fakeExecutor, portNames []string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var ports []serial.PortInfo
	for _, n := range portNames {
		ports = append(ports, serial.PortInfo{Name: n})
	}
	e := &env{
		dir:       t.TempDir(),
		log:       logrus.New(),
		listPorts: func() ([]serial.PortInfo, error) { return ports, nil },
		executor:  fake,
	}

	var stdout, stderr bytes.Buffer
	err := e.execute(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestEraseCommand(t *testing.T) {
	fake := &fakeExecutor{stderr: "avrdude done.  Thank you.\n"}

	stdout, stderr, err := run(t, fake, nil, "erase", "--port", "COM7", "--board", "uno")
	if err != nil {
		t.Fatalf("erase failed: %v", err)
	}
	want := []string{"-patmega328p", "-carduino", "-PCOM7", "-b115200", "-e"}
	if diff := cmp.Diff(want, fake.args[0]); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if fake.names[0] != "avrdude" {
		t.Fatalf("expected avrdude, got %s", fake.names[0])
	}
	if !strings.Contains(stdout, "Flash erased on COM7 (uno)") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "Thank you") {
		t.Fatalf("expected avrdude stderr passed through, got %q", stderr)
	}
}

func TestEraseCommandToolFailure(t *testing.T) {
	fake := &fakeExecutor{exitCode: 1, stderr: "avrdude: ser_open(): can't open device"}

	_, _, err := run(t, fake, nil, "erase", "-p", "COM7", "-b", "nano")
	if err == nil || err.Error() != "avrdude exited with code 1" {
		t.Fatalf("expected exit code error, got %v", err)
	}
}

func TestVerifyUsesOnlyPort(t *testing.T) {
	fake := &fakeExecutor{}

	stdout, _, err := run(t, fake, []string{"/dev/ttyUSB0"}, "verify", "--board", "pro_mini")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	want := []string{"-patmega328p", "-cminipro", "-P/dev/ttyUSB0", "-b115200", "-v"}
	if diff := cmp.Diff(want, fake.args[0]); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, avrdude.SuccessSummary) {
		t.Fatalf("expected success summary, got %q", stdout)
	}
}

func TestVerifyToolNotFound(t *testing.T) {
	fake := &fakeExecutor{
		exitCode: avrdude.ToolNotFoundExitCode,
		err:      &avrdude.LaunchError{Tool: "avrdude", Err: exec.ErrNotFound},
	}

	_, _, err := run(t, fake, nil, "verify", "--port", "COM3")
	if err == nil || !strings.Contains(err.Error(), "tool not found") {
		t.Fatalf("expected tool not found error, got %v", err)
	}
}

func TestActionNeedsPortWhenSeveralPresent(t *testing.T) {
	fake := &fakeExecutor{}

	_, _, err := run(t, fake, []string{"COM1", "COM2"}, "erase")
	if !errors.Is(err, avrdude.ErrNoPort) {
		t.Fatalf("expected ErrNoPort, got %v", err)
	}
	if !strings.Contains(err.Error(), "COM1, COM2") {
		t.Fatalf("expected port list in error, got %v", err)
	}
	if len(fake.args) != 0 {
		t.Fatal("expected no launch")
	}
}

func TestUnknownBoard(t *testing.T) {
	fake := &fakeExecutor{}

	_, _, err := run(t, fake, nil, "verify", "--port", "COM1", "--board", "mega2560")
	if !errors.Is(err, avrdude.ErrUnknownBoard) {
		t.Fatalf("expected ErrUnknownBoard, got %v", err)
	}
	if len(fake.args) != 0 {
		t.Fatal("expected no launch")
	}
}

func TestToolFlagOverridesConfig(t *testing.T) {
	fake := &fakeExecutor{}

	_, _, err := run(t, fake, nil, "--tool", "/opt/avrdude/bin/avrdude", "erase", "--port", "COM1")
	if err != nil {
		t.Fatalf("erase failed: %v", err)
	}
	if fake.names[0] != "/opt/avrdude/bin/avrdude" {
		t.Fatalf("expected tool override, got %s", fake.names[0])
	}
}

func TestBoardsCommand(t *testing.T) {
	stdout, _, err := run(t, &fakeExecutor{}, nil, "boards")
	if err != nil {
		t.Fatalf("boards failed: %v", err)
	}
	for _, want := range []string{"uno", "nano", "pro_mini", "-cminipro"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestPortsCommand(t *testing.T) {
	stdout, _, err := run(t, &fakeExecutor{}, []string{"COM3", "COM4"}, "ports")
	if err != nil {
		t.Fatalf("ports failed: %v", err)
	}
	if !strings.Contains(stdout, "COM3") || !strings.Contains(stdout, "COM4") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestConfigInit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	e := &env{dir: dir, log: logrus.New(), listPorts: serial.ListPorts}

	var stdout bytes.Buffer
	root := newRootCmd(e)
	root.SetOut(&stdout)
	root.SetArgs([]string{"config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(config.LocalPath(dir)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(stdout.String(), config.LocalPath(dir)) {
		t.Fatalf("expected path in output, got %q", stdout.String())
	}
}

func TestLogFileClosedWhenCommandFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logPath := filepath.Join(t.TempDir(), "dude.log")
	e := &env{
		dir:       t.TempDir(),
		log:       logrus.New(),
		listPorts: func() ([]serial.PortInfo, error) { return nil, nil },
		executor:  &fakeExecutor{exitCode: 1},
	}

	var out bytes.Buffer
	err := e.execute([]string{"--log-file", logPath, "erase", "--port", "COM1"}, &out, &out)
	if err == nil {
		t.Fatal("expected erase to fail")
	}
	if e.logFile == nil {
		t.Fatal("expected log file to be opened")
	}
	if _, err := e.logFile.WriteString("late\n"); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected closed log file, got %v", err)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}
