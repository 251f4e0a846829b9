package cli

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/buckleypaul/dude/internal/app"
	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/config"
	"github.com/buckleypaul/dude/internal/serial"
)

// env carries what every command needs. Tests swap the port lister and
// executor.
type env struct {
	dir       string
	cfg       config.Config
	log       *logrus.Logger
	listPorts serial.Lister
	executor  avrdude.Executor
	logFile   *os.File
	timeout   time.Duration

	toolFlag    string
	timeoutFlag time.Duration
	verbose     bool
	logFileFlag string
}

func (e *env) client() *avrdude.Client {
	return avrdude.New(
		avrdude.WithTool(e.cfg.ToolPath),
		avrdude.WithExecutor(e.executor),
		avrdude.WithLogger(e.log),
		avrdude.WithTimeout(e.timeout),
	)
}

// Execute runs the dude command tree.
func Execute() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e := &env{
		dir:       cwd,
		log:       logrus.New(),
		listPorts: serial.ListPorts,
	}
	return e.execute(os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs the command tree with args. cobra skips post-run hooks when a
// command fails, so the log file is closed here instead.
func (e *env) execute(args []string, stdout, stderr io.Writer) error {
	defer e.close()
	root := newRootCmd(e)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	return root.Execute()
}

func (e *env) close() {
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "dude",
		Short: "Erase or verify Arduino boards through avrdude",
		Long: `dude drives avrdude to erase or verify the flash of ATmega328P based
Arduino boards (uno, nano, pro_mini) over a serial port.

Run without a subcommand for the interactive terminal UI.

Examples:
  dude                                   # interactive UI
  dude erase --port COM7 --board uno     # erase flash
  dude verify --board pro_mini           # verify on the only connected port
  dude ports                             # list serial ports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, e)
		},
	}

	root.PersistentFlags().StringVar(&e.toolFlag, "tool", "", "avrdude executable name or path")
	root.PersistentFlags().DurationVar(&e.timeoutFlag, "timeout", 0, "kill avrdude after this long (0 waits forever)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "V", false, "debug logging")
	root.PersistentFlags().StringVar(&e.logFileFlag, "log-file", "", "append logs to this file")

	root.AddCommand(
		newActionCmd(e, avrdude.ActionErase),
		newActionCmd(e, avrdude.ActionVerify),
		newPortsCmd(e),
		newBoardsCmd(e),
		newConfigCmd(e),
	)
	return root
}

// setup loads config, applies flag overrides and points the logger at the
// right sink. The TUI owns the terminal, so it only logs to a file.
func (e *env) setup(cmd *cobra.Command, tui bool) error {
	e.cfg = config.Load(e.dir)

	flags := cmd.Flags()
	if flags.Changed("tool") {
		e.cfg.ToolPath = e.toolFlag
	}
	e.timeout = e.cfg.Timeout()
	if flags.Changed("timeout") {
		e.timeout = e.timeoutFlag
	}
	if flags.Changed("log-file") {
		e.cfg.LogFile = e.logFileFlag
	}

	e.log.SetLevel(logrus.InfoLevel)
	if e.verbose {
		e.log.SetLevel(logrus.DebugLevel)
	}

	switch {
	case e.cfg.LogFile != "":
		f, err := os.OpenFile(e.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		e.logFile = f
		e.log.SetOutput(f)
		e.log.SetFormatter(&logrus.JSONFormatter{})
	case tui:
		e.log.SetOutput(io.Discard)
	default:
		e.log.SetOutput(cmd.ErrOrStderr())
		if !e.verbose {
			e.log.SetLevel(logrus.WarnLevel)
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, e *env) error {
	model := app.New(app.Options{
		Runner:          e.client(),
		ListPorts:       e.listPorts,
		RefreshInterval: e.cfg.RefreshInterval(),
		Board:           e.cfg.DefaultBoard,
		Port:            e.cfg.DefaultPort,
		Context:         cmd.Context(),
		Logger:          e.log,
	})

	e.log.WithField("tool", e.cfg.ToolPath).Info("starting ui")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
