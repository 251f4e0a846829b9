package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/serial"
	"github.com/buckleypaul/dude/internal/ui"
)

func newActionCmd(e *env, action avrdude.Action) *cobra.Command {
	var port, board string

	cmd := &cobra.Command{
		Use:  action.String(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if board == "" {
				board = e.cfg.DefaultBoard
			}
			p, err := resolvePort(e, port)
			if err != nil {
				return err
			}
			if action == avrdude.ActionErase {
				return runErase(cmd, e, p, board)
			}
			return runVerify(cmd, e, p, board)
		},
	}

	if action == avrdude.ActionErase {
		cmd.Short = "Erase the board's flash memory"
	} else {
		cmd.Short = "Check that avrdude can reach the board"
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port (default: configured port, or the only port present)")
	cmd.Flags().StringVarP(&board, "board", "b", "", "board type: "+strings.Join(avrdude.Boards(), ", "))
	return cmd
}

func runErase(cmd *cobra.Command, e *env, port, board string) error {
	c := e.client()
	res, err := c.Erase(cmd.Context(), port, board)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
	if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	switch {
	case res.ToolNotFound():
		return fmt.Errorf("tool not found: install avrdude or pass --tool")
	case res.Err != nil:
		return fmt.Errorf("%s: %w", c.Tool(), res.Err)
	case res.ExitCode != 0:
		return fmt.Errorf("%s exited with code %d", c.Tool(), res.ExitCode)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render(fmt.Sprintf("Flash erased on %s (%s)", port, board)))
	return nil
}

func runVerify(cmd *cobra.Command, e *env, port, board string) error {
	check, err := e.client().Verify(cmd.Context(), port, board)
	if err != nil {
		return err
	}

	if e.verbose {
		fmt.Fprint(cmd.OutOrStdout(), check.Stdout)
		fmt.Fprint(cmd.ErrOrStderr(), check.Stderr)
	}
	if !check.OK {
		return fmt.Errorf("verify failed: %s", check.Summary)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render(check.Summary))
	return nil
}

// resolvePort picks the port to use: the flag, then the configured default,
// then the only port present.
func resolvePort(e *env, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if e.cfg.DefaultPort != "" {
		return e.cfg.DefaultPort, nil
	}

	ports, err := e.listPorts()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}
	names := serial.Names(ports)
	if len(names) == 1 {
		e.log.WithField("port", names[0]).Debug("using the only serial port present")
		return names[0], nil
	}

	noPort := &avrdude.ConfigError{Field: "port", Err: avrdude.ErrNoPort}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no serial ports detected", noPort)
	}
	return "", fmt.Errorf("%w: pass --port (found %s)", noPort, strings.Join(names, ", "))
}
