package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/ui"
)

func newPortsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := e.listPorts()
			if err != nil {
				return fmt.Errorf("list serial ports: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, ui.DimStyle.Render("No serial ports found."))
				return nil
			}
			fmt.Fprintln(out, ui.BoldStyle.Render(fmt.Sprintf("%-24s %s", "PORT", "DETAILS")))
			for _, p := range ports {
				fmt.Fprintf(out, "%-24s %s\n", p.Name, p.Label())
			}
			return nil
		},
	}
}

func newBoardsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List supported boards and their avrdude flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.BoldStyle.Render(fmt.Sprintf("%-10s %-14s %s", "BOARD", "PART", "PROGRAMMER")))
			for _, p := range avrdude.Profiles() {
				marker := " "
				if p.Board == e.cfg.DefaultBoard {
					marker = "*"
				}
				fmt.Fprintf(out, "%-10s %-14s %s %s\n", p.Board, p.Part, p.Programmer, marker)
			}
			return nil
		},
	}
}
