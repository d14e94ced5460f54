package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand opens an interactive browser over a manifest's blocks.
func (c *CLI) inspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Browse the resolved blocks of a manifest",
		Long: `Resolve a manifest and browse its blocks interactively, with savestring
indexes and the wires entering and leaving the selected block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := manifestFormat(format, args[0])
			if err != nil {
				return err
			}
			src, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			m, err := runner.Build(ctx, src, f)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewInspectModel(m), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "manifest format: toml or yaml (default from extension)")
	return cmd
}
