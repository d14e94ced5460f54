package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cm2kit/pkg/render/nodelink"
)

type dotOpts struct {
	output    string
	format    string
	svg       bool
	detailed  bool
	clusters  bool
	buildings bool
}

// dotCommand creates the dot command, which draws a manifest as a graph.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot <manifest>",
		Short: "Render a manifest as a Graphviz diagram",
		Long: `Resolve a manifest and write its blocks and wires as Graphviz DOT, or as SVG
with --svg.`,
		Example: `  cm2kit dot register.toml | dot -Tpng > register.png
  cm2kit dot register.toml --svg --clusters -o register.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "manifest format: toml or yaml (default from extension)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render SVG instead of DOT source")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include positions and state in labels")
	cmd.Flags().BoolVar(&opts.clusters, "clusters", true, "group array elements")
	cmd.Flags().BoolVar(&opts.buildings, "buildings", false, "draw buildings and their slot links")

	return cmd
}

func (c *CLI) runDot(cmd *cobra.Command, path string, opts dotOpts) error {
	ctx := cmd.Context()
	format, err := manifestFormat(opts.format, path)
	if err != nil {
		return err
	}
	src, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	m, err := runner.Build(ctx, src, format)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(m, nodelink.Options{
		Detailed:  opts.detailed,
		Clusters:  opts.clusters,
		Buildings: opts.buildings,
	})
	out := []byte(dot)
	if opts.svg {
		prog := newProgress(c.Logger)
		if out, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return err
		}
		prog.done("Rendered SVG")
	}
	return writeOutput(opts.output, cmd.OutOrStdout(), out)
}
