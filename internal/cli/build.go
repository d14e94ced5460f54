package cli

import (
	"time"

	"github.com/spf13/cobra"

	cmio "github.com/matzehuels/cm2kit/pkg/io"
	"github.com/matzehuels/cm2kit/pkg/pipeline"
	"github.com/matzehuels/cm2kit/pkg/store"
)

type buildOpts struct {
	output  string
	format  string
	jsonOut string
	save    string
	noCache bool
	refresh bool
}

// buildCommand creates the build command, which compiles a manifest into a
// savestring.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <manifest>",
		Short: "Compile a manifest into a savestring",
		Long: `Compile a TOML or YAML manifest into a Circuit Maker 2 savestring.

The savestring goes to standard output unless -o is given. Use "-" to read the
manifest from standard input (with --format).`,
		Example: `  cm2kit build register.toml -o register.cm2
  cm2kit build adder.yaml --store adder
  cat main.toml | cm2kit build - --format toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "savestring output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "manifest format: toml or yaml (default from extension)")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "also write the resolved graph as JSON to this file")
	cmd.Flags().StringVar(&opts.save, "store", "", "save the savestring in the artifact store under this name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the compile cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when cached")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOpts) error {
	ctx := cmd.Context()
	format, err := manifestFormat(opts.format, path)
	if err != nil {
		return err
	}
	if opts.save != "" {
		if err := store.ValidateName(opts.save); err != nil {
			return err
		}
	}
	src, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Compile(ctx, src, pipeline.Options{Format: format, Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.done("Compiled " + res.Name)

	if err := writeOutput(opts.output, cmd.OutOrStdout(), []byte(res.Savestring)); err != nil {
		return err
	}

	if opts.jsonOut != "" {
		m, err := runner.Build(ctx, src, format)
		if err != nil {
			return err
		}
		if err := cmio.ExportJSON(m, opts.jsonOut); err != nil {
			return err
		}
	}

	if opts.save != "" {
		if err := c.saveArtifact(cmd, opts.save, res); err != nil {
			return err
		}
	}

	// Human-readable summary only when stdout is not carrying the savestring.
	if opts.output != "" && opts.output != "-" {
		printSuccess("Built %s", StyleHighlight.Render(res.Name))
		printStats(res.Stats.Blocks, res.Stats.Wires, res.Stats.Buildings, res.CacheHit)
		printFile(opts.output)
		if opts.jsonOut != "" {
			printFile(opts.jsonOut)
		}
	}
	return nil
}

func (c *CLI) saveArtifact(cmd *cobra.Command, name string, res *pipeline.Result) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}

	sp := newSpinnerWithContext(ctx, "Saving "+name+"...")
	sp.Start()
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		sp.Stop()
		return err
	}
	defer st.Close()

	err = st.Put(ctx, store.Artifact{Name: name, Savestring: res.Savestring, Hash: res.Hash, CreatedAt: time.Now().UTC()})
	sp.Stop()
	if err != nil {
		return err
	}
	c.Logger.Info("saved artifact", "name", name, "hash", res.Hash[:12])
	return nil
}
