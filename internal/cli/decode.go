package cli

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	cmio "github.com/matzehuels/cm2kit/pkg/io"
)

type decodeOpts struct {
	jsonOut   string
	fromStore bool
	blocks    bool
	noCache   bool
}

// decodeCommand creates the decode command, which summarizes a savestring.
func (c *CLI) decodeCommand() *cobra.Command {
	var opts decodeOpts

	cmd := &cobra.Command{
		Use:   "decode <file|name>",
		Short: "Decode a savestring and summarize it",
		Long: `Decode a savestring file (or "-" for standard input) and print a summary of
its blocks by kind. With --store the argument names a stored artifact.`,
		Example: `  cm2kit decode register.cm2
  cm2kit decode register.cm2 --blocks --json register.json
  cm2kit decode --store adder`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "write the decoded graph as JSON to this file")
	cmd.Flags().BoolVar(&opts.fromStore, "store", false, "read the savestring from the artifact store")
	cmd.Flags().BoolVar(&opts.blocks, "blocks", false, "list every block")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the decode cache")

	return cmd
}

func (c *CLI) runDecode(cmd *cobra.Command, arg string, opts decodeOpts) error {
	ctx := cmd.Context()

	var s string
	if opts.fromStore {
		cfg, err := c.config()
		if err != nil {
			return err
		}
		st, err := c.newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		a, err := st.Get(ctx, arg)
		if err != nil {
			return err
		}
		s = a.Savestring
	} else {
		data, err := readInput(arg, cmd.InOrStdin())
		if err != nil {
			return err
		}
		s = strings.TrimSpace(string(data))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	m, err := runner.Decode(ctx, s)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summarize(m))
	if opts.blocks {
		fmt.Fprintln(out, blockTable(m))
	}

	if opts.jsonOut != "" {
		var buf bytes.Buffer
		if err := cmio.WriteJSON(m, &buf); err != nil {
			return err
		}
		if err := writeOutput(opts.jsonOut, out, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// summarize renders block counts per kind plus wire and building totals.
func summarize(m *circuit.Module) string {
	counts := map[circuit.Kind]int{}
	for _, b := range m.Blocks() {
		counts[b.Kind]++
	}
	var rows [][]string
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, []string{k.String(), strconv.Itoa(int(k)), strconv.Itoa(counts[k])})
	}
	rows = append(rows,
		[]string{"blocks", "", strconv.Itoa(m.BlockCount())},
		[]string{"wires", "", strconv.Itoa(m.WireCount())},
		[]string{"buildings", "", strconv.Itoa(len(m.Buildings()))},
	)
	return renderTable([]string{"Kind", "ID", "Count"}, rows)
}

// blockTable lists every block with its savestring index.
func blockTable(m *circuit.Module) string {
	idx := m.Indexes()
	rows := make([][]string, 0, m.BlockCount())
	for _, b := range m.Blocks() {
		state := ""
		if b.State {
			state = "on"
		}
		rows = append(rows, []string{strconv.Itoa(idx[b.Name]), b.Name, b.Kind.String(), b.Pos.String(), state})
	}
	return renderTable([]string{"#", "Name", "Kind", "Position", "State"}, rows)
}
