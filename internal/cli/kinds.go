package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/generators"
)

// kindsCommand lists block kinds, building kinds and generators.
func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List block kinds, building kinds and generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(circuit.Kinds()))
			for _, k := range circuit.Kinds() {
				rows = append(rows, []string{strconv.Itoa(int(k)), k.String()})
			}
			fmt.Fprintln(out, StyleTitle.Render("Blocks"))
			fmt.Fprintln(out, renderTable([]string{"ID", "Kind"}, rows))

			rows = rows[:0]
			for _, name := range circuit.BuildingKinds() {
				spec, _ := circuit.LookupBuilding(name)
				ports := make([]string, 0, len(spec.Ports))
				for _, p := range slices.Sorted(maps.Keys(spec.Ports)) {
					ports = append(ports, fmt.Sprintf("%s@%d", p, spec.Ports[p]))
				}
				rows = append(rows, []string{spec.Kind, strconv.Itoa(spec.Slots), strings.Join(ports, " ")})
			}
			fmt.Fprintln(out, StyleTitle.Render("Buildings"))
			fmt.Fprintln(out, renderTable([]string{"Kind", "Slots", "Ports"}, rows))

			fmt.Fprintln(out, StyleTitle.Render("Generators"))
			for _, g := range generators.Names() {
				fmt.Fprintln(out, "  "+StyleValue.Render(g))
			}
			return nil
		},
	}
}
