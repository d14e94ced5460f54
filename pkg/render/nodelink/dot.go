package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cm2kit/pkg/circuit"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the block position and state to node labels.
	Detailed bool

	// Clusters draws the elements of each array inside a labelled box.
	Clusters bool

	// Buildings adds one node per building with edges to its slot blocks.
	Buildings bool
}

// kindColors gives common kinds a recognisable fill. Others stay white.
var kindColors = map[circuit.Kind]string{
	circuit.Nor:      "#f4cccc",
	circuit.And:      "#cfe2f3",
	circuit.Or:       "#d9ead3",
	circuit.Xor:      "#fff2cc",
	circuit.FlipFlop: "#d9d2e9",
	circuit.LED:      "#fce5cd",
	circuit.Button:   "#ead1dc",
	circuit.Node:     "#eeeeee",
}

// ToDOT converts a module to Graphviz DOT. Nodes are labelled
// "index: name (KIND)" using the savestring indexes, and appear in index
// order. The result can be rendered with [RenderSVG].
func ToDOT(m *circuit.Module, opts Options) string {
	idx := m.Indexes()
	blocks := m.Blocks()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	clustered := map[string]bool{}
	if opts.Clusters {
		byName := make(map[string]circuit.Block, len(blocks))
		for _, b := range blocks {
			byName[b.Name] = b
		}
		for i, a := range m.Arrays() {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", a.Name)
			buf.WriteString("    style=\"rounded,dashed\";\n")
			for e := range a.Width {
				b := byName[a.ElementName(e)]
				fmt.Fprintf(&buf, "    %q [%s];\n", b.Name, strings.Join(fmtAttrs(b, idx[b.Name], opts.Detailed), ", "))
				clustered[b.Name] = true
			}
			buf.WriteString("  }\n")
		}
	}

	for _, b := range blocks {
		if clustered[b.Name] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.Name, strings.Join(fmtAttrs(b, idx[b.Name], opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, w := range m.Wires() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", w.Src, w.Dst)
	}

	if opts.Buildings {
		for _, b := range m.Buildings() {
			id := "building:" + b.Name
			buf.WriteString("\n")
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box3d, fillcolor=\"#d0e0e3\"];\n", id, b.Name+" ("+b.Kind+")")
			for slot := range b.SlotCount() {
				for _, ref := range b.Wires(slot) {
					label := fmt.Sprintf("%s %d", ref.Dir, slot)
					if ref.Dir == circuit.PortInput {
						fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", ref.Block, id, label)
					} else {
						fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", id, ref.Block, label)
					}
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b circuit.Block, index int, detailed bool) string {
	label := fmt.Sprintf("%d: %s (%s)", index, b.Name, b.Kind)
	if !detailed {
		return label
	}
	label += "\npos: " + b.Pos.String()
	if b.State {
		label += "\nstate: on"
	}
	return label
}

func fmtAttrs(b circuit.Block, index int, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(b, index, detailed))}
	if c, ok := kindColors[b.Kind]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if b.State {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element so the drawing scales
// from a zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
