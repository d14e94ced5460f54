package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

func sample(t *testing.T) *circuit.Module {
	t.Helper()
	m := circuit.New("main")
	err := m.Add(
		circuit.Block{Name: "clk", Kind: circuit.Button, State: true},
		circuit.Array{Name: "leds", Width: 2, Kind: circuit.LED, Pos: geom.V(0, 0, -1)},
		circuit.Wire{Src: "clk", Dst: "leds"},
		circuit.Building{Name: "mem", Kind: "MassMemory"},
		circuit.PortLink{Block: "clk", Building: "mem", Dir: circuit.PortInput, Port: "write"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`"clk" [label="1: clk (BUTTON)"`,
		`"leds0" [label="2: leds0 (LED)"`,
		`"leds1" [label="3: leds1 (LED)"`,
		`"clk" -> "leds0";`,
		`"clk" -> "leds1";`,
		"penwidth=2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "subgraph") || strings.Contains(dot, "building:") {
		t.Errorf("default options drew clusters or buildings:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not terminated")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sample(t), Options{Detailed: true, Clusters: true, Buildings: true})

	for _, want := range []string{
		"subgraph cluster_0 {",
		`label="leds";`,
		`pos: (1, 0, -1)`,
		`state: on`,
		`"building:mem" [label="mem (MassMemory)"`,
		`"clk" -> "building:mem" [style=dashed`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, `"leds0" [`); n != 1 {
		t.Errorf("leds0 declared %d times", n)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(circuit.New(""), Options{Clusters: true})
	if strings.Contains(dot, "->") || strings.Contains(dot, "label=") {
		t.Errorf("empty module produced nodes:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	out := normalizeViewBox(in)
	if !bytes.Contains(out, []byte(`viewBox="0 0 10.00 20.00" width="10" height="20"`)) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	plain := []byte("<svg><g/></svg>")
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox changed")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{Clusters: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("leds0")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for malformed DOT")
	}
}
