package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
	"github.com/matzehuels/cm2kit/pkg/savestring"
)

func sample(t *testing.T) *circuit.Module {
	t.Helper()
	m := circuit.New("main")
	err := m.Add(
		circuit.Block{Name: "input", Kind: circuit.Node},
		circuit.Array{Name: "out", Width: 3, Kind: circuit.LED, Pos: geom.V(0, 0, -1), Properties: []float64{1, 0.5}},
		circuit.Wire{Src: "input", Dst: "out"},
		circuit.Building{Name: "disp", Kind: "Display", Slots: 2, Frame: geom.FromEuler(geom.V(3, 0, 0), 0, 1, 0)},
		circuit.PortLink{Block: "out1", Building: "disp", Dir: circuit.PortInput, Offset: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSavestringFiles(t *testing.T) {
	m := sample(t)
	path := filepath.Join(t.TempDir(), "main.cm2")
	if err := ExportSavestring(m, path); err != nil {
		t.Fatalf("ExportSavestring: %v", err)
	}
	got, err := ImportSavestring(path)
	if err != nil {
		t.Fatalf("ImportSavestring: %v", err)
	}
	want, _ := savestring.Encode(m)
	again, _ := savestring.Encode(got)
	if again != want {
		t.Errorf("file round trip:\n got %q\nwant %q", again, want)
	}

	if _, err := ImportSavestring(filepath.Join(t.TempDir(), "nope.cm2")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadSavestringTrimsWhitespace(t *testing.T) {
	m, err := ReadSavestring(strings.NewReader("\n 15,0,0,0,0,?? \n"))
	if err != nil {
		t.Fatalf("ReadSavestring: %v", err)
	}
	if m.BlockCount() != 1 {
		t.Errorf("BlockCount = %d", m.BlockCount())
	}
	if _, err := ReadSavestring(strings.NewReader("garbage")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("garbage error = %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var g struct {
		Name   string `json:"name"`
		Blocks []struct {
			Index int        `json:"index"`
			Name  string     `json:"name"`
			Kind  string     `json:"kind"`
			Pos   [3]float64 `json:"pos"`
		} `json:"blocks"`
		Wires []struct {
			Src      string `json:"src"`
			DstIndex int    `json:"dst_index"`
		} `json:"wires"`
		Buildings []struct {
			Slots [][]struct {
				Block string `json:"block"`
				Dir   string `json:"dir"`
				Index int    `json:"index"`
			} `json:"slots"`
		} `json:"buildings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &g); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if g.Name != "main" || len(g.Blocks) != 4 || len(g.Wires) != 3 {
		t.Fatalf("dump = %+v", g)
	}
	if b := g.Blocks[2]; b.Index != 3 || b.Name != "out1" || b.Kind != "LED" || b.Pos != [3]float64{1, 0, -1} {
		t.Errorf("blocks[2] = %+v", b)
	}
	if w := g.Wires[2]; w.Src != "input" || w.DstIndex != 4 {
		t.Errorf("wires[2] = %+v", w)
	}
	slots := g.Buildings[0].Slots
	if len(slots) != 2 || len(slots[0]) != 0 || slots[1][0].Block != "out1" || slots[1][0].Dir != "input" || slots[1][0].Index != 3 {
		t.Errorf("slots = %+v", slots)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := sample(t)
	path := filepath.Join(t.TempDir(), "main.json")
	if err := ExportJSON(m, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.Name() != "main" {
		t.Errorf("Name = %q", got.Name())
	}
	want, _ := savestring.Encode(m)
	again, _ := savestring.Encode(got)
	if again != want {
		t.Errorf("JSON round trip:\n got %q\nwant %q", again, want)
	}
	if b, ok := got.Block("out2"); !ok || b.Pos != geom.V(2, 0, -1) {
		t.Errorf("out2 = %+v, %v", b, ok)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"UnknownKind", `{"blocks":[{"name":"a","kind":"LAMP","pos":[0,0,0]}],"wires":[]}`, errors.ErrCodeUnknownKind},
		{"DanglingWire", `{"blocks":[],"wires":[{"src":"a","dst":"b"}]}`, errors.ErrCodeUnresolvedReference},
		{"BadDir", `{"blocks":[{"name":"a","kind":"NODE","pos":[0,0,0]}],"wires":[],"buildings":[{"name":"d","kind":"D","slots":[[{"block":"a","dir":"up"}]]}]}`, errors.ErrCodeUnknownPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
