package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Graph is the JSON form of a resolved module.
type Graph struct {
	Name      string     `json:"name,omitempty"`
	Blocks    []Block    `json:"blocks"`
	Wires     []Wire     `json:"wires"`
	Buildings []Building `json:"buildings,omitempty"`
}

type Block struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Kind       circuit.Kind `json:"kind"`
	State      bool         `json:"state,omitempty"`
	Pos        [3]float64   `json:"pos"`
	Properties []float64    `json:"properties,omitempty"`
}

type Wire struct {
	Src      string `json:"src"`
	Dst      string `json:"dst"`
	SrcIndex int    `json:"src_index"`
	DstIndex int    `json:"dst_index"`
}

type Building struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Position [3]float64      `json:"position"`
	Rotation geom.Matrix     `json:"rotation"`
	Slots    [][]SlotBinding `json:"slots"`
}

// SlotBinding is one block attached to a building slot.
type SlotBinding struct {
	Block string `json:"block"`
	Dir   string `json:"dir"`
	Index int    `json:"index"`
}

// FromModule captures m together with its current indexes.
func FromModule(m *circuit.Module) Graph {
	idx := m.Indexes()
	g := Graph{Name: m.Name(), Blocks: []Block{}, Wires: []Wire{}}

	for _, b := range m.Blocks() {
		g.Blocks = append(g.Blocks, Block{
			Index:      idx[b.Name],
			Name:       b.Name,
			Kind:       b.Kind,
			State:      b.State,
			Pos:        b.Pos.Array(),
			Properties: b.Properties,
		})
	}
	for _, w := range m.Wires() {
		g.Wires = append(g.Wires, Wire{Src: w.Src, Dst: w.Dst, SrcIndex: idx[w.Src], DstIndex: idx[w.Dst]})
	}
	for _, b := range m.Buildings() {
		out := Building{
			Name:     b.Name,
			Kind:     b.Kind,
			Position: b.Frame.Position.Array(),
			Rotation: b.Frame.Rotation,
			Slots:    make([][]SlotBinding, b.SlotCount()),
		}
		for s := range b.SlotCount() {
			out.Slots[s] = []SlotBinding{}
			for _, ref := range b.Wires(s) {
				out.Slots[s] = append(out.Slots[s], SlotBinding{Block: ref.Block, Dir: ref.Dir.String(), Index: idx[ref.Block]})
			}
		}
		g.Buildings = append(g.Buildings, out)
	}
	return g
}

// Module rebuilds a module from g. Indexes in g are ignored; the order of
// Blocks determines the new ones.
func (g Graph) Module() (*circuit.Module, error) {
	m := circuit.New(g.Name)
	for _, b := range g.Blocks {
		err := m.Add(circuit.Block{
			Name:       b.Name,
			Kind:       b.Kind,
			State:      b.State,
			Pos:        geom.FromArray(b.Pos),
			Properties: b.Properties,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, w := range g.Wires {
		if err := m.Add(circuit.Wire{Src: w.Src, Dst: w.Dst}); err != nil {
			return nil, err
		}
	}
	for _, b := range g.Buildings {
		err := m.Add(circuit.Building{
			Name:  b.Name,
			Kind:  b.Kind,
			Frame: geom.Frame{Position: geom.FromArray(b.Position), Rotation: b.Rotation},
			Slots: len(b.Slots),
		})
		if err != nil {
			return nil, err
		}
		for slot, bindings := range b.Slots {
			for _, sb := range bindings {
				dir, err := circuit.ParsePortDir(sb.Dir)
				if err != nil {
					return nil, err
				}
				if err := m.Add(circuit.PortLink{Block: sb.Block, Building: b.Name, Dir: dir, Offset: slot}); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// WriteJSON writes the indented JSON dump of m to w.
func WriteJSON(m *circuit.Module, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromModule(m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the JSON dump of m to path.
func ExportJSON(m *circuit.Module, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(m, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSON decodes a dump written by [WriteJSON] into a new module.
// It does not close r.
func ReadJSON(r io.Reader) (*circuit.Module, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return g.Module()
}

// ImportJSON reads a JSON dump from path.
func ImportJSON(path string) (*circuit.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
