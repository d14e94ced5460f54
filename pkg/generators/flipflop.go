package generators

import (
	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// maxFlipflop bounds the register width.
const maxFlipflop = 1 << 12

// Flipflop builds a size-bit register. Pulsing "write" latches "input"
// onto "output"; otherwise "output" feeds back through the trap gates and
// holds its value.
func Flipflop(name string, size int, pos geom.Vector) (*circuit.Module, error) {
	if err := checkSize("flipflop", size, maxFlipflop); err != nil {
		return nil, err
	}
	s := float64(size)

	ff := circuit.New(name)
	err := ff.Add(
		circuit.Array{Name: "input", Width: size, Kind: circuit.Node, Pos: geom.V(0, 0, 0)},
		circuit.Array{Name: "output", Width: size, Kind: circuit.Node, Pos: geom.V(0, 0, -2)},
		circuit.Array{Name: "trap", Width: size, Kind: circuit.And, Pos: geom.V(0, 0, -1)},
		circuit.Array{Name: "pass", Width: size, Kind: circuit.And, Pos: geom.V(0, 1, -1)},
		circuit.Block{Name: "act_trap", Kind: circuit.Nor, Pos: geom.V(s, 0, -1)},
		circuit.Block{Name: "act_pass", Kind: circuit.Or, Pos: geom.V(s, 1, -1)},
		circuit.Block{Name: "write", Kind: circuit.Node, Pos: geom.V(s, 0, 0)},

		circuit.Wire{Src: "input", Dst: "pass"},
		circuit.Wire{Src: "pass", Dst: "output"},
		circuit.Wire{Src: "trap", Dst: "output"},
		circuit.Wire{Src: "output", Dst: "trap"},
		circuit.Wire{Src: "act_trap", Dst: "trap"},
		circuit.Wire{Src: "act_pass", Dst: "pass"},
		circuit.Wire{Src: "write", Dst: "act_trap"},
		circuit.Wire{Src: "write", Dst: "act_pass"},
	)
	if err != nil {
		return nil, err
	}

	ff.Move(pos)
	return ff, nil
}
