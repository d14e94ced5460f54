package generators

import (
	"fmt"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

const maxAdder = 256

// Adder builds a size-bit carry-lookahead adder over inputs "a" and "b"
// with the sum on "output". Each carry is the OR (a node) of precarry AND
// terms combining one generate bit with a run of propagate bits.
func Adder(name string, size int, pos geom.Vector) (*circuit.Module, error) {
	if err := checkSize("adder", size, maxAdder); err != nil {
		return nil, err
	}
	s := float64(size)

	add := circuit.New(name)
	err := add.Add(
		circuit.Array{Name: "a", Width: size, Kind: circuit.Node, Pos: geom.V(0, 0, 0)},
		circuit.Array{Name: "b", Width: size, Kind: circuit.Node, Pos: geom.V(s+1, 0, 0)},
		circuit.Array{Name: "generate", Width: size, Kind: circuit.And, Pos: geom.V(0, 0, -2)},
		circuit.Array{Name: "propagate", Width: size, Kind: circuit.Xor, Pos: geom.V(s+1, 0, -2)},
		circuit.Array{Name: "delay", Width: size, Kind: circuit.Delay, Pos: geom.V(s+1, 0, -6), Properties: []float64{1}},
		circuit.Array{Name: "carry", Width: size, Kind: circuit.Node, Pos: geom.V(0, 0, -6)},
		circuit.Array{Name: "result", Width: size, Kind: circuit.Xor, Pos: geom.V(0, 0, -8)},
		circuit.Array{Name: "output", Width: size, Kind: circuit.Node, Pos: geom.V(0, 0, -10)},
	)
	if err != nil {
		return nil, err
	}

	// Row i has one term per carry j < size-i-1; the last row would be empty.
	for i := range size - 1 {
		row := precarry(i)
		if err := add.Add(circuit.Array{Name: row, Width: size - i - 1, Kind: circuit.And, Pos: geom.V(0, float64(i), -4)}); err != nil {
			return nil, err
		}
	}

	wires := []circuit.Component{
		circuit.Wire{Src: "a", Dst: "generate"},
		circuit.Wire{Src: "a", Dst: "propagate"},
		circuit.Wire{Src: "b", Dst: "generate"},
		circuit.Wire{Src: "b", Dst: "propagate"},
	}
	for i := range size {
		for j := range size - i - 1 {
			term := fmt.Sprintf("%s%d", precarry(i), j)
			wires = append(wires,
				circuit.Wire{Src: fmt.Sprintf("generate%d", j+i+1), Dst: term},
				circuit.Wire{Src: term, Dst: fmt.Sprintf("carry%d", j)},
			)
		}
	}
	for i := range size {
		for j := range i {
			for k := range size - i - 1 {
				wires = append(wires, circuit.Wire{
					Src: fmt.Sprintf("propagate%d", k+j+1),
					Dst: fmt.Sprintf("%s%d", precarry(i), k),
				})
			}
		}
	}
	wires = append(wires,
		circuit.Wire{Src: "carry", Dst: "result"},
		circuit.Wire{Src: "propagate", Dst: "delay"},
		circuit.Wire{Src: "delay", Dst: "result"},
		circuit.Wire{Src: "result", Dst: "output"},
	)
	if err := add.Add(wires...); err != nil {
		return nil, err
	}

	add.Move(pos)
	return add, nil
}

// precarry names row i of lookahead terms. The trailing underscore keeps
// "precarry1_0" from reading as element 10 of row "precarry".
func precarry(i int) string { return fmt.Sprintf("precarry%d_", i) }
