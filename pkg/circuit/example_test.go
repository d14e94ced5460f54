package circuit_test

import (
	"fmt"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

func ExampleModule_Add() {
	m := circuit.New("main")
	_ = m.Add(
		circuit.Block{Name: "clock", Kind: circuit.Node},
		circuit.Array{Name: "leds", Width: 4, Kind: circuit.LED, Pos: geom.V(0, 0, -2)},
		// A block wired to an array fans out to every element.
		circuit.Wire{Src: "clock", Dst: "leds"},
	)

	fmt.Println("Blocks:", m.BlockCount())
	for _, w := range m.Wires() {
		fmt.Println(w)
	}
	// Output:
	// Blocks: 5
	// clock->leds0
	// clock->leds1
	// clock->leds2
	// clock->leds3
}

func ExampleModule_Merge() {
	latch := circuit.New("latch")
	_ = latch.Add(
		circuit.Block{Name: "in", Kind: circuit.Node},
		circuit.Block{Name: "out", Kind: circuit.FlipFlop},
		circuit.Wire{Src: "in", Dst: "out"},
	)

	top := circuit.New("top")
	_ = top.Add(latch, circuit.Block{Name: "in", Kind: circuit.Button})
	_ = top.Add(circuit.Wire{Src: "in", Dst: "latch.in"})

	for _, w := range top.Wires() {
		fmt.Println(w)
	}
	// Output:
	// latch.in->latch.out
	// in->latch.in
}

func ExampleStepping_Offset() {
	// Two rows of four: x wraps every 4, y advances every 4.
	s := circuit.Stepping{
		Step:         geom.V(1, 0, 0),
		Cluster:      [3]int{circuit.Unbounded, 4, circuit.Unbounded},
		ClusterSpace: geom.V(0, 1, 0),
		Cycle:        [3]int{4, circuit.Unbounded, circuit.Unbounded},
	}
	for _, i := range []int{0, 3, 4, 7} {
		fmt.Println(i, s.Offset(i))
	}
	// Output:
	// 0 (0, 0, 0)
	// 3 (3, 0, 0)
	// 4 (0, 1, 0)
	// 7 (3, 1, 0)
}
