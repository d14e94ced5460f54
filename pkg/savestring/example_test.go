package savestring_test

import (
	"fmt"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
	"github.com/matzehuels/cm2kit/pkg/savestring"
)

func ExampleEncode() {
	m := circuit.New("main")
	_ = m.Add(
		circuit.Block{Name: "input", Kind: circuit.Node},
		circuit.Array{Name: "output", Width: 2, Kind: circuit.LED, Pos: geom.V(0, 0, -1)},
		circuit.Wire{Src: "input", Dst: "output"},
	)

	s, err := savestring.Encode(m)
	if err != nil {
		panic(err)
	}
	fmt.Println(s)
	// Output:
	// 15,0,0,0,0,;6,0,0,0,-1,;6,0,1,0,-1,?1,2;1,3??
}

func ExampleDecodeNamed() {
	m, err := savestring.DecodeNamed("15,0,0,0,0,;6,1,0,0,-1,?1,2??", savestring.IndexNames("b"), savestring.IndexNames("m"))
	if err != nil {
		panic(err)
	}
	for _, b := range m.Blocks() {
		fmt.Println(b.Name, b.Kind, b.State, b.Pos)
	}
	fmt.Println(m.Wires())
	// Output:
	// b1 NODE false (0, 0, 0)
	// b2 LED true (0, 0, -1)
	// [b1->b2]
}
