package circuit

import (
	"slices"

	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Component is anything that can be passed to [Module.Add]: [Block],
// [Array], [Wire], [Building], [PortLink] or a nested *[Module].
// The set is closed; other packages cannot add variants.
type Component interface {
	component()
}

func (Block) component()    {}
func (Array) component()    {}
func (Wire) component()     {}
func (Building) component() {}
func (PortLink) component() {}
func (*Module) component()  {}

// Block is a single addressable primitive.
type Block struct {
	Name       string
	Kind       Kind
	State      bool
	Pos        geom.Vector
	Properties []float64
}

func (b Block) clone() Block {
	b.Properties = slices.Clone(b.Properties)
	return b
}

// Wire is a directed connection between two names. Passed to [Module.Add]
// it is symbolic and may name arrays; every wire a module stores joins two
// concrete blocks.
type Wire struct {
	Src string
	Dst string
}

// Key is the identity of the wire inside a module.
func (w Wire) Key() string { return w.Src + "->" + w.Dst }

func (w Wire) String() string { return w.Key() }
