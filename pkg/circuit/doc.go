// Package circuit models a Circuit Maker 2 build as named components and
// resolves it into the flat, index-addressed graph the game understands.
//
// # Components
//
// A [Module] accumulates components through [Module.Add]:
//
//   - [Block]: one primitive of a given [Kind]
//   - [Array]: Width blocks named {Name}0, {Name}1, ... placed by a [Stepping]
//   - [Wire]: a directed connection between two names
//   - [Building]: a composite unit with ordered wire slots and its own frame
//   - [PortLink]: attaches a block to a building slot
//   - *[Module]: merged with its name as a prefix
//
// # Wire Resolution
//
// Wires are resolved when they are added, against what the module holds at
// that moment. Each side may name a block, an array, an element of an array
// ("bus3"), or a developed array: blocks that were added one by one as
// name0, name1, ... and never declared as an Array. The width of a developed
// array is found by probing, so the numbering must be contiguous from 0.
//
// Pairing depends on what each side resolved to:
//
//	block -> block   one wire
//	block -> array   fan-out to every element
//	array -> array   elements zipped by index, up to the narrower width
//	array -> block   no wires
//
//	m := circuit.New("main")
//	err := m.Add(
//	    circuit.Block{Name: "in", Kind: circuit.Node},
//	    circuit.Array{Name: "out", Width: 8, Kind: circuit.Node, Pos: geom.V(0, 0, -2)},
//	    circuit.Wire{Src: "in", Dst: "out"}, // 8 wires
//	)
//
// # Indexing
//
// [Module.Indexes] numbers every concrete block from 1 in insertion order,
// expanding arrays in place. The savestring addresses blocks only by these
// numbers; see package savestring.
//
// # Hierarchy
//
// [Module.Merge] (or adding a *Module) copies a sub-module with every name
// prefixed by "{sub}.", so reusable circuits can be instantiated repeatedly.
// Wires inside the sub-module keep their pairing and are not re-resolved.
//
// # Errors
//
// All errors carry a code from package errors: UNKNOWN_KIND,
// UNRESOLVED_REFERENCE, INVALID_STEPPING, INVALID_WIDTH, INVALID_NAME,
// DUPLICATE_NAME, UNKNOWN_PORT and FAMILY_GAP.
package circuit
