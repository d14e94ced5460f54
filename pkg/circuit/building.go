package circuit

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// BuildingSpec describes the wire slots of a building kind.
// Ports maps a lower-case alias to the first slot of a named port group.
type BuildingSpec struct {
	Kind  string
	Slots int
	Ports map[string]int
}

// Mass memory: 12 address lines, 16 data inputs, 16 data outputs, one write line.
var buildingSpecs = map[string]BuildingSpec{
	"massmemory": {
		Kind:  "MassMemory",
		Slots: 45,
		Ports: map[string]int{
			"address":  0,
			"data_in":  12,
			"data_out": 28,
			"write":    44,
		},
	},
}

// LookupBuilding returns the spec for a building kind, ignoring case.
func LookupBuilding(kind string) (BuildingSpec, bool) {
	spec, ok := buildingSpecs[strings.ToLower(kind)]
	return spec, ok
}

// BuildingKinds returns the names of all kinds with a known slot layout.
func BuildingKinds() []string {
	out := make([]string, 0, len(buildingSpecs))
	for _, spec := range buildingSpecs {
		out = append(out, spec.Kind)
	}
	slices.Sort(out)
	return out
}

// PortDir is the direction of a building port as seen from the building.
type PortDir int

const (
	PortOutput PortDir = 0
	PortInput  PortDir = 1
)

func (d PortDir) String() string {
	if d == PortInput {
		return "input"
	}
	return "output"
}

// ParsePortDir accepts "input"/"in"/"1" and "output"/"out"/"0".
func ParsePortDir(s string) (PortDir, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "in", "1":
		return PortInput, nil
	case "output", "out", "0":
		return PortOutput, nil
	}
	return 0, errors.New(errors.ErrCodeUnknownPort, "unknown port direction %q", s)
}

// PortRef is one entry of a building wire slot.
type PortRef struct {
	Block string
	Dir   PortDir
}

// Building is a composite multi-slot component with its own frame.
// Slots is required for kinds without a [BuildingSpec]; for known kinds a
// zero value means "take it from the kind's BuildingSpec".
type Building struct {
	Name  string
	Kind  string
	Frame geom.Frame
	Slots int

	wires [][]PortRef
}

// PortLink attaches a block to one slot of a building. The slot is Port's
// base slot plus Offset, or Offset alone when Port is empty. When Block
// names an array, its elements fill consecutive slots.
type PortLink struct {
	Block    string
	Building string
	Dir      PortDir
	Port     string
	Offset   int
}

// SlotCount returns the number of wire slots.
func (b *Building) SlotCount() int { return len(b.wires) }

// Wires returns a copy of the entries of one slot.
func (b *Building) Wires(slot int) []PortRef {
	if slot < 0 || slot >= len(b.wires) {
		return nil
	}
	return slices.Clone(b.wires[slot])
}

func (b Building) init() (*Building, error) {
	if b.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidName, "building name must not be empty")
	}
	slots := b.Slots
	if spec, ok := LookupBuilding(b.Kind); ok && slots == 0 {
		slots = spec.Slots
	}
	if slots <= 0 {
		return nil, errors.New(errors.ErrCodeUnknownKind, "building %q: kind %q needs an explicit slot count", b.Name, b.Kind)
	}
	b.Slots = slots
	b.wires = make([][]PortRef, slots)
	return &b, nil
}

// slot resolves a port alias plus offset to a slot index.
func (b *Building) slot(port string, offset int) (int, error) {
	idx := offset
	if port != "" {
		spec, ok := LookupBuilding(b.Kind)
		if !ok {
			return 0, errors.New(errors.ErrCodeUnknownPort, "building %q: kind %q has no named ports", b.Name, b.Kind)
		}
		base, ok := spec.Ports[strings.ToLower(port)]
		if !ok {
			return 0, errors.New(errors.ErrCodeUnknownPort, "building %q: unknown port %q (known: %s)",
				b.Name, port, strings.Join(slices.Sorted(maps.Keys(spec.Ports)), ", "))
		}
		idx = base + offset
	}
	if idx < 0 || idx >= len(b.wires) {
		return 0, errors.New(errors.ErrCodeUnknownPort, "building %q: slot %d out of range [0,%d)", b.Name, idx, len(b.wires))
	}
	return idx, nil
}

// connect appends each block to consecutive slots starting at the slot
// addressed by l. Nothing is appended if any slot is out of range.
func (b *Building) connect(l PortLink, blocks []string) error {
	first, err := b.slot(l.Port, l.Offset)
	if err != nil {
		return err
	}
	if last := first + len(blocks) - 1; last >= len(b.wires) {
		return errors.New(errors.ErrCodeUnknownPort, "building %q: %d blocks from slot %d overflow %d slots",
			b.Name, len(blocks), first, len(b.wires))
	}
	for i, name := range blocks {
		b.wires[first+i] = append(b.wires[first+i], PortRef{Block: name, Dir: l.Dir})
	}
	return nil
}

func (b *Building) clone() *Building {
	c := *b
	c.wires = make([][]PortRef, len(b.wires))
	for i, s := range b.wires {
		c.wires[i] = slices.Clone(s)
	}
	return &c
}
