package circuit

import (
	"fmt"

	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Module accumulates blocks, arrays, wires and buildings.
//
// Blocks and arrays share one insertion-ordered namespace; that order is the
// order of [Module.Indexes]. Wires are resolved to concrete block pairs when
// they are added and are stored in insertion order too.
//
// The zero value is not usable - use New. A Module is not safe for
// concurrent use.
type Module struct {
	name      string
	blocks    *orderedMap[Component] // Block or Array
	wires     *orderedMap[Wire]
	buildings *orderedMap[*Building]
}

// New creates an empty module. The name is only used as the prefix when
// the module is merged into another one; it may be empty.
func New(name string) *Module {
	return &Module{
		name:      name,
		blocks:    newOrderedMap[Component](),
		wires:     newOrderedMap[Wire](),
		buildings: newOrderedMap[*Building](),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Add accumulates components in order. Blocks, arrays and buildings are
// stored under their name (re-declaring a name replaces the earlier value
// in place). Wires and port links are resolved against what has been added
// so far and are never re-resolved later. A nested *Module is merged.
//
// Add stops at the first failing component; components before it stay added.
func (m *Module) Add(components ...Component) error {
	for _, c := range components {
		if err := m.add(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) add(c Component) error {
	switch c := c.(type) {
	case Block:
		return m.addBlock(c)
	case *Block:
		return m.addBlock(*c)
	case Array:
		return m.addArray(c)
	case *Array:
		return m.addArray(*c)
	case Wire:
		return m.addWire(c)
	case *Wire:
		return m.addWire(*c)
	case Building:
		return m.addBuilding(c)
	case *Building:
		return m.addBuilding(*c)
	case PortLink:
		return m.addPortLink(c)
	case *PortLink:
		return m.addPortLink(*c)
	case *Module:
		return m.Merge(c)
	}
	return errors.New(errors.ErrCodeInternal, "unsupported component %T", c)
}

func (m *Module) addBlock(b Block) error {
	if b.Name == "" {
		return errors.New(errors.ErrCodeInvalidName, "block name must not be empty")
	}
	if !b.Kind.Valid() {
		return errors.New(errors.ErrCodeUnknownKind, "block %q: unknown block kind %d", b.Name, int(b.Kind))
	}
	if err := m.checkName(b.Name); err != nil {
		return err
	}
	m.blocks.Set(b.Name, b.clone())
	return nil
}

func (m *Module) addArray(a Array) error {
	if a.Name == "" {
		return errors.New(errors.ErrCodeInvalidName, "array name must not be empty")
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := m.checkName(a.Name); err != nil {
		return err
	}
	for i := range a.Width {
		if err := m.checkElement(a, a.ElementName(i)); err != nil {
			return err
		}
	}
	m.blocks.Set(a.Name, a.clone())
	return nil
}

// checkName rejects a block or array name that is already generated as an
// element of a different stored array.
func (m *Module) checkName(name string) error {
	if a, i, ok := m.element(name); ok && a.Name != name {
		return errors.New(errors.ErrCodeDuplicateName, "%q is already element %d of array %q", name, i, a.Name)
	}
	return nil
}

// checkElement rejects an element name of a that is taken by a stored
// component or by an element of another array.
func (m *Module) checkElement(a Array, name string) error {
	if c, ok := m.blocks.Get(name); ok {
		kind := "block"
		if _, isArray := c.(Array); isArray {
			kind = "array"
		}
		return errors.New(errors.ErrCodeDuplicateName, "array %q: element %q is already a %s", a.Name, name, kind)
	}
	if other, i, ok := m.element(name); ok && other.Name != a.Name {
		return errors.New(errors.ErrCodeDuplicateName, "array %q: element %q is already element %d of array %q", a.Name, name, i, other.Name)
	}
	return nil
}

func (m *Module) addWire(w Wire) error {
	resolved, err := m.resolveWire(w)
	if err != nil {
		return fmt.Errorf("wire %s: %w", w, err)
	}
	for _, r := range resolved {
		m.wires.Set(r.Key(), r)
	}
	return nil
}

func (m *Module) addBuilding(b Building) error {
	placed, err := b.init()
	if err != nil {
		return err
	}
	m.buildings.Set(placed.Name, placed)
	return nil
}

func (m *Module) addPortLink(l PortLink) error {
	b, ok := m.buildings.Get(l.Building)
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "port link %s: unknown building %q", l.Block, l.Building)
	}
	ep, err := m.resolve(l.Block)
	if err != nil {
		return fmt.Errorf("port link %s -> %s: %w", l.Block, l.Building, err)
	}
	return b.connect(l, ep.names)
}

// Merge copies every block, array, wire and building of sub into m with
// names prefixed by "{sub.Name()}." (no prefix when sub is unnamed). Wires
// keep the pairing they had inside sub. A merged name that collides with an
// array element of m fails with DUPLICATE_NAME.
func (m *Module) Merge(sub *Module) error {
	if sub == nil {
		return nil
	}
	prefix := ""
	if sub.name != "" {
		prefix = sub.name + "."
	}

	for name, c := range sub.blocks.All() {
		switch c := c.(type) {
		case Block:
			b := c.clone()
			b.Name = prefix + name
			if err := m.checkName(b.Name); err != nil {
				return fmt.Errorf("merge %s: %w", sub.name, err)
			}
			m.blocks.Set(b.Name, b)
		case Array:
			a := c.clone()
			a.Name = prefix + name
			if err := m.checkName(a.Name); err != nil {
				return fmt.Errorf("merge %s: %w", sub.name, err)
			}
			for i := range a.Width {
				if err := m.checkElement(a, a.ElementName(i)); err != nil {
					return fmt.Errorf("merge %s: %w", sub.name, err)
				}
			}
			m.blocks.Set(a.Name, a)
		}
	}
	for w := range sub.wires.Values() {
		r := Wire{Src: prefix + w.Src, Dst: prefix + w.Dst}
		m.wires.Set(r.Key(), r)
	}
	for b := range sub.buildings.Values() {
		c := b.clone()
		c.Name = prefix + b.Name
		for i, slot := range c.wires {
			for j := range slot {
				c.wires[i][j].Block = prefix + slot[j].Block
			}
		}
		m.buildings.Set(c.Name, c)
	}
	return nil
}

// Move translates every block, array and building by offset.
func (m *Module) Move(offset geom.Vector) {
	for name, c := range m.blocks.All() {
		switch c := c.(type) {
		case Block:
			c.Pos = c.Pos.Add(offset)
			m.blocks.Set(name, c)
		case Array:
			c.Pos = c.Pos.Add(offset)
			m.blocks.Set(name, c)
		}
	}
	for b := range m.buildings.Values() {
		b.Frame = b.Frame.Translate(offset)
	}
}

// Blocks returns every concrete block in index order, arrays expanded in place.
func (m *Module) Blocks() []Block {
	var out []Block
	for c := range m.blocks.Values() {
		switch c := c.(type) {
		case Block:
			out = append(out, c.clone())
		case Array:
			out = append(out, c.expand()...)
		}
	}
	return out
}

// Arrays returns the stored arrays in index order.
func (m *Module) Arrays() []Array {
	var out []Array
	for c := range m.blocks.Values() {
		if a, ok := c.(Array); ok {
			out = append(out, a.clone())
		}
	}
	return out
}

// Lookup returns the block or array stored under name.
func (m *Module) Lookup(name string) (Component, bool) {
	return m.blocks.Get(name)
}

// Block returns the concrete block called name, including array elements.
func (m *Module) Block(name string) (Block, bool) {
	if c, ok := m.blocks.Get(name); ok {
		if b, ok := c.(Block); ok {
			return b.clone(), true
		}
		return Block{}, false
	}
	if a, i, ok := m.element(name); ok {
		return a.element(a.stepping(), i), true
	}
	return Block{}, false
}

// Wires returns the resolved wires in insertion order.
func (m *Module) Wires() []Wire {
	out := make([]Wire, 0, m.wires.Len())
	for w := range m.wires.Values() {
		out = append(out, w)
	}
	return out
}

// Buildings returns copies of the buildings in insertion order.
func (m *Module) Buildings() []*Building {
	out := make([]*Building, 0, m.buildings.Len())
	for b := range m.buildings.Values() {
		out = append(out, b.clone())
	}
	return out
}

// BlockCount returns the number of concrete blocks.
func (m *Module) BlockCount() int {
	n := 0
	for c := range m.blocks.Values() {
		switch c := c.(type) {
		case Block:
			n++
		case Array:
			n += c.Width
		}
	}
	return n
}

// WireCount returns the number of resolved wires.
func (m *Module) WireCount() int { return m.wires.Len() }

// Indexes assigns every concrete block its 1-based position in the
// savestring. The numbering is recomputed on every call.
func (m *Module) Indexes() map[string]int {
	idx := make(map[string]int, m.BlockCount())
	next := 1
	for name, c := range m.blocks.All() {
		switch c := c.(type) {
		case Block:
			idx[name] = next
			next++
		case Array:
			for i := range c.Width {
				idx[c.ElementName(i)] = next
				next++
			}
		}
	}
	return idx
}

// Center returns the mean position of all concrete blocks, or the origin
// for an empty module.
func (m *Module) Center() geom.Vector {
	blocks := m.Blocks()
	if len(blocks) == 0 {
		return geom.Zero
	}
	sum := geom.Zero
	for _, b := range blocks {
		sum = sum.Add(b.Pos)
	}
	return sum.Scale(1 / float64(len(blocks)))
}

// Bounds returns the componentwise minimum and maximum block positions.
func (m *Module) Bounds() (lo, hi geom.Vector) {
	blocks := m.Blocks()
	if len(blocks) == 0 {
		return geom.Zero, geom.Zero
	}
	lo, hi = blocks[0].Pos, blocks[0].Pos
	for _, b := range blocks[1:] {
		lo = lo.Min(b.Pos)
		hi = hi.Max(b.Pos)
	}
	return lo, hi
}

// Size returns the extent of the bounding box of all concrete blocks.
func (m *Module) Size() geom.Vector {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}
