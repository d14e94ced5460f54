package manifest

import (
	"fmt"
	"math"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/generators"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Build turns the manifest into a module. It stops at the first entry that
// fails and names that entry in the error.
func (m *Manifest) Build() (*circuit.Module, error) {
	mod := circuit.New(m.Name)

	for i, s := range m.Modules {
		sub, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("modules[%d] %q: %w", i, s.Name, err)
		}
		if err := mod.Add(sub); err != nil {
			return nil, fmt.Errorf("modules[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, s := range m.Blocks {
		if err := s.add(mod); err != nil {
			return nil, fmt.Errorf("blocks[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, s := range m.Arrays {
		if err := s.add(mod); err != nil {
			return nil, fmt.Errorf("arrays[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, s := range m.Buildings {
		if err := s.add(mod); err != nil {
			return nil, fmt.Errorf("buildings[%d] %q: %w", i, s.Name, err)
		}
	}
	for i, s := range m.Wires {
		if err := mod.Add(circuit.Wire{Src: s.Src, Dst: s.Dst}); err != nil {
			return nil, fmt.Errorf("wires[%d]: %w", i, err)
		}
	}
	for i, s := range m.Ports {
		if err := s.add(mod); err != nil {
			return nil, fmt.Errorf("ports[%d] %s -> %s: %w", i, s.Block, s.Building, err)
		}
	}
	return mod, nil
}

func (s ModuleSpec) build() (*circuit.Module, error) {
	gen, err := generators.Lookup(s.Generator)
	if err != nil {
		return nil, err
	}
	pos, err := vector("pos", s.Pos)
	if err != nil {
		return nil, err
	}
	return gen(s.Name, s.Size, pos)
}

func (s BlockSpec) add(mod *circuit.Module) error {
	kind, err := circuit.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	pos, err := vector("pos", s.Pos)
	if err != nil {
		return err
	}
	return mod.Add(circuit.Block{Name: s.Name, Kind: kind, State: s.State, Pos: pos, Properties: s.Properties})
}

func (s ArraySpec) add(mod *circuit.Module) error {
	kind, err := circuit.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	pos, err := vector("pos", s.Pos)
	if err != nil {
		return err
	}
	return mod.Add(circuit.Array{
		Name:       s.Name,
		Width:      s.Width,
		Kind:       kind,
		State:      s.State,
		Pos:        pos,
		Properties: s.Properties,
		Stepping:   s.stepping(),
	})
}

// stepping returns nil when no stepping key is set.
func (s ArraySpec) stepping() *circuit.Stepping {
	st := circuit.DefaultStepping()
	set := false
	override(&st.Step.X, s.XStep, &set)
	override(&st.Step.Y, s.YStep, &set)
	override(&st.Step.Z, s.ZStep, &set)
	override(&st.Cluster[0], s.XCluster, &set)
	override(&st.Cluster[1], s.YCluster, &set)
	override(&st.Cluster[2], s.ZCluster, &set)
	override(&st.ClusterSpace.X, s.XClusterSpace, &set)
	override(&st.ClusterSpace.Y, s.YClusterSpace, &set)
	override(&st.ClusterSpace.Z, s.ZClusterSpace, &set)
	override(&st.Cycle[0], s.XCycle, &set)
	override(&st.Cycle[1], s.YCycle, &set)
	override(&st.Cycle[2], s.ZCycle, &set)
	if !set {
		return nil
	}
	return &st
}

func override[T any](dst *T, v *T, set *bool) {
	if v != nil {
		*dst = *v
		*set = true
	}
}

func (s BuildingSpec) add(mod *circuit.Module) error {
	pos, err := vector("pos", s.Pos)
	if err != nil {
		return err
	}

	frame := geom.Identity(pos)
	switch {
	case s.LookAt != nil && s.Euler != nil:
		return errors.New(errors.ErrCodeInvalidManifest, "look_at and euler are mutually exclusive")
	case s.LookAt != nil:
		target, err := vector("look_at", s.LookAt)
		if err != nil {
			return err
		}
		if frame, err = geom.LookAt(pos, target, geom.Up); err != nil {
			return err
		}
	case s.Euler != nil:
		rot, err := vector("euler", s.Euler)
		if err != nil {
			return err
		}
		rad := rot.Scale(math.Pi / 180)
		frame = geom.FromEuler(pos, rad.X, rad.Y, rad.Z)
	}

	return mod.Add(circuit.Building{Name: s.Name, Kind: s.Kind, Frame: frame, Slots: s.Slots})
}

func (s PortSpec) add(mod *circuit.Module) error {
	dir := circuit.PortInput
	if s.Dir != "" {
		var err error
		if dir, err = circuit.ParsePortDir(s.Dir); err != nil {
			return err
		}
	}
	return mod.Add(circuit.PortLink{Block: s.Block, Building: s.Building, Dir: dir, Port: s.Port, Offset: s.Offset})
}

// vector reads an optional [x, y, z] triple.
func vector(field string, v []float64) (geom.Vector, error) {
	switch len(v) {
	case 0:
		return geom.Zero, nil
	case 3:
		return geom.V(v[0], v[1], v[2]), nil
	}
	return geom.Zero, errors.New(errors.ErrCodeInvalidManifest, "%s must have 3 components, got %d", field, len(v))
}
