package circuit

import (
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Unbounded is the cluster and cycle value meaning "never": no extra
// cluster spacing and no wraparound on that axis.
const Unbounded = math.MaxInt32

// Stepping places the elements of an [Array]. For element i on each axis:
//
//	offset = (Step*i + ClusterSpace*floor(i/Cluster)) mod Cycle
//
// The modulo is floored, so the result has the sign of Cycle. An axis whose
// Cluster or Cycle is [Unbounded] skips that term entirely.
type Stepping struct {
	Step         geom.Vector
	Cluster      [3]int
	ClusterSpace geom.Vector
	Cycle        [3]int
}

// DefaultStepping lays elements out one unit apart along +X.
func DefaultStepping() Stepping {
	return Stepping{
		Step:         geom.V(1, 0, 0),
		Cluster:      [3]int{Unbounded, Unbounded, Unbounded},
		ClusterSpace: geom.V(1, 1, 1),
		Cycle:        [3]int{Unbounded, Unbounded, Unbounded},
	}
}

var axisNames = [3]string{"x", "y", "z"}

// Validate rejects non-positive cluster or cycle values.
func (s Stepping) Validate() error {
	for a := range 3 {
		if s.Cluster[a] <= 0 {
			return errors.New(errors.ErrCodeInvalidStepping, "%s cluster must be positive, got %d", axisNames[a], s.Cluster[a])
		}
		if s.Cycle[a] <= 0 {
			return errors.New(errors.ErrCodeInvalidStepping, "%s cycle must be positive, got %d", axisNames[a], s.Cycle[a])
		}
	}
	return nil
}

// Offset returns the displacement of element i from the array base.
// The stepping must be valid.
func (s Stepping) Offset(i int) geom.Vector {
	step := s.Step.Array()
	space := s.ClusterSpace.Array()
	var out [3]float64
	for a := range 3 {
		out[a] = axisOffset(i, step[a], space[a], s.Cluster[a], s.Cycle[a])
	}
	return geom.FromArray(out)
}

func axisOffset(i int, step, space float64, cluster, cycle int) float64 {
	v := step * float64(i)
	if cluster != Unbounded {
		v += space * float64(i/cluster)
	}
	if cycle != Unbounded {
		v = floorMod(v, float64(cycle))
	}
	return v
}

func floorMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Array is a family of Width identical blocks named {Name}0 … {Name}(Width-1).
// It is a generator: the module stores the Array itself and expands it on
// demand. A nil Stepping means [DefaultStepping].
type Array struct {
	Name       string
	Width      int
	Kind       Kind
	State      bool
	Pos        geom.Vector
	Properties []float64
	Stepping   *Stepping
}

func (a Array) stepping() Stepping {
	if a.Stepping == nil {
		return DefaultStepping()
	}
	return *a.Stepping
}

// Validate checks the width, kind and stepping of the array.
func (a Array) Validate() error {
	if a.Width < 1 {
		return errors.New(errors.ErrCodeInvalidWidth, "array %q: width must be at least 1, got %d", a.Name, a.Width)
	}
	if !a.Kind.Valid() {
		return errors.New(errors.ErrCodeUnknownKind, "array %q: unknown block kind %d", a.Name, int(a.Kind))
	}
	if err := a.stepping().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStepping, err, "array %q", a.Name)
	}
	return nil
}

// ElementName returns the name of element i.
func (a Array) ElementName(i int) string { return a.Name + strconv.Itoa(i) }

// Blocks expands the array into its concrete blocks, in index order.
// Expansion is pure: calling it twice yields identical blocks.
func (a Array) Blocks() ([]Block, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a.expand(), nil
}

func (a Array) expand() []Block {
	s := a.stepping()
	out := make([]Block, a.Width)
	for i := range out {
		out[i] = a.element(s, i)
	}
	return out
}

func (a Array) element(s Stepping, i int) Block {
	return Block{
		Name:       a.ElementName(i),
		Kind:       a.Kind,
		State:      a.State,
		Pos:        a.Pos.Add(s.Offset(i)),
		Properties: slices.Clone(a.Properties),
	}
}

func (a Array) clone() Array {
	a.Properties = slices.Clone(a.Properties)
	if a.Stepping != nil {
		s := *a.Stepping
		a.Stepping = &s
	}
	return a
}
