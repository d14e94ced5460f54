package generators

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// Func builds a sub-circuit of the given width at pos.
type Func func(name string, size int, pos geom.Vector) (*circuit.Module, error)

var registry = map[string]Func{
	"adder":    Adder,
	"decoder":  Decoder,
	"flipflop": Flipflop,
}

// Lookup returns the generator registered under name, ignoring case.
func Lookup(name string) (Func, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownGenerator, "unknown generator %q (known: %s)",
			name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names returns the registered generator names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

func checkSize(kind string, size, limit int) error {
	if size < 1 || size > limit {
		return errors.New(errors.ErrCodeInvalidWidth, "%s size must be in [1,%d], got %d", kind, limit, size)
	}
	return nil
}
