package circuit

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// endpoint is one resolved side of a wire: a single block, or the ordered
// elements of an array.
type endpoint struct {
	names []string
	array bool
}

// resolve turns a reference into concrete block names. In order it tries:
// a stored block or array, an element of a stored array, and a developed
// array (blocks named {name}0, {name}1, ... never declared as an Array).
func (m *Module) resolve(name string) (endpoint, error) {
	if c, ok := m.blocks.Get(name); ok {
		switch c := c.(type) {
		case Block:
			return endpoint{names: []string{name}}, nil
		case Array:
			names := make([]string, c.Width)
			for i := range names {
				names[i] = c.ElementName(i)
			}
			return endpoint{names: names, array: true}, nil
		}
	}

	if _, _, ok := m.element(name); ok {
		return endpoint{names: []string{name}}, nil
	}

	if m.isBlock(name + "0") {
		width, err := m.developedWidth(name)
		if err != nil {
			return endpoint{}, err
		}
		names := make([]string, width)
		for i := range names {
			names[i] = name + strconv.Itoa(i)
		}
		return endpoint{names: names, array: true}, nil
	}

	return endpoint{}, errors.New(errors.ErrCodeUnresolvedReference, "unknown block or array %q", name)
}

// resolveWire pairs the two resolved sides of w:
//
//	block -> block   one wire
//	block -> array   one wire per element (fan-out)
//	array -> array   min(width) wires pairing equal indices
//	array -> block   none
func (m *Module) resolveWire(w Wire) ([]Wire, error) {
	src, err := m.resolve(w.Src)
	if err != nil {
		return nil, err
	}
	dst, err := m.resolve(w.Dst)
	if err != nil {
		return nil, err
	}

	switch {
	case !src.array && !dst.array:
		return []Wire{{Src: src.names[0], Dst: dst.names[0]}}, nil
	case !src.array:
		out := make([]Wire, len(dst.names))
		for i, d := range dst.names {
			out[i] = Wire{Src: src.names[0], Dst: d}
		}
		return out, nil
	case dst.array:
		n := min(len(src.names), len(dst.names))
		out := make([]Wire, n)
		for i := range n {
			out[i] = Wire{Src: src.names[i], Dst: dst.names[i]}
		}
		return out, nil
	}
	return nil, nil
}

// element reports whether name is {array}{i} for a stored array with
// 0 <= i < width. The longest matching array name wins.
func (m *Module) element(name string) (Array, int, bool) {
	start := len(name)
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	for k := len(name) - 1; k >= start && k > 0; k-- {
		c, ok := m.blocks.Get(name[:k])
		if !ok {
			continue
		}
		a, ok := c.(Array)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(name[k:])
		if err != nil || strconv.Itoa(i) != name[k:] || i >= a.Width {
			continue
		}
		return a, i, true
	}
	return Array{}, 0, false
}

func (m *Module) isBlock(name string) bool {
	c, ok := m.blocks.Get(name)
	if !ok {
		return false
	}
	_, ok = c.(Block)
	return ok
}

// initialProbe is the first upper bound tried by developedWidth.
const initialProbe = 32

// developedWidth finds k such that {name}0 … {name}(k-1) exist as blocks and
// {name}k does not. The boundary is located with an exponential probe
// followed by a binary search, O(log k) lookups. The indices below k are
// then confirmed present and no stored block may be named {name}N with
// N > k; anything else is reported as a FAMILY_GAP.
func (m *Module) developedWidth(name string) (int, error) {
	present := func(i int) bool { return m.isBlock(name + strconv.Itoa(i)) }

	if !present(0) {
		return 0, nil
	}

	bottom, top := 0, initialProbe
	for present(top - 1) {
		bottom = top - 1
		top *= 2
	}

	// present(lo) && !present(hi)
	lo, hi := bottom, top-1
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if present(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	width := hi

	for i := range width {
		if !present(i) {
			return 0, errors.New(errors.ErrCodeFamilyGap, "developed array %q: %s%d missing below width %d", name, name, i, width)
		}
	}
	for key, c := range m.blocks.All() {
		i, ok := indexSuffix(key, name)
		if !ok || i <= width {
			continue
		}
		if _, isBlock := c.(Block); isBlock {
			return 0, errors.New(errors.ErrCodeFamilyGap, "developed array %q: %s%d missing but %s present", name, name, width, key)
		}
	}
	return width, nil
}

// indexSuffix parses key as {name}{i} with i written without leading zeros.
// Indices too large for an int are reported as math.MaxInt.
func indexSuffix(key, name string) (int, bool) {
	digits, ok := strings.CutPrefix(key, name)
	if !ok || digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt, true
	}
	return i, true
}
