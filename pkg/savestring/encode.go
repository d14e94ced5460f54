package savestring

import (
	"strconv"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

const (
	sectionSep = "?"
	recordSep  = ";"
	fieldSep   = ","
	listSep    = "+"

	// precision is the number of decimal places kept for coordinates.
	precision = 3
)

// Encode assigns indexes to every block of m and renders the savestring.
//
// Encode fails with INTERNAL_ERROR when a wire or building slot names a
// block that has no index. Add never re-resolves stored wires, so this
// happens when an array is redeclared narrower (or replaced by a block)
// after wires to its elements were added.
func Encode(m *circuit.Module) (string, error) {
	idx := m.Indexes()

	var sb strings.Builder
	for i, b := range m.Blocks() {
		if i > 0 {
			sb.WriteString(recordSep)
		}
		writeBlock(&sb, b)
	}
	sb.WriteString(sectionSep)

	for i, w := range m.Wires() {
		src, ok := idx[w.Src]
		if !ok {
			return "", errors.New(errors.ErrCodeInternal, "wire %s: source has no index", w)
		}
		dst, ok := idx[w.Dst]
		if !ok {
			return "", errors.New(errors.ErrCodeInternal, "wire %s: destination has no index", w)
		}
		if i > 0 {
			sb.WriteString(recordSep)
		}
		sb.WriteString(strconv.Itoa(src))
		sb.WriteString(fieldSep)
		sb.WriteString(strconv.Itoa(dst))
	}
	sb.WriteString(sectionSep)

	for i, b := range m.Buildings() {
		if i > 0 {
			sb.WriteString(recordSep)
		}
		if err := writeBuilding(&sb, b, idx); err != nil {
			return "", err
		}
	}
	sb.WriteString(sectionSep)

	return sb.String(), nil
}

func writeBlock(sb *strings.Builder, b circuit.Block) {
	sb.WriteString(strconv.Itoa(int(b.Kind)))
	sb.WriteString(fieldSep)
	if b.State {
		sb.WriteString("1")
	} else {
		sb.WriteString("0")
	}
	for _, v := range b.Pos.Array() {
		sb.WriteString(fieldSep)
		sb.WriteString(coord(v))
	}
	sb.WriteString(fieldSep)
	for i, p := range b.Properties {
		if i > 0 {
			sb.WriteString(listSep)
		}
		sb.WriteString(geom.FormatFloat(p))
	}
}

func writeBuilding(sb *strings.Builder, b *circuit.Building, idx map[string]int) error {
	sb.WriteString(b.Kind)
	for _, v := range b.Frame.Values() {
		sb.WriteString(fieldSep)
		sb.WriteString(coord(v))
	}
	for slot := range b.SlotCount() {
		sb.WriteString(fieldSep)
		for i, ref := range b.Wires(slot) {
			n, ok := idx[ref.Block]
			if !ok {
				return errors.New(errors.ErrCodeInternal, "building %q slot %d: block %q has no index", b.Name, slot, ref.Block)
			}
			if i > 0 {
				sb.WriteString(listSep)
			}
			sb.WriteString(strconv.Itoa(int(ref.Dir)))
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return nil
}

func coord(v float64) string {
	return geom.FormatFloat(geom.Round(v, precision))
}
