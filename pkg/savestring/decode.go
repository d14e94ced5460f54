package savestring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// NameFunc names the block or building decoded at the given 1-based position.
type NameFunc func(index int) string

// RandomNames gives every decoded component a random UUID.
func RandomNames(int) string { return uuid.NewString() }

// IndexNames returns a NameFunc yielding prefix followed by the index.
func IndexNames(prefix string) NameFunc {
	return func(i int) string { return prefix + strconv.Itoa(i) }
}

// Decode parses s into a new unnamed module whose blocks and buildings
// carry random names.
func Decode(s string) (*circuit.Module, error) {
	return DecodeNamed(s, RandomNames, RandomNames)
}

// DecodeNamed is [Decode] with caller-chosen names. blockName and
// buildingName must return distinct names for distinct indexes.
func DecodeNamed(s string, blockName, buildingName NameFunc) (*circuit.Module, error) {
	sections := strings.Split(s, sectionSep)
	if len(sections) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "savestring has no %q section separator", sectionSep)
	}
	if len(sections) > 5 || (len(sections) == 5 && sections[4] != "") {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "savestring has %d sections, want at most 4", len(sections)-1)
	}

	m := circuit.New("")

	var names []string
	for i, rec := range records(sections[0]) {
		b, err := parseBlock(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "block %d", i+1)
		}
		b.Name = blockName(i + 1)
		if err := m.Add(b); err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		names = append(names, b.Name)
	}

	for i, rec := range records(sections[1]) {
		fields := strings.Split(rec, fieldSep)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "wire %d: want 2 fields, got %d", i+1, len(fields))
		}
		src, err := blockAt(names, fields[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "wire %d source", i+1)
		}
		dst, err := blockAt(names, fields[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "wire %d destination", i+1)
		}
		if err := m.Add(circuit.Wire{Src: src, Dst: dst}); err != nil {
			return nil, fmt.Errorf("wire %d: %w", i+1, err)
		}
	}

	if len(sections) > 2 {
		for i, rec := range records(sections[2]) {
			if err := decodeBuilding(m, rec, buildingName(i+1), names); err != nil {
				return nil, fmt.Errorf("building %d: %w", i+1, err)
			}
		}
	}

	return m, nil
}

// records splits a section into records; an empty section has none.
func records(section string) []string {
	if section == "" {
		return nil
	}
	return strings.Split(section, recordSep)
}

func parseBlock(rec string) (circuit.Block, error) {
	fields := strings.Split(rec, fieldSep)
	if len(fields) < 5 || len(fields) > 6 {
		return circuit.Block{}, fmt.Errorf("want 5 or 6 fields, got %d", len(fields))
	}

	kind, err := strconv.Atoi(fields[0])
	if err != nil {
		return circuit.Block{}, fmt.Errorf("kind: %w", err)
	}

	var state bool
	switch fields[1] {
	case "1":
		state = true
	case "0":
	default:
		return circuit.Block{}, fmt.Errorf("state %q is not 0 or 1", fields[1])
	}

	pos, err := parseFloats(fields[2:5])
	if err != nil {
		return circuit.Block{}, fmt.Errorf("position: %w", err)
	}

	var props []float64
	if len(fields) == 6 && fields[5] != "" {
		if props, err = parseFloats(strings.Split(fields[5], listSep)); err != nil {
			return circuit.Block{}, fmt.Errorf("properties: %w", err)
		}
	}

	return circuit.Block{
		Kind:       circuit.Kind(kind),
		State:      state,
		Pos:        geom.V(pos[0], pos[1], pos[2]),
		Properties: props,
	}, nil
}

func decodeBuilding(m *circuit.Module, rec, name string, names []string) error {
	fields := strings.Split(rec, fieldSep)
	if len(fields) < 13 {
		return errors.New(errors.ErrCodeInvalidFormat, "want at least 13 fields, got %d", len(fields))
	}
	values, err := parseFloats(fields[1:13])
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "frame")
	}
	frame, err := geom.FrameFromValues(values)
	if err != nil {
		return err
	}

	slots := fields[13:]
	if err := m.Add(circuit.Building{Name: name, Kind: fields[0], Frame: frame, Slots: len(slots)}); err != nil {
		return err
	}

	for slot, field := range slots {
		if field == "" {
			continue
		}
		for _, tok := range strings.Split(field, listSep) {
			if len(tok) < 2 {
				return errors.New(errors.ErrCodeInvalidFormat, "slot %d: malformed token %q", slot, tok)
			}
			dir, err := circuit.ParsePortDir(tok[:1])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "slot %d", slot)
			}
			block, err := blockAt(names, tok[1:])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "slot %d", slot)
			}
			if err := m.Add(circuit.PortLink{Block: block, Building: name, Dir: dir, Offset: slot}); err != nil {
				return err
			}
		}
	}
	return nil
}

// blockAt maps a 1-based index field to the decoded block name.
func blockAt(names []string, field string) (string, error) {
	i, err := strconv.Atoi(field)
	if err != nil {
		return "", fmt.Errorf("index %q: %w", field, err)
	}
	if i < 1 || i > len(names) {
		return "", fmt.Errorf("index %d out of range [1,%d]", i, len(names))
	}
	return names[i-1], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
