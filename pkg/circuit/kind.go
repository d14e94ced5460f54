package circuit

import (
	"strconv"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// Kind identifies a primitive block type. The integer value is what the
// savestring carries.
type Kind int

const (
	Nor Kind = iota
	And
	Or
	Xor
	Button
	FlipFlop
	LED
	Sound
	Conductor
	Custom
	Nand
	Xnor
	Random
	Text
	Tile
	Node
	Delay
	Antenna
	ConductorV2
	LEDMixer
)

var kindNames = [...]string{
	Nor:         "NOR",
	And:         "AND",
	Or:          "OR",
	Xor:         "XOR",
	Button:      "BUTTON",
	FlipFlop:    "FLIPFLOP",
	LED:         "LED",
	Sound:       "SOUND",
	Conductor:   "CONDUCTOR",
	Custom:      "CUSTOM",
	Nand:        "NAND",
	Xnor:        "XNOR",
	Random:      "RANDOM",
	Text:        "TEXT",
	Tile:        "TILE",
	Node:        "NODE",
	Delay:       "DELAY",
	Antenna:     "ANTENNA",
	ConductorV2: "CONDUCTOR_V2",
	LEDMixer:    "LED_MIXER",
}

// Kinds returns every recognized kind in ascending order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool { return k >= 0 && int(k) < len(kindNames) }

func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind looks up a kind by name, ignoring case.
func ParseKind(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == upper {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownKind, "unknown block kind %q", name)
}

// MarshalText encodes the kind as its upper-case name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown block kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name, ignoring case.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
