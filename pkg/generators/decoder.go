package generators

import (
	"math/bits"
	"strconv"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/geom"
)

// maxDecoder bounds the input width; the output count is 2^size.
const maxDecoder = 16

// Decoder builds a size-to-2^size line decoder. Outputs are individual AND
// blocks "output0" ... "output{2^size-1}" laid out as a near-square grid, so
// the parent can wire them as the developed array "{name}.output".
func Decoder(name string, size int, pos geom.Vector) (*circuit.Module, error) {
	if err := checkSize("decoder", size, maxDecoder); err != nil {
		return nil, err
	}
	s := float64(size)

	dc := circuit.New(name)
	err := dc.Add(
		circuit.Array{Name: "input", Width: size, Kind: circuit.Node, Pos: geom.V(float64(size/2), 0, 0)},
		circuit.Array{Name: "nor_gate", Width: size, Kind: circuit.Nor, Pos: geom.V(0, 0, -1)},
		circuit.Array{Name: "or_gate", Width: size, Kind: circuit.Or, Pos: geom.V(s, 0, -1)},
		circuit.Wire{Src: "input", Dst: "nor_gate"},
		circuit.Wire{Src: "input", Dst: "or_gate"},
	)
	if err != nil {
		return nil, err
	}

	outputs := 1 << size
	rows, cols := closestDivisors(outputs)
	colBits := bits.TrailingZeros(uint(cols))
	rowBits := size - colBits
	shift := floorDiv(2*size-cols, 2)

	for i := range outputs {
		x := i >> rowBits
		y := -rows + (i & (1<<rowBits - 1)) + 1
		out := "output" + strconv.Itoa(i)
		if err := dc.Add(circuit.Block{Name: out, Kind: circuit.And, Pos: geom.V(float64(x+shift), 0, float64(y-2))}); err != nil {
			return nil, err
		}
		// Bit b counts from the most significant end.
		for b := range size {
			gate := "nor_gate"
			if i>>(size-1-b)&1 == 1 {
				gate = "or_gate"
			}
			if err := dc.Add(circuit.Wire{Src: gate + strconv.Itoa(b), Dst: out}); err != nil {
				return nil, err
			}
		}
	}

	dc.Move(pos)
	return dc, nil
}

// closestDivisors returns a <= b with a*b == n and b-a minimal.
func closestDivisors(n int) (int, int) {
	for a := isqrt(n); a > 1; a-- {
		if n%a == 0 {
			return a, n / a
		}
	}
	return 1, n
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
