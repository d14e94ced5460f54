package geom

import (
	"math"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// Matrix is a row-major 3×3 rotation. Rows are the right, up and backward
// axes of the frame.
type Matrix [3][3]float64

// IdentityMatrix is the default orientation.
var IdentityMatrix = Matrix{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Frame is a position plus an orientation.
type Frame struct {
	Position Vector
	Rotation Matrix
}

// Identity returns a frame at pos with the default orientation.
func Identity(pos Vector) Frame {
	return Frame{Position: pos, Rotation: IdentityMatrix}
}

// LookAt returns a frame at from whose backward row points at to.
// When the forward direction is parallel to up, the world back axis (or,
// failing that, the right axis) is used as the up hint instead.
func LookAt(from, to, up Vector) (Frame, error) {
	forward, err := to.Sub(from).Normalize()
	if err != nil {
		return Frame{}, err
	}

	right, err := up.Cross(forward).Normalize()
	if err != nil {
		for _, alt := range []Vector{Back, Right} {
			if right, err = alt.Cross(forward).Normalize(); err == nil {
				break
			}
		}
		if err != nil {
			return Frame{}, err
		}
	}
	upAxis, err := forward.Cross(right).Normalize()
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Position: from,
		Rotation: Matrix{
			right.Array(),
			upAxis.Array(),
			forward.Array(),
		},
	}, nil
}

// FromEuler returns a frame at pos rotated by rx, ry, rz radians about the
// X, Y and Z axes. The rotations compose as Rz·Ry·Rx.
func FromEuler(pos Vector, rx, ry, rz float64) Frame {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)

	return Frame{
		Position: pos,
		Rotation: Matrix{
			{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
			{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
			{-sy, cy * sx, cy * cx},
		},
	}
}

// Translate returns the frame moved by offset.
func (f Frame) Translate(offset Vector) Frame {
	f.Position = f.Position.Add(offset)
	return f
}

// Values returns position and rotation flattened row-major, twelve values in all.
func (f Frame) Values() []float64 {
	out := []float64{f.Position.X, f.Position.Y, f.Position.Z}
	for _, row := range f.Rotation {
		out = append(out, row[:]...)
	}
	return out
}

// FrameFromValues is the inverse of [Frame.Values].
func FrameFromValues(v []float64) (Frame, error) {
	if len(v) != 12 {
		return Frame{}, errors.New(errors.ErrCodeInvalidGeometry, "frame needs 12 values, got %d", len(v))
	}
	f := Frame{Position: Vector{v[0], v[1], v[2]}}
	for r := range 3 {
		copy(f.Rotation[r][:], v[3+3*r:6+3*r])
	}
	return f, nil
}
