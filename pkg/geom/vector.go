package geom

import (
	"math"
	"strconv"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// epsilon is the length below which a vector is treated as zero.
const epsilon = 1e-12

// Vector is a 3-component position or direction.
type Vector struct {
	X, Y, Z float64
}

// Common axis vectors.
var (
	Zero  = Vector{}
	Right = Vector{1, 0, 0}
	Up    = Vector{0, 1, 0}
	Back  = Vector{0, 0, 1}
)

// V is shorthand for Vector{x, y, z}.
func V(x, y, z float64) Vector { return Vector{x, y, z} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the componentwise minimum of v and o.
func (v Vector) Min(o Vector) Vector {
	return Vector{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the componentwise maximum of v and o.
func (v Vector) Max(o Vector) Vector {
	return Vector{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector pointing along v.
// A zero-length vector yields an INVALID_GEOMETRY error.
func (v Vector) Normalize() (Vector, error) {
	l := v.Length()
	if l < epsilon {
		return Zero, errors.New(errors.ErrCodeInvalidGeometry, "cannot normalize zero-length vector")
	}
	return v.Scale(1 / l), nil
}

// Round rounds every component to the given number of decimal places.
// Negative zero is folded to zero so rounded values print without a sign.
func (v Vector) Round(places int) Vector {
	return Vector{Round(v.X, places), Round(v.Y, places), Round(v.Z, places)}
}

// Round rounds x half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(x*p) / p
	if r == 0 {
		return 0
	}
	return r
}

// Array returns the components as a fixed-size array.
func (v Vector) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// FromArray builds a Vector from its components.
func FromArray(a [3]float64) Vector { return Vector{a[0], a[1], a[2]} }

// String formats the vector as "(x, y, z)" with components rounded to
// three decimal places.
func (v Vector) String() string {
	r := v.Round(3)
	return "(" + FormatFloat(r.X) + ", " + FormatFloat(r.Y) + ", " + FormatFloat(r.Z) + ")"
}

// FormatFloat prints x in the shortest decimal form that round-trips:
// 1, -0.5, 0.125. Integral values carry no fraction.
func FormatFloat(x float64) string {
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
