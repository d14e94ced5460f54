// Package geom provides the small amount of 3-D math needed to place and
// orient circuit components.
//
// [Vector] is an immutable value with componentwise arithmetic and rounding
// to a fixed number of decimal places. [Frame] pairs a position with a
// row-major 3×3 rotation whose rows are the right, up and backward axes.
//
// Frames are built with [Identity], [LookAt] or [FromEuler]:
//
//	f, err := geom.LookAt(geom.V(0, 0, 0), geom.V(0, 0, -5), geom.Up)
//	if err != nil {
//	    // from and to coincide
//	}
//
// Normalizing a zero-length vector is a domain error (INVALID_GEOMETRY), never
// a silent NaN.
package geom
