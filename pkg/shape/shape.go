// Package shape provides procedural generators for planar indexed
// meshes. Each generator fully repopulates a target mesh's
// coordinate, texture-coordinate, and loop arrays from its
// parameters. Degenerate parameters are clamped to the nearest valid
// value instead of failing: generators always produce a well-formed
// mesh.
package shape

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// PolyType selects the face structure a generator emits.
type PolyType int

const (
	Tri  PolyType = iota // triangles only
	Quad                 // quads where the shape allows
	Ngon                 // one loop per outline
)

func (p PolyType) String() string {
	switch p {
	case Tri:
		return "tri"
	case Quad:
		return "quad"
	case Ngon:
		return "ngon"
	default:
		return fmt.Sprintf("PolyType(%d)", int(p))
	}
}

// UVProfile controls how texture coordinates fit non-square bounds.
type UVProfile int

const (
	Stretch UVProfile = iota // fill both axes, aspect ignored
	Contain                  // uniform scale, texture fully inside
	Cover                    // uniform scale, bounds fully covered
)

func (p UVProfile) String() string {
	switch p {
	case Stretch:
		return "stretch"
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	default:
		return fmt.Sprintf("UVProfile(%d)", int(p))
	}
}

// MinRadius is the smallest radius a generator will accept; zero or
// negative radii clamp to it.
const MinRadius = 1e-9

// clampSectors enforces the three-sector minimum.
func clampSectors(sectors int) int {
	if sectors < 3 {
		return 3
	}
	return sectors
}

// clampRadius enforces a positive radius.
func clampRadius(radius float64) float64 {
	if radius < MinRadius {
		return MinRadius
	}
	return radius
}

// clamp01 clamps t into [0, 1].
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// circlePoint returns the point at angle theta on a circle of the
// given radius.
func circlePoint(radius, theta float64) v2.Vec {
	return v2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
}

// circleUV maps an angle on the unit circle into UV space: the circle
// inscribes the [0,1] texture square, with V growing downward.
func circleUV(theta float64) v2.Vec {
	return v2.Vec{X: math.Cos(theta)*0.5 + 0.5, Y: 0.5 - math.Sin(theta)*0.5}
}

// mix linearly interpolates between a and b by t.
func mix(a, b v2.Vec, t float64) v2.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
