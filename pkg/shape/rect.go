package shape

import (
	"math"

	"github.com/chazu/veneer/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// sharpInset positions the interior anchor of an unrounded corner at
// 25% of the maximum rounding radius, keeping the interior patch
// non-degenerate.
const sharpInset = 0.25

// Rect builds an axis-aligned rectangle between lb and ub with
// optionally rounded corners. Corners are ordered counterclockwise
// from the lower-left. Each corner takes a rounding factor in [0,1],
// scaled by half the shorter side, and an arc resolution (point
// count, minimum one). A zero-area rectangle is substituted: a
// missing dimension borrows the other (square fallback), and fully
// empty bounds become a unit square.
//
// Ngon emits one loop over the whole perimeter. Quad emits five
// interior faces (center plus four edge patches) and one fan triangle
// per corner arc segment; Tri splits the interior patches for ten
// interior faces plus the same fans.
func Rect(m *mesh.Mesh, lb, ub v2.Vec, round [4]float64, res [4]int, poly PolyType, uv UVProfile) {
	lo := lb.Min(ub)
	hi := lb.Max(ub)
	size := hi.Sub(lo)

	switch {
	case size.X < MinRadius && size.Y < MinRadius:
		hi = lo.Add(v2.Vec{X: 1, Y: 1})
	case size.X < MinRadius:
		hi.X = lo.X + size.Y
	case size.Y < MinRadius:
		hi.Y = lo.Y + size.X
	}
	size = hi.Sub(lo)
	halfShort := math.Min(size.X, size.Y) / 2

	uvMap := rectUVMap(lo, hi, uv)

	corners := [4]v2.Vec{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
	}
	inward := [4]v2.Vec{
		{X: 1, Y: 1},
		{X: -1, Y: 1},
		{X: -1, Y: -1},
		{X: 1, Y: -1},
	}

	// Perimeter points per corner, plus one interior anchor each.
	var perimeter []v2.Vec
	var arcStart, arcLen [4]int
	var anchors [4]v2.Vec
	for k := 0; k < 4; k++ {
		r := clamp01(round[k]) * halfShort
		arcStart[k] = len(perimeter)
		if r < MinRadius {
			// Sharp corner: a single perimeter point, anchor inset
			// toward the interior.
			perimeter = append(perimeter, corners[k])
			anchors[k] = corners[k].Add(inward[k].MulScalar(sharpInset * halfShort))
			arcLen[k] = 1
			continue
		}
		center := corners[k].Add(inward[k].MulScalar(r))
		anchors[k] = center
		n := res[k]
		if n < 1 {
			n = 1
		}
		start := math.Pi + float64(k)*math.Pi/2
		if n == 1 {
			perimeter = append(perimeter, center.Add(circlePoint(r, start+math.Pi/4)))
		} else {
			step := (math.Pi / 2) / float64(n-1)
			for i := 0; i < n; i++ {
				perimeter = append(perimeter, center.Add(circlePoint(r, start+float64(i)*step)))
			}
		}
		arcLen[k] = n
	}

	coords := make([]v2.Vec, 0, len(perimeter)+4)
	uvs := make([]v2.Vec, 0, len(perimeter)+4)
	coords = append(coords, perimeter...)
	for _, p := range perimeter {
		uvs = append(uvs, uvMap(p))
	}

	if poly == Ngon {
		loop := make(mesh.Loop, len(perimeter))
		for i := range perimeter {
			loop[i] = mesh.VertexRef{Coord: i, TexCoord: i}
		}
		m.Coords = coords
		m.TexCoords = uvs
		m.Loops = []mesh.Loop{loop}
		return
	}

	anchorBase := len(coords)
	for k := 0; k < 4; k++ {
		coords = append(coords, anchors[k])
		uvs = append(uvs, uvMap(anchors[k]))
	}
	ref := func(i int) mesh.VertexRef { return mesh.VertexRef{Coord: i, TexCoord: i} }
	anchor := func(k int) mesh.VertexRef { return ref(anchorBase + k%4) }
	arcFirst := func(k int) mesh.VertexRef { return ref(arcStart[k%4]) }
	arcLast := func(k int) mesh.VertexRef {
		k %= 4
		return ref(arcStart[k] + arcLen[k] - 1)
	}

	var loops []mesh.Loop
	emit := func(l mesh.Loop) {
		if poly == Quad {
			loops = append(loops, l)
			return
		}
		loops = append(loops,
			mesh.Loop{l[0], l[1], l[2]},
			mesh.Loop{l[0], l[2], l[3]},
		)
	}

	emit(mesh.Loop{anchor(0), anchor(1), anchor(2), anchor(3)})
	for k := 0; k < 4; k++ {
		emit(mesh.Loop{anchor(k), arcLast(k), arcFirst(k + 1), anchor(k + 1)})
	}
	// Corner fans: one triangle per arc segment.
	for k := 0; k < 4; k++ {
		for i := 0; i < arcLen[k]-1; i++ {
			loops = append(loops, mesh.Loop{
				anchor(k),
				ref(arcStart[k] + i),
				ref(arcStart[k] + i + 1),
			})
		}
	}

	m.Coords = coords
	m.TexCoords = uvs
	m.Loops = loops
}

// rectUVMap returns the position-to-UV mapping for the given bounds
// and profile. V grows downward, matching the circle generators.
// Stretch fills the texture square exactly. Contain and Cover scale
// both axes uniformly by the shorter respectively longer side, so the
// texture keeps its aspect ratio; the other axis runs past (or stops
// short of) the [0,1] range symmetrically.
func rectUVMap(lo, hi v2.Vec, profile UVProfile) func(v2.Vec) v2.Vec {
	size := hi.Sub(lo)
	center := mix(lo, hi, 0.5)
	switch profile {
	case Contain:
		side := math.Min(size.X, size.Y)
		return func(p v2.Vec) v2.Vec {
			return v2.Vec{
				X: (p.X-center.X)/side + 0.5,
				Y: 0.5 - (p.Y-center.Y)/side,
			}
		}
	case Cover:
		side := math.Max(size.X, size.Y)
		return func(p v2.Vec) v2.Vec {
			return v2.Vec{
				X: (p.X-center.X)/side + 0.5,
				Y: 0.5 - (p.Y-center.Y)/side,
			}
		}
	default:
		return func(p v2.Vec) v2.Vec {
			return v2.Vec{
				X: (p.X - lo.X) / size.X,
				Y: (hi.Y - p.Y) / size.Y,
			}
		}
	}
}
