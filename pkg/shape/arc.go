package shape

import (
	"math"

	"github.com/chazu/veneer/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// fullTurnFraction is the span below which an arc degenerates to a
// full annulus: about half a degree.
const fullTurnFraction = 0.00139

// Arc builds an annular arc between startAngle and stopAngle. The
// outer ring sits at radius, the inner ring at oculus*radius, with
// sectors segments across the span. Oculus clamps into (0,1);
// non-positive radii clamp to MinRadius.
//
// A span shorter than fullTurnFraction of a full turn is treated as a
// closed annulus: a full polygon ring built by insetting a polygon to
// the oculus radius and deleting the center face.
//
// Ngon emits the whole arc as one loop (outer ring forward, inner
// ring backward). Quad emits one quad per sector; Tri two triangles
// per sector.
func Arc(m *mesh.Mesh, sectors int, radius, oculus, startAngle, stopAngle float64, poly PolyType) {
	radius = clampRadius(radius)
	oculus = math.Max(math.Min(oculus, 1-1e-9), 1e-9)
	if sectors < 1 {
		sectors = 1
	}

	span := stopAngle - startAngle
	if math.Abs(span) < fullTurnFraction*2*math.Pi {
		// Degenerate span: full annulus. InsetFace by 1-oculus puts
		// the inner ring at oculus*radius; dropping the center face
		// leaves the ring of border quads.
		Polygon(m, sectors, radius, startAngle, Ngon)
		n := len(m.Loops[0])
		if _, err := m.InsetFace(0, 1-oculus); err != nil {
			return
		}
		m.DeleteFaces(n, 1)
		return
	}

	step := span / float64(sectors)
	outer := make([]v2.Vec, 0, sectors+1)
	inner := make([]v2.Vec, 0, sectors+1)
	outerUV := make([]v2.Vec, 0, sectors+1)
	innerUV := make([]v2.Vec, 0, sectors+1)
	uvCenter := v2.Vec{X: 0.5, Y: 0.5}
	for i := 0; i <= sectors; i++ {
		theta := startAngle + float64(i)*step
		outer = append(outer, circlePoint(radius, theta))
		inner = append(inner, circlePoint(radius*oculus, theta))
		uv := circleUV(theta)
		outerUV = append(outerUV, uv)
		innerUV = append(innerUV, mix(uvCenter, uv, oculus))
	}

	// Outer points first, inner points after.
	coords := append(append([]v2.Vec{}, outer...), inner...)
	uvs := append(append([]v2.Vec{}, outerUV...), innerUV...)
	innerBase := sectors + 1
	ref := func(i int) mesh.VertexRef { return mesh.VertexRef{Coord: i, TexCoord: i} }

	var loops []mesh.Loop
	switch poly {
	case Ngon:
		loop := make(mesh.Loop, 0, 2*(sectors+1))
		for i := 0; i <= sectors; i++ {
			loop = append(loop, ref(i))
		}
		for i := sectors; i >= 0; i-- {
			loop = append(loop, ref(innerBase+i))
		}
		loops = []mesh.Loop{loop}

	case Quad:
		for i := 0; i < sectors; i++ {
			loops = append(loops, mesh.Loop{
				ref(i), ref(i + 1), ref(innerBase + i + 1), ref(innerBase + i),
			})
		}

	case Tri:
		for i := 0; i < sectors; i++ {
			loops = append(loops,
				mesh.Loop{ref(i), ref(i + 1), ref(innerBase + i)},
				mesh.Loop{ref(i + 1), ref(innerBase + i + 1), ref(innerBase + i)},
			)
		}
	}

	m.Coords = coords
	m.TexCoords = uvs
	m.Loops = loops
}
