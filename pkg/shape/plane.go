package shape

import (
	"github.com/chazu/veneer/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Plane builds a regular grid of cols x rows cells spanning the unit
// square, with one coordinate per grid point and UVs equal to
// position (V grows with Y here; flip with FlipV for image-space
// texturing). Quad and Ngon emit one quad per cell; Tri splits each
// cell along its diagonal into two triangles.
func Plane(m *mesh.Mesh, cols, rows int, poly PolyType) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	stride := cols + 1
	coords := make([]v2.Vec, 0, stride*(rows+1))
	for y := 0; y <= rows; y++ {
		for x := 0; x <= cols; x++ {
			coords = append(coords, v2.Vec{
				X: float64(x) / float64(cols),
				Y: float64(y) / float64(rows),
			})
		}
	}

	ref := func(i int) mesh.VertexRef { return mesh.VertexRef{Coord: i, TexCoord: i} }
	var loops []mesh.Loop
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			bl := y*stride + x
			br := bl + 1
			tr := br + stride
			tl := bl + stride
			if poly == Tri {
				loops = append(loops,
					mesh.Loop{ref(bl), ref(br), ref(tr)},
					mesh.Loop{ref(bl), ref(tr), ref(tl)},
				)
			} else {
				loops = append(loops, mesh.Loop{ref(bl), ref(br), ref(tr), ref(tl)})
			}
		}
	}

	uvs := make([]v2.Vec, len(coords))
	copy(uvs, coords)

	m.Coords = coords
	m.TexCoords = uvs
	m.Loops = loops
}
