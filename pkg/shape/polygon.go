package shape

import (
	"math"

	"github.com/chazu/veneer/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Polygon builds a regular polygon of the given number of sectors on
// a circle of the given radius, starting at the rotation angle.
// Sectors below three clamp to three; non-positive radii clamp to
// MinRadius.
//
// Ngon emits one loop over the perimeter. Tri appends a center point
// and emits one fan triangle per sector. Quad appends a center point
// plus one chord midpoint per edge and emits one quad per sector.
func Polygon(m *mesh.Mesh, sectors int, radius, rotation float64, poly PolyType) {
	sectors = clampSectors(sectors)
	radius = clampRadius(radius)

	coords := make([]v2.Vec, 0, sectors)
	uvs := make([]v2.Vec, 0, sectors)
	for i := 0; i < sectors; i++ {
		theta := rotation + 2*math.Pi*float64(i)/float64(sectors)
		coords = append(coords, circlePoint(radius, theta))
		uvs = append(uvs, circleUV(theta))
	}

	switch poly {
	case Ngon:
		loop := make(mesh.Loop, sectors)
		for i := 0; i < sectors; i++ {
			loop[i] = mesh.VertexRef{Coord: i, TexCoord: i}
		}
		m.Coords = coords
		m.TexCoords = uvs
		m.Loops = []mesh.Loop{loop}

	case Tri:
		center := sectors
		coords = append(coords, v2.Vec{})
		uvs = append(uvs, v2.Vec{X: 0.5, Y: 0.5})
		loops := make([]mesh.Loop, sectors)
		for i := 0; i < sectors; i++ {
			next := (i + 1) % sectors
			loops[i] = mesh.Loop{
				{Coord: center, TexCoord: center},
				{Coord: i, TexCoord: i},
				{Coord: next, TexCoord: next},
			}
		}
		m.Coords = coords
		m.TexCoords = uvs
		m.Loops = loops

	case Quad:
		// Chord midpoint i sits between corner i and corner i+1.
		midBase := sectors
		for i := 0; i < sectors; i++ {
			next := (i + 1) % sectors
			coords = append(coords, mix(coords[i], coords[next], 0.5))
			uvs = append(uvs, mix(uvs[i], uvs[next], 0.5))
		}
		center := 2 * sectors
		coords = append(coords, v2.Vec{})
		uvs = append(uvs, v2.Vec{X: 0.5, Y: 0.5})

		loops := make([]mesh.Loop, sectors)
		for i := 0; i < sectors; i++ {
			prev := midBase + (i+sectors-1)%sectors
			loops[i] = mesh.Loop{
				{Coord: center, TexCoord: center},
				{Coord: prev, TexCoord: prev},
				{Coord: i, TexCoord: i},
				{Coord: midBase + i, TexCoord: midBase + i},
			}
		}
		m.Coords = coords
		m.TexCoords = uvs
		m.Loops = loops
	}
}
