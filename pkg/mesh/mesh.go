// Package mesh defines the planar indexed mesh data model for Veneer.
// A Mesh owns three parallel arrays: 2D coordinates, 2D texture
// coordinates, and loops. A loop is an ordered sequence of vertex
// references, each pairing a coordinate index with an independent
// texture-coordinate index, so the same position can carry different
// UVs across faces (and vice versa).
package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// VertexRef is one face corner: a coordinate index paired with an
// independent texture-coordinate index.
type VertexRef struct {
	Coord    int `json:"c"`
	TexCoord int `json:"t"`
}

// Loop is a closed polygon given as an ordered sequence of vertex
// references. Order defines winding. A well-formed loop has at least
// three corners; shorter loops may exist transiently inside editing
// operations but are never produced.
type Loop []VertexRef

// Mesh is the index model. Coords and TexCoords have no required
// length relationship; either may contain entries no loop references
// (orphans), which only Clean removes.
type Mesh struct {
	Coords    []v2.Vec `json:"coords"`
	TexCoords []v2.Vec `json:"texCoords"`
	Loops     []Loop   `json:"loops"`
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Clone returns a deep copy sharing no backing arrays with m.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Coords:    make([]v2.Vec, len(m.Coords)),
		TexCoords: make([]v2.Vec, len(m.TexCoords)),
		Loops:     make([]Loop, len(m.Loops)),
	}
	copy(out.Coords, m.Coords)
	copy(out.TexCoords, m.TexCoords)
	for i, loop := range m.Loops {
		out.Loops[i] = make(Loop, len(loop))
		copy(out.Loops[i], loop)
	}
	return out
}

// FaceCount returns the number of loops.
func (m *Mesh) FaceCount() int { return len(m.Loops) }

// CoordCount returns the number of coordinates.
func (m *Mesh) CoordCount() int { return len(m.Coords) }

// TexCoordCount returns the number of texture coordinates.
func (m *Mesh) TexCoordCount() int { return len(m.TexCoords) }

// CornerCount returns the sum of all loop lengths.
func (m *Mesh) CornerCount() int {
	n := 0
	for _, loop := range m.Loops {
		n += len(loop)
	}
	return n
}

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool { return len(m.Loops) == 0 }

// Resize returns a slice of length n with a fresh backing array.
// The first min(n, len(s)) elements are preserved; new slots are
// zero-valued. The input is never aliased, so callers may resize a
// mesh array they are still reading from.
func Resize[T any](s []T, n int) []T {
	out := make([]T, n)
	copy(out, s)
	return out
}

// Splice removes deleteCount elements starting at index and inserts
// insert in their place, shifting later elements. Index and
// deleteCount are clamped to the slice. The result uses a fresh
// backing array.
func Splice[T any](s []T, index, deleteCount int, insert []T) []T {
	if index < 0 {
		index = 0
	}
	if index > len(s) {
		index = len(s)
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if index+deleteCount > len(s) {
		deleteCount = len(s) - index
	}
	out := make([]T, 0, len(s)-deleteCount+len(insert))
	out = append(out, s[:index]...)
	out = append(out, insert...)
	out = append(out, s[index+deleteCount:]...)
	return out
}

// wrapIndex maps any integer onto [0, n) by floor modulo. Mesh
// indices are treated as circular: out-of-range face and vertex
// indices wrap instead of failing.
func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// coord resolves a coordinate index with circular wrapping. With no
// coordinates to wrap onto, every index resolves to the zero vector.
func (m *Mesh) coord(i int) v2.Vec {
	if len(m.Coords) == 0 {
		return v2.Vec{}
	}
	return m.Coords[wrapIndex(i, len(m.Coords))]
}

// texCoord resolves a texture-coordinate index with circular wrapping,
// with the same zero-vector fallback as coord.
func (m *Mesh) texCoord(i int) v2.Vec {
	if len(m.TexCoords) == 0 {
		return v2.Vec{}
	}
	return m.TexCoords[wrapIndex(i, len(m.TexCoords))]
}

// mix linearly interpolates between a and b by t.
func mix(a, b v2.Vec, t float64) v2.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// loopCentroid returns the coordinate and texture-coordinate
// centroids of a loop.
func (m *Mesh) loopCentroid(loop Loop) (v2.Vec, v2.Vec) {
	var c, t v2.Vec
	if len(loop) == 0 {
		return c, t
	}
	for _, ref := range loop {
		c = c.Add(m.coord(ref.Coord))
		t = t.Add(m.texCoord(ref.TexCoord))
	}
	n := float64(len(loop))
	return c.DivScalar(n), t.DivScalar(n)
}
