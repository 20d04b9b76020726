package mesh

import (
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Vertex is a resolved face corner: the materialized coordinate and
// texture coordinate a VertexRef points at.
type Vertex struct {
	Position v2.Vec `json:"position"`
	UV       v2.Vec `json:"uv"`
}

// Edge connects two coordinate indices. Origin and Dest follow the
// winding of the loop the edge was first seen in.
type Edge struct {
	Origin int `json:"origin"`
	Dest   int `json:"dest"`
}

// GetVertex resolves a vertex reference. Indices wrap cyclically; a
// mesh with no coordinates or texture coordinates resolves those
// components to the zero vector.
func (m *Mesh) GetVertex(ref VertexRef) Vertex {
	return Vertex{
		Position: m.coord(ref.Coord),
		UV:       m.texCoord(ref.TexCoord),
	}
}

// GetFace resolves every corner of one face. The face index wraps
// cyclically; an empty mesh yields nil.
func (m *Mesh) GetFace(faceIndex int) []Vertex {
	if len(m.Loops) == 0 {
		return nil
	}
	loop := m.Loops[wrapIndex(faceIndex, len(m.Loops))]
	out := make([]Vertex, len(loop))
	for i, ref := range loop {
		out[i] = m.GetVertex(ref)
	}
	return out
}

// GetFaces resolves every face of the mesh.
func (m *Mesh) GetFaces() [][]Vertex {
	out := make([][]Vertex, len(m.Loops))
	for i := range m.Loops {
		out[i] = m.GetFace(i)
	}
	return out
}

// compareVertex orders vertices by position, then UV.
func compareVertex(a, b Vertex) int {
	switch {
	case a.Position.X != b.Position.X:
		if a.Position.X < b.Position.X {
			return -1
		}
		return 1
	case a.Position.Y != b.Position.Y:
		if a.Position.Y < b.Position.Y {
			return -1
		}
		return 1
	case a.UV.X != b.UV.X:
		if a.UV.X < b.UV.X {
			return -1
		}
		return 1
	case a.UV.Y != b.UV.Y:
		if a.UV.Y < b.UV.Y {
			return -1
		}
		return 1
	}
	return 0
}

// GetVertices resolves every corner of every face and deduplicates
// the resolved (position, UV) pairs. The result is sorted by
// position, then UV.
func (m *Mesh) GetVertices() []Vertex {
	var all []Vertex
	for _, loop := range m.Loops {
		for _, ref := range loop {
			all = append(all, m.GetVertex(ref))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return compareVertex(all[i], all[j]) < 0
	})
	out := all[:0]
	for i, v := range all {
		if i == 0 || compareVertex(out[len(out)-1], v) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// GetEdgesUndirected returns one edge per undirected coordinate-index
// pair appearing in any loop. The direction of the first traversal
// seen wins; edges are returned in first-seen order.
func (m *Mesh) GetEdgesUndirected() []Edge {
	seen := make(map[[2]int]bool)
	var out []Edge
	for _, loop := range m.Loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			o := wrapIndex(loop[i].Coord, len(m.Coords))
			d := wrapIndex(loop[(i+1)%n].Coord, len(m.Coords))
			key := [2]int{o, d}
			if d < o {
				key = [2]int{d, o}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Edge{Origin: o, Dest: d})
		}
	}
	return out
}

// GetEdgesDirected returns one edge per distinct directed
// coordinate-index pair, ordered by (origin, dest).
func (m *Mesh) GetEdgesDirected() []Edge {
	seen := make(map[Edge]bool)
	for _, loop := range m.Loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			e := Edge{
				Origin: wrapIndex(loop[i].Coord, len(m.Coords)),
				Dest:   wrapIndex(loop[(i+1)%n].Coord, len(m.Coords)),
			}
			seen[e] = true
		}
	}
	out := make([]Edge, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Origin != out[j].Origin {
			return out[i].Origin < out[j].Origin
		}
		return out[i].Dest < out[j].Dest
	})
	return out
}
