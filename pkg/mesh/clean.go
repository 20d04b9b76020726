package mesh

import (
	"fmt"
	"math"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// SnapTolerance is the quantization cell size Clean uses to merge
// near-coincident points. Two points whose components round to the
// same multiple of this tolerance are treated as one.
const SnapTolerance = 1e-6

// snapKey quantizes a point to its tolerance cell. Using the cell as
// a map key gives a transitive equivalence relation, unlike an
// approximate ordering comparator.
func snapKey(v v2.Vec) [2]int64 {
	return [2]int64{
		int64(math.Round(v.X / SnapTolerance)),
		int64(math.Round(v.Y / SnapTolerance)),
	}
}

// compact rewrites one attribute array to contain only the values
// loops actually reference, merging points that share a snap cell.
// It returns the new array plus a remap from old index to new.
// The first point seen in a cell is kept as the cell representative,
// so running compact twice changes nothing.
func compact(values []v2.Vec, used []int) ([]v2.Vec, map[int]int) {
	remap := make(map[int]int, len(used))
	cells := make(map[[2]int64]int)
	var kept []v2.Vec

	for _, old := range used {
		if _, ok := remap[old]; ok {
			continue
		}
		v := values[old]
		key := snapKey(v)
		ni, ok := cells[key]
		if !ok {
			ni = len(kept)
			kept = append(kept, v)
			cells[key] = ni
		}
		remap[old] = ni
	}

	// Canonical order: sort kept values and fix up the remap through
	// the permutation.
	perm := make([]int, len(kept))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		va, vb := kept[perm[a]], kept[perm[b]]
		if va.X != vb.X {
			return va.X < vb.X
		}
		return va.Y < vb.Y
	})
	sorted := make([]v2.Vec, len(kept))
	inverse := make([]int, len(kept))
	for newPos, oldPos := range perm {
		sorted[newPos] = kept[oldPos]
		inverse[oldPos] = newPos
	}
	for old, ni := range remap {
		remap[old] = inverse[ni]
	}
	return sorted, remap
}

// Clean prunes orphaned coordinates and texture coordinates, merges
// near-coincident points (see SnapTolerance), rewrites every loop
// against the compacted arrays, and sorts faces by centroid for a
// canonical output order. Clean is idempotent: a second call leaves
// the mesh unchanged and never grows any array. A structurally
// invalid mesh (see Validate) is rejected untouched.
func (m *Mesh) Clean() error {
	if err := m.checkContract(); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	var usedCoords, usedTexCoords []int
	for _, loop := range m.Loops {
		for _, ref := range loop {
			usedCoords = append(usedCoords, ref.Coord)
			usedTexCoords = append(usedTexCoords, ref.TexCoord)
		}
	}

	newCoords, coordMap := compact(m.Coords, usedCoords)
	newTexCoords, texMap := compact(m.TexCoords, usedTexCoords)

	for _, loop := range m.Loops {
		for i, ref := range loop {
			loop[i] = VertexRef{
				Coord:    coordMap[ref.Coord],
				TexCoord: texMap[ref.TexCoord],
			}
		}
	}
	m.Coords = newCoords
	m.TexCoords = newTexCoords

	centroids := make([]v2.Vec, len(m.Loops))
	for i, loop := range m.Loops {
		centroids[i], _ = m.loopCentroid(loop)
	}
	order := make([]int, len(m.Loops))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := centroids[order[a]], centroids[order[b]]
		if ca.X != cb.X {
			return ca.X < cb.X
		}
		return ca.Y < cb.Y
	})
	sorted := make([]Loop, len(m.Loops))
	for i, oi := range order {
		sorted[i] = m.Loops[oi]
	}
	m.Loops = sorted
	return nil
}

// Cleaned returns a cleaned copy, leaving m untouched.
func (m *Mesh) Cleaned() (*Mesh, error) {
	out := m.Clone()
	if err := out.Clean(); err != nil {
		return nil, err
	}
	return out, nil
}

// UniformData rewrites the mesh so every face corner owns a private
// (coordinate, texture coordinate) pair: both arrays end up exactly
// as long as the corner count, with no attribute sharing between
// corners. The new arrays are built before the old ones are
// replaced, so the rewrite is safe even though it reads the arrays
// it is replacing.
func (m *Mesh) UniformData() error {
	if err := m.checkContract(); err != nil {
		return fmt.Errorf("uniform data: %w", err)
	}
	total := m.CornerCount()
	newCoords := make([]v2.Vec, 0, total)
	newTexCoords := make([]v2.Vec, 0, total)
	newLoops := make([]Loop, len(m.Loops))

	for li, loop := range m.Loops {
		nl := make(Loop, len(loop))
		for i, ref := range loop {
			idx := len(newCoords)
			newCoords = append(newCoords, m.coord(ref.Coord))
			newTexCoords = append(newTexCoords, m.texCoord(ref.TexCoord))
			nl[i] = VertexRef{Coord: idx, TexCoord: idx}
		}
		newLoops[li] = nl
	}
	m.Coords = newCoords
	m.TexCoords = newTexCoords
	m.Loops = newLoops
	return nil
}

// Uniformed returns a per-corner expanded copy, leaving m untouched.
func (m *Mesh) Uniformed() (*Mesh, error) {
	out := m.Clone()
	if err := out.UniformData(); err != nil {
		return nil, err
	}
	return out, nil
}

// Triangulate fan-splits every loop longer than three corners from
// its first corner, replacing it with len-2 triangles. Loops of three
// or fewer corners pass through unchanged, so the operation is
// idempotent on an all-triangle mesh. Faces must be convex: the fan
// produces self-intersecting triangles on concave loops.
func (m *Mesh) Triangulate() {
	out := make([]Loop, 0, len(m.Loops))
	for _, loop := range m.Loops {
		if len(loop) <= 3 {
			out = append(out, loop)
			continue
		}
		for i := 1; i+1 < len(loop); i++ {
			out = append(out, Loop{loop[0], loop[i], loop[i+1]})
		}
	}
	m.Loops = out
}

// Triangulated returns a triangulated copy, leaving m untouched.
func (m *Mesh) Triangulated() *Mesh {
	out := m.Clone()
	out.Triangulate()
	return out
}
