package mesh

import (
	"fmt"
)

// edgeMidpoints appends one midpoint per edge of loop to the mesh
// arrays and returns the index of the first appended coordinate.
// Midpoint i sits between corner i and corner i+1. Coordinates and
// texture coordinates are appended in step, so the i-th midpoint uses
// the same offset into both arrays' appended runs.
func (m *Mesh) edgeMidpoints(loop Loop) (coordBase, texBase int) {
	coordBase = len(m.Coords)
	texBase = len(m.TexCoords)
	n := len(loop)
	for i := 0; i < n; i++ {
		a := loop[i]
		b := loop[(i+1)%n]
		m.Coords = append(m.Coords, mix(m.coord(a.Coord), m.coord(b.Coord), 0.5))
		m.TexCoords = append(m.TexCoords, mix(m.texCoord(a.TexCoord), m.texCoord(b.TexCoord), 0.5))
	}
	return coordBase, texBase
}

// appendCentroid appends the loop centroid to both arrays and returns
// its indices.
func (m *Mesh) appendCentroid(loop Loop) VertexRef {
	c, t := m.loopCentroid(loop)
	ref := VertexRef{Coord: len(m.Coords), TexCoord: len(m.TexCoords)}
	m.Coords = append(m.Coords, c)
	m.TexCoords = append(m.TexCoords, t)
	return ref
}

// face wraps a face index onto the loops array and checks the
// structural contract on the selected loop. A reference outside the
// owned arrays is a hard failure here, not a silent wrap: editing a
// structurally invalid face would corrupt the mesh.
func (m *Mesh) face(faceIndex int) (int, error) {
	if len(m.Loops) == 0 {
		return 0, fmt.Errorf("mesh has no faces")
	}
	f := wrapIndex(faceIndex, len(m.Loops))
	loop := m.Loops[f]
	if len(loop) < 3 {
		return 0, fmt.Errorf("face %d has %d corners, minimum is 3", f, len(loop))
	}
	for ci, ref := range loop {
		if ref.Coord < 0 || ref.Coord >= len(m.Coords) {
			return 0, fmt.Errorf("face %d corner %d: coordinate index %d outside [0, %d)",
				f, ci, ref.Coord, len(m.Coords))
		}
		if ref.TexCoord < 0 || ref.TexCoord >= len(m.TexCoords) {
			return 0, fmt.Errorf("face %d corner %d: texture coordinate index %d outside [0, %d)",
				f, ci, ref.TexCoord, len(m.TexCoords))
		}
	}
	return f, nil
}

// SubdivFaceCenter replaces one face of n corners with n quads. The
// face centroid and one midpoint per edge are appended to the mesh
// arrays; quad i is (centroid, midpoint i-1, corner i, midpoint i).
func (m *Mesh) SubdivFaceCenter(faceIndex int) error {
	f, err := m.face(faceIndex)
	if err != nil {
		return fmt.Errorf("subdivide center: %w", err)
	}
	loop := m.Loops[f]
	n := len(loop)

	center := m.appendCentroid(loop)
	coordBase, texBase := m.edgeMidpoints(loop)

	quads := make([]Loop, n)
	for i := 0; i < n; i++ {
		prev := (i + n - 1) % n
		quads[i] = Loop{
			center,
			{Coord: coordBase + prev, TexCoord: texBase + prev},
			loop[i],
			{Coord: coordBase + i, TexCoord: texBase + i},
		}
	}
	m.Loops = Splice(m.Loops, f, 1, quads)
	return nil
}

// SubdivFaceFan replaces one face of n corners with n triangles
// fanning from the appended centroid: (centroid, corner i, corner i+1).
func (m *Mesh) SubdivFaceFan(faceIndex int) error {
	f, err := m.face(faceIndex)
	if err != nil {
		return fmt.Errorf("subdivide fan: %w", err)
	}
	loop := m.Loops[f]
	n := len(loop)

	center := m.appendCentroid(loop)

	tris := make([]Loop, n)
	for i := 0; i < n; i++ {
		tris[i] = Loop{center, loop[i], loop[(i+1)%n]}
	}
	m.Loops = Splice(m.Loops, f, 1, tris)
	return nil
}

// SubdivFaceInscribe replaces one face of n corners with n peripheral
// corner triangles plus one central n-gon over the edge midpoints.
// No centroid is appended; the mesh gains n coordinates and n+1 loops
// net of the replaced face.
func (m *Mesh) SubdivFaceInscribe(faceIndex int) error {
	f, err := m.face(faceIndex)
	if err != nil {
		return fmt.Errorf("subdivide inscribe: %w", err)
	}
	loop := m.Loops[f]
	n := len(loop)

	coordBase, texBase := m.edgeMidpoints(loop)
	midRef := func(i int) VertexRef {
		i = (i + n) % n
		return VertexRef{Coord: coordBase + i, TexCoord: texBase + i}
	}

	out := make([]Loop, 0, n+1)
	// Corner triangle at corner i+1, clipped between midpoints i and i+1.
	for i := 0; i < n; i++ {
		out = append(out, Loop{midRef(i), loop[(i+1)%n], midRef(i + 1)})
	}
	central := make(Loop, n)
	for i := 0; i < n; i++ {
		central[i] = midRef(i)
	}
	out = append(out, central)

	m.Loops = Splice(m.Loops, f, 1, out)
	return nil
}

// subdivEach runs a per-face subdivision over every face for the
// given number of iterations. The loops array grows in place as each
// face is replaced, so the cursor advances by the number of loops
// each subdivision produced; consumed reports that count for a face
// of n corners.
func (m *Mesh) subdivEach(iterations int, op func(int) error, consumed func(n int) int) error {
	for it := 0; it < iterations; it++ {
		i := 0
		for i < len(m.Loops) {
			n := len(m.Loops[i])
			if err := op(i); err != nil {
				return err
			}
			step := consumed(n)
			if step < 1 {
				step = 1
			}
			i += step
		}
	}
	return nil
}

// SubdivFacesCenter applies SubdivFaceCenter to every face,
// iterations times.
func (m *Mesh) SubdivFacesCenter(iterations int) error {
	return m.subdivEach(iterations, m.SubdivFaceCenter, func(n int) int { return n })
}

// SubdivFacesFan applies SubdivFaceFan to every face, iterations
// times.
func (m *Mesh) SubdivFacesFan(iterations int) error {
	return m.subdivEach(iterations, m.SubdivFaceFan, func(n int) int { return n })
}

// SubdivFacesInscribe applies SubdivFaceInscribe to every face,
// iterations times.
func (m *Mesh) SubdivFacesInscribe(iterations int) error {
	return m.subdivEach(iterations, m.SubdivFaceInscribe, func(n int) int { return n + 1 })
}

// InsetFace shrinks each corner of a face toward its centroid by
// factor, replacing the face with n border quads plus the shrunk
// center loop. It returns the replacement loops. A factor of zero or
// less is a no-op with an empty result; a factor of one or more
// collapses the inset to a centroid fan and delegates to
// SubdivFaceFan.
func (m *Mesh) InsetFace(faceIndex int, factor float64) ([]Loop, error) {
	if factor <= 0 {
		return nil, nil
	}
	f, err := m.face(faceIndex)
	if err != nil {
		return nil, fmt.Errorf("inset: %w", err)
	}
	loop := m.Loops[f]
	n := len(loop)

	if factor >= 1 {
		if err := m.SubdivFaceFan(f); err != nil {
			return nil, err
		}
		return m.Loops[f : f+n], nil
	}

	c, t := m.loopCentroid(loop)
	coordBase := len(m.Coords)
	texBase := len(m.TexCoords)
	for _, ref := range loop {
		m.Coords = append(m.Coords, mix(m.coord(ref.Coord), c, factor))
		m.TexCoords = append(m.TexCoords, mix(m.texCoord(ref.TexCoord), t, factor))
	}
	inner := func(i int) VertexRef {
		i %= n
		return VertexRef{Coord: coordBase + i, TexCoord: texBase + i}
	}

	out := make([]Loop, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, Loop{loop[i], loop[(i+1)%n], inner(i + 1), inner(i)})
	}
	central := make(Loop, n)
	for i := 0; i < n; i++ {
		central[i] = inner(i)
	}
	out = append(out, central)

	m.Loops = Splice(m.Loops, f, 1, out)
	return m.Loops[f : f+n+1], nil
}

// DeleteFaces removes count contiguous loops starting at faceIndex,
// wrapping past the end of the loops array. Coordinates and texture
// coordinates are untouched; entries the deleted faces referenced
// become orphans until Clean runs.
func (m *Mesh) DeleteFaces(faceIndex, count int) {
	if len(m.Loops) == 0 || count <= 0 {
		return
	}
	if count >= len(m.Loops) {
		m.Loops = nil
		return
	}
	f := wrapIndex(faceIndex, len(m.Loops))
	if f+count <= len(m.Loops) {
		m.Loops = Splice(m.Loops, f, count, nil)
		return
	}
	tail := len(m.Loops) - f
	m.Loops = Splice(m.Loops, f, tail, nil)
	m.Loops = Splice(m.Loops, 0, count-tail, nil)
}
