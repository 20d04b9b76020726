package mesh

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

func TestSubdivFaceFan(t *testing.T) {
	m := makeQuad()
	coordsBefore := m.CoordCount()

	if err := m.SubdivFaceFan(0); err != nil {
		t.Fatalf("SubdivFaceFan failed: %v", err)
	}

	if m.FaceCount() != 4 {
		t.Fatalf("expected 4 triangles, got %d faces", m.FaceCount())
	}
	for i, loop := range m.Loops {
		if len(loop) != 3 {
			t.Errorf("face %d has %d corners, want 3", i, len(loop))
		}
	}
	if m.CoordCount() != coordsBefore+1 {
		t.Errorf("expected %d coordinates (centroid appended), got %d", coordsBefore+1, m.CoordCount())
	}
	centroid := m.Coords[coordsBefore]
	if !centroid.Equals(v2.Vec{X: 0.5, Y: 0.5}, 1e-12) {
		t.Errorf("appended centroid = %v, want (0.5, 0.5)", centroid)
	}
	if errs := Validate(m); len(errs) > 0 {
		t.Errorf("subdivided mesh fails validation: %v", errs[0])
	}
}

func TestSubdivFaceCenter(t *testing.T) {
	m := makeQuad()
	coordsBefore := m.CoordCount()

	if err := m.SubdivFaceCenter(0); err != nil {
		t.Fatalf("SubdivFaceCenter failed: %v", err)
	}

	if m.FaceCount() != 4 {
		t.Fatalf("expected 4 quads, got %d faces", m.FaceCount())
	}
	for i, loop := range m.Loops {
		if len(loop) != 4 {
			t.Errorf("face %d has %d corners, want 4", i, len(loop))
		}
	}
	// Centroid plus one midpoint per edge.
	if m.CoordCount() != coordsBefore+5 {
		t.Errorf("expected %d coordinates, got %d", coordsBefore+5, m.CoordCount())
	}
	if errs := Validate(m); len(errs) > 0 {
		t.Errorf("subdivided mesh fails validation: %v", errs[0])
	}
}

func TestSubdivFaceInscribe(t *testing.T) {
	m := makeQuad()
	coordsBefore := m.CoordCount()

	if err := m.SubdivFaceInscribe(0); err != nil {
		t.Fatalf("SubdivFaceInscribe failed: %v", err)
	}

	// n corner triangles plus one central n-gon.
	if m.FaceCount() != 5 {
		t.Fatalf("expected 5 faces, got %d", m.FaceCount())
	}
	tris, ngons := 0, 0
	for _, loop := range m.Loops {
		switch len(loop) {
		case 3:
			tris++
		case 4:
			ngons++
		}
	}
	if tris != 4 || ngons != 1 {
		t.Errorf("expected 4 triangles and 1 central quad, got %d/%d", tris, ngons)
	}
	if m.CoordCount() != coordsBefore+4 {
		t.Errorf("expected %d coordinates (midpoints only), got %d", coordsBefore+4, m.CoordCount())
	}
	if errs := Validate(m); len(errs) > 0 {
		t.Errorf("subdivided mesh fails validation: %v", errs[0])
	}
}

func TestSubdivFaceWrapsIndex(t *testing.T) {
	m := makeStrip()
	// Face -1 wraps to the last face.
	if err := m.SubdivFaceFan(-1); err != nil {
		t.Fatalf("SubdivFaceFan(-1) failed: %v", err)
	}
	// First face untouched, second replaced by 4 triangles.
	if m.FaceCount() != 5 {
		t.Fatalf("expected 5 faces, got %d", m.FaceCount())
	}
	if len(m.Loops[0]) != 4 {
		t.Errorf("face 0 should remain a quad, has %d corners", len(m.Loops[0]))
	}
}

func TestSubdivFacesFanAllFaces(t *testing.T) {
	m := makeStrip()
	if err := m.SubdivFacesFan(1); err != nil {
		t.Fatalf("SubdivFacesFan failed: %v", err)
	}
	// Two quads -> 8 triangles.
	if m.FaceCount() != 8 {
		t.Fatalf("expected 8 faces, got %d", m.FaceCount())
	}
	for i, loop := range m.Loops {
		if len(loop) != 3 {
			t.Errorf("face %d has %d corners, want 3", i, len(loop))
		}
	}
}

func TestSubdivFacesCenterTwoIterations(t *testing.T) {
	m := makeQuad()
	if err := m.SubdivFacesCenter(2); err != nil {
		t.Fatalf("SubdivFacesCenter failed: %v", err)
	}
	// 1 -> 4 -> 16 quads.
	if m.FaceCount() != 16 {
		t.Fatalf("expected 16 faces, got %d", m.FaceCount())
	}
	if errs := Validate(m); len(errs) > 0 {
		t.Errorf("mesh fails validation after two iterations: %v", errs[0])
	}
}

func TestSubdivFacesInscribeCursor(t *testing.T) {
	m := makeStrip()
	if err := m.SubdivFacesInscribe(1); err != nil {
		t.Fatalf("SubdivFacesInscribe failed: %v", err)
	}
	// Each quad becomes 4 triangles + 1 central quad.
	if m.FaceCount() != 10 {
		t.Fatalf("expected 10 faces, got %d", m.FaceCount())
	}
}

func TestSubdivEmptyMesh(t *testing.T) {
	m := New()
	if err := m.SubdivFaceFan(0); err == nil {
		t.Error("expected error subdividing an empty mesh")
	}
}

func TestSubdivRejectsInvalidFace(t *testing.T) {
	m := makeQuad()
	m.Loops[0][2] = VertexRef{Coord: 99, TexCoord: 2}
	if err := m.SubdivFaceFan(0); err == nil {
		t.Error("expected error for out-of-bounds coordinate reference")
	}
}

func TestInsetFaceNoOp(t *testing.T) {
	m := makeQuad()
	loops, err := m.InsetFace(0, 0)
	if err != nil {
		t.Fatalf("InsetFace failed: %v", err)
	}
	if len(loops) != 0 {
		t.Errorf("expected empty result for factor 0, got %d loops", len(loops))
	}
	if m.FaceCount() != 1 {
		t.Errorf("mesh mutated by no-op inset: %d faces", m.FaceCount())
	}
}

func TestInsetFaceDelegatesToFan(t *testing.T) {
	m := makeQuad()
	loops, err := m.InsetFace(0, 1.5)
	if err != nil {
		t.Fatalf("InsetFace failed: %v", err)
	}
	if len(loops) != 4 {
		t.Fatalf("expected 4 fan triangles, got %d", len(loops))
	}
	for i, loop := range loops {
		if len(loop) != 3 {
			t.Errorf("loop %d has %d corners, want 3", i, len(loop))
		}
	}
}

func TestInsetFace(t *testing.T) {
	m := makeQuad()
	loops, err := m.InsetFace(0, 0.5)
	if err != nil {
		t.Fatalf("InsetFace failed: %v", err)
	}
	// 4 border quads plus the shrunk center.
	if len(loops) != 5 {
		t.Fatalf("expected 5 replacement loops, got %d", len(loops))
	}
	if m.FaceCount() != 5 {
		t.Fatalf("expected 5 faces, got %d", m.FaceCount())
	}
	center := loops[4]
	if len(center) != 4 {
		t.Fatalf("center loop has %d corners, want 4", len(center))
	}
	// Factor 0.5 pulls (0,0) halfway to the centroid (0.5, 0.5).
	got := m.Coords[center[0].Coord]
	if !got.Equals(v2.Vec{X: 0.25, Y: 0.25}, 1e-12) {
		t.Errorf("inner corner = %v, want (0.25, 0.25)", got)
	}
	if errs := Validate(m); len(errs) > 0 {
		t.Errorf("inset mesh fails validation: %v", errs[0])
	}
}

func TestDeleteFaces(t *testing.T) {
	m := makeStrip()
	coordsBefore := m.CoordCount()

	m.DeleteFaces(0, 1)
	if m.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", m.FaceCount())
	}
	if m.CoordCount() != coordsBefore {
		t.Errorf("DeleteFaces touched coordinates: %d -> %d", coordsBefore, m.CoordCount())
	}
}

func TestDeleteFacesWraparound(t *testing.T) {
	m := &Mesh{
		Coords:    makeStrip().Coords,
		TexCoords: makeStrip().TexCoords,
		Loops: []Loop{
			{{0, 0}, {1, 1}, {2, 2}},
			{{1, 1}, {4, 4}, {5, 5}},
			{{2, 2}, {3, 3}, {0, 0}},
			{{4, 4}, {2, 2}, {5, 5}},
		},
	}
	// Deleting 3 faces starting at index 2 wraps to delete faces 2, 3, 0.
	m.DeleteFaces(2, 3)
	if m.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", m.FaceCount())
	}
	if m.Loops[0][0].Coord != 1 {
		t.Errorf("surviving face should be the former face 1, got first corner %d", m.Loops[0][0].Coord)
	}
}

func TestDeleteFacesCountClamped(t *testing.T) {
	m := makeStrip()
	m.DeleteFaces(0, 100)
	if m.FaceCount() != 0 {
		t.Errorf("expected all faces deleted, got %d", m.FaceCount())
	}
	m.DeleteFaces(0, 1) // no-op on empty
	if m.FaceCount() != 0 {
		t.Errorf("delete on empty mesh changed face count: %d", m.FaceCount())
	}
}
