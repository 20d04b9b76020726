package engine

import (
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(polygon :sectors 6)`,
			expect: `(polygon "__kw_sectors" 6)`,
		},
		{
			name:   "multiple keywords",
			input:  `(plane :cols 4 :rows 2)`,
			expect: `(plane "__kw_cols" 4 "__kw_rows" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(hex-grid :rings 3)`,
			expect: `(hex_grid "__kw_rings" 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:delete-count`,
			expect: `"__kw_delete-count"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Generator builtins
// ---------------------------------------------------------------------------

func TestSimplePolygon(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "hexagon"
  (polygon :sectors 6 :radius 2 :poly :ngon))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res.MeshCount() != 1 {
		t.Fatalf("expected 1 mesh, got %d", res.MeshCount())
	}

	m := res.Lookup("hexagon")
	if m == nil {
		t.Fatal("expected mesh named 'hexagon'")
	}
	if m.FaceCount() != 1 {
		t.Errorf("expected 1 face, got %d", m.FaceCount())
	}
	if m.CoordCount() != 6 {
		t.Errorf("expected 6 coords, got %d", m.CoordCount())
	}
	for i, c := range m.Coords {
		if r := c.Length(); math.Abs(r-2) > 1e-9 {
			t.Errorf("coord %d: radius = %f, want 2", i, r)
		}
	}
}

func TestVariableReference(t *testing.T) {
	eng := NewEngine()

	source := `
(def r 3)
(defmesh "disc"
  (polygon :sectors 8 :radius r :poly :quad))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("disc")
	if m == nil {
		t.Fatal("expected mesh named 'disc'")
	}
	// Quad mode: corners, chord midpoints, center.
	if m.FaceCount() != 8 {
		t.Errorf("expected 8 faces, got %d", m.FaceCount())
	}
	if r := m.Coords[0].Length(); math.Abs(r-3) > 1e-9 {
		t.Errorf("corner radius = %f, want 3 (from variable)", r)
	}
}

func TestRectBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "panel"
  (rect :lb (vec2 0 0) :ub (vec2 4 2) :poly :quad :uv :stretch))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("panel")
	if m == nil {
		t.Fatal("expected mesh named 'panel'")
	}
	// Sharp quad rect: center plus four edge patches.
	if m.FaceCount() != 5 {
		t.Errorf("expected 5 faces, got %d", m.FaceCount())
	}
}

func TestRectRoundedBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "card"
  (rect :lb (vec2 0 0) :ub (vec2 4 2)
        :round (list 1 0 0 0) :resolution 4 :poly :quad))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("card")
	if m == nil {
		t.Fatal("expected mesh named 'card'")
	}
	// 5 interior quads plus 3 fan triangles on the one rounded corner.
	if m.FaceCount() != 8 {
		t.Errorf("expected 8 faces, got %d", m.FaceCount())
	}
}

func TestArcBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "half"
  (arc :sectors 8 :radius 2 :oculus 0.5 :start 0 :stop (pi) :poly :quad))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("half")
	if m == nil {
		t.Fatal("expected mesh named 'half'")
	}
	if m.FaceCount() != 8 {
		t.Errorf("expected 8 quads, got %d", m.FaceCount())
	}
	if m.CoordCount() != 18 {
		t.Errorf("expected 18 coords, got %d", m.CoordCount())
	}
}

func TestArcDefaultIsAnnulus(t *testing.T) {
	eng := NewEngine()

	// Omitting :start and :stop gives a zero span, which closes into
	// a full ring.
	source := `(defmesh "ring" (arc :sectors 12 :radius 2 :oculus 0.5))`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("ring")
	if m == nil {
		t.Fatal("expected mesh named 'ring'")
	}
	if m.FaceCount() != 12 {
		t.Errorf("expected 12 ring faces, got %d", m.FaceCount())
	}
}

func TestHexGridBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `(defmesh "tiles" (hex-grid :rings 2 :radius 1 :margin 0.1))`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("tiles")
	if m == nil {
		t.Fatal("expected mesh named 'tiles'")
	}
	if m.FaceCount() != 7 {
		t.Errorf("expected 7 cells, got %d", m.FaceCount())
	}
	if m.TexCoordCount() != 6 {
		t.Errorf("expected shared 6-entry UV template, got %d", m.TexCoordCount())
	}
}

func TestPlaneBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `(defmesh "grid" (plane :cols 2 :rows 3 :poly :quad))`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("grid")
	if m == nil {
		t.Fatal("expected mesh named 'grid'")
	}
	if m.FaceCount() != 6 {
		t.Errorf("expected 6 cells, got %d", m.FaceCount())
	}
	if m.CoordCount() != 12 {
		t.Errorf("expected 12 grid points, got %d", m.CoordCount())
	}
}

// ---------------------------------------------------------------------------
// Mesh lookup and aliasing
// ---------------------------------------------------------------------------

func TestMeshLookupAliases(t *testing.T) {
	eng := NewEngine()

	// Editing through (mesh "p") mutates the registered mesh.
	source := `
(defmesh "p" (polygon :sectors 4 :poly :quad))
(triangulate (mesh "p"))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("p")
	if m == nil {
		t.Fatal("expected mesh named 'p'")
	}
	if m.FaceCount() != 8 {
		t.Errorf("expected 8 triangles after triangulate, got %d", m.FaceCount())
	}
	for i, loop := range m.Loops {
		if len(loop) != 3 {
			t.Errorf("face %d: expected triangle, got %d corners", i, len(loop))
		}
	}
}

func TestMeshLookupError(t *testing.T) {
	eng := NewEngine()

	source := `(mesh "nonexistent")`
	_, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for missing mesh")
	}

	found := false
	for _, e := range evalErrs {
		if e.Message != "" {
			found = true
		}
	}
	if !found {
		t.Error("eval error should have a non-empty message")
	}
}

// ---------------------------------------------------------------------------
// Editing builtins
// ---------------------------------------------------------------------------

func TestSubdivideChain(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "fine"
  (subdivide (polygon :sectors 4 :poly :quad) :method :center :iterations 1))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("fine")
	if m == nil {
		t.Fatal("expected mesh named 'fine'")
	}
	// 4 quads subdivided once: 4 each.
	if m.FaceCount() != 16 {
		t.Errorf("expected 16 faces, got %d", m.FaceCount())
	}
}

func TestSubdivideSingleFace(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "mixed"
  (subdivide (plane :cols 2 :rows 1) :method :fan :face 0))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("mixed")
	if m == nil {
		t.Fatal("expected mesh named 'mixed'")
	}
	// One quad fanned into 4 triangles, the other untouched.
	if m.FaceCount() != 5 {
		t.Errorf("expected 5 faces, got %d", m.FaceCount())
	}
}

func TestSubdivideInvalidMethod(t *testing.T) {
	eng := NewEngine()

	source := `(subdivide (plane) :method :bogus)`
	_, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for invalid method")
	}
}

func TestInsetAndDeleteFaces(t *testing.T) {
	eng := NewEngine()

	// Build a ring by hand: inset the polygon, then delete the center.
	source := `
(defmesh "ring"
  (delete-faces
    (inset (polygon :sectors 6 :poly :ngon) :face 0 :factor 0.5)
    :face 6 :count 1))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("ring")
	if m == nil {
		t.Fatal("expected mesh named 'ring'")
	}
	// 6 border quads remain after dropping the center.
	if m.FaceCount() != 6 {
		t.Errorf("expected 6 faces, got %d", m.FaceCount())
	}
}

func TestScaleAndTranslate(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "moved"
  (translate (scale (polygon :sectors 4 :radius 1 :poly :ngon) 2) (vec2 10 0)))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("moved")
	if m == nil {
		t.Fatal("expected mesh named 'moved'")
	}
	// Corner 0 starts at (1, 0); scaled to (2, 0); moved to (12, 0).
	c := m.Coords[0]
	if math.Abs(c.X-12) > 1e-9 || math.Abs(c.Y) > 1e-9 {
		t.Errorf("coord 0 = (%f, %f), want (12, 0)", c.X, c.Y)
	}
}

func TestFlipAndReverse(t *testing.T) {
	eng := NewEngine()

	source := `
(defmesh "a" (flip (plane) :x))
(defmesh "b" (reverse (plane)))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	a := res.Lookup("a")
	if a == nil {
		t.Fatal("expected mesh named 'a'")
	}
	// Unit plane flipped over X has all X coordinates in [-1, 0].
	for i, c := range a.Coords {
		if c.X > 1e-9 {
			t.Errorf("flipped coord %d has X = %f, want <= 0", i, c.X)
		}
	}

	b := res.Lookup("b")
	if b == nil {
		t.Fatal("expected mesh named 'b'")
	}
	// Plain plane winds 0,1,3,2 in grid indices; reversed is 2,3,1,0.
	loop := b.Loops[0]
	want := []int{2, 3, 1, 0}
	for i, ref := range loop {
		if ref.Coord != want[i] {
			t.Errorf("reversed loop corner %d = %d, want %d", i, ref.Coord, want[i])
		}
	}
}

func TestCleanBuiltin(t *testing.T) {
	eng := NewEngine()

	// Touching hex cells share corner positions; clean merges them.
	source := `(defmesh "merged" (clean (hex-grid :rings 2 :radius 1 :margin 0)))`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("merged")
	if m == nil {
		t.Fatal("expected mesh named 'merged'")
	}
	if m.FaceCount() != 7 {
		t.Errorf("expected 7 cells, got %d", m.FaceCount())
	}
	if m.CoordCount() >= 42 {
		t.Errorf("expected shared corners merged below 42, got %d", m.CoordCount())
	}
}

func TestUniformBuiltin(t *testing.T) {
	eng := NewEngine()

	source := `(defmesh "u" (uniform (hex-grid :rings 2)))`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m := res.Lookup("u")
	if m == nil {
		t.Fatal("expected mesh named 'u'")
	}
	if m.CoordCount() != m.TexCoordCount() {
		t.Errorf("uniform mesh: coords = %d, texcoords = %d, want equal",
			m.CoordCount(), m.TexCoordCount())
	}
	for fi, loop := range m.Loops {
		for ci, ref := range loop {
			if ref.Coord != ref.TexCoord {
				t.Errorf("face %d corner %d: coord %d != texcoord %d",
					fi, ci, ref.Coord, ref.TexCoord)
			}
		}
	}
}

func TestInvalidPolyKeyword(t *testing.T) {
	eng := NewEngine()

	source := `(polygon :sectors 4 :poly :heptagon)`
	_, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for invalid poly keyword")
	}
}

// ---------------------------------------------------------------------------
// Full program test
// ---------------------------------------------------------------------------

func TestFullSceneExample(t *testing.T) {
	eng := NewEngine()

	source := `
(def size 2)

(defmesh "backdrop"
  (rect :lb (vec2 -4 -3) :ub (vec2 4 3)
        :round 0.25 :resolution 3 :poly :quad :uv :cover))

(defmesh "rosette"
  (subdivide (polygon :sectors 6 :radius size :poly :quad)
             :method :center :iterations 1))

(defmesh "halo"
  (translate (arc :sectors 16 :radius size :oculus 0.8) (vec2 0 3)))

(triangulate (mesh "rosette"))
`
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res.MeshCount() != 3 {
		t.Fatalf("expected 3 meshes, got %d", res.MeshCount())
	}

	wantOrder := []string{"backdrop", "rosette", "halo"}
	for i, name := range wantOrder {
		if res.Order[i] != name {
			t.Errorf("order[%d] = %q, want %q", i, res.Order[i], name)
		}
	}

	// Backdrop: 5 interior quads plus 4 corners x 2 fan triangles.
	backdrop := res.Lookup("backdrop")
	if backdrop.FaceCount() != 13 {
		t.Errorf("backdrop faces = %d, want 13", backdrop.FaceCount())
	}

	// Rosette: 6 quads, center-subdivided to 24, then triangulated.
	rosette := res.Lookup("rosette")
	if rosette.FaceCount() != 48 {
		t.Errorf("rosette faces = %d, want 48", rosette.FaceCount())
	}

	// Halo: full ring of 16 quads, shifted up.
	halo := res.Lookup("halo")
	if halo.FaceCount() != 16 {
		t.Errorf("halo faces = %d, want 16", halo.FaceCount())
	}
	// Ring of radius 2 shifted up by 3 never dips below y=1.
	for i, c := range halo.Coords {
		if c.Y < 1-1e-9 {
			t.Errorf("halo coord %d below translated ring: %f", i, c.Y)
		}
	}
}

// ---------------------------------------------------------------------------
// Regressions
// ---------------------------------------------------------------------------

func TestEmptySourceStillWorks(t *testing.T) {
	eng := NewEngine()
	res, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	if res.MeshCount() != 0 {
		t.Errorf("expected empty result, got %d meshes", res.MeshCount())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	eng := NewEngine()
	res, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
}
