package engine

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/chazu/veneer/pkg/mesh"
	"github.com/chazu/veneer/pkg/shape"
	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Veneer Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: hex-grid -> hex_grid
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a *mesh.Mesh so it can flow between builtins. Editing
// builtins mutate the wrapped mesh in place and return the same wrapper,
// so edits chain naturally.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh faces=%d coords=%d)", s.m.FaceCount(), s.m.CoordCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a v2.Vec.
type sexpVec2 struct {
	vec v2.Vec
}

func (s *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.3f %.3f)", s.vec.X, s.vec.Y)
}
func (s *sexpVec2) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp, truncating floats.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_quad) and plain strings ("quad").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toMesh extracts the wrapped mesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*sexpMesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a v2.Vec from a sexpVec2 or a single number
// (interpreted as a uniform vector).
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	if f, err := toFloat64(s); err == nil {
		return v2.Vec{X: f, Y: f}, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2 or number, got %T (%s)", s, s.SexpString(nil))
}

// toPolyType converts a keyword or string to a shape.PolyType.
func toPolyType(s zygo.Sexp) (shape.PolyType, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected poly keyword (:tri, :quad, :ngon): %w", err)
	}
	switch name {
	case "tri":
		return shape.Tri, nil
	case "quad":
		return shape.Quad, nil
	case "ngon":
		return shape.Ngon, nil
	}
	return 0, fmt.Errorf("invalid poly %q, expected tri, quad, or ngon", name)
}

// toUVProfile converts a keyword or string to a shape.UVProfile.
func toUVProfile(s zygo.Sexp) (shape.UVProfile, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected uv keyword (:stretch, :contain, :cover): %w", err)
	}
	switch name {
	case "stretch":
		return shape.Stretch, nil
	case "contain":
		return shape.Contain, nil
	case "cover":
		return shape.Cover, nil
	}
	return 0, fmt.Errorf("invalid uv %q, expected stretch, contain, or cover", name)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloat4 extracts a per-corner value: either a single number
// (applied to all four corners) or a list of exactly four numbers.
func toFloat4(s zygo.Sexp) ([4]float64, error) {
	var out [4]float64
	if f, err := toFloat64(s); err == nil {
		return [4]float64{f, f, f, f}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return out, err
	}
	if len(items) != 4 {
		return out, fmt.Errorf("expected 4 values, got %d", len(items))
	}
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return out, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toInt4 is toFloat4 for integer values.
func toInt4(s zygo.Sexp) ([4]int, error) {
	var out [4]int
	if n, err := toInt(s); err == nil {
		return [4]int{n, n, n, n}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return out, err
	}
	if len(items) != 4 {
		return out, fmt.Errorf("expected 4 values, got %d", len(items))
	}
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return out, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Anonymous mesh naming
// ---------------------------------------------------------------------------

// anonCounter provides unique suffixes for anonymous meshes.
var anonCounter uint64

func nextAnonSuffix() string {
	n := atomic.AddUint64(&anonCounter, 1)
	return fmt.Sprintf("_anon_%d", n)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Veneer DSL builtins into a zygomys environment.
// The builtins populate the provided Result during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, res *Result) {

	// -----------------------------------------------------------------------
	// (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon :sectors 6 :radius 1 :rotation 0 :poly :quad)
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sectors := 3
		radius := 1.0
		rotation := 0.0
		poly := shape.Quad

		if v, ok := pa.kw["sectors"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: sectors: %w", err)
			}
			sectors = n
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["rotation"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: rotation: %w", err)
			}
			rotation = f
		}
		if v, ok := pa.kw["poly"]; ok {
			p, err := toPolyType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: poly: %w", err)
			}
			poly = p
		}

		m := mesh.New()
		shape.Polygon(m, sectors, radius, rotation, poly)
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (rect :lb (vec2 0 0) :ub (vec2 4 2) :round (list 1 0 1 0)
	//       :resolution 4 :poly :quad :uv :contain)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		lb := v2.Vec{X: 0, Y: 0}
		ub := v2.Vec{X: 1, Y: 1}
		var round [4]float64
		resolution := [4]int{4, 4, 4, 4}
		poly := shape.Quad
		uv := shape.Stretch

		if v, ok := pa.kw["lb"]; ok {
			vec, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: lb: %w", err)
			}
			lb = vec
		}
		if v, ok := pa.kw["ub"]; ok {
			vec, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: ub: %w", err)
			}
			ub = vec
		}
		if v, ok := pa.kw["round"]; ok {
			r, err := toFloat4(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: round: %w", err)
			}
			round = r
		}
		if v, ok := pa.kw["resolution"]; ok {
			r, err := toInt4(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: resolution: %w", err)
			}
			resolution = r
		}
		if v, ok := pa.kw["poly"]; ok {
			p, err := toPolyType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: poly: %w", err)
			}
			poly = p
		}
		if v, ok := pa.kw["uv"]; ok {
			p, err := toUVProfile(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: uv: %w", err)
			}
			uv = p
		}

		m := mesh.New()
		shape.Rect(m, lb, ub, round, resolution, poly, uv)
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (arc :sectors 8 :radius 2 :oculus 0.5 :start 0 :stop 3.14 :poly :quad)
	//
	// Omitting :start and :stop yields a full annulus.
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sectors := 8
		radius := 1.0
		oculus := 0.5
		start := 0.0
		stop := 0.0
		poly := shape.Quad

		if v, ok := pa.kw["sectors"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: sectors: %w", err)
			}
			sectors = n
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["oculus"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: oculus: %w", err)
			}
			oculus = f
		}
		if v, ok := pa.kw["start"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: start: %w", err)
			}
			start = f
		}
		if v, ok := pa.kw["stop"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: stop: %w", err)
			}
			stop = f
		}
		if v, ok := pa.kw["poly"]; ok {
			p, err := toPolyType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: poly: %w", err)
			}
			poly = p
		}

		m := mesh.New()
		shape.Arc(m, sectors, radius, oculus, start, stop, poly)
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (hex-grid :rings 3 :radius 1 :margin 0.1)
	//
	// Note: registered as "hex_grid" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts hex-grid to
	// hex_grid in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("hex_grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		rings := 1
		radius := 1.0
		margin := 0.0

		if v, ok := pa.kw["rings"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hex-grid: rings: %w", err)
			}
			rings = n
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hex-grid: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["margin"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hex-grid: margin: %w", err)
			}
			margin = f
		}

		m := mesh.New()
		shape.GridHex(m, rings, radius, margin)
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :cols 4 :rows 4 :poly :quad)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cols := 1
		rows := 1
		poly := shape.Quad

		if v, ok := pa.kw["cols"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: cols: %w", err)
			}
			cols = n
		}
		if v, ok := pa.kw["rows"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: rows: %w", err)
			}
			rows = n
		}
		if v, ok := pa.kw["poly"]; ok {
			p, err := toPolyType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: poly: %w", err)
			}
			poly = p
		}

		m := mesh.New()
		shape.Plane(m, cols, rows, poly)
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (defmesh "name" (polygon ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defmesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defmesh requires a name and a mesh expression")
		}

		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: name: %w", err)
		}
		if meshName == "" {
			meshName = "mesh" + nextAnonSuffix()
		}

		sm, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: body: %w", err)
		}

		res.Add(meshName, sm.m)
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (mesh "name")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("mesh requires a name argument")
		}

		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: name: %w", err)
		}

		m := res.Lookup(meshName)
		if m == nil {
			return zygo.SexpNull, fmt.Errorf("mesh: no mesh named %q", meshName)
		}

		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (subdivide m :method :center :iterations 2)
	// (subdivide m :method :fan :face 0)
	//
	// With :face, subdivides that single face; otherwise sweeps the
	// whole mesh :iterations times (default 1).
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("subdivide requires a mesh as first argument")
		}
		sm, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: mesh: %w", err)
		}

		method := "center"
		if v, ok := pa.kw["method"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: method: %w", err)
			}
			method = s
		}

		if v, ok := pa.kw["face"]; ok {
			face, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: face: %w", err)
			}
			switch method {
			case "center":
				err = sm.m.SubdivFaceCenter(face)
			case "fan":
				err = sm.m.SubdivFaceFan(face)
			case "inscribe":
				err = sm.m.SubdivFaceInscribe(face)
			default:
				return zygo.SexpNull, fmt.Errorf("subdivide: invalid method %q, expected center, fan, or inscribe", method)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
			}
			return sm, nil
		}

		iterations := 1
		if v, ok := pa.kw["iterations"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: iterations: %w", err)
			}
			iterations = n
		}

		switch method {
		case "center":
			err = sm.m.SubdivFacesCenter(iterations)
		case "fan":
			err = sm.m.SubdivFacesFan(iterations)
		case "inscribe":
			err = sm.m.SubdivFacesInscribe(iterations)
		default:
			return zygo.SexpNull, fmt.Errorf("subdivide: invalid method %q, expected center, fan, or inscribe", method)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (inset m :face 0 :factor 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("inset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("inset requires a mesh as first argument")
		}
		sm, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inset: mesh: %w", err)
		}

		face := 0
		factor := 0.5
		if v, ok := pa.kw["face"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("inset: face: %w", err)
			}
			face = n
		}
		if v, ok := pa.kw["factor"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("inset: factor: %w", err)
			}
			factor = f
		}

		if _, err := sm.m.InsetFace(face, factor); err != nil {
			return zygo.SexpNull, fmt.Errorf("inset: %w", err)
		}
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (delete-faces m :face 0 :count 2)
	//
	// Registered as "delete_faces"; the preprocessor handles the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("delete_faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("delete-faces requires a mesh as first argument")
		}
		sm, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-faces: mesh: %w", err)
		}

		face := 0
		count := 1
		if v, ok := pa.kw["face"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("delete-faces: face: %w", err)
			}
			face = n
		}
		if v, ok := pa.kw["count"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("delete-faces: count: %w", err)
			}
			count = n
		}

		sm.m.DeleteFaces(face, count)
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (triangulate m)
	// -----------------------------------------------------------------------
	env.AddFunction("triangulate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("triangulate requires a mesh argument")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangulate: mesh: %w", err)
		}
		sm.m.Triangulate()
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (clean m)
	// -----------------------------------------------------------------------
	env.AddFunction("clean", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("clean requires a mesh argument")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clean: mesh: %w", err)
		}
		if err := sm.m.Clean(); err != nil {
			return zygo.SexpNull, fmt.Errorf("clean: %w", err)
		}
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (uniform m)
	// -----------------------------------------------------------------------
	env.AddFunction("uniform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("uniform requires a mesh argument")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("uniform: mesh: %w", err)
		}
		if err := sm.m.UniformData(); err != nil {
			return zygo.SexpNull, fmt.Errorf("uniform: %w", err)
		}
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (scale m (vec2 2 2)) or (scale m 2)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a mesh and a factor")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: mesh: %w", err)
		}
		s, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: factor: %w", err)
		}
		sm.m.Scale(s)
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (translate m (vec2 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a mesh and an offset")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: mesh: %w", err)
		}
		d, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
		}
		sm.m.Translate(d)
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (flip m :x)
	//
	// :x and :y mirror positions (and reverse windings to preserve
	// orientation); :u and :v mirror texture coordinates only.
	// -----------------------------------------------------------------------
	env.AddFunction("flip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("flip requires a mesh and an axis")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("flip: mesh: %w", err)
		}
		axis, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("flip: axis: %w", err)
		}
		switch axis {
		case "x":
			sm.m.FlipX()
		case "y":
			sm.m.FlipY()
		case "u":
			sm.m.FlipU()
		case "v":
			sm.m.FlipV()
		default:
			return zygo.SexpNull, fmt.Errorf("flip: invalid axis %q, expected x, y, u, or v", axis)
		}
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (reverse m)
	// -----------------------------------------------------------------------
	env.AddFunction("reverse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("reverse requires a mesh argument")
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reverse: mesh: %w", err)
		}
		sm.m.ReverseFaces()
		return sm, nil
	})

	// -----------------------------------------------------------------------
	// (pi) and (tau) for angle arithmetic in user code.
	// -----------------------------------------------------------------------
	env.AddFunction("pi", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: math.Pi}, nil
	})
	env.AddFunction("tau", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: 2 * math.Pi}, nil
	})
}
