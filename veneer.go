// Package veneer evaluates mesh construction programs and flattens the
// resulting meshes into render-ready buffers.
package veneer

import (
	"fmt"

	"github.com/chazu/veneer/pkg/engine"
	"github.com/chazu/veneer/pkg/mesh"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Session wraps an engine and turns evaluation results into parts.
// A single Session can serve repeated evaluations; each one runs in a
// fresh interpreter.
type Session struct {
	engine *engine.Engine
}

// Part is the JSON-serializable flat form of one named mesh: a
// triangle list with per-corner positions and texture coordinates.
type Part struct {
	Name      string    `json:"name"`
	Positions []float32 `json:"positions"`
	UVs       []float32 `json:"uvs"`
	Indices   []uint32  `json:"indices"`
	Color     string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a source program.
type EvalResult struct {
	Parts    []Part          `json:"parts"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewSession creates a Session with a fresh engine.
func NewSession() *Session {
	return &Session{engine: engine.NewEngine()}
}

// Evaluate takes Lisp source and returns flattened parts plus any
// errors. Evaluation failures are reported inside the result; the
// error return is reserved for fatal conditions (timeout, panic).
func (s *Session) Evaluate(source string) (*EvalResult, error) {
	result := &EvalResult{
		Parts:    []Part{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}

	for i, name := range res.Order {
		m := res.Lookup(name)
		if m == nil {
			continue
		}
		part, err := Flatten(name, m)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{
				Message: fmt.Sprintf("part %q: %v", name, err),
			})
			continue
		}
		part.Color = colorPalette[i%len(colorPalette)]
		result.Parts = append(result.Parts, part)
	}

	return result, nil
}

// Flatten converts a mesh into a render-ready Part: triangulated,
// with one position/UV slot per distinct (coordinate, texture
// coordinate) reference and a uint32 triangle list over those slots.
// Corners sharing a reference share a slot, so the index buffer
// expresses real vertex sharing. The input mesh is never mutated;
// flattening runs on a clone.
func Flatten(name string, m *mesh.Mesh) (Part, error) {
	flat := m.Triangulated()
	if errs := mesh.Validate(flat); len(errs) > 0 {
		return Part{}, fmt.Errorf("flatten: %w", errs[0])
	}

	part := Part{
		Name:      name,
		Positions: []float32{},
		UVs:       []float32{},
		Indices:   make([]uint32, 0, 3*len(flat.Loops)),
	}
	slots := make(map[mesh.VertexRef]uint32)
	for _, loop := range flat.Loops {
		for _, ref := range loop {
			slot, ok := slots[ref]
			if !ok {
				slot = uint32(len(slots))
				slots[ref] = slot
				c := flat.Coords[ref.Coord]
				uv := flat.TexCoords[ref.TexCoord]
				part.Positions = append(part.Positions, float32(c.X), float32(c.Y))
				part.UVs = append(part.UVs, float32(uv.X), float32(uv.Y))
			}
			part.Indices = append(part.Indices, slot)
		}
	}
	return part, nil
}
