package mesh

import "fmt"

// ValidationSeverity indicates whether a finding blocks use of the
// mesh or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // structural contract violation
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Face is the
// loop index the finding applies to, or -1 for mesh-level findings.
type ValidationError struct {
	Face     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", e.Severity, e.Face, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Face    int
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Validate runs structural checks over the mesh and returns a slice
// of validation errors. An empty slice means the mesh is structurally
// valid. Editing operations wrap indices cyclically at access time;
// Validate is the explicit contract check for inputs that should be
// rejected rather than silently recovered: loops shorter than three
// corners, and vertex references outside the owned arrays.
func Validate(m *Mesh) []ValidationError {
	var errs []ValidationError
	for fi, loop := range m.Loops {
		if len(loop) < 3 {
			errs = append(errs, ValidationError{
				Face:     fi,
				Message:  fmt.Sprintf("loop has %d corners, minimum is 3", len(loop)),
				Severity: SeverityError,
			})
		}
		for ci, ref := range loop {
			if ref.Coord < 0 || ref.Coord >= len(m.Coords) {
				errs = append(errs, ValidationError{
					Face:     fi,
					Message:  fmt.Sprintf("corner %d: coordinate index %d outside [0, %d)", ci, ref.Coord, len(m.Coords)),
					Severity: SeverityError,
				})
			}
			if ref.TexCoord < 0 || ref.TexCoord >= len(m.TexCoords) {
				errs = append(errs, ValidationError{
					Face:     fi,
					Message:  fmt.Sprintf("corner %d: texture coordinate index %d outside [0, %d)", ci, ref.TexCoord, len(m.TexCoords)),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// checkContract returns the first structural validation error, for
// operations that must reject an invalid mesh before mutating it.
func (m *Mesh) checkContract() error {
	if errs := Validate(m); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateAll runs structural validation plus advisory checks and
// returns a ValidationResult with separated errors and warnings.
// Orphaned coordinates and texture coordinates are legal (Clean
// removes them) and reported as warnings only.
func ValidateAll(m *Mesh) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(m)

	usedCoords := make(map[int]bool)
	usedTexCoords := make(map[int]bool)
	for _, loop := range m.Loops {
		for _, ref := range loop {
			if ref.Coord >= 0 && ref.Coord < len(m.Coords) {
				usedCoords[ref.Coord] = true
			}
			if ref.TexCoord >= 0 && ref.TexCoord < len(m.TexCoords) {
				usedTexCoords[ref.TexCoord] = true
			}
		}
	}
	if n := len(m.Coords) - len(usedCoords); n > 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Face:    -1,
			Message: fmt.Sprintf("%d orphaned coordinates (Clean removes them)", n),
		})
	}
	if n := len(m.TexCoords) - len(usedTexCoords); n > 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Face:    -1,
			Message: fmt.Sprintf("%d orphaned texture coordinates (Clean removes them)", n),
		})
	}
	return result
}
