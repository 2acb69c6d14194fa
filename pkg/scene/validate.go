package scene

import (
	"fmt"
	"math"

	"github.com/chazu/highbar/pkg/meshgen"
)

// Severity indicates whether a validation finding blocks evaluation
// or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks evaluation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     NodeIndex // NoParent if scene-level
	Name     string
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	switch {
	case e.Node == NoParent:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Name != "":
		return fmt.Sprintf("[%s] node %q: %s", e.Severity, e.Name, e.Message)
	default:
		return fmt.Sprintf("[%s] node #%d: %s", e.Severity, e.Node, e.Message)
	}
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural and geometric checks and returns every
// finding. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLinks(s)...)
	errs = append(errs, validateAcyclic(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateShapes(s)...)
	errs = append(errs, validateTransforms(s)...)
	errs = append(errs, validateColors(s)...)
	return errs
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func finding(s *Scene, idx NodeIndex, sev Severity, format string, args ...any) ValidationError {
	e := ValidationError{Node: idx, Message: fmt.Sprintf(format, args...), Severity: sev}
	if s.valid(idx) {
		e.Name = s.Nodes[idx].Name
	}
	return e
}

// validateLinks checks that parent and child indices agree.
func validateLinks(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Nodes {
		n := &s.Nodes[i]
		idx := NodeIndex(i)
		if n.Index != idx {
			errs = append(errs, finding(s, idx, SeverityError, "stored index %d does not match arena slot", n.Index))
		}
		if n.Parent != NoParent {
			if !s.valid(n.Parent) {
				errs = append(errs, finding(s, idx, SeverityError, "parent %d does not exist", n.Parent))
			} else if !containsIndex(s.Nodes[n.Parent].Children, idx) {
				errs = append(errs, finding(s, idx, SeverityError, "parent %d does not list it as a child", n.Parent))
			}
		}
		for _, c := range n.Children {
			if !s.valid(c) {
				errs = append(errs, finding(s, idx, SeverityError, "child %d does not exist", c))
				continue
			}
			if s.Nodes[c].Parent != idx {
				errs = append(errs, finding(s, idx, SeverityError, "child %d has parent %d", c, s.Nodes[c].Parent))
			}
		}
	}
	return errs
}

// validateAcyclic walks each parent chain, reporting nodes whose chain
// never reaches a root.
func validateAcyclic(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Nodes {
		steps := 0
		for p := s.Nodes[i].Parent; p != NoParent && s.valid(p); p = s.Nodes[p].Parent {
			if steps++; steps > len(s.Nodes) {
				errs = append(errs, finding(s, NodeIndex(i), SeverityError, "cycle detected in parent chain"))
				break
			}
		}
	}
	return errs
}

// validateNames checks the name index against the arena.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]NodeIndex)
	for i := range s.Nodes {
		name := s.Nodes[i].Name
		idx := NodeIndex(i)
		if name == "" {
			errs = append(errs, finding(s, idx, SeverityWarning, "node has no name"))
			continue
		}
		if prev, dup := seen[name]; dup {
			errs = append(errs, finding(s, idx, SeverityError, "duplicate name, also used by node #%d", prev))
			continue
		}
		seen[name] = idx
		if got, ok := s.NameIndex[name]; !ok || got != idx {
			errs = append(errs, finding(s, idx, SeverityError, "name index out of date"))
		}
	}
	for name, idx := range s.NameIndex {
		if !s.valid(idx) || s.Nodes[idx].Name != name {
			errs = append(errs, ValidationError{
				Node:     NoParent,
				Message:  fmt.Sprintf("name index entry %q points at node %d", name, idx),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateShapes checks builder parameters before tessellation so failures
// are reported per node.
func validateShapes(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Nodes {
		idx := NodeIndex(i)
		sh := s.Nodes[i].Shape
		switch sh.Kind {
		case ShapeNone, ShapeBox:
		case ShapeSphere:
			if !positive(sh.Radius) {
				errs = append(errs, finding(s, idx, SeverityError, "sphere radius must be > 0, got %g", sh.Radius))
			}
			if sh.Segments < meshgen.MinSphereSegments {
				errs = append(errs, finding(s, idx, SeverityError, "sphere segments must be >= %d, got %d",
					meshgen.MinSphereSegments, sh.Segments))
			} else if sh.Segments > meshgen.MaxSphereSegments {
				errs = append(errs, finding(s, idx, SeverityError, "sphere segments must be <= %d, got %d",
					meshgen.MaxSphereSegments, sh.Segments))
			}
		case ShapeCylinder:
			if !positive(sh.Radius) {
				errs = append(errs, finding(s, idx, SeverityError, "cylinder radius must be > 0, got %g", sh.Radius))
			}
			if !positive(sh.Height) {
				errs = append(errs, finding(s, idx, SeverityError, "cylinder height must be > 0, got %g", sh.Height))
			}
			if sh.Segments < meshgen.MinCylinderSegments {
				errs = append(errs, finding(s, idx, SeverityError, "cylinder segments must be >= %d, got %d",
					meshgen.MinCylinderSegments, sh.Segments))
			} else if sh.Segments > meshgen.MaxCylinderSegments {
				errs = append(errs, finding(s, idx, SeverityError, "cylinder segments must be <= %d, got %d",
					meshgen.MaxCylinderSegments, sh.Segments))
			}
		default:
			errs = append(errs, finding(s, idx, SeverityError, "unknown shape kind %s", sh.Kind))
		}
	}
	return errs
}

// validateTransforms flags degenerate scales. A zero scale collapses the
// geometry and is reported as a warning.
func validateTransforms(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Nodes {
		idx := NodeIndex(i)
		t := s.Nodes[i].Local
		for _, v := range []float64{t.Position.X, t.Position.Y, t.Position.Z, t.HPR.X, t.HPR.Y, t.HPR.Z, t.Scale.X, t.Scale.Y, t.Scale.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, finding(s, idx, SeverityError, "transform has non-finite component"))
				break
			}
		}
		if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
			errs = append(errs, finding(s, idx, SeverityWarning, "zero scale collapses geometry"))
		}
	}
	return errs
}

func validateColors(s *Scene) []ValidationError {
	var errs []ValidationError
	for i := range s.Nodes {
		for _, c := range s.Nodes[i].Color {
			if c < 0 || c > 1 {
				errs = append(errs, finding(s, NodeIndex(i), SeverityWarning,
					"color %v outside [0, 1]", s.Nodes[i].Color))
				break
			}
		}
	}
	return errs
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func containsIndex(list []NodeIndex, idx NodeIndex) bool {
	for _, c := range list {
		if c == idx {
			return true
		}
	}
	return false
}
