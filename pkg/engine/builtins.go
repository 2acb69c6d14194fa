package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/highbar/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: left-arm -> left_arm
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

// sexpVec3 wraps a vector used for positions, angles and scales.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpColor wraps an RGBA colour.
type sexpColor struct {
	rgba [4]float32
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgba %g %g %g %g)", c.rgba[0], c.rgba[1], c.rgba[2], c.rgba[3])
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a scene.NodeIndex so it can be passed between builtins.
type sexpNodeRef struct {
	idx  scene.NodeIndex
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(node %q)", n.name)
	}
	return fmt.Sprintf("(node #%d)", n.idx)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

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

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
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

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts either a vec3 or a single number for uniform scaling.
func toScale(s zygo.Sexp) (r3.Vec, error) {
	if f, err := toFloat64(s); err == nil {
		return r3.Vec{X: f, Y: f, Z: f}, nil
	}
	v, err := toVec3(s)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("expected number or vec3, got %T (%s)", s, s.SexpString(nil))
	}
	return v, nil
}

// toColor extracts an RGBA colour. A vec3 is accepted as opaque RGB.
func toColor(s zygo.Sexp) ([4]float32, error) {
	switch v := s.(type) {
	case *sexpColor:
		return v.rgba, nil
	case *sexpVec3:
		return [4]float32{float32(v.vec.X), float32(v.vec.Y), float32(v.vec.Z), 1}, nil
	}
	return [4]float32{}, fmt.Errorf("expected rgba or vec3, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeIndex from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeIndex, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.idx, nil
	}
	return scene.NoParent, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// nodeOptions applies the keyword options shared by every node builtin:
// :name, :pos, :hpr, :scale and :color.
func nodeOptions(fn string, pa kwArgs, n *scene.Node) error {
	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return fmt.Errorf("%s: name: %w", fn, err)
		}
		n.Name = s
	}
	if v, ok := pa.kw["pos"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: pos: %w", fn, err)
		}
		n.Local.Position = vec
	}
	if v, ok := pa.kw["hpr"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: hpr: %w", fn, err)
		}
		n.Local.HPR = vec
	}
	if v, ok := pa.kw["scale"]; ok {
		vec, err := toScale(v)
		if err != nil {
			return fmt.Errorf("%s: scale: %w", fn, err)
		}
		n.Local.Scale = vec
	}
	if v, ok := pa.kw["color"]; ok {
		c, err := toColor(v)
		if err != nil {
			return fmt.Errorf("%s: color: %w", fn, err)
		}
		n.Color = c
	}
	return nil
}

// floatOption reads an optional numeric keyword, falling back to def.
func floatOption(fn, key string, pa kwArgs, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// intOption reads an optional integer keyword, falling back to def.
func intOption(fn, key string, pa kwArgs, def int) (int, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return n, nil
}

// Default segment counts for shapes that omit :segments.
const (
	DefaultSphereSegments   = 8
	DefaultCylinderSegments = 16
)

// registerBuiltins installs the scene DSL builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
// New nodes start as roots; group and attach move them under a parent.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	addNode := func(fn string, n scene.Node) (zygo.Sexp, error) {
		idx, err := sc.Add(n, scene.NoParent)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		return &sexpNodeRef{idx: idx, name: n.Name}, nil
	}

	newNode := func(fn string, pa kwArgs, shape scene.Shape) (scene.Node, error) {
		n := scene.Node{Local: scene.Identity(), Shape: shape, Color: scene.White}
		if err := nodeOptions(fn, pa, &n); err != nil {
			return scene.Node{}, err
		}
		return n, nil
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (rgba 0.6 0.3 0.1 1) ; alpha may be omitted
	// -----------------------------------------------------------------------
	env.AddFunction("rgba", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rgba requires 3 or 4 arguments, got %d", len(args))
		}
		c := [4]float32{1, 1, 1, 1}
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgba: component %d: %w", i, err)
			}
			c[i] = float32(f)
		}
		return &sexpColor{rgba: c}, nil
	})

	// -----------------------------------------------------------------------
	// (box :name "mat" :pos (vec3 0 0 -0.5) :scale (vec3 10 10 0.5) :color c)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := newNode("box", pa, scene.Shape{Kind: scene.ShapeBox})
		if err != nil {
			return zygo.SexpNull, err
		}
		return addNode("box", n)
	})

	// -----------------------------------------------------------------------
	// (sphere :name "head" :radius 0.3 :segments 8 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, err := floatOption("sphere", "radius", pa, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		segments, err := intOption("sphere", "segments", pa, DefaultSphereSegments)
		if err != nil {
			return zygo.SexpNull, err
		}
		n, err := newNode("sphere", pa, scene.Shape{Kind: scene.ShapeSphere, Radius: radius, Segments: segments})
		if err != nil {
			return zygo.SexpNull, err
		}
		return addNode("sphere", n)
	})

	// -----------------------------------------------------------------------
	// (cylinder :name "post" :radius 0.2 :height 4 :segments 16 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, err := floatOption("cylinder", "radius", pa, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := floatOption("cylinder", "height", pa, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		segments, err := intOption("cylinder", "segments", pa, DefaultCylinderSegments)
		if err != nil {
			return zygo.SexpNull, err
		}
		shape := scene.Shape{Kind: scene.ShapeCylinder, Radius: radius, Height: height, Segments: segments}
		n, err := newNode("cylinder", pa, shape)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addNode("cylinder", n)
	})

	// -----------------------------------------------------------------------
	// (group "stick-man" :pos (vec3 0 0 1.8) child...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		n, err := newNode("group", pa, scene.Shape{Kind: scene.ShapeNone})
		if err != nil {
			return zygo.SexpNull, err
		}
		n.Name = groupName

		var children []scene.NodeIndex
		for i, arg := range pa.positional[1:] {
			idx, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i+1, err)
			}
			children = append(children, idx)
		}

		ref, err := addNode("group", n)
		if err != nil {
			return zygo.SexpNull, err
		}
		parent := ref.(*sexpNodeRef).idx
		for _, c := range children {
			if err := sc.Reparent(c, parent); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: %w", err)
			}
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (node "left-arm")
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("node requires a name argument")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: name: %w", err)
		}
		n := sc.Lookup(nodeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("node: no node named %q", nodeName)
		}
		return &sexpNodeRef{idx: n.Index, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (attach (node "torso") left-arm right-arm)
	// -----------------------------------------------------------------------
	env.AddFunction("attach", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("attach requires a parent and at least one child")
		}
		parent, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attach: parent: %w", err)
		}
		for i, arg := range args[1:] {
			child, err := toNodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("attach: child %d: %w", i+1, err)
			}
			if err := sc.Reparent(child, parent); err != nil {
				return zygo.SexpNull, fmt.Errorf("attach: %w", err)
			}
		}
		return args[0], nil
	})
}
