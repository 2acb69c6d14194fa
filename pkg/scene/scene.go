package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Scene is the top-level tree produced by evaluating a scene script.
// Nodes are owned by the arena; callers refer to them by NodeIndex.
type Scene struct {
	ID        uuid.UUID            `json:"id"`
	Nodes     []Node               `json:"nodes"`
	NameIndex map[string]NodeIndex `json:"name_index"`
}

// New creates an empty scene with a fresh ID.
func New() *Scene {
	return &Scene{
		ID:        uuid.New(),
		NameIndex: make(map[string]NodeIndex),
	}
}

// Add appends n under parent (or as a root for NoParent) and returns its
// index. n.Index, n.Parent and n.Children are overwritten. Pointers from
// Get are invalidated by Add.
func (s *Scene) Add(n Node, parent NodeIndex) (NodeIndex, error) {
	if parent != NoParent && !s.valid(parent) {
		return NoParent, fmt.Errorf("scene: parent %d out of range", parent)
	}
	if n.Name != "" {
		if _, dup := s.NameIndex[n.Name]; dup {
			return NoParent, fmt.Errorf("scene: duplicate node name %q", n.Name)
		}
	}
	idx := NodeIndex(len(s.Nodes))
	n.Index = idx
	n.Parent = parent
	n.Children = nil
	s.Nodes = append(s.Nodes, n)
	if n.Name != "" {
		s.NameIndex[n.Name] = idx
	}
	if parent != NoParent {
		s.Nodes[parent].Children = append(s.Nodes[parent].Children, idx)
	}
	return idx, nil
}

// Reparent moves child under parent, keeping its local transform.
// Moving a node under one of its own descendants is rejected.
func (s *Scene) Reparent(child, parent NodeIndex) error {
	if !s.valid(child) {
		return fmt.Errorf("scene: node %d out of range", child)
	}
	if parent != NoParent {
		if !s.valid(parent) {
			return fmt.Errorf("scene: parent %d out of range", parent)
		}
		for p := parent; p != NoParent; p = s.Nodes[p].Parent {
			if p == child {
				return fmt.Errorf("scene: reparenting %s under %s would create a cycle",
					s.label(child), s.label(parent))
			}
		}
	}

	old := s.Nodes[child].Parent
	if old != NoParent {
		siblings := s.Nodes[old].Children
		for i, c := range siblings {
			if c == child {
				s.Nodes[old].Children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	s.Nodes[child].Parent = parent
	if parent != NoParent {
		s.Nodes[parent].Children = append(s.Nodes[parent].Children, child)
	}
	return nil
}

// Get returns the node at idx, or nil.
func (s *Scene) Get(idx NodeIndex) *Node {
	if !s.valid(idx) {
		return nil
	}
	return &s.Nodes[idx]
}

// Lookup returns the node with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	idx, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return &s.Nodes[idx]
}

// Children returns the child indices of idx.
func (s *Scene) Children(idx NodeIndex) []NodeIndex {
	if !s.valid(idx) {
		return nil
	}
	return s.Nodes[idx].Children
}

// Roots returns the indices of all parentless nodes in arena order.
func (s *Scene) Roots() []NodeIndex {
	var roots []NodeIndex
	for i := range s.Nodes {
		if s.Nodes[i].Parent == NoParent {
			roots = append(roots, NodeIndex(i))
		}
	}
	return roots
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}

// SetTransform replaces the local transform of idx.
func (s *Scene) SetTransform(idx NodeIndex, t Transform) error {
	if !s.valid(idx) {
		return fmt.Errorf("scene: node %d out of range", idx)
	}
	s.Nodes[idx].Local = t
	return nil
}

// World returns the local-to-world transform of idx, composing every
// ancestor's local transform.
func (s *Scene) World(idx NodeIndex) (Affine, error) {
	if !s.valid(idx) {
		return Affine{}, fmt.Errorf("scene: node %d out of range", idx)
	}
	w := s.Nodes[idx].Local.Affine()
	steps := 0
	for p := s.Nodes[idx].Parent; p != NoParent; p = s.Nodes[p].Parent {
		if !s.valid(p) {
			return Affine{}, fmt.Errorf("scene: %s has dangling ancestor %d", s.label(idx), p)
		}
		if steps++; steps > len(s.Nodes) {
			return Affine{}, fmt.Errorf("scene: cycle above %s", s.label(idx))
		}
		w = s.Nodes[p].Local.Affine().Mul(w)
	}
	return w, nil
}

// Clone returns a deep copy with the same ID.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		ID:        s.ID,
		Nodes:     make([]Node, len(s.Nodes)),
		NameIndex: make(map[string]NodeIndex, len(s.NameIndex)),
	}
	copy(c.Nodes, s.Nodes)
	for i := range c.Nodes {
		c.Nodes[i].Children = append([]NodeIndex(nil), s.Nodes[i].Children...)
	}
	for k, v := range s.NameIndex {
		c.NameIndex[k] = v
	}
	return c
}

func (s *Scene) valid(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(s.Nodes)
}

// label names a node for error messages.
func (s *Scene) label(idx NodeIndex) string {
	if s.valid(idx) && s.Nodes[idx].Name != "" {
		return fmt.Sprintf("%q", s.Nodes[idx].Name)
	}
	return fmt.Sprintf("#%d", idx)
}
