package gym

import (
	"fmt"

	"github.com/chazu/highbar/pkg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Names of the scene nodes driven by the demo.
const (
	NodeStickMan = "stick-man"
	NodeLeftArm  = "left-arm"
	NodeRightArm = "right-arm"
	NodePlayer   = "player"
)

// Arm placements relative to the torso.
var (
	leftArmRaised   = Placement{Position: r3.Vec{X: -0.2, Z: 0.4}}
	rightArmRaised  = Placement{Position: r3.Vec{X: 0.2, Z: 0.4}}
	leftArmLowered  = Placement{Position: r3.Vec{X: -0.4, Z: 0.4}, HPR: r3.Vec{Z: 90}}
	rightArmLowered = Placement{Position: r3.Vec{X: 0.4, Z: 0.4}, HPR: r3.Vec{Z: -90}}
)

// Placement is a node position and orientation; scale stays as authored.
type Placement struct {
	Position r3.Vec
	HPR      r3.Vec
}

// Pose returns the placements the state implies for the driven nodes.
func Pose(s State) map[string]Placement {
	pose := map[string]Placement{
		NodeStickMan: {Position: s.StickMan, HPR: s.StickManHPR},
		NodePlayer:   {Position: s.Player},
		NodeLeftArm:  leftArmLowered,
		NodeRightArm: rightArmLowered,
	}
	if s.ArmsRaised {
		pose[NodeLeftArm] = leftArmRaised
		pose[NodeRightArm] = rightArmRaised
	}
	return pose
}

// ApplyPose returns a copy of sc with the pose applied. Every driven node
// must exist.
func ApplyPose(sc *scene.Scene, s State) (*scene.Scene, error) {
	out := sc.Clone()
	for name, p := range Pose(s) {
		n := out.Lookup(name)
		if n == nil {
			return nil, fmt.Errorf("gym: scene has no node %q", name)
		}
		t := n.Local
		t.Position = p.Position
		t.HPR = p.HPR
		if err := out.SetTransform(n.Index, t); err != nil {
			return nil, fmt.Errorf("gym: %w", err)
		}
	}
	return out, nil
}
