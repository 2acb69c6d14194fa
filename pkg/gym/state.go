package gym

import (
	"github.com/chazu/highbar/pkg/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the complete demo state between frames.
type State struct {
	Heading float64 // camera heading, degrees
	Pitch   float64 // camera pitch, degrees

	Player r3.Vec // centre of the player ball

	OnBar         bool
	Rotating      bool
	RotationAngle float64 // degrees swung since the rotation started

	StickMan    r3.Vec // root position of the stick man
	StickManHPR r3.Vec
	ArmsRaised  bool

	Quit bool
}

// NewState returns the starting state for cfg: player on the mat, stick man
// standing under the bar with his arms out.
func NewState(cfg config.Config) State {
	return State{
		Player:   vec(cfg.Movement.PlayerStart),
		StickMan: vec(cfg.Avatar.GroundPosition),
	}
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
