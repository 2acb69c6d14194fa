package gym

import (
	"math"

	"github.com/chazu/highbar/pkg/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera returns the eye position and look-at target of the orbit camera
// trailing the player.
func Camera(cfg config.Config, s State) (eye, target r3.Vec) {
	h := s.Heading * math.Pi / 180
	p := s.Pitch * math.Pi / 180
	d := cfg.Camera.Distance
	up := cfg.Camera.HeightOffset

	eye = r3.Vec{
		X: s.Player.X - d*math.Sin(h)*math.Cos(p),
		Y: s.Player.Y - d*math.Cos(h)*math.Cos(p),
		Z: s.Player.Z + d*math.Sin(p) + up,
	}
	target = r3.Vec{X: s.Player.X, Y: s.Player.Y, Z: s.Player.Z + up}
	return eye, target
}
