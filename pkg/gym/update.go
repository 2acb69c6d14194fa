package gym

import (
	"math"

	"github.com/chazu/highbar/pkg/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// Update advances s by dt seconds under in and returns the next state.
// It does not modify its arguments. w may be nil to skip collisions.
func Update(w *World, cfg config.Config, s State, in Input, dt float64) State {
	if in.Quit {
		s.Quit = true
	}

	s = look(cfg.Camera, s, in)
	s = handleEdges(cfg.Avatar, s, in)

	if s.OnBar && s.Rotating {
		s = swing(cfg.Avatar, s, dt)
	}

	s.Player = move(cfg.Movement, s.Heading, s.Player, in, dt)
	if w != nil {
		s.Player = w.PushOut(s.Player, cfg.Movement.PlayerRadius)
	}
	return s
}

// look turns the camera by the pointer delta and clamps the pitch.
func look(cam config.CameraConfig, s State, in Input) State {
	if in.ResetMouse {
		return s
	}
	gain := cam.MouseSensitivity * cam.MouseScale
	s.Heading += in.MouseDX * gain
	s.Pitch -= in.MouseDY * gain
	s.Pitch = clamp(s.Pitch, -cam.PitchLimit, cam.PitchLimit)
	return s
}

// handleEdges applies the one-shot events in a fixed order: arms, bar,
// rotation.
func handleEdges(av config.AvatarConfig, s State, in Input) State {
	if in.RaiseArms {
		s.ArmsRaised = true
	}
	if in.LowerArms {
		s.ArmsRaised = false
	}

	if in.ToggleBar {
		if s.OnBar {
			s.OnBar = false
			s.Rotating = false
			s.StickMan = vec(av.GroundPosition)
			s.StickManHPR = r3.Vec{}
			s.ArmsRaised = false
		} else {
			s.OnBar = true
			s.StickMan = vec(av.HangPosition)
			s.ArmsRaised = true
		}
	}

	if in.RotateStart && s.OnBar && !s.Rotating {
		s.Rotating = true
		s.RotationAngle = 0
	}
	if in.RotateStop && s.Rotating {
		s.Rotating = false
		s.StickMan = vec(av.HangPosition)
		s.StickManHPR = r3.Vec{}
		s.ArmsRaised = true
	}
	return s
}

// swing advances the giant swing around the bar.
func swing(av config.AvatarConfig, s State, dt float64) State {
	s.RotationAngle += av.SwingSpeed * dt
	a := s.RotationAngle * math.Pi / 180
	s.StickMan = r3.Vec{
		X: 0,
		Y: math.Sin(a) * av.SwingSway,
		Z: av.BarHeight - av.SwingRadius*math.Cos(a),
	}
	s.StickManHPR = r3.Vec{Y: s.RotationAngle - 90}
	return s
}

// move walks the player relative to the camera heading and keeps it on the mat.
func move(mv config.MovementConfig, heading float64, p r3.Vec, in Input, dt float64) r3.Vec {
	h := heading * math.Pi / 180
	forward := r3.Vec{X: math.Sin(h), Y: math.Cos(h)}
	right := r3.Vec{X: math.Cos(h), Y: -math.Sin(h)}

	var dir r3.Vec
	if in.Forward {
		dir = r3.Add(dir, forward)
	}
	if in.Back {
		dir = r3.Sub(dir, forward)
	}
	if in.Right {
		dir = r3.Add(dir, right)
	}
	if in.Left {
		dir = r3.Sub(dir, right)
	}
	if l := r3.Norm(dir); l > 0 {
		p = r3.Add(p, r3.Scale(mv.Speed*dt/l, dir))
	}

	p.X = clamp(p.X, -mv.MatHalfExtent, mv.MatHalfExtent)
	p.Y = clamp(p.Y, -mv.MatHalfExtent, mv.MatHalfExtent)
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
