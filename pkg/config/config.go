// Package config loads demo tuning and key bindings from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Action names accepted in [bindings].
const (
	ActionForward    = "forward"
	ActionBack       = "back"
	ActionLeft       = "left"
	ActionRight      = "right"
	ActionArms       = "arms"
	ActionToggleBar  = "toggle-bar"
	ActionRotate     = "rotate"
	ActionResetMouse = "reset-mouse"
	ActionQuit       = "quit"
)

// KnownActions lists every bindable action.
var KnownActions = []string{
	ActionForward, ActionBack, ActionLeft, ActionRight,
	ActionArms, ActionToggleBar, ActionRotate, ActionResetMouse, ActionQuit,
}

// Config is the full demo configuration.
type Config struct {
	LogLevel string              `toml:"log_level"`
	Engine   EngineConfig        `toml:"engine"`
	Camera   CameraConfig        `toml:"camera"`
	Movement MovementConfig      `toml:"movement"`
	Avatar   AvatarConfig        `toml:"avatar"`
	Bindings map[string][]string `toml:"bindings"` // action -> key names
}

// EngineConfig tunes scene script evaluation.
type EngineConfig struct {
	TimeoutSeconds float64 `toml:"timeout_seconds"`
	DebounceMillis int     `toml:"debounce_millis"`
}

// CameraConfig controls the orbit camera and mouse look.
type CameraConfig struct {
	Distance         float64 `toml:"distance"`
	HeightOffset     float64 `toml:"height_offset"`
	MouseSensitivity float64 `toml:"mouse_sensitivity"`
	MouseScale       float64 `toml:"mouse_scale"` // degrees per unit of normalised mouse delta at sensitivity 1
	PitchLimit       float64 `toml:"pitch_limit"` // degrees
}

// MovementConfig controls the player ball.
type MovementConfig struct {
	Speed         float64    `toml:"speed"` // units per second
	MatHalfExtent float64    `toml:"mat_half_extent"`
	PlayerStart   [3]float64 `toml:"player_start"`
	PlayerRadius  float64    `toml:"player_radius"`
}

// AvatarConfig controls the stick man and the high bar swing.
type AvatarConfig struct {
	GroundPosition [3]float64 `toml:"ground_position"`
	HangPosition   [3]float64 `toml:"hang_position"`
	BarHeight      float64    `toml:"bar_height"`
	SwingRadius    float64    `toml:"swing_radius"`
	SwingSway      float64    `toml:"swing_sway"`
	SwingSpeed     float64    `toml:"swing_speed"` // degrees per second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Engine: EngineConfig{
			TimeoutSeconds: 5,
			DebounceMillis: 100,
		},
		Camera: CameraConfig{
			Distance:         10,
			HeightOffset:     1,
			MouseSensitivity: 0.2,
			MouseScale:       100,
			PitchLimit:       85,
		},
		Movement: MovementConfig{
			Speed:         5,
			MatHalfExtent: 9,
			PlayerStart:   [3]float64{0, -5, 0.5},
			PlayerRadius:  0.5,
		},
		Avatar: AvatarConfig{
			GroundPosition: [3]float64{0, 0, 1.8},
			HangPosition:   [3]float64{0, 0, 3.5},
			BarHeight:      4,
			SwingRadius:    0.8,
			SwingSway:      0.5,
			SwingSpeed:     180,
		},
		Bindings: map[string][]string{
			ActionForward:    {"arrow_up", "w"},
			ActionBack:       {"arrow_down", "s"},
			ActionLeft:       {"arrow_left", "a"},
			ActionRight:      {"arrow_right", "d"},
			ActionArms:       {"u"},
			ActionToggleBar:  {"j"},
			ActionRotate:     {"m"},
			ActionResetMouse: {"r"},
			ActionQuit:       {"escape"},
		},
	}
}

// EvalTimeout returns the engine timeout as a duration.
func (c Config) EvalTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds * float64(time.Second))
}

// Debounce returns the watcher debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Engine.DebounceMillis) * time.Millisecond
}

// Load reads path and overlays it on Default. Unknown keys are an error.
// Tables in the file replace only the fields they name; a [bindings] entry
// replaces the key list of that action.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays TOML data on cfg and validates the result. Keys absent
// from data keep their current values.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return err
	}
	return cfg.Validate()
}

// Validate rejects non-positive tuning values and unknown actions.
func (c Config) Validate() error {
	var errs []error
	positive := []struct {
		name string
		v    float64
	}{
		{"engine.timeout_seconds", c.Engine.TimeoutSeconds},
		{"camera.distance", c.Camera.Distance},
		{"camera.mouse_sensitivity", c.Camera.MouseSensitivity},
		{"camera.mouse_scale", c.Camera.MouseScale},
		{"camera.pitch_limit", c.Camera.PitchLimit},
		{"movement.speed", c.Movement.Speed},
		{"movement.mat_half_extent", c.Movement.MatHalfExtent},
		{"movement.player_radius", c.Movement.PlayerRadius},
		{"avatar.swing_radius", c.Avatar.SwingRadius},
		{"avatar.swing_speed", c.Avatar.SwingSpeed},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", p.name, p.v))
		}
	}
	if c.Camera.PitchLimit >= 90 {
		errs = append(errs, fmt.Errorf("camera.pitch_limit must be below 90, got %g", c.Camera.PitchLimit))
	}
	if c.Engine.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("engine.debounce_millis must not be negative, got %d", c.Engine.DebounceMillis))
	}

	known := make(map[string]bool, len(KnownActions))
	for _, a := range KnownActions {
		known[a] = true
	}
	actions := make([]string, 0, len(c.Bindings))
	for action := range c.Bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		if !known[action] {
			errs = append(errs, fmt.Errorf("bindings: unknown action %q", action))
		}
	}
	return errors.Join(errs...)
}
