package gym

import (
	"fmt"
	"sort"

	"github.com/chazu/highbar/pkg/config"
)

// Input is everything the player did during one frame. Movement flags are
// held state; the remaining flags are edges that fire once.
type Input struct {
	Forward, Back, Left, Right bool

	RaiseArms   bool
	LowerArms   bool
	ToggleBar   bool
	RotateStart bool
	RotateStop  bool
	ResetMouse  bool
	Quit        bool

	MouseDX, MouseDY float64 // normalised pointer delta
}

// KeyEvent is a key press or release reported by the host.
type KeyEvent struct {
	Key  string
	Down bool
}

// Bindings maps key names to actions.
type Bindings struct {
	byKey map[string]string
}

// NewBindings inverts an action -> keys table. A key bound to two actions
// is an error.
func NewBindings(actions map[string][]string) (Bindings, error) {
	b := Bindings{byKey: make(map[string]string)}
	names := make([]string, 0, len(actions))
	for action := range actions {
		names = append(names, action)
	}
	sort.Strings(names)
	for _, action := range names {
		for _, key := range actions[action] {
			if prev, dup := b.byKey[key]; dup && prev != action {
				return Bindings{}, fmt.Errorf("gym: key %q bound to both %q and %q", key, prev, action)
			}
			b.byKey[key] = action
		}
	}
	return b, nil
}

// Action returns the action bound to key.
func (b Bindings) Action(key string) (string, bool) {
	a, ok := b.byKey[key]
	return a, ok
}

// Keyboard tracks held actions across frames.
type Keyboard struct {
	bindings Bindings
	held     map[string]int // action -> number of its keys currently down
	down     map[string]bool
}

// NewKeyboard returns a keyboard with nothing held.
func NewKeyboard(b Bindings) *Keyboard {
	return &Keyboard{bindings: b, held: make(map[string]int), down: make(map[string]bool)}
}

// InputFromKeys folds one frame of key events and pointer motion into an
// Input. Unbound keys and repeated presses of a held key are ignored.
func (k *Keyboard) InputFromKeys(events []KeyEvent, mouseDX, mouseDY float64) Input {
	in := Input{MouseDX: mouseDX, MouseDY: mouseDY}
	for _, ev := range events {
		action, ok := k.bindings.Action(ev.Key)
		if !ok || k.down[ev.Key] == ev.Down {
			continue
		}
		k.down[ev.Key] = ev.Down
		if ev.Down {
			k.held[action]++
		} else {
			k.held[action]--
		}

		switch action {
		case config.ActionArms:
			if ev.Down {
				in.RaiseArms = true
			} else {
				in.LowerArms = true
			}
		case config.ActionRotate:
			if ev.Down {
				in.RotateStart = true
			} else {
				in.RotateStop = true
			}
		case config.ActionToggleBar:
			in.ToggleBar = in.ToggleBar || ev.Down
		case config.ActionResetMouse:
			in.ResetMouse = in.ResetMouse || ev.Down
		case config.ActionQuit:
			in.Quit = in.Quit || ev.Down
		}
	}
	in.Forward = k.held[config.ActionForward] > 0
	in.Back = k.held[config.ActionBack] > 0
	in.Left = k.held[config.ActionLeft] > 0
	in.Right = k.held[config.ActionRight] > 0
	return in
}
