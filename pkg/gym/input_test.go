package gym

import (
	"strings"
	"testing"

	"github.com/chazu/highbar/pkg/config"
)

func newKeyboard(t *testing.T) *Keyboard {
	t.Helper()
	b, err := NewBindings(config.Default().Bindings)
	if err != nil {
		t.Fatal(err)
	}
	return NewKeyboard(b)
}

func TestBindings(t *testing.T) {
	b, err := NewBindings(config.Default().Bindings)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key  string
		want string
	}{
		{"w", config.ActionForward},
		{"arrow_up", config.ActionForward},
		{"u", config.ActionArms},
		{"j", config.ActionToggleBar},
		{"m", config.ActionRotate},
		{"escape", config.ActionQuit},
	}
	for _, tt := range tests {
		if got, ok := b.Action(tt.key); !ok || got != tt.want {
			t.Errorf("Action(%q) = %q, %v; want %q", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := b.Action("q"); ok {
		t.Error("unbound key reported an action")
	}
}

func TestBindingsConflict(t *testing.T) {
	_, err := NewBindings(map[string][]string{
		config.ActionForward: {"w"},
		config.ActionQuit:    {"w"},
	})
	if err == nil || !strings.Contains(err.Error(), `key "w"`) {
		t.Errorf("NewBindings conflict error = %v", err)
	}
}

func TestInputFromKeysHeld(t *testing.T) {
	kb := newKeyboard(t)

	in := kb.InputFromKeys([]KeyEvent{{Key: "w", Down: true}}, 0, 0)
	if !in.Forward {
		t.Fatal("forward not held after press")
	}
	// Still held on the next frame with no events.
	if in = kb.InputFromKeys(nil, 0, 0); !in.Forward {
		t.Error("forward released without a key up")
	}
	// Two keys for one action: releasing one keeps it held.
	kb.InputFromKeys([]KeyEvent{{Key: "arrow_up", Down: true}}, 0, 0)
	if in = kb.InputFromKeys([]KeyEvent{{Key: "w", Down: false}}, 0, 0); !in.Forward {
		t.Error("forward released while arrow_up still down")
	}
	if in = kb.InputFromKeys([]KeyEvent{{Key: "arrow_up", Down: false}}, 0, 0); in.Forward {
		t.Error("forward still held after both keys released")
	}
}

func TestInputFromKeysEdges(t *testing.T) {
	kb := newKeyboard(t)

	in := kb.InputFromKeys([]KeyEvent{{Key: "u", Down: true}, {Key: "m", Down: true}, {Key: "j", Down: true}}, 0.1, -0.2)
	if !in.RaiseArms || !in.RotateStart || !in.ToggleBar {
		t.Errorf("press edges missing: %+v", in)
	}
	if in.MouseDX != 0.1 || in.MouseDY != -0.2 {
		t.Errorf("mouse delta = %f,%f", in.MouseDX, in.MouseDY)
	}

	// Auto-repeat presses do not fire again.
	in = kb.InputFromKeys([]KeyEvent{{Key: "j", Down: true}}, 0, 0)
	if in.ToggleBar {
		t.Error("repeated press fired toggle again")
	}

	in = kb.InputFromKeys([]KeyEvent{{Key: "u", Down: false}, {Key: "m", Down: false}, {Key: "j", Down: false}}, 0, 0)
	if !in.LowerArms || !in.RotateStop {
		t.Errorf("release edges missing: %+v", in)
	}
	if in.ToggleBar {
		t.Error("release fired toggle")
	}

	in = kb.InputFromKeys([]KeyEvent{{Key: "r", Down: true}, {Key: "escape", Down: true}, {Key: "q", Down: true}}, 0, 0)
	if !in.ResetMouse || !in.Quit {
		t.Errorf("reset/quit edges missing: %+v", in)
	}
}
