package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/highbar/pkg/engine"
)

func writeScript(t *testing.T, path, src string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return Result{}
	}
}

func TestReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.hb")
	writeScript(t, path, `(box :name "mat")`)

	results := make(chan Result, 8)
	w, err := New(path, engine.NewEngine(), 10*time.Millisecond, func(r Result) { results <- r })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := next(t, results)
	if first.Scene == nil || first.Scene.NodeCount() != 1 {
		t.Fatalf("initial load = %+v, want one node", first)
	}

	writeScript(t, path, `(box :name "mat") (sphere :name "player")`)
	var r Result
	for r = next(t, results); r.Scene == nil || r.Scene.NodeCount() != 2; r = next(t, results) {
		// Partial writes may surface as transient parse errors.
	}
	if r.Scene.Lookup("player") == nil {
		t.Error("reloaded scene has no player")
	}

	writeScript(t, path, `(sphere :name "player" :segments 0)`)
	for r = next(t, results); len(r.Errors) == 0; r = next(t, results) {
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestReloadMissingFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "missing.hb"), engine.NewEngine(), time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if r := w.Reload(); r.Err == nil {
		t.Errorf("Reload of missing file = %+v, want error", r)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "scene.hb"), engine.NewEngine(), time.Millisecond, nil); err == nil {
		t.Error("New on a missing directory succeeded")
	}
}
