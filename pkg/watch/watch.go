// Package watch re-evaluates a scene script whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/highbar/pkg/engine"
	"github.com/chazu/highbar/pkg/logging"
	"github.com/chazu/highbar/pkg/scene"
	"github.com/fsnotify/fsnotify"
)

// Evaluator turns script source into a scene. *engine.Engine implements it.
type Evaluator interface {
	Evaluate(source string) (*scene.Scene, []engine.EvalError, error)
}

// Result is the outcome of one reload. Exactly one of Scene, Errors or Err
// is set.
type Result struct {
	Scene  *scene.Scene
	Errors []engine.EvalError
	Err    error
}

// Watcher reloads one script file.
type Watcher struct {
	path     string
	eval     Evaluator
	debounce time.Duration
	onResult func(Result)
	fs       *fsnotify.Watcher
}

// New watches path. The containing directory is watched so that editors
// which replace the file on save are still seen.
func New(path string, eval Evaluator, debounce time.Duration, onResult func(Result)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		path:     abs,
		eval:     eval,
		debounce: debounce,
		onResult: onResult,
		fs:       fsWatch,
	}, nil
}

// Reload reads and evaluates the script once and reports the result.
func (w *Watcher) Reload() Result {
	var res Result
	src, err := os.ReadFile(w.path)
	if err != nil {
		res.Err = fmt.Errorf("watch: %w", err)
	} else {
		sc, evalErrs, err := w.eval.Evaluate(string(src))
		switch {
		case err != nil:
			res.Err = err
		case len(evalErrs) > 0:
			res.Errors = evalErrs
		default:
			res.Scene = sc
		}
	}

	switch {
	case res.Err != nil:
		logging.Error("watch: %s: %v", w.path, res.Err)
	case len(res.Errors) > 0:
		logging.Warn("watch: %s: %d evaluation errors", w.path, len(res.Errors))
	default:
		logging.Info("watch: %s: scene %s with %d nodes", w.path, res.Scene.ID, res.Scene.NodeCount())
	}
	if w.onResult != nil {
		w.onResult(res)
	}
	return res
}

// Run performs an initial load, then reloads after each burst of changes
// until ctx is cancelled. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.Reload()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logging.Debug("watch: %s", e)
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			logging.Warn("watch: %v", err)

		case <-timer.C:
			w.Reload()
		}
	}
}

// Close stops watching without running.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
