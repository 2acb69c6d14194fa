// Command highbar builds and inspects high bar gym scenes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/chazu/highbar/pkg/config"
	"github.com/chazu/highbar/pkg/engine"
	"github.com/chazu/highbar/pkg/gym"
	"github.com/chazu/highbar/pkg/kernel"
	"github.com/chazu/highbar/pkg/logging"
	"github.com/chazu/highbar/pkg/meshgen"
	"github.com/chazu/highbar/pkg/pdftext"
	"github.com/chazu/highbar/pkg/scene"
	"github.com/chazu/highbar/pkg/tessellate"
	"github.com/chazu/highbar/pkg/watch"
)

// DefaultKeyScript jumps onto the bar, swings half a turn, drops and walks
// forward.
const DefaultKeyScript = "0:j+,1:j-,2:m+,62:m-,64:j+,65:j-,66:w+,96:w-"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("highbar", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "TOML configuration file")
	logLevel := global.String("log-level", "", "log level (debug, info, warn, error)")
	if err := global.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}

	app := NewAppWithConfig(cfg)
	r := newRegistry(app, stdout)
	if global.NArg() == 0 {
		r.Usage(stdout)
	}
	return r.Execute(global.Args())
}

func newRegistry(app *App, stdout io.Writer) *Registry {
	r := NewRegistry()

	meshFS := flag.NewFlagSet("mesh", flag.ContinueOnError)
	radius := meshFS.Float64("radius", 1, "sphere or cylinder radius")
	height := meshFS.Float64("height", 2, "cylinder height")
	segments := meshFS.Int("segments", -1, "segment count (-1 for the shape default)")
	meshJSON := meshFS.Bool("json", false, "print the mesh as JSON")
	r.Register("mesh", "mesh [-radius r] [-height h] [-segments n] [-json] box|sphere|cylinder", meshFS,
		func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("mesh: expected one shape, got %d arguments", len(args))
			}
			m, err := buildMesh(args[0], *radius, *height, *segments)
			if err != nil {
				return err
			}
			if *meshJSON {
				return writeJSON(stdout, toMeshData(m, 0))
			}
			fmt.Fprintf(stdout, "%s: %d vertices, %d triangles\n", args[0], m.VertexCount(), m.TriangleCount())
			return nil
		})

	sceneFS := flag.NewFlagSet("scene", flag.ContinueOnError)
	sceneJSON := sceneFS.Bool("json", false, "print meshes and errors as JSON")
	r.Register("scene", "scene [-json] file", sceneFS, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("scene: expected one script file")
		}
		res, err := app.EvaluateFile(args[0])
		if err != nil {
			return err
		}
		if *sceneJSON {
			return writeJSON(stdout, res)
		}
		return writeSummary(stdout, res)
	})

	watchFS := flag.NewFlagSet("watch", flag.ContinueOnError)
	r.Register("watch", "watch file", watchFS, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("watch: expected one script file")
		}
		w, err := watch.New(args[0], app.engine, app.cfg.Debounce(), func(res watch.Result) {
			if res.Scene == nil {
				return
			}
			meshes, err := tessellate.Tessellate(res.Scene)
			if err != nil {
				logging.Error("%v", err)
				return
			}
			fmt.Fprintf(stdout, "%s: %d nodes, %d meshes\n", args[0], res.Scene.NodeCount(), len(meshes))
		})
		if err != nil {
			return err
		}
		defer w.Close()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return w.Run(ctx)
	})

	simFS := flag.NewFlagSet("simulate", flag.ContinueOnError)
	frames := simFS.Int("frames", 120, "number of frames to run")
	dt := simFS.Float64("dt", 1.0/60, "frame time in seconds")
	keys := simFS.String("keys", DefaultKeyScript, "key script: frame:key+ or frame:key-, comma separated")
	trace := simFS.Bool("trace", false, "print every frame")
	r.Register("simulate", "simulate [-frames n] [-dt s] [-keys script] [-trace] file", simFS,
		func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("simulate: expected one script file")
			}
			script, err := parseKeyScript(*keys)
			if err != nil {
				return err
			}
			return app.Simulate(stdout, args[0], script, *frames, *dt, *trace)
		})

	colFS := flag.NewFlagSet("colliders", flag.ContinueOnError)
	colMesh := colFS.Bool("mesh", false, "also mesh each collider")
	r.Register("colliders", "colliders [-mesh] file", colFS, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("colliders: expected one script file")
		}
		sc, err := app.LoadScene(args[0])
		if err != nil {
			return err
		}
		w, err := app.World(sc)
		if err != nil {
			return err
		}
		for _, c := range w.Colliders() {
			min, max := c.Solid.BoundingBox()
			fmt.Fprintf(stdout, "%s: min %.3f max %.3f", c.Name, min, max)
			if *colMesh {
				m, err := app.kernel.ToMesh(c.Solid)
				if err != nil {
					return fmt.Errorf("colliders: %s: %w", c.Name, err)
				}
				fmt.Fprintf(stdout, " triangles %d", m.TriangleCount())
			}
			fmt.Fprintln(stdout)
		}
		return nil
	})

	pdfFS := flag.NewFlagSet("pdftotext", flag.ContinueOnError)
	r.Register("pdftotext", "pdftotext in.pdf out.txt", pdfFS, func(args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("pdftotext: expected input and output paths")
		}
		n, err := pdftext.Convert(args[0], args[1])
		if err != nil {
			return err
		}
		logging.Info("wrote %d pages to %s", n, args[1])
		return nil
	})

	return r
}

func buildMesh(shape string, radius, height float64, segments int) (*kernel.Mesh, error) {
	switch shape {
	case "box":
		return meshgen.Box(), nil
	case "sphere":
		if segments < 0 {
			segments = engine.DefaultSphereSegments
		}
		return meshgen.Sphere(radius, segments)
	case "cylinder":
		if segments < 0 {
			segments = engine.DefaultCylinderSegments
		}
		return meshgen.Cylinder(radius, height, segments)
	}
	return nil, fmt.Errorf("mesh: unknown shape %q (want box, sphere or cylinder)", shape)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSummary(w io.Writer, res EvalResult) error {
	for _, e := range res.Errors {
		fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
	}
	for _, e := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", e.Message)
	}
	for _, m := range res.Meshes {
		fmt.Fprintf(w, "%-12s %s %5d vertices %5d triangles\n",
			m.PartName, m.Color, len(m.Vertices)/3, len(m.Indices)/3)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d errors", len(res.Errors))
	}
	return nil
}

// parseKeyScript reads "frame:key+" (press) and "frame:key-" (release)
// entries into per-frame key events.
func parseKeyScript(s string) (map[int][]gym.KeyEvent, error) {
	script := make(map[int][]gym.KeyEvent)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		frame, key, ok := strings.Cut(entry, ":")
		if !ok || len(key) < 2 {
			return nil, fmt.Errorf("key script: bad entry %q", entry)
		}
		n, err := strconv.Atoi(frame)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("key script: bad frame in %q", entry)
		}
		var down bool
		switch key[len(key)-1] {
		case '+':
			down = true
		case '-':
		default:
			return nil, fmt.Errorf("key script: %q must end in + or -", entry)
		}
		script[n] = append(script[n], gym.KeyEvent{Key: key[:len(key)-1], Down: down})
	}
	return script, nil
}

// Simulate runs the gym against the scene in path, feeding scripted key
// events, and prints the final state.
func (a *App) Simulate(w io.Writer, path string, script map[int][]gym.KeyEvent, frames int, dt float64, trace bool) error {
	if frames < 0 || dt <= 0 {
		return fmt.Errorf("simulate: need frames >= 0 and dt > 0")
	}
	sc, err := a.LoadScene(path)
	if err != nil {
		return err
	}
	world, err := a.World(sc)
	if err != nil {
		return err
	}
	bindings, err := gym.NewBindings(a.cfg.Bindings)
	if err != nil {
		return err
	}
	kb := gym.NewKeyboard(bindings)

	s := gym.NewState(a.cfg)
	posed, err := gym.ApplyPose(sc, s)
	if err != nil {
		return err
	}
	frame := 0
	for ; frame < frames && !s.Quit; frame++ {
		in := kb.InputFromKeys(script[frame], 0, 0)
		s = gym.Update(world, a.cfg, s, in, dt)
		if posed, err = gym.ApplyPose(sc, s); err != nil {
			return err
		}
		if trace {
			writeState(w, frame, s)
		}
		logging.Debug("frame %d: player %v stick man %v", frame, s.Player, s.StickMan)
	}
	writeState(w, frame, s)

	eye, target := gym.Camera(a.cfg, s)
	fmt.Fprintf(w, "camera eye %s target %s\n", fmtVec(eye.X, eye.Y, eye.Z), fmtVec(target.X, target.Y, target.Z))
	return writePlacements(w, posed)
}

func writeState(w io.Writer, frame int, s gym.State) {
	fmt.Fprintf(w, "frame %d player %s stick-man %s hpr %s on-bar=%t rotating=%t arms-raised=%t\n",
		frame,
		fmtVec(s.Player.X, s.Player.Y, s.Player.Z),
		fmtVec(s.StickMan.X, s.StickMan.Y, s.StickMan.Z),
		fmtVec(s.StickManHPR.X, s.StickManHPR.Y, s.StickManHPR.Z),
		s.OnBar, s.Rotating, s.ArmsRaised)
}

// writePlacements prints the world origin of every driven node.
func writePlacements(w io.Writer, sc *scene.Scene) error {
	names := make([]string, 0, 4)
	for name := range gym.Pose(gym.State{}) {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := sc.Lookup(name)
		if n == nil {
			return fmt.Errorf("simulate: scene has no node %q", name)
		}
		world, err := sc.World(n.Index)
		if err != nil {
			return err
		}
		o := world.Origin
		fmt.Fprintf(w, "%-10s %s\n", name, fmtVec(o.X, o.Y, o.Z))
	}
	return nil
}

func fmtVec(x, y, z float64) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", x, y, z)
}
