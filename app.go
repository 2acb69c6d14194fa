package main

import (
	"fmt"
	"os"

	"github.com/chazu/highbar/pkg/config"
	"github.com/chazu/highbar/pkg/engine"
	"github.com/chazu/highbar/pkg/gym"
	"github.com/chazu/highbar/pkg/kernel"
	"github.com/chazu/highbar/pkg/kernel/sdfx"
	"github.com/chazu/highbar/pkg/logging"
	"github.com/chazu/highbar/pkg/scene"
	"github.com/chazu/highbar/pkg/tessellate"
)

// colorPalette is used for parts left at the default white.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the scene engine, the mesh pipeline and the collision kernel
// together for the command line.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Colors   []float32 `json:"colors"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a scene script.
type EvalResult struct {
	SceneID  string          `json:"sceneId,omitempty"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates an App tuned by cfg.
func NewAppWithConfig(cfg config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine().WithTimeout(cfg.EvalTimeout()),
		kernel: sdfx.New(),
	}
}

// Evaluate takes scene source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logging.Error("evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.SceneID = sc.ID.String()
	for _, w := range scene.ValidateAll(sc).Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}

	// Step 3: Tessellate the scene into triangle meshes.
	meshes, err := tessellate.Tessellate(sc)
	if err != nil {
		logging.Error("tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to MeshData.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, toMeshData(m, i))
	}
	return result
}

// EvaluateFile reads path and evaluates it.
func (a *App) EvaluateFile(path string) (EvalResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return EvalResult{}, err
	}
	return a.Evaluate(string(src)), nil
}

// LoadScene evaluates path and returns the scene, folding eval errors into
// a single error.
func (a *App) LoadScene(path string) (*scene.Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, evalErrs, err := a.engine.Evaluate(string(src))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs[1:] {
			logging.Error("%s: %v", path, e)
		}
		return nil, fmt.Errorf("%s: %v (%d errors)", path, evalErrs[0], len(evalErrs))
	}
	return sc, nil
}

// World builds the collision world for a scene.
func (a *App) World(sc *scene.Scene) (*gym.World, error) {
	return gym.WorldFromScene(a.kernel, sc, gym.DefaultColliders...)
}

func toMeshData(m *kernel.Mesh, i int) MeshData {
	color := colorPalette[i%len(colorPalette)]
	if len(m.Colors) >= 4 {
		c := [4]float32{m.Colors[0], m.Colors[1], m.Colors[2], m.Colors[3]}
		if c != scene.White {
			color = hexColor(c)
		}
	}
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Colors:   m.Colors,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
	}
}

// hexColor formats the RGB part of c as #RRGGBB.
func hexColor(c [4]float32) string {
	b := func(v float32) int {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", b(c[0]), b(c[1]), b(c[2]))
}
