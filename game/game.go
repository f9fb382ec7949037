// Package game wires the surface, scene and viewer together.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/metaballs/camera"
	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/mesh"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/scene"
	"github.com/pthm-cable/metaballs/surface"
	"github.com/pthm-cable/metaballs/telemetry"
	"github.com/pthm-cable/metaballs/ui"
)

// Options configures a Game.
type Options struct {
	LogStats  bool   // Log perf stats via slog
	OutputDir string // Directory for CSV output (empty = disabled)
	Headless  bool   // Skip all raylib calls
	Seed      int64  // Overrides scene.seed when non-zero
}

// Game owns one running surface.
type Game struct {
	cfg  *config.Config
	opts Options

	grid      *surface.Grid
	assembler *mesh.Assembler
	scene     *scene.World

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	// Viewer state, nil in headless mode
	camera    *camera.Camera
	view      *renderer.SurfaceRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	state     ui.SurfaceControls

	paused        bool
	showPerf      bool
	screenW       float32
	screenH       float32
	lastStats     mesh.FrameStats
	lastPerfFrame uint64
}

// NewGameWithOptions builds the grid, assembler and scene from the global
// config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	if opts.Seed != 0 {
		cfg.Scene.Seed = opts.Seed
	}

	grid, err := surface.Build(cfg.Derived.Surface)
	if err != nil {
		return nil, fmt.Errorf("building surface: %w", err)
	}

	world, err := scene.FromConfig(grid, cfg)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	g := &Game{
		cfg:       cfg,
		opts:      opts,
		grid:      grid,
		assembler: mesh.New(grid, mesh.Options{FillInterior: cfg.Surface.FillInterior}),
		scene:     world,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
		screenW:   cfg.Derived.ScreenW32,
		screenH:   cfg.Derived.ScreenH32,
		state: ui.SurfaceControls{
			IsoThreshold: float32(cfg.Surface.IsoThreshold),
			Interpolate:  cfg.Surface.InterpolateEdges,
			FillInterior: cfg.Surface.FillInterior,
			ShowFill:     true,
			ShowContour:  true,
		},
	}
	g.assembler.SetPerf(g.perf)

	if !opts.Headless {
		g.camera = camera.New(g.screenW, g.screenH, cfg.Derived.BoundsMin, cfg.Derived.BoundsMax)
		g.view = renderer.NewSurfaceRenderer()
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenW)-230, 10, 220)
		g.controls = ui.NewControlsPanel(10, 20+g.hud.Height(), 220)
	}

	slog.Info("surface ready",
		"cols", cfg.Surface.Resolution[0],
		"rows", cfg.Surface.Resolution[1],
		"cells", grid.CellCount(),
		"blobs", world.Len(),
		"headless", opts.Headless,
	)
	return g, nil
}

// step advances the scene by dt and rebuilds the surface.
func (g *Game) step(dt float64) {
	g.scene.Step(dt)
	g.lastStats = g.assembler.Rebuild()
	g.flushTelemetry()
}

// UpdateHeadless advances one fixed frame at the configured frame rate.
func (g *Game) UpdateHeadless() {
	g.step(1 / float64(g.cfg.Screen.TargetFPS))
}

// Frame returns the number of rebuilt frames.
func (g *Game) Frame() uint64 { return g.assembler.Frame() }

// Stats returns the stats of the last rebuild.
func (g *Game) Stats() mesh.FrameStats { return g.lastStats }

// applyControls pushes panel edits into the grid and assembler.
func (g *Game) applyControls() {
	if err := g.grid.SetIsoThreshold(float64(g.state.IsoThreshold)); err != nil {
		slog.Warn("rejected iso threshold", "error", err)
		g.state.IsoThreshold = float32(g.grid.Settings().IsoThreshold)
	}
	g.grid.SetInterpolateEdges(g.state.Interpolate)
	g.assembler.SetOptions(mesh.Options{FillInterior: g.state.FillInterior})
}

// Unload flushes output and releases resources.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
