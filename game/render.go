package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/ui"
)

const controlsLegend = "SPACE pause | N step | TAB panel | P perf | arrows/right-drag pan | wheel zoom | HOME reset"

var (
	backgroundColor = rl.Color{R: 12, G: 16, B: 24, A: 255}
	boundsColor     = rl.Color{R: 60, G: 70, B: 80, A: 255}
)

// Update handles input and advances one frame unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	g.step(float64(rl.GetFrameTime()))
}

// Draw renders the current surface and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	renderer.DrawBounds(g.camera, g.cfg.Derived.BoundsMin, g.cfg.Derived.BoundsMax, boundsColor)

	g.view.ShowFill = g.state.ShowFill
	g.view.ShowContour = g.state.ShowContour
	g.view.ShowWire = g.state.ShowWire
	g.view.ShowSources = g.state.ShowSources
	g.view.Draw(g.camera, g.assembler.Vertices(), g.assembler.Indices(), g.assembler.Contour())

	if g.state.ShowSources {
		g.scene.Each(func(_ ecs.Entity, center r2.Vec, f field.Falloff) {
			g.view.DrawSource(g.camera, center, f)
		})
	}

	g.hud.Draw(ui.HUDData{
		Title:     "Metaballs",
		Frame:     g.lastStats.Frame,
		Blobs:     g.scene.Len(),
		Triangles: g.lastStats.Triangles,
		Segments:  g.lastStats.ContourSegments,
		Touched:   g.lastStats.TouchedCells,
		Cells:     g.grid.CellCount(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	})
	if g.controls.Draw(&g.state) {
		g.applyControls()
	}
	if g.showPerf {
		g.perfPanel.Draw(g.perf.Stats())
	}
	g.hud.DrawControls(int32(g.screenH), controlsLegend)

	rl.EndDrawing()
}
