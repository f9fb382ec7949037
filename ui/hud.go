package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metaballs/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Frame     uint64
	Blobs     int
	Triangles int
	Segments  int
	Touched   int
	Cells     int
	FPS       int32
	Paused    bool
}

// HUD renders the surface summary panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD in the top-left corner.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        10,
		y:        10,
		width:    220,
	}
}

// Height is the HUD panel height in pixels.
func (h *HUD) Height() int32 {
	t := h.renderer.Theme
	return 3*t.Gap + t.Title + 3 + 6*t.Row + t.BarThick + t.Gap + t.Gap
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme
	w := h.width - 2*t.Gap

	x := h.x + t.Gap
	y := r.DrawPanel(h.x, h.y, h.width, h.Height(), data.Title)
	y = r.DrawRow(x, y, w, "blobs", fmt.Sprint(data.Blobs))
	y = r.DrawRow(x, y, w, "triangles", fmt.Sprint(data.Triangles))
	y = r.DrawRow(x, y, w, "contour segments", fmt.Sprint(data.Segments))
	y = r.DrawRow(x, y, w, "frame", fmt.Sprintf("%d @ %d fps", data.Frame, data.FPS))

	var frac float64
	if data.Cells > 0 {
		frac = float64(data.Touched) / float64(data.Cells)
	}
	y = r.DrawMeter(x, y, w, fmt.Sprintf("touched %d/%d", data.Touched, data.Cells), frac)

	if data.Paused {
		rl.DrawText("PAUSED", x, y, t.Title, t.Warning)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	t := h.renderer.Theme
	rl.DrawText(controls, 10, screenHeight-22, t.Small, t.Muted)
}

// PerfPanel renders the rebuild phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	t := r.Theme
	w := p.width - 2*t.Gap
	legendRows := int32(len(telemetry.Phases)+1) / 2
	height := 3*t.Gap + t.Title + 3 + 4*t.Row + t.BarThick + t.Gap + legendRows*t.Row + t.Gap

	x := p.x + t.Gap
	y := r.DrawPanel(p.x, p.y, p.width, height, "Rebuild timing")
	y = r.DrawRow(x, y, w, "avg", stats.AvgFrameDuration.Round(time.Microsecond).String())
	y = r.DrawRow(x, y, w, "p95", stats.P95FrameDuration.Round(time.Microsecond).String())
	y = r.DrawRow(x, y, w, "max", stats.MaxFrameDuration.Round(time.Microsecond).String())
	y = r.DrawRow(x, y, w, "window", fmt.Sprintf("%d frames", stats.Frames))
	r.DrawPhaseBar(x, y, w, telemetry.Phases, stats.PhasePct)
}
