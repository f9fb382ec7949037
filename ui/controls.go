package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// SurfaceControls is the state edited by the controls panel.
type SurfaceControls struct {
	IsoThreshold float32
	Interpolate  bool
	FillInterior bool
	ShowFill     bool
	ShowContour  bool
	ShowWire     bool
	ShowSources  bool
}

// ControlsPanel renders the raygui surface controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies edits to s. It reports whether the
// iso-threshold or a surface option changed.
func (c *ControlsPanel) Draw(s *SurfaceControls) bool {
	if !c.visible {
		return false
	}

	r := c.renderer
	t := r.Theme
	gap := float32(t.Gap)

	x := float32(c.x) + gap
	y := float32(r.DrawPanel(c.x, c.y, c.width, 226, "Surface"))
	w := float32(c.width) - 2*gap

	r.DrawRow(int32(x), int32(y), int32(w), "iso threshold", fmt.Sprintf("%.2f", s.IsoThreshold))
	y += float32(t.Row)
	iso := gui.SliderBar(rl.Rectangle{X: x + 30, Y: y, Width: w - 60, Height: 14}, "0.05", "1.5", s.IsoThreshold, 0.05, 1.5)
	y += 24

	changed := iso != s.IsoThreshold
	s.IsoThreshold = iso

	check := func(label string, v *bool, affectsSurface bool) {
		nv := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, label, *v)
		if nv != *v {
			*v = nv
			changed = changed || affectsSurface
		}
		y += 22
	}
	check("Interpolate edges", &s.Interpolate, true)
	check("Fill interior", &s.FillInterior, true)
	check("Draw fill", &s.ShowFill, false)
	check("Draw contour", &s.ShowContour, false)
	check("Draw wireframe", &s.ShowWire, false)
	check("Draw sources", &s.ShowSources, false)

	return changed
}
