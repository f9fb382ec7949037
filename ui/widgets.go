package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed widgets. Every Draw* method takes the top-left
// corner of the widget and returns the y where the next one starts.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a panel with a contour-colored rule under its title.
func (r *Renderer) DrawPanel(x, y, width, height int32, title string) int32 {
	t := r.Theme
	rl.DrawRectangle(x, y, width, height, t.Panel)
	rl.DrawRectangle(x, y, 2, height, t.Accent)

	y += t.Gap
	rl.DrawText(title, x+t.Gap, y, t.Title, t.Text)
	y += t.Title + 3
	rl.DrawLine(x+t.Gap, y, x+width-t.Gap, y, t.Edge)
	return y + t.Gap
}

// DrawRow draws a muted label with its value right-aligned at x+width.
func (r *Renderer) DrawRow(x, y, width int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label, x, y, t.Small, t.Muted)
	vw := rl.MeasureText(value, t.Small)
	rl.DrawText(value, x+width-vw, y, t.Small, t.Text)
	return y + t.Row
}

// DrawMeter draws a labelled fill bar for a fraction in [0, 1].
func (r *Renderer) DrawMeter(x, y, width int32, label string, frac float64) int32 {
	t := r.Theme
	frac = clamp01(frac)

	y = r.DrawRow(x, y, width, label, fmt.Sprintf("%.1f%%", frac*100))
	rl.DrawRectangle(x, y, width, t.BarThick, t.Track)
	rl.DrawRectangle(x, y, int32(float64(width)*frac), t.BarThick, t.Accent)
	return y + t.BarThick + t.Gap
}

// DrawPhaseBar draws one bar split into a segment per phase, sized by its
// share of the frame, followed by a two-column legend.
func (r *Renderer) DrawPhaseBar(x, y, width int32, phases []string, pct map[string]float64) int32 {
	t := r.Theme

	rl.DrawRectangle(x, y, width, t.BarThick, t.Track)
	at := float64(x)
	for i, name := range phases {
		w := float64(width) * clamp01(pct[name]/100)
		rl.DrawRectangle(int32(at), y, int32(w+0.5), t.BarThick, t.phaseColor(i))
		at += w
	}
	y += t.BarThick + t.Gap

	col := width / 2
	for i, name := range phases {
		cx := x + int32(i%2)*col
		rl.DrawRectangle(cx, y+3, 6, 6, t.phaseColor(i))
		rl.DrawText(fmt.Sprintf("%s %.0f%%", name, pct[name]), cx+10, y, t.Small, t.Muted)
		if i%2 == 1 || i == len(phases)-1 {
			y += t.Row
		}
	}
	return y
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
