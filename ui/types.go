// Package ui draws the viewer's heads-up display and control panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme is the viewer palette. Panel colors follow the surface renderer:
// the accent is the mesh fill and the edge is the contour color.
type Theme struct {
	Panel   rl.Color
	Edge    rl.Color
	Accent  rl.Color
	Text    rl.Color
	Muted   rl.Color
	Warning rl.Color
	Track   rl.Color

	// Phases colors the rebuild phases in telemetry.Phases order.
	Phases []rl.Color

	Gap      int32 // inner padding
	Row      int32 // line advance
	Small    int32
	Title    int32
	BarThick int32
}

// DefaultTheme returns the dark palette used by the viewer.
func DefaultTheme() Theme {
	return Theme{
		Panel:   rl.Color{R: 14, G: 20, B: 32, A: 225},
		Edge:    rl.Color{R: 240, G: 240, B: 250, A: 255},
		Accent:  rl.Color{R: 70, G: 140, B: 210, A: 255},
		Text:    rl.Color{R: 225, G: 230, B: 240, A: 255},
		Muted:   rl.Color{R: 120, G: 135, B: 155, A: 255},
		Warning: rl.Color{R: 230, G: 90, B: 90, A: 255},
		Track:   rl.Color{R: 32, G: 42, B: 60, A: 255},
		Phases: []rl.Color{
			{R: 70, G: 140, B: 210, A: 255},  // field
			{R: 120, G: 200, B: 170, A: 255}, // vertices
			{R: 240, G: 190, B: 90, A: 255},  // classify
			{R: 240, G: 240, B: 250, A: 255}, // contour
		},
		Gap:      8,
		Row:      17,
		Small:    12,
		Title:    14,
		BarThick: 8,
	}
}

// phaseColor returns the color for the i-th phase, cycling if the palette
// is shorter than the phase list.
func (t Theme) phaseColor(i int) rl.Color {
	if len(t.Phases) == 0 {
		return t.Accent
	}
	return t.Phases[i%len(t.Phases)]
}
