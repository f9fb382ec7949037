// Package renderer draws the metaball surface with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/camera"
	"github.com/pthm-cable/metaballs/field"
)

// SurfaceRenderer draws the triangle mesh and contour of a surface.
type SurfaceRenderer struct {
	FillColor    rl.Color
	ContourColor rl.Color
	SourceColor  rl.Color
	NegColor     rl.Color

	ShowFill     bool
	ShowContour  bool
	ShowSources  bool
	ShowWire     bool
	ContourWidth float32

	// screen holds projected vertices, reused across frames
	screen []rl.Vector2
}

// NewSurfaceRenderer creates a renderer with the default palette.
func NewSurfaceRenderer() *SurfaceRenderer {
	return &SurfaceRenderer{
		FillColor:    rl.Color{R: 70, G: 140, B: 210, A: 255},
		ContourColor: rl.Color{R: 240, G: 240, B: 250, A: 255},
		SourceColor:  rl.Color{R: 255, G: 200, B: 90, A: 120},
		NegColor:     rl.Color{R: 230, G: 90, B: 90, A: 120},
		ShowFill:     true,
		ShowContour:  true,
		ContourWidth: 2,
	}
}

// project converts the vertex buffer to screen space.
func (r *SurfaceRenderer) project(cam *camera.Camera, vertices []r2.Vec) []rl.Vector2 {
	if cap(r.screen) < len(vertices) {
		r.screen = make([]rl.Vector2, len(vertices))
	}
	r.screen = r.screen[:len(vertices)]
	for i, v := range vertices {
		x, y := cam.WorldToScreen(v)
		r.screen[i] = rl.Vector2{X: x, Y: y}
	}
	return r.screen
}

// Draw renders one frame of surface geometry. indices is a triangle list
// and contour a line list, both into vertices.
func (r *SurfaceRenderer) Draw(cam *camera.Camera, vertices []r2.Vec, indices, contour []uint32) {
	pts := r.project(cam, vertices)

	if r.ShowFill {
		for i := 0; i+2 < len(indices); i += 3 {
			// World CCW stays visually CCW after the y flip
			rl.DrawTriangle(pts[indices[i]], pts[indices[i+1]], pts[indices[i+2]], r.FillColor)
		}
	}

	if r.ShowWire {
		wire := rl.Fade(r.ContourColor, 0.25)
		for i := 0; i+2 < len(indices); i += 3 {
			rl.DrawTriangleLines(pts[indices[i]], pts[indices[i+1]], pts[indices[i+2]], wire)
		}
	}

	if r.ShowContour {
		for i := 0; i+1 < len(contour); i += 2 {
			rl.DrawLineEx(pts[contour[i]], pts[contour[i+1]], r.ContourWidth, r.ContourColor)
		}
	}
}

// DrawSource outlines a source's radius of influence.
func (r *SurfaceRenderer) DrawSource(cam *camera.Camera, center r2.Vec, f field.Falloff) {
	if !r.ShowSources || !cam.IsVisible(center, f.Radius) {
		return
	}
	color := r.SourceColor
	if f.Polarity == field.Negative {
		color = r.NegColor
	}
	x, y := cam.WorldToScreen(center)
	rl.DrawCircleLines(int32(x), int32(y), float32(f.Radius*cam.Scale()), color)
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 2, color)
}

// DrawBounds outlines the lattice extent.
func DrawBounds(cam *camera.Camera, min, max r2.Vec, color rl.Color) {
	x0, y0 := cam.WorldToScreen(r2.Vec{X: min.X, Y: max.Y})
	x1, y1 := cam.WorldToScreen(r2.Vec{X: max.X, Y: min.Y})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, color)
}
