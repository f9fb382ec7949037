// Falloff preview tool - interactive view of two blobs merging, with sliders.
//
// Usage: go run ./cmd/potentialpreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/camera"
	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/mesh"
	"github.com/pthm-cable/metaballs/renderer"
	"github.com/pthm-cable/metaballs/surface"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	texSize      = 256
	worldExtent  = 8.0
)

// PreviewParams holds the blob and surface parameters.
type PreviewParams struct {
	Radius     float32
	Power      int
	Separation float32
	Threshold  float32
	Negative   bool // second blob subtracts
}

func defaultParams() PreviewParams {
	return PreviewParams{
		Radius:     1.8,
		Power:      2,
		Separation: 2.5,
		Threshold:  0.5,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Falloff Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	grid, err := surface.Build(surface.Settings{
		Resolution:       [2]int{64, 64},
		Extent:           r2.Vec{X: worldExtent, Y: worldExtent},
		IsoThreshold:     float64(params.Threshold),
		InterpolateEdges: true,
	})
	if err != nil {
		slog.Error("building grid", "error", err)
		os.Exit(1)
	}
	a, _ := field.NewSphere(r2.Vec{}, falloff(params, field.Positive))
	b, _ := field.NewSphere(r2.Vec{}, falloff(params, field.Positive))
	grid.AddSource(a)
	grid.AddSource(b)
	asm := mesh.New(grid, mesh.Options{FillInterior: true})

	half := r2.Vec{X: worldExtent / 2, Y: worldExtent / 2}
	cam := camera.New(previewSize, previewSize, r2.Scale(-1, half), half)
	view := renderer.NewSurfaceRenderer()
	view.ShowFill = false
	view.ContourColor = rl.White

	img := rl.GenImageColor(texSize, texSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, texSize*texSize)

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			pol := field.Positive
			if params.Negative {
				pol = field.Negative
			}
			a.Falloff = falloff(params, field.Positive)
			b.Falloff = falloff(params, pol)
			a.Move(r2.Vec{X: -float64(params.Separation) / 2})
			b.Move(r2.Vec{X: float64(params.Separation) / 2})
			if err := grid.SetIsoThreshold(float64(params.Threshold)); err != nil {
				slog.Warn("threshold rejected", "error", err)
			}
			asm.Rebuild()

			fillPotential(pixels, []*field.Sphere{a, b}, params.Threshold)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Field preview with the extracted contour on top
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: texSize, Height: texSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rlPushOffset(10, 10, func() {
			view.Draw(cam, asm.Vertices(), asm.Indices(), asm.Contour())
		})
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		stats := asm.Stats()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Triangles: %d  Contour segments: %d", stats.Triangles, stats.ContourSegments), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Peak: %.3f", peak(params)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Falloff Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, lo, hi string, value, min, max float32, format string) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX + 30, Y: panelY, Width: float32(panelWidth - 110), Height: 20},
				lo, hi, value, min, max,
			)
			rl.DrawText(fmt.Sprintf(format, v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Radius (influence distance)", "0.2", "4", params.Radius, 0.2, 4, "%.2f"); v != params.Radius {
			params.Radius = v
			needsRegen = true
		}
		if v := int(slider("Power (falloff sharpness)", "1", "6", float32(params.Power), 1, 6, "%.0f")); v != params.Power {
			params.Power = v
			needsRegen = true
		}
		if v := slider("Separation (blob distance)", "0", "6", params.Separation, 0, 6, "%.2f"); v != params.Separation {
			params.Separation = v
			needsRegen = true
		}
		if v := slider("Iso threshold", "0.05", "1.5", params.Threshold, 0.05, 1.5, "%.2f"); v != params.Threshold {
			params.Threshold = v
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Negative, "Make Positive", "Make Negative")) {
			params.Negative = !params.Negative
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func falloff(p PreviewParams, pol field.Polarity) field.Falloff {
	return field.Falloff{Radius: float64(p.Radius), Power: p.Power, Polarity: pol}
}

// peak is the summed field value halfway between the blobs.
func peak(p PreviewParams) float64 {
	pol := field.Positive
	if p.Negative {
		pol = field.Negative
	}
	offset := r2.Vec{X: float64(p.Separation) / 2}
	return falloff(p, field.Positive).At(r2.Scale(-1, offset), r2.Vec{}) +
		falloff(p, pol).At(offset, r2.Vec{})
}

func yamlLines(p PreviewParams) []string {
	pol := "positive"
	if p.Negative {
		pol = "negative"
	}
	return []string{
		"surface:",
		fmt.Sprintf("  iso_threshold: %.2f", p.Threshold),
		"scene:",
		"  sources:",
		fmt.Sprintf("    - {x: %.2f, y: 0, radius: %.2f, power: %d, polarity: positive}", -p.Separation/2, p.Radius, p.Power),
		fmt.Sprintf("    - {x: %.2f, y: 0, radius: %.2f, power: %d, polarity: %s}", p.Separation/2, p.Radius, p.Power, pol),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// rlPushOffset draws fn translated by (x, y) screen pixels.
func rlPushOffset(x, y float32, fn func()) {
	rl.BeginMode2D(rl.Camera2D{Offset: rl.Vector2{X: x, Y: y}, Zoom: 1})
	fn()
	rl.EndMode2D()
}

// fillPotential samples the summed field of the sources into pixels. Rows
// run top to bottom, so world Y is flipped.
func fillPotential(pixels []color.RGBA, sources []*field.Sphere, threshold float32) {
	step := worldExtent / float64(texSize)
	for row := 0; row < texSize; row++ {
		y := worldExtent/2 - (float64(row)+0.5)*step
		for col := 0; col < texSize; col++ {
			p := r2.Vec{X: -worldExtent/2 + (float64(col)+0.5)*step, Y: y}
			var v float64
			for _, s := range sources {
				v += s.Falloff.At(s.Center, p)
			}
			pixels[row*texSize+col] = shade(float32(v), threshold)
		}
	}
}

// shade maps a potential to a color: blue below the threshold, warm above.
func shade(v, threshold float32) color.RGBA {
	if v < 0 {
		t := clamp01(-v)
		return color.RGBA{R: uint8(40 + t*160), G: 20, B: 30, A: 255}
	}
	if v < threshold {
		t := v / threshold
		return color.RGBA{R: uint8(10 + t*30), G: uint8(20 + t*100), B: uint8(60 + t*140), A: 255}
	}
	t := clamp01((v - threshold) / threshold)
	return color.RGBA{R: uint8(200 + t*55), G: uint8(160 + t*80), B: uint8(50 + t*150), A: 255}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
