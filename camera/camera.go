// Package camera maps the y-up surface world onto the y-down screen.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera controls the viewport into the surface world.
// Supports pan and zoom; world Y grows upward, screen Y downward.
type Camera struct {
	// Center is the camera center in world coordinates
	Center r2.Vec

	// Zoom level relative to the fit scale (1.0 = whole world visible)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World bounds (pan limits and fit reference)
	Min, Max r2.Vec

	// Zoom constraints
	MinZoom, MaxZoom float64

	// fit is pixels per world unit at Zoom 1
	fit float64
}

// New creates a camera that fits the world bounds into the viewport.
func New(viewportW, viewportH float32, min, max r2.Vec) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Min:       min,
		Max:       max,
		MinZoom:   0.5,
		MaxZoom:   8.0,
	}
	c.computeFit()
	c.Reset()
	return c
}

func (c *Camera) computeFit() {
	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	if w <= 0 || h <= 0 {
		c.fit = 1
		return
	}
	c.fit = math.Min(float64(c.ViewportW)/w, float64(c.ViewportH)/h)
}

// Scale returns pixels per world unit at the current zoom.
func (c *Camera) Scale() float64 { return c.fit * c.Zoom }

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + float32((p.X-c.Center.X)*s)
	sy = c.ViewportH/2 - float32((p.Y-c.Center.Y)*s)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	s := c.Scale()
	return r2.Vec{
		X: c.Center.X + float64(sx-c.ViewportW/2)/s,
		Y: c.Center.Y - float64(sy-c.ViewportH/2)/s,
	}
}

// IsVisible returns true if a circle at p with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return p.X+radius >= minX && p.X-radius <= maxX &&
		p.Y+radius >= minY && p.Y-radius <= maxY
}

// Resize updates viewport dimensions and the fit scale.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.computeFit()
}

// Pan moves the camera by the given delta in screen pixels.
// The center stays inside the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.Center.X = clamp(c.Center.X+float64(dx)/s, c.Min.X, c.Max.X)
	c.Center.Y = clamp(c.Center.Y-float64(dy)/s, c.Min.Y, c.Max.Y)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the world at the fit zoom.
func (c *Camera) Reset() {
	c.Center = r2.Scale(0.5, r2.Add(c.Min, c.Max))
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	s := c.Scale()
	halfW := float64(c.ViewportW) / (2 * s)
	halfH := float64(c.ViewportH) / (2 * s)

	minX = c.Center.X - halfW
	maxX = c.Center.X + halfW
	minY = c.Center.Y - halfH
	maxY = c.Center.Y + halfH
	return
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
