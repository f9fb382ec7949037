package scene

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/field"
)

// Position is a blob's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Velocity is a blob's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Blob links an entity to the source registered with the grid.
type Blob struct {
	Source *field.Sphere
	Phase  float64 // Noise offset so blobs drift independently
}
