package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/field"
)

// Potential returns the accumulated potential of a value point for the
// current frame. Points not written since BeginFrame read as zero.
func (g *Grid) Potential(i int) float64 {
	vp := &g.values[i]
	if vp.generation != g.generation {
		return 0
	}
	return vp.potential
}

// Active reports whether a value point is inside the surface.
func (g *Grid) Active(i int) bool {
	return g.Potential(i) >= g.settings.IsoThreshold
}

// ValuePointPosition returns the fixed world position of a value point.
func (g *Grid) ValuePointPosition(i int) r2.Vec {
	return g.values[i].pos
}

// ValuePointIndex returns the index of the value point at a lattice
// coordinate, or false when it is outside the lattice.
func (g *Grid) ValuePointIndex(col, row int) (int, bool) {
	if col < 0 || row < 0 || col >= g.extCols || row >= g.extRows {
		return 0, false
	}
	return g.valueIndex(col, row), true
}

// CellIndex returns the index of the cell at a cell coordinate, or false
// when it is outside the grid.
func (g *Grid) CellIndex(col, row int) (int, bool) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0, false
	}
	return g.cellIndex(col, row), true
}

// ControlPointValid reports whether both ends of a control point lie on
// the lattice.
func (g *Grid) ControlPointValid(i int) bool {
	return g.controls[i].valid()
}

// ControlPointEnds returns the value point indices bounding a control point.
func (g *Grid) ControlPointEnds(i int) (start, end int, ok bool) {
	cp := g.controls[i]
	return int(cp.start), int(cp.end), cp.valid()
}

// ControlPointPosition computes a control point's position from the
// current field. Reading an invalid control point is a programming error
// and panics.
func (g *Grid) ControlPointPosition(i int) r2.Vec {
	if !g.controls[i].valid() {
		panic(fmt.Sprintf("surface: read of invalid control point %d", i))
	}
	return g.controlPosition(i)
}

func (g *Grid) controlPosition(i int) r2.Vec {
	cp := g.controls[i]
	start := g.values[cp.start].pos
	end := g.values[cp.end].pos

	t := 0.5
	if g.settings.InterpolateEdges {
		t = field.InverseLerp(g.Potential(int(cp.start)), g.Potential(int(cp.end)), g.settings.IsoThreshold)
	}
	return field.Lerp(start, end, t)
}

// LatticeCoord returns the nearest value point coordinate to a world
// position. The result may lie outside the lattice.
func (g *Grid) LatticeCoord(p r2.Vec) (col, row int) {
	u, v := g.latticeFloat(p)
	return int(math.Round(u)), int(math.Round(v))
}

func (g *Grid) latticeFloat(p r2.Vec) (u, v float64) {
	d := r2.Sub(p, g.origin)
	return d.X * g.invStep.X, d.Y * g.invStep.Y
}
