package surface

import (
	"math"

	"github.com/pthm-cable/metaballs/field"
)

// UpdateField accumulates every registered source into the current
// generation and marks the cells each source can affect. Call BeginFrame
// first. Cell configurations read after UpdateField see the final
// potentials of the frame.
func (g *Grid) UpdateField() {
	for _, s := range g.sources {
		s.Prepare()
	}
	for _, s := range g.sources {
		g.applySource(s)
	}
}

// span is an inclusive lattice index range.
type span struct{ lo, hi int }

func (s span) empty() bool { return s.lo > s.hi }

// clip limits a float range to [0, n-1] before converting, so far away or
// huge sources never overflow int conversion.
func clip(lo, hi float64, n int) span {
	lo = math.Max(lo, 0)
	hi = math.Min(hi, float64(n-1))
	if lo > hi {
		return span{lo: 1, hi: 0}
	}
	return span{lo: int(lo), hi: int(hi)}
}

// influence returns the value point and cell ranges a source covers along
// one axis, given its lattice coordinate u and radius q in lattice steps.
// Value points are those within q of u; the falloff is zero at and beyond
// the radius, so anything outside [u-q, u+q] would only add zero.
// A value point k affects cells k-1 and k, hence the wider cell range.
func influence(u, q float64, points, cells int) (vals, cs span) {
	lo, hi := math.Ceil(u-q), math.Floor(u+q)
	return clip(lo, hi, points), clip(lo-1, hi, cells)
}

func (g *Grid) applySource(s field.Source) {
	radius := s.Radius()
	u, v := g.latticeFloat(s.Position())
	qx := radius * g.invStep.X
	qy := radius * g.invStep.Y

	if !finite(u) || !finite(v) || math.IsNaN(qx) || math.IsNaN(qy) || !(radius > 0) {
		return
	}

	valCols, cellCols := influence(u, qx, g.extCols, g.cols)
	valRows, cellRows := influence(v, qy, g.extRows, g.rows)

	if !valCols.empty() && !valRows.empty() {
		for row := valRows.lo; row <= valRows.hi; row++ {
			base := row * g.extCols
			for col := valCols.lo; col <= valCols.hi; col++ {
				i := base + col
				g.Accumulate(i, s.PotentialAt(g.values[i].pos))
			}
		}
	}

	if cellCols.empty() || cellRows.empty() {
		return
	}
	for row := cellRows.lo; row <= cellRows.hi; row++ {
		base := row * g.cols
		for col := cellCols.lo; col <= cellCols.hi; col++ {
			g.touchCell(base + col)
		}
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
