// Package surface maintains the scalar lattice behind a metaball surface.
//
// A Grid owns every value point, control point and cell in flat arrays.
// Value points sit on the extended lattice (one more column and row than
// there are cells) and are indexed row*extCols + col. Each value point owns
// two control points: 2*i is the vertical edge to the point above, 2*i+1 the
// horizontal edge to the point on the right. Cells are indexed row*cols + col.
//
// Field state is cleared lazily: BeginFrame bumps a generation counter and
// any value point stamped with an older generation reads as zero.
package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/march"
)

// Configuration errors returned by Settings.Validate.
var (
	ErrInvalidResolution = errors.New("resolution must be positive on both axes")
	ErrInvalidExtent     = errors.New("extent must be positive on both axes")
	ErrInvalidThreshold  = errors.New("iso threshold must be positive")
)

// Settings configures a grid.
type Settings struct {
	// Resolution is the number of cells along X and Y.
	Resolution [2]int
	// Center and Extent place the lattice in world space.
	Center r2.Vec
	Extent r2.Vec
	// IsoThreshold is the field level of the surface. Points at or above
	// it are active.
	IsoThreshold float64
	// InterpolateEdges places control points at the interpolated iso
	// crossing instead of the edge midpoint.
	InterpolateEdges bool
}

// Validate reports configuration errors.
func (s Settings) Validate() error {
	if s.Resolution[0] <= 0 || s.Resolution[1] <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, s.Resolution[0], s.Resolution[1])
	}
	if !(s.Extent.X > 0) || !(s.Extent.Y > 0) || math.IsInf(s.Extent.X, 0) || math.IsInf(s.Extent.Y, 0) {
		return fmt.Errorf("%w: got %gx%g", ErrInvalidExtent, s.Extent.X, s.Extent.Y)
	}
	if !(s.IsoThreshold > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidThreshold, s.IsoThreshold)
	}
	return nil
}

// sameTopology reports whether two settings produce the same lattice.
func (s Settings) sameTopology(o Settings) bool {
	return s.Resolution == o.Resolution && s.Center == o.Center && s.Extent == o.Extent
}

type valuePoint struct {
	pos        r2.Vec
	potential  float64
	generation uint32
}

// controlPoint lies on the lattice edge from start to end. Either index is
// -1 when the edge leaves the lattice.
type controlPoint struct {
	start, end int32
}

func (c controlPoint) valid() bool {
	return c.start >= 0 && c.end >= 0
}

// Grid is the scalar lattice plus its derived control points and cells.
type Grid struct {
	settings Settings

	cols, rows       int
	extCols, extRows int
	origin           r2.Vec
	step             r2.Vec
	invStep          r2.Vec

	values   []valuePoint
	controls []controlPoint

	// cellPoints maps each cell's local point index to its index in the
	// shared vertex buffer (control points offset by len(values)).
	cellPoints [][march.LocalPoints]uint32

	generation uint32

	// Cells touched by a source this frame, deduplicated by cellStamp.
	touched   []int32
	cellStamp []uint32

	// Control points whose vertex needs recomputing.
	dirty     []int32
	dirtyMark []bool

	vertices []r2.Vec

	sources []field.Source
}

// Build allocates a grid for the given settings.
func Build(s Settings) (*Grid, error) {
	g := &Grid{}
	if err := g.Rebuild(s); err != nil {
		return nil, err
	}
	return g, nil
}

// Rebuild reallocates the lattice for new settings. All field state is
// discarded; registered sources are kept.
func (g *Grid) Rebuild(s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("building grid: %w", err)
	}

	g.settings = s
	g.cols, g.rows = s.Resolution[0], s.Resolution[1]
	g.extCols, g.extRows = g.cols+1, g.rows+1
	g.origin = r2.Sub(s.Center, r2.Scale(0.5, s.Extent))
	g.step = r2.Vec{X: s.Extent.X / float64(g.cols), Y: s.Extent.Y / float64(g.rows)}
	g.invStep = r2.Vec{X: float64(g.cols) / s.Extent.X, Y: float64(g.rows) / s.Extent.Y}
	g.generation = 0

	nValues := g.extCols * g.extRows
	nCells := g.cols * g.rows

	g.values = make([]valuePoint, nValues)
	g.controls = make([]controlPoint, 2*nValues)
	g.cellPoints = make([][march.LocalPoints]uint32, nCells)
	g.cellStamp = make([]uint32, nCells)
	g.touched = make([]int32, 0, nCells)
	g.dirtyMark = make([]bool, len(g.controls))
	g.dirty = make([]int32, 0, len(g.controls))
	g.vertices = make([]r2.Vec, nValues+len(g.controls))

	invRes := r2.Vec{X: 1 / float64(g.cols), Y: 1 / float64(g.rows)}
	for row := 0; row < g.extRows; row++ {
		for col := 0; col < g.extCols; col++ {
			i := g.valueIndex(col, row)
			rel := r2.Vec{X: float64(col) * invRes.X, Y: float64(row) * invRes.Y}
			g.values[i].pos = r2.Add(g.origin, r2.Vec{X: rel.X * s.Extent.X, Y: rel.Y * s.Extent.Y})
			g.vertices[i] = g.values[i].pos

			g.controls[2*i] = g.newControlPoint(col, row, 0, 1)
			g.controls[2*i+1] = g.newControlPoint(col, row, 1, 0)
		}
	}

	off := uint32(nValues)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			bl := g.valueIndex(col, row)
			br := g.valueIndex(col+1, row)
			tr := g.valueIndex(col+1, row+1)
			tl := g.valueIndex(col, row+1)

			g.cellPoints[g.cellIndex(col, row)] = [march.LocalPoints]uint32{
				uint32(bl),
				off + uint32(2*bl+1), // bottom: horizontal from BL
				uint32(br),
				off + uint32(2*br), // right: vertical from BR
				uint32(tr),
				off + uint32(2*tl+1), // top: horizontal from TL
				uint32(tl),
				off + uint32(2*bl), // left: vertical from BL
			}
		}
	}

	g.markAllDirty()

	slog.Debug("grid built",
		"cols", g.cols,
		"rows", g.rows,
		"value_points", nValues,
		"control_points", len(g.controls),
		"cells", nCells,
	)
	return nil
}

func (g *Grid) newControlPoint(col, row, dc, dr int) controlPoint {
	start := int32(g.valueIndex(col, row))
	end := int32(-1)
	if col+dc < g.extCols && row+dr < g.extRows {
		end = int32(g.valueIndex(col+dc, row+dr))
	}
	if end < 0 {
		start = -1
	}
	return controlPoint{start: start, end: end}
}

func (g *Grid) valueIndex(col, row int) int {
	return row*g.extCols + col
}

func (g *Grid) cellIndex(col, row int) int {
	return row*g.cols + col
}

// Settings returns the settings the grid was built with, including any
// threshold or interpolation changes since.
func (g *Grid) Settings() Settings { return g.settings }

// Resolution returns the number of cells along X and Y.
func (g *Grid) Resolution() (cols, rows int) { return g.cols, g.rows }

// CellCount returns the number of cells.
func (g *Grid) CellCount() int { return len(g.cellPoints) }

// ValuePointCount returns the number of lattice value points.
func (g *Grid) ValuePointCount() int { return len(g.values) }

// ControlPointCount returns the number of control point slots, valid or not.
func (g *Grid) ControlPointCount() int { return len(g.controls) }

// Step returns the world distance between neighbouring value points.
func (g *Grid) Step() r2.Vec { return g.step }

// Generation returns the current frame generation.
func (g *Grid) Generation() uint32 { return g.generation }

// SetIsoThreshold changes the surface level. Every control point is
// refreshed on the next Vertices call.
func (g *Grid) SetIsoThreshold(v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidThreshold, v)
	}
	if v == g.settings.IsoThreshold {
		return nil
	}
	g.settings.IsoThreshold = v
	g.markAllDirty()
	return nil
}

// SetInterpolateEdges toggles edge interpolation. Every control point is
// refreshed on the next Vertices call.
func (g *Grid) SetInterpolateEdges(on bool) {
	if on == g.settings.InterpolateEdges {
		return
	}
	g.settings.InterpolateEdges = on
	g.markAllDirty()
}

// Apply updates the grid to new settings, rebuilding the lattice only when
// resolution, center or extent changed.
func (g *Grid) Apply(s Settings) error {
	if !s.sameTopology(g.settings) {
		return g.Rebuild(s)
	}
	if err := g.SetIsoThreshold(s.IsoThreshold); err != nil {
		return err
	}
	g.SetInterpolateEdges(s.InterpolateEdges)
	return nil
}

// BeginFrame starts a new field generation. Potentials from earlier frames
// read as zero from now on. Cells touched last frame are queued for a
// control point refresh so the vertex buffer follows the cleared field.
func (g *Grid) BeginFrame() {
	for _, c := range g.touched {
		g.markCellDirty(int(c))
	}
	g.touched = g.touched[:0]

	g.generation++
	if g.generation == 0 {
		// Wrapped: stale stamps could now look current.
		for i := range g.values {
			g.values[i].generation = 0
			g.values[i].potential = 0
		}
		for i := range g.cellStamp {
			g.cellStamp[i] = 0
		}
		g.generation = 1
	}
}

// Accumulate adds delta to a value point's potential for this frame.
// A zero delta leaves the point untouched. i must be a valid value point
// index; callers clip to the lattice first.
func (g *Grid) Accumulate(i int, delta float64) {
	if delta == 0 {
		return
	}
	vp := &g.values[i]
	if vp.generation != g.generation {
		vp.potential = 0
		vp.generation = g.generation
	}
	vp.potential += delta
}

// touchCell records a cell as affected this frame and dirties its control
// points.
func (g *Grid) touchCell(c int) {
	if g.cellStamp[c] == g.generation {
		return
	}
	g.cellStamp[c] = g.generation
	g.touched = append(g.touched, int32(c))
	g.markCellDirty(c)
}

func (g *Grid) markCellDirty(c int) {
	off := uint32(len(g.values))
	pts := &g.cellPoints[c]
	for edge := 0; edge < march.Corners; edge++ {
		g.markDirty(int(pts[2*edge+1] - off))
	}
}

func (g *Grid) markDirty(cp int) {
	if g.dirtyMark[cp] {
		return
	}
	g.dirtyMark[cp] = true
	g.dirty = append(g.dirty, int32(cp))
}

func (g *Grid) markAllDirty() {
	for i, cp := range g.controls {
		if cp.valid() {
			g.markDirty(i)
		}
	}
}

// TouchedCells returns the cells touched by a source since BeginFrame.
// The slice is reused across frames.
func (g *Grid) TouchedCells() []int32 { return g.touched }

// DirtyControlPoints returns the control points waiting for a refresh.
// The slice is reused across frames.
func (g *Grid) DirtyControlPoints() []int32 { return g.dirty }

// Vertices returns the shared vertex buffer: value point positions
// followed by control point positions. Dirty control points are
// recomputed first and the dirty set is cleared. Invalid control points
// keep the zero vector. The slice is owned by the grid and stays valid
// until the next call or Rebuild.
func (g *Grid) Vertices() []r2.Vec {
	off := len(g.values)
	for _, cp := range g.dirty {
		g.dirtyMark[cp] = false
		if g.controls[cp].valid() {
			g.vertices[off+int(cp)] = g.controlPosition(int(cp))
		}
	}
	g.dirty = g.dirty[:0]
	return g.vertices
}

// CellConfiguration packs the activity of a cell's corners into a 4-bit
// code, corner 0 in the least significant bit.
func (g *Grid) CellConfiguration(cell int) uint8 {
	pts := &g.cellPoints[cell]
	var config uint8
	for corner := 0; corner < march.Corners; corner++ {
		if g.Active(int(pts[2*corner])) {
			config |= 1 << corner
		}
	}
	return config
}

// CellPoints returns the vertex buffer index of each local point of a cell.
func (g *Grid) CellPoints(cell int) *[march.LocalPoints]uint32 {
	return &g.cellPoints[cell]
}

// LocalToWorldValue maps a cell corner (0..3) to its value point index.
func (g *Grid) LocalToWorldValue(cell, corner int) int {
	return int(g.cellPoints[cell][2*corner])
}

// LocalToWorldControl maps a cell edge (0..3) to its control point index.
func (g *Grid) LocalToWorldControl(cell, edge int) int {
	return int(g.cellPoints[cell][2*edge+1]) - len(g.values)
}

// LocalToWorldPoint maps a local point (0..7) to its vertex buffer index.
func (g *Grid) LocalToWorldPoint(cell, local int) int {
	return int(g.cellPoints[cell][local])
}
