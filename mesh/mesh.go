// Package mesh turns a surface grid into renderable buffers once per frame.
package mesh

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/march"
	"github.com/pthm-cable/metaballs/surface"
	"github.com/pthm-cable/metaballs/telemetry"
)

// Options controls what the assembler emits.
type Options struct {
	// FillInterior triangulates fully active cells as a quad. Without it
	// only boundary cells produce geometry.
	FillInterior bool
}

// FrameStats summarizes one Rebuild.
type FrameStats struct {
	Frame              uint64
	Sources            int
	TouchedCells       int
	DirtyControlPoints int
	ActiveCells        int
	Triangles          int
	ContourSegments    int

	// Duration is the rebuild time, set only when a collector is attached.
	Duration time.Duration
}

// Record converts the stats to a telemetry row.
func (s FrameStats) Record() telemetry.FrameRecord {
	return telemetry.FrameRecord{
		Frame:              s.Frame,
		Sources:            s.Sources,
		TouchedCells:       s.TouchedCells,
		DirtyControlPoints: s.DirtyControlPoints,
		ActiveCells:        s.ActiveCells,
		Triangles:          s.Triangles,
		ContourSegments:    s.ContourSegments,
	}.WithDuration(s.Duration)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frame", s.Frame),
		slog.Int("sources", s.Sources),
		slog.Int("touched_cells", s.TouchedCells),
		slog.Int("triangles", s.Triangles),
		slog.Int("contour_segments", s.ContourSegments),
	)
}

// Assembler owns the index and contour buffers built from a grid.
// Buffers are truncated and refilled on every Rebuild, never reallocated
// once they have grown to the working size.
type Assembler struct {
	grid *surface.Grid
	opts Options
	perf *telemetry.PerfCollector

	vertices []r2.Vec
	indices  []uint32
	contour  []uint32
	configs  []uint8

	frame uint64
	stats FrameStats
}

// New creates an assembler for grid. The grid is not modified until the
// first Rebuild.
func New(grid *surface.Grid, opts Options) *Assembler {
	return &Assembler{
		grid: grid,
		opts: opts,
	}
}

// SetOptions replaces the options. They apply from the next Rebuild.
func (a *Assembler) SetOptions(opts Options) { a.opts = opts }

// Options returns the current options.
func (a *Assembler) Options() Options { return a.opts }

// SetPerf attaches a collector that times each Rebuild phase. Nil detaches.
func (a *Assembler) SetPerf(p *telemetry.PerfCollector) { a.perf = p }

// Grid returns the grid the assembler reads from.
func (a *Assembler) Grid() *surface.Grid { return a.grid }

func (a *Assembler) phase(name string) {
	if a.perf != nil {
		a.perf.StartPhase(name)
	}
}

// Rebuild runs one frame: the field is cleared and re-accumulated from all
// registered sources, dirty control points are refreshed, and every cell is
// classified into the index and contour buffers in row-major order.
func (a *Assembler) Rebuild() FrameStats {
	g := a.grid
	a.frame++
	stats := FrameStats{Frame: a.frame, Sources: len(g.Sources())}

	if a.perf != nil {
		a.perf.StartFrame()
	}

	// Every source must be accumulated before any cell is classified.
	a.phase(telemetry.PhaseField)
	g.BeginFrame()
	g.UpdateField()
	stats.TouchedCells = len(g.TouchedCells())

	a.phase(telemetry.PhaseVertices)
	stats.DirtyControlPoints = len(g.DirtyControlPoints())
	a.vertices = g.Vertices()

	a.phase(telemetry.PhaseClassify)
	n := g.CellCount()
	if cap(a.configs) < n {
		a.configs = make([]uint8, n)
	}
	a.configs = a.configs[:n]
	a.indices = a.indices[:0]
	for cell := 0; cell < n; cell++ {
		config := g.CellConfiguration(cell)
		a.configs[cell] = config
		if config == march.FullyOutside {
			continue
		}
		stats.ActiveCells++

		tris := march.Triangles(config)
		if config == march.FullyInside && a.opts.FillInterior {
			tris = interiorTriangles
		}
		pts := g.CellPoints(cell)
		for _, local := range tris {
			a.indices = append(a.indices, pts[local])
		}
	}
	stats.Triangles = len(a.indices) / 3

	a.phase(telemetry.PhaseContour)
	a.contour = a.contour[:0]
	for cell, config := range a.configs {
		edges := march.Contour(config)
		if len(edges) == 0 {
			continue
		}
		pts := g.CellPoints(cell)
		for _, e := range edges {
			a.contour = append(a.contour, pts[e.From], pts[e.To])
		}
	}
	stats.ContourSegments = len(a.contour) / 2

	if a.perf != nil {
		stats.Duration = a.perf.EndFrame()
	}

	a.stats = stats
	return stats
}

var interiorTriangles = march.Triangulate(march.Interior)

// Vertices returns the vertex buffer from the last Rebuild: value point
// positions followed by control point positions.
func (a *Assembler) Vertices() []r2.Vec { return a.vertices }

// Indices returns the triangle list from the last Rebuild. Triangles are
// counter-clockwise in world space.
func (a *Assembler) Indices() []uint32 { return a.indices }

// Contour returns the iso-line as a line list of vertex indices. Each
// segment is directed with the inside of the surface on its left.
func (a *Assembler) Contour() []uint32 { return a.contour }

// Stats returns the stats of the last Rebuild.
func (a *Assembler) Stats() FrameStats { return a.stats }

// Frame returns the number of completed Rebuild calls.
func (a *Assembler) Frame() uint64 { return a.frame }
