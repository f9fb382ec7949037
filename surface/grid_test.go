package surface

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/march"
)

func testSettings(cols, rows int, extent r2.Vec) Settings {
	return Settings{
		Resolution:       [2]int{cols, rows},
		Center:           r2.Vec{},
		Extent:           extent,
		IsoThreshold:     0.5,
		InterpolateEdges: true,
	}
}

func mustBuild(t testing.TB, s Settings) *Grid {
	t.Helper()
	g, err := Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildRejectsBadSettings(t *testing.T) {
	base := testSettings(4, 4, r2.Vec{X: 2, Y: 2})

	tests := []struct {
		name   string
		modify func(*Settings)
		want   error
	}{
		{"zero cols", func(s *Settings) { s.Resolution[0] = 0 }, ErrInvalidResolution},
		{"negative rows", func(s *Settings) { s.Resolution[1] = -3 }, ErrInvalidResolution},
		{"zero extent", func(s *Settings) { s.Extent.X = 0 }, ErrInvalidExtent},
		{"infinite extent", func(s *Settings) { s.Extent.Y = math.Inf(1) }, ErrInvalidExtent},
		{"zero threshold", func(s *Settings) { s.IsoThreshold = 0 }, ErrInvalidThreshold},
		{"negative threshold", func(s *Settings) { s.IsoThreshold = -0.5 }, ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.modify(&s)
			g, err := Build(s)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
			if g != nil {
				t.Error("expected nil grid on error")
			}
		})
	}
}

func TestBuildSizes(t *testing.T) {
	g := mustBuild(t, testSettings(3, 2, r2.Vec{X: 3, Y: 2}))

	if cols, rows := g.Resolution(); cols != 3 || rows != 2 {
		t.Errorf("Resolution() = %dx%d, want 3x2", cols, rows)
	}
	if got := g.ValuePointCount(); got != 12 {
		t.Errorf("ValuePointCount() = %d, want 12", got)
	}
	if got := g.ControlPointCount(); got != 24 {
		t.Errorf("ControlPointCount() = %d, want 24", got)
	}
	if got := g.CellCount(); got != 6 {
		t.Errorf("CellCount() = %d, want 6", got)
	}
	if got := len(g.Vertices()); got != 36 {
		t.Errorf("len(Vertices()) = %d, want 36", got)
	}
	if step := g.Step(); step != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("Step() = %v, want (1, 1)", step)
	}
}

func TestValuePointPositions(t *testing.T) {
	s := testSettings(4, 2, r2.Vec{X: 8, Y: 2})
	s.Center = r2.Vec{X: 10, Y: -3}
	g := mustBuild(t, s)

	tests := []struct {
		col, row int
		want     r2.Vec
	}{
		{0, 0, r2.Vec{X: 6, Y: -4}},
		{4, 0, r2.Vec{X: 14, Y: -4}},
		{4, 2, r2.Vec{X: 14, Y: -2}},
		{2, 1, r2.Vec{X: 10, Y: -3}},
		{1, 2, r2.Vec{X: 8, Y: -2}},
	}

	for _, tt := range tests {
		i, ok := g.ValuePointIndex(tt.col, tt.row)
		if !ok {
			t.Fatalf("ValuePointIndex(%d, %d) out of range", tt.col, tt.row)
		}
		if got := g.ValuePointPosition(i); got != tt.want {
			t.Errorf("position of (%d, %d) = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}

	if _, ok := g.ValuePointIndex(5, 0); ok {
		t.Error("expected (5, 0) to be outside the lattice")
	}
	if _, ok := g.CellIndex(4, 0); ok {
		t.Error("expected cell (4, 0) to be outside the grid")
	}
}

func TestCellIndexTables(t *testing.T) {
	g := mustBuild(t, testSettings(3, 2, r2.Vec{X: 3, Y: 2}))

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			cell, _ := g.CellIndex(col, row)

			bl, _ := g.ValuePointIndex(col, row)
			br, _ := g.ValuePointIndex(col+1, row)
			tr, _ := g.ValuePointIndex(col+1, row+1)
			tl, _ := g.ValuePointIndex(col, row+1)
			corners := [march.Corners]int{bl, br, tr, tl}

			for corner, want := range corners {
				if got := g.LocalToWorldValue(cell, corner); got != want {
					t.Errorf("cell %d corner %d = %d, want %d", cell, corner, got, want)
				}
				if got := g.LocalToWorldPoint(cell, 2*corner); got != want {
					t.Errorf("cell %d local %d = %d, want %d", cell, 2*corner, got, want)
				}
			}

			// Each edge's control point spans the two corners it sits between
			for edge := 0; edge < march.Corners; edge++ {
				cp := g.LocalToWorldControl(cell, edge)
				start, end, ok := g.ControlPointEnds(cp)
				if !ok {
					t.Fatalf("cell %d edge %d references invalid control point %d", cell, edge, cp)
				}
				a, b := corners[edge], corners[(edge+1)%march.Corners]
				if !(start == a && end == b) && !(start == b && end == a) {
					t.Errorf("cell %d edge %d spans (%d, %d), want {%d, %d}", cell, edge, start, end, a, b)
				}
				if got := g.LocalToWorldPoint(cell, 2*edge+1); got != cp+g.ValuePointCount() {
					t.Errorf("cell %d local %d = %d, want %d", cell, 2*edge+1, got, cp+g.ValuePointCount())
				}
			}
		}
	}
}

func TestInvalidControlPoints(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))

	invalid := 0
	for i := 0; i < g.ControlPointCount(); i++ {
		if !g.ControlPointValid(i) {
			invalid++
		}
	}
	// Vertical edges off the top row and horizontal edges off the right column
	if invalid != 6 {
		t.Errorf("%d invalid control points, want 6", invalid)
	}

	// No cell references an invalid control point
	for cell := 0; cell < g.CellCount(); cell++ {
		for edge := 0; edge < march.Corners; edge++ {
			if cp := g.LocalToWorldControl(cell, edge); !g.ControlPointValid(cp) {
				t.Errorf("cell %d edge %d references invalid control point %d", cell, edge, cp)
			}
		}
	}

	// Invalid slots stay at the origin in the vertex buffer
	verts := g.Vertices()
	for i := 0; i < g.ControlPointCount(); i++ {
		if !g.ControlPointValid(i) && verts[g.ValuePointCount()+i] != (r2.Vec{}) {
			t.Errorf("invalid control point %d at %v, want zero", i, verts[g.ValuePointCount()+i])
		}
	}
}

func TestInvalidControlPointReadPanics(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))

	top, _ := g.ValuePointIndex(0, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic reading invalid control point")
		}
	}()
	g.ControlPointPosition(2 * top) // vertical edge leaves the lattice
}

func TestAccumulateZeroIsNoop(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))
	g.BeginFrame()

	g.Accumulate(4, 0.7)
	stamp := g.values[4].generation

	g.Accumulate(4, 0)
	if got := g.Potential(4); got != 0.7 {
		t.Errorf("potential after zero delta = %v, want 0.7", got)
	}
	if !g.Active(4) {
		t.Error("expected point to stay active")
	}
	if g.values[4].generation != stamp {
		t.Error("zero delta changed the generation stamp")
	}

	// A stale point is not restamped by a zero delta either
	g.BeginFrame()
	g.Accumulate(4, 0)
	if g.values[4].generation != stamp {
		t.Error("zero delta restamped a stale point")
	}
	if got := g.Potential(4); got != 0 {
		t.Errorf("stale potential = %v, want 0", got)
	}
}

func TestLazyClear(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))

	g.BeginFrame()
	g.Accumulate(0, 0.3)
	g.Accumulate(0, 0.4)
	if got := g.Potential(0); math.Abs(got-0.7) > 1e-12 {
		t.Fatalf("potential = %v, want 0.7", got)
	}

	g.BeginFrame()
	if got := g.Potential(0); got != 0 {
		t.Errorf("potential after BeginFrame = %v, want 0", got)
	}
	if g.values[0].potential == 0 {
		t.Error("expected stored value to remain until rewritten")
	}

	// First write of the new frame starts from zero
	g.Accumulate(0, 0.2)
	if got := g.Potential(0); got != 0.2 {
		t.Errorf("potential after rewrite = %v, want 0.2", got)
	}
}

func TestActiveThresholdBoundary(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))
	g.BeginFrame()

	g.Accumulate(0, 0.5)
	if !g.Active(0) {
		t.Error("potential equal to threshold must be active")
	}

	g.Accumulate(1, math.Nextafter(0.5, 0))
	if g.Active(1) {
		t.Error("potential just below threshold must be inactive")
	}

	g.Accumulate(2, -3)
	if g.Active(2) {
		t.Error("negative potential must be inactive")
	}
}

func TestCellConfiguration(t *testing.T) {
	g := mustBuild(t, testSettings(1, 1, r2.Vec{X: 1, Y: 1}))

	for config := uint8(0); config < march.Configurations; config++ {
		g.BeginFrame()
		for corner := 0; corner < march.Corners; corner++ {
			if config&(1<<corner) != 0 {
				g.Accumulate(g.LocalToWorldValue(0, corner), 1)
			}
		}
		if got := g.CellConfiguration(0); got != config {
			t.Errorf("CellConfiguration() = %04b, want %04b", got, config)
		}
	}
}

func TestControlPointInterpolation(t *testing.T) {
	g := mustBuild(t, testSettings(1, 1, r2.Vec{X: 2, Y: 2}))
	g.BeginFrame()

	bl := g.LocalToWorldValue(0, march.BottomLeft)
	br := g.LocalToWorldValue(0, march.BottomRight)
	bottom := g.LocalToWorldControl(0, march.BottomEdge)

	g.Accumulate(bl, 1.0)
	g.Accumulate(br, 0.0)

	// Threshold 0.5 halfway between 1 and 0
	if got := g.ControlPointPosition(bottom); got != (r2.Vec{X: 0, Y: -1}) {
		t.Errorf("interpolated position = %v, want (0, -1)", got)
	}

	g.Accumulate(br, 0.25) // 1.0 -> 0.25, crossing at t = 2/3
	got := g.ControlPointPosition(bottom)
	if math.Abs(got.X-(-1+4.0/3)) > 1e-12 || got.Y != -1 {
		t.Errorf("interpolated position = %v, want (%v, -1)", got, -1+4.0/3)
	}

	// Both ends above the threshold: unclamped extrapolation
	g.Accumulate(br, 0.5) // 1.0 -> 0.75, t = 2
	got = g.ControlPointPosition(bottom)
	if math.Abs(got.X-3) > 1e-12 {
		t.Errorf("extrapolated X = %v, want 3", got.X)
	}

	g.SetInterpolateEdges(false)
	if got := g.ControlPointPosition(bottom); got != (r2.Vec{X: 0, Y: -1}) {
		t.Errorf("midpoint position = %v, want (0, -1)", got)
	}
}

func TestSetIsoThreshold(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))
	g.Vertices()

	if err := g.SetIsoThreshold(0); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("SetIsoThreshold(0) = %v, want ErrInvalidThreshold", err)
	}

	g.BeginFrame()
	g.Accumulate(4, 0.6)
	if !g.Active(4) {
		t.Fatal("expected active at threshold 0.5")
	}

	if err := g.SetIsoThreshold(0.8); err != nil {
		t.Fatalf("SetIsoThreshold: %v", err)
	}
	if g.Active(4) {
		t.Error("expected inactive at threshold 0.8")
	}

	valid := 0
	for i := 0; i < g.ControlPointCount(); i++ {
		if g.ControlPointValid(i) {
			valid++
		}
	}
	if got := len(g.DirtyControlPoints()); got != valid {
		t.Errorf("%d dirty control points after threshold change, want %d", got, valid)
	}
}

func TestApplyKeepsTopology(t *testing.T) {
	s := testSettings(2, 2, r2.Vec{X: 2, Y: 2})
	g := mustBuild(t, s)
	g.BeginFrame()
	g.Accumulate(4, 0.9)

	s.IsoThreshold = 0.7
	s.InterpolateEdges = false
	if err := g.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := g.Potential(4); got != 0.9 {
		t.Errorf("field state lost on threshold change: potential %v", got)
	}

	s.Resolution = [2]int{4, 4}
	if err := g.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := g.ValuePointCount(); got != 25 {
		t.Errorf("ValuePointCount() after resize = %d, want 25", got)
	}
	if got := g.Settings().IsoThreshold; got != 0.7 {
		t.Errorf("IsoThreshold after rebuild = %v, want 0.7", got)
	}
}

func TestGenerationWrap(t *testing.T) {
	g := mustBuild(t, testSettings(2, 2, r2.Vec{X: 2, Y: 2}))
	g.generation = math.MaxUint32 - 1

	g.BeginFrame()
	g.Accumulate(3, 0.9)

	g.BeginFrame()
	if g.Generation() != 1 {
		t.Fatalf("generation after wrap = %d, want 1", g.Generation())
	}
	if got := g.Potential(3); got != 0 {
		t.Errorf("potential after wrap = %v, want 0", got)
	}
}
