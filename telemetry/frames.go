package telemetry

import (
	"log/slog"
	"time"
)

// FrameRecord summarizes one surface rebuild.
type FrameRecord struct {
	Frame              uint64  `csv:"frame"`
	Sources            int     `csv:"sources"`
	TouchedCells       int     `csv:"touched_cells"`
	DirtyControlPoints int     `csv:"dirty_control_points"`
	ActiveCells        int     `csv:"active_cells"`
	Triangles          int     `csv:"triangles"`
	ContourSegments    int     `csv:"contour_segments"`
	FrameUS            float64 `csv:"frame_us"`
}

// WithDuration returns a copy of the record with the frame time set.
func (r FrameRecord) WithDuration(d time.Duration) FrameRecord {
	r.FrameUS = float64(d) / float64(time.Microsecond)
	return r
}

// LogValue implements slog.LogValuer for structured logging.
func (r FrameRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frame", r.Frame),
		slog.Int("sources", r.Sources),
		slog.Int("touched_cells", r.TouchedCells),
		slog.Int("dirty_control_points", r.DirtyControlPoints),
		slog.Int("active_cells", r.ActiveCells),
		slog.Int("triangles", r.Triangles),
		slog.Int("contour_segments", r.ContourSegments),
		slog.Float64("frame_us", r.FrameUS),
	)
}
