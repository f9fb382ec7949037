package game

import "log/slog"

// flushTelemetry writes the last frame and, once per stats window, the
// perf summary.
func (g *Game) flushTelemetry() {
	if err := g.output.WriteFrame(g.lastStats.Record()); err != nil {
		slog.Error("writing frame", "error", err)
	}

	every := uint64(g.cfg.Telemetry.StatsEvery)
	if every == 0 || g.lastStats.Frame-g.lastPerfFrame < every {
		return
	}
	g.lastPerfFrame = g.lastStats.Frame

	stats := g.perf.Stats()
	if g.opts.LogStats {
		slog.Info("frame", "stats", g.lastStats)
		stats.LogStats()
	}
	if err := g.output.WritePerf(stats, g.lastStats.Frame); err != nil {
		slog.Error("writing perf", "error", err)
	}
}
