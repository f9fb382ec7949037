// Mesh dump tool - runs the scene headless and exports the final surface.
//
// Usage: go run ./cmd/meshdump -frames 120 -out ./dump
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/mesh"
	"github.com/pthm-cable/metaballs/scene"
	"github.com/pthm-cable/metaballs/surface"
	"github.com/pthm-cable/metaballs/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 60, "Frames to simulate before exporting")
	outDir := flag.String("out", "meshdump", "Output directory")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath, *frames, *outDir); err != nil {
		slog.Error("mesh dump failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, frames int, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	grid, err := surface.Build(cfg.Derived.Surface)
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}
	world, err := scene.FromConfig(grid, cfg)
	if err != nil {
		return err
	}

	asm := mesh.New(grid, mesh.Options{FillInterior: cfg.Surface.FillInterior})
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	asm.SetPerf(perf)

	dt := 1 / float64(cfg.Screen.TargetFPS)
	var stats mesh.FrameStats
	for i := 0; i < frames; i++ {
		world.Step(dt)
		stats = asm.Rebuild()
	}
	slog.Info("simulation done", "last", stats, "perf", perf.Stats())

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := cfg.WriteYAML(filepath.Join(outDir, "config.yaml")); err != nil {
		return err
	}

	exports := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"vertices.csv", func(w io.Writer) error { return telemetry.WriteVertices(w, asm.Vertices()) }},
		{"triangles.csv", func(w io.Writer) error { return telemetry.WriteTriangles(w, asm.Indices()) }},
		{"contour.csv", func(w io.Writer) error { return telemetry.WriteSegments(w, asm.Contour()) }},
	}
	for _, e := range exports {
		if err := writeFile(filepath.Join(outDir, e.name), e.write); err != nil {
			return err
		}
	}

	slog.Info("mesh exported",
		"dir", outDir,
		"vertices", len(asm.Vertices()),
		"triangles", stats.Triangles,
		"segments", stats.ContourSegments,
	)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
