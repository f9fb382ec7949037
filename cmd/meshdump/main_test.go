package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunExportsMesh(t *testing.T) {
	dir := t.TempDir()
	if err := run("", 5, dir); err != nil {
		t.Fatalf("run: %v", err)
	}

	headers := map[string]string{
		"vertices.csv":  "index,x,y",
		"triangles.csv": "a,b,c",
		"contour.csv":   "from,to",
	}
	for name, header := range headers {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != header {
			t.Errorf("%s header = %q, want %q", name, lines[0], header)
		}
		if len(lines) < 2 {
			t.Errorf("%s has no rows", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestRunRejectsMissingConfig(t *testing.T) {
	if err := run(filepath.Join(t.TempDir(), "nope.yaml"), 1, t.TempDir()); err == nil {
		t.Error("expected error for missing config file")
	}
}
