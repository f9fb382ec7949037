package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"
)

// VertexRecord is one row of a vertex buffer export.
type VertexRecord struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

// TriangleRecord is one triangle of an index buffer export.
type TriangleRecord struct {
	A uint32 `csv:"a"`
	B uint32 `csv:"b"`
	C uint32 `csv:"c"`
}

// SegmentRecord is one directed contour segment.
type SegmentRecord struct {
	From uint32 `csv:"from"`
	To   uint32 `csv:"to"`
}

// WriteVertices exports a vertex buffer as CSV.
func WriteVertices(w io.Writer, vertices []r2.Vec) error {
	records := make([]VertexRecord, len(vertices))
	for i, v := range vertices {
		records[i] = VertexRecord{Index: i, X: v.X, Y: v.Y}
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing vertices: %w", err)
	}
	return nil
}

// WriteTriangles exports a triangle list index buffer as CSV.
func WriteTriangles(w io.Writer, indices []uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("writing triangles: %d indices is not a triangle list", len(indices))
	}
	records := make([]TriangleRecord, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		records = append(records, TriangleRecord{A: indices[i], B: indices[i+1], C: indices[i+2]})
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing triangles: %w", err)
	}
	return nil
}

// WriteSegments exports a line list index buffer as CSV.
func WriteSegments(w io.Writer, lines []uint32) error {
	if len(lines)%2 != 0 {
		return fmt.Errorf("writing segments: %d indices is not a line list", len(lines))
	}
	records := make([]SegmentRecord, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		records = append(records, SegmentRecord{From: lines[i], To: lines[i+1]})
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing segments: %w", err)
	}
	return nil
}
