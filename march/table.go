// Package march holds the marching-squares lookup tables.
//
// A cell has eight local points laid out counter-clockwise from the
// bottom-left corner. Even indices are the value-point corners, odd indices
// are the control points on the edge between the two neighbouring corners:
//
//	6       5       4
//	  X-----o-----X
//	  |           |
//	7 o           o 3
//	  |           |
//	  X-----o-----X
//	0       1       2
//
// A configuration code has bit i set when corner i (local index 2*i) is
// active. Polygons enclose the active region and are wound counter-clockwise
// in a y-up frame, so every triangle produced from them has positive signed
// area.
package march

import "fmt"

// Corner and edge counts for one cell.
const (
	Corners        = 4
	LocalPoints    = 2 * Corners
	Configurations = 1 << Corners
	FullyInside    = Configurations - 1
	FullyOutside   = 0
)

// Canonical corners in configuration bit order.
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// Canonical edges in control-point order. Edge i runs from corner i to
// corner (i+1)%4.
const (
	BottomEdge = iota
	RightEdge
	TopEdge
	LeftEdge
)

// Edge is a directed contour segment between two local control points.
// The active region lies to the left of From->To.
type Edge struct {
	From, To int
}

// polygons lists the boundary of the active region for each configuration.
// 0 and 15 have no boundary crossing the cell and stay empty.
var polygons = [Configurations][]int{
	{},
	{0, 1, 7},
	{1, 2, 3},
	{0, 2, 3, 7},
	{3, 4, 5},
	{0, 1, 3, 4, 5, 7},
	{1, 2, 4, 5},
	{0, 2, 4, 5, 7},
	{5, 6, 7},
	{0, 1, 5, 6},
	{1, 2, 3, 5, 6, 7},
	{0, 2, 3, 5, 6},
	{3, 4, 6, 7},
	{0, 1, 3, 4, 6},
	{1, 2, 4, 6, 7},
	{},
}

// contours lists the directed iso-line segments inside each configuration.
// Saddles (5 and 10) keep the two active corners connected.
var contours = [Configurations][]Edge{
	{},
	{{1, 7}},
	{{3, 1}},
	{{3, 7}},
	{{5, 3}},
	{{1, 3}, {5, 7}},
	{{5, 1}},
	{{5, 7}},
	{{7, 5}},
	{{1, 5}},
	{{3, 5}, {7, 1}},
	{{3, 5}},
	{{7, 3}},
	{{1, 3}},
	{{7, 1}},
	{},
}

// Interior is the whole cell, for callers that fill fully active cells.
var Interior = []int{0, 2, 4, 6}

// triangles is the fan triangulation of every polygon, built once.
var triangles [Configurations][]int

func init() {
	for c, poly := range polygons {
		triangles[c] = Triangulate(poly)
	}
}

// Polygon returns the local point indices of the active region boundary
// for a configuration. The returned slice must not be modified.
func Polygon(config uint8) []int {
	return polygons[checkConfig(config)]
}

// Triangles returns the triangle list for a configuration as local point
// indices, three per triangle. The returned slice must not be modified.
func Triangles(config uint8) []int {
	return triangles[checkConfig(config)]
}

// Contour returns the directed iso-line segments for a configuration.
// The returned slice must not be modified.
func Contour(config uint8) []Edge {
	return contours[checkConfig(config)]
}

// Triangulate fans a convex polygon from its first vertex, preserving the
// input order. Fewer than three vertices yield no triangles.
func Triangulate(polygon []int) []int {
	n := len(polygon)
	if n < 3 {
		return []int{}
	}

	tris := make([]int, 0, 3*(n-2))
	for i := 2; i < n; i++ {
		tris = append(tris, polygon[0], polygon[i-1], polygon[i])
	}
	return tris
}

// IsValue reports whether a local index names a corner value point.
func IsValue(local int) bool {
	return local%2 == 0
}

// ValueCorner returns the corner number of an even local index.
func ValueCorner(local int) int {
	return local / 2
}

// ControlEdge returns the edge number of an odd local index.
func ControlEdge(local int) int {
	return local / 2
}

func checkConfig(config uint8) uint8 {
	if config >= Configurations {
		panic(fmt.Sprintf("march: configuration %d out of range", config))
	}
	return config
}
