// Package world provides the hex grid geometry: coordinates, the edges and
// vertices derived from them, terrain types, and the spatial index.
// Uses axial coordinates (q, r) for the hex grid.
package world

import "fmt"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// String renders the coordinate as "(q,r)".
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// Direction indexes HexNeighborDirections. Consecutive directions are
// adjacent to each other, so (h, h+d, h+d+1) always meet at a vertex.
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate in the given direction.
// Directions wrap modulo six.
func (h HexCoord) Neighbor(d Direction) HexCoord {
	dir := HexNeighborDirections[((int(d)%6)+6)%6]
	return HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// DistanceTo returns the hex distance from h to other.
func (h HexCoord) DistanceTo(other HexCoord) int {
	return Distance(h, other)
}

// Adjacent reports whether the two coordinates share a side.
func (h HexCoord) Adjacent(other HexCoord) bool {
	return Distance(h, other) == 1
}

// Less orders coordinates by q, then r. This is the canonical order used by
// Edge and Vertex.
func (h HexCoord) Less(other HexCoord) bool {
	if h.Q != other.Q {
		return h.Q < other.Q
	}
	return h.R < other.R
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
