package world

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when an Edge or Vertex is built from
// coordinates that do not meet at a side or a corner.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Edge is the side shared by two adjacent hexes: a road site.
// The pair is stored in canonical order, so two edges built from the same
// coordinates compare equal regardless of argument order.
type Edge struct {
	a, b HexCoord
}

// NewEdge returns the edge between a and b. It fails with ErrInvalidGeometry
// unless the two coordinates are exactly one step apart.
func NewEdge(a, b HexCoord) (Edge, error) {
	if Distance(a, b) != 1 {
		return Edge{}, fmt.Errorf("edge %v-%v: distance %d: %w", a, b, Distance(a, b), ErrInvalidGeometry)
	}
	if b.Less(a) {
		a, b = b, a
	}
	return Edge{a: a, b: b}, nil
}

// Valid reports whether e joins two adjacent hexes. The zero Edge is not
// valid.
func (e Edge) Valid() bool {
	return Distance(e.a, e.b) == 1
}

// Coords returns the two endpoint hexes in canonical order.
func (e Edge) Coords() [2]HexCoord {
	return [2]HexCoord{e.a, e.b}
}

// Touches reports whether c is one of the edge's endpoints.
func (e Edge) Touches(c HexCoord) bool {
	return e.a == c || e.b == c
}

// Vertices returns the two corners at either end of the edge. Each is formed
// by the edge's endpoints plus one of their two common neighbors.
func (e Edge) Vertices() [2]Vertex {
	var d Direction
	for i := range HexNeighborDirections {
		if e.a.Neighbor(Direction(i)) == e.b {
			d = Direction(i)
			break
		}
	}
	return [2]Vertex{
		sortVertex(e.a, e.b, e.a.Neighbor(d-1)),
		sortVertex(e.a, e.b, e.a.Neighbor(d+1)),
	}
}

// SharesVertex reports whether the two edges meet at a corner.
func (e Edge) SharesVertex(other Edge) bool {
	if e == other {
		return false
	}
	for _, v := range e.Vertices() {
		if v.Touches(other.a) && v.Touches(other.b) {
			return true
		}
	}
	return false
}

func (e Edge) String() string {
	return fmt.Sprintf("%v-%v", e.a, e.b)
}

// Vertex is the corner where three mutually adjacent hexes meet: a
// settlement site. The triple is stored in canonical order.
type Vertex struct {
	a, b, c HexCoord
}

// NewVertex returns the corner shared by a, b and c. It fails with
// ErrInvalidGeometry unless every pair of the three is adjacent.
func NewVertex(a, b, c HexCoord) (Vertex, error) {
	if Distance(a, b) != 1 || Distance(a, c) != 1 || Distance(b, c) != 1 {
		return Vertex{}, fmt.Errorf("vertex %v %v %v: not mutually adjacent: %w", a, b, c, ErrInvalidGeometry)
	}
	return sortVertex(a, b, c), nil
}

// sortVertex canonicalizes an already validated triple.
func sortVertex(a, b, c HexCoord) Vertex {
	if b.Less(a) {
		a, b = b, a
	}
	if c.Less(b) {
		b, c = c, b
	}
	if b.Less(a) {
		a, b = b, a
	}
	return Vertex{a: a, b: b, c: c}
}

// Valid reports whether the three members are mutually adjacent. The zero
// Vertex is not valid.
func (v Vertex) Valid() bool {
	return Distance(v.a, v.b) == 1 && Distance(v.a, v.c) == 1 && Distance(v.b, v.c) == 1
}

// Coords returns the three member hexes in canonical order.
func (v Vertex) Coords() [3]HexCoord {
	return [3]HexCoord{v.a, v.b, v.c}
}

// Touches reports whether c is one of the vertex's member hexes.
func (v Vertex) Touches(c HexCoord) bool {
	return v.a == c || v.b == c || v.c == c
}

// Edges returns the three edges radiating from the vertex.
func (v Vertex) Edges() [3]Edge {
	// Members are sorted, so every pair below is already canonical.
	return [3]Edge{
		{a: v.a, b: v.b},
		{a: v.a, b: v.c},
		{a: v.b, b: v.c},
	}
}

func (v Vertex) String() string {
	return fmt.Sprintf("%v/%v/%v", v.a, v.b, v.c)
}
