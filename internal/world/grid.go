package world

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Grid is the finite set of hexes that make up an island, plus the edges
// and vertices touching them. Hexes do not store their own edges or
// vertices; they are derived from coordinates once, at construction, and
// served from the cache afterwards.
//
// Topology is fixed after NewGrid. Edges and vertices may reference
// coordinates outside the grid (open water).
type Grid struct {
	coords  []HexCoord
	present mapset.Set[HexCoord]

	edgesOf    map[HexCoord][]Edge
	verticesOf map[HexCoord][]Vertex

	// Enumeration order is discovery order, which follows coords.
	edges        []Edge
	vertices     []Vertex
	seenEdges    mapset.Set[Edge]
	seenVertices mapset.Set[Vertex]
}

// NewGrid builds a grid over the given coordinates. Duplicates are ignored;
// the order of first occurrence is kept for every enumeration.
func NewGrid(coords []HexCoord) *Grid {
	g := &Grid{
		present:      mapset.New[HexCoord](),
		edgesOf:      make(map[HexCoord][]Edge, len(coords)),
		verticesOf:   make(map[HexCoord][]Vertex, len(coords)),
		seenEdges:    mapset.New[Edge](),
		seenVertices: mapset.New[Vertex](),
	}
	for _, c := range coords {
		if g.present.Has(c) {
			continue
		}
		g.present.Put(c)
		g.coords = append(g.coords, c)
	}
	for _, c := range g.coords {
		g.index(c)
	}
	return g
}

// index derives and caches the six edges and six vertices around c.
func (g *Grid) index(c HexCoord) {
	edges := make([]Edge, 0, 6)
	vertices := make([]Vertex, 0, 6)
	for d := range HexNeighborDirections {
		n := c.Neighbor(Direction(d))
		e := Edge{a: c, b: n}
		if n.Less(c) {
			e = Edge{a: n, b: c}
		}
		edges = append(edges, e)
		if !g.seenEdges.Has(e) {
			g.seenEdges.Put(e)
			g.edges = append(g.edges, e)
		}

		v := sortVertex(c, n, c.Neighbor(Direction(d+1)))
		vertices = append(vertices, v)
		if !g.seenVertices.Has(v) {
			g.seenVertices.Put(v)
			g.vertices = append(g.vertices, v)
		}
	}
	g.edgesOf[c] = edges
	g.verticesOf[c] = vertices
}

// Len returns the number of hexes in the grid.
func (g *Grid) Len() int {
	return len(g.coords)
}

// Coords returns every hex in the grid, in construction order.
// The returned slice is shared and must not be modified.
func (g *Grid) Coords() []HexCoord {
	return g.coords
}

// Has reports whether c is part of the grid.
func (g *Grid) Has(c HexCoord) bool {
	return g.present.Has(c)
}

// Neighbors returns the neighbors of c that are part of the grid.
func (g *Grid) Neighbors(c HexCoord) []HexCoord {
	var result []HexCoord
	for _, n := range c.Neighbors() {
		if g.present.Has(n) {
			result = append(result, n)
		}
	}
	return result
}

// AllNeighbors returns all six geometric neighbors of c, whether or not
// they are part of the grid.
func (g *Grid) AllNeighbors(c HexCoord) [6]HexCoord {
	return c.Neighbors()
}

// EdgesOf returns the six edges around c, or nil if c is not in the grid.
// Repeated calls return the same cached slice; it must not be modified.
func (g *Grid) EdgesOf(c HexCoord) []Edge {
	return g.edgesOf[c]
}

// VerticesOf returns the six vertices around c, or nil if c is not in the
// grid. Repeated calls return the same cached slice; it must not be modified.
func (g *Grid) VerticesOf(c HexCoord) []Vertex {
	return g.verticesOf[c]
}

// Edges returns every edge touching at least one grid hex.
func (g *Grid) Edges() []Edge {
	return g.edges
}

// Vertices returns every vertex touching at least one grid hex.
func (g *Grid) Vertices() []Vertex {
	return g.vertices
}

// TouchesEdge reports whether at least one endpoint of e is in the grid.
func (g *Grid) TouchesEdge(e Edge) bool {
	return g.present.Has(e.a) || g.present.Has(e.b)
}

// TouchesVertex reports whether at least one member of v is in the grid.
func (g *Grid) TouchesVertex(v Vertex) bool {
	return g.present.Has(v.a) || g.present.Has(v.b) || g.present.Has(v.c)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(hexes=%d, edges=%d, vertices=%d)", len(g.coords), len(g.edges), len(g.vertices))
}
