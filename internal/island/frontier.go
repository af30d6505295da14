package island

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hex-isle/internal/world"
)

// CanBuildRoad reports whether e is on civ's road frontier: no road yet,
// not between two water hexes, and either next to one of civ's cities or
// meeting one of civ's roads at a vertex.
func (m *Map) CanBuildRoad(e world.Edge, civ Civilization) bool {
	if !e.Valid() || !m.registered.Has(civ) || !m.grid.TouchesEdge(e) {
		return false
	}
	if _, taken := m.roads[e]; taken {
		return false
	}
	ends := e.Coords()
	if m.isWater(ends[0]) && m.isWater(ends[1]) {
		return false
	}
	if m.touchesCityOf(e, civ) {
		return true
	}
	for _, next := range adjacentEdges(e) {
		if r, ok := m.roads[next]; ok && r.Owner == civ {
			return true
		}
	}
	return false
}

// RoadFrontier returns every edge civ may build a road on, in grid order.
// It scans all edges of the grid on each call.
func (m *Map) RoadFrontier(civ Civilization) []world.Edge {
	if !m.registered.Has(civ) {
		return nil
	}
	var out []world.Edge
	for _, e := range m.grid.Edges() {
		if m.CanBuildRoad(e, civ) {
			out = append(out, e)
		}
	}
	return out
}

// CanBuildOutpost reports whether v is on civ's outpost frontier: no city
// yet, touched by one of civ's roads, and at distance 2 or more from civ's
// cities. Vertices whose touching roads are cut off from every city have
// no distance and do not qualify.
func (m *Map) CanBuildOutpost(v world.Vertex, civ Civilization) bool {
	if !v.Valid() || !m.registered.Has(civ) || !m.grid.TouchesVertex(v) {
		return false
	}
	if _, taken := m.cities[v]; taken {
		return false
	}
	owned := false
	for _, e := range v.Edges() {
		if r, ok := m.roads[e]; ok && r.Owner == civ {
			owned = true
			break
		}
	}
	if !owned {
		return false
	}
	d, ok := m.VertexDistance(v, civ)
	return ok && d >= 2
}

// OutpostFrontier returns every vertex civ may found an outpost on,
// ordered by civ's road placement.
func (m *Map) OutpostFrontier(civ Civilization) []world.Vertex {
	seen := mapset.New[world.Vertex]()
	var out []world.Vertex
	for _, e := range m.roadsByCiv[civ] {
		for _, v := range e.Vertices() {
			if seen.Has(v) {
				continue
			}
			seen.Put(v)
			if m.CanBuildOutpost(v, civ) {
				out = append(out, v)
			}
		}
	}
	return out
}
