package island

import (
	"github.com/zyedidia/generic/queue"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/world"
)

// recomputeDistances rebuilds civ's road distance-to-settlement from
// scratch. Roads touching one of civ's cities are at distance 1; the rest
// are reached breadth-first through civ's roads that share a vertex, so
// each road gets one more than its nearest already-reached neighbor.
// Roads with no path to a city get no entry.
func (m *Map) recomputeDistances(civ Civilization) {
	dist := make(map[world.Edge]int, len(m.roadsByCiv[civ]))
	frontier := queue.New[world.Edge]()

	for _, e := range m.roadsByCiv[civ] {
		if m.touchesCityOf(e, civ) {
			dist[e] = 1
			frontier.Enqueue(e)
		}
	}
	for !frontier.Empty() {
		e := frontier.Dequeue()
		for _, next := range adjacentEdges(e) {
			if _, seen := dist[next]; seen {
				continue
			}
			if r, ok := m.roads[next]; !ok || r.Owner != civ {
				continue
			}
			dist[next] = dist[e] + 1
			frontier.Enqueue(next)
		}
	}
	m.distances[civ] = dist
}

// adjacentEdges returns the four edges meeting e at one of its vertices.
func adjacentEdges(e world.Edge) []world.Edge {
	out := make([]world.Edge, 0, 4)
	for _, v := range e.Vertices() {
		for _, other := range v.Edges() {
			if other != e {
				out = append(out, other)
			}
		}
	}
	return out
}

// touchesCityOf reports whether either vertex of e hosts a city of civ.
func (m *Map) touchesCityOf(e world.Edge, civ Civilization) bool {
	for _, v := range e.Vertices() {
		if c, ok := m.cities[v]; ok && c.Owner == civ {
			return true
		}
	}
	return false
}

// RoadDistance returns the distance-to-settlement of civ's road on e.
// ok is false if e has no road of civ, or the road cannot reach any of
// civ's cities.
func (m *Map) RoadDistance(e world.Edge, civ Civilization) (d int, ok bool) {
	d, ok = m.distances[civ][e]
	return d, ok
}

// VertexDistance returns 0 if v hosts a city of civ, otherwise the
// smallest distance among civ's roads touching v. ok is false when no
// such road has a distance.
func (m *Map) VertexDistance(v world.Vertex, civ Civilization) (d int, ok bool) {
	if c, has := m.cities[v]; has && c.Owner == civ {
		return 0, true
	}
	dist := m.distances[civ]
	for _, e := range v.Edges() {
		if rd, has := dist[e]; has && (!ok || rd < d) {
			d, ok = rd, true
		}
	}
	return d, ok
}

// ProspectiveRoadDistance returns the distance a road of civ on e would
// have if it were placed now.
func (m *Map) ProspectiveRoadDistance(e world.Edge, civ Civilization) (d int, ok bool) {
	if m.touchesCityOf(e, civ) {
		return 1, true
	}
	dist := m.distances[civ]
	for _, next := range adjacentEdges(e) {
		if nd, has := dist[next]; has && (!ok || nd+1 < d) {
			d, ok = nd+1, true
		}
	}
	return d, ok
}

// RoadCost prices a road of civ on e from its prospective distance.
// ok is false when the road would not connect to civ's network.
func (m *Map) RoadCost(e world.Edge, civ Civilization, base economy.Bundle) (economy.Bundle, bool) {
	d, ok := m.ProspectiveRoadDistance(e, civ)
	if !ok {
		return nil, false
	}
	return economy.RoadCost(base, d), true
}

// OutpostCost prices the next outpost from the number of cities on the map.
func (m *Map) OutpostCost(base economy.Bundle) economy.Bundle {
	return economy.OutpostCost(base, m.CityCount())
}
