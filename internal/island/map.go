// Package island holds the ownership and connectivity engine: terrain,
// civilizations, cities and roads on a grid, and the queries derived from
// them (visibility, build frontiers, distance-to-settlement).
//
// A Map has a single writer. Every mutator validates first and only then
// applies its change, so a refused call leaves the map untouched.
package island

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/world"
)

// Map is the ownership state of one island.
type Map struct {
	grid    *world.Grid
	terrain map[world.HexCoord]world.Terrain

	civs       []Civilization
	registered mapset.Set[Civilization]

	cities    map[world.Vertex]*City
	cityOrder []world.Vertex
	capital   *world.Vertex

	roads      map[world.Edge]*Road
	roadOrder  []world.Edge
	roadsByCiv map[Civilization][]world.Edge

	// Road distance-to-settlement per civilization, rebuilt on every
	// city or road added for that civilization.
	distances map[Civilization]map[world.Edge]int
}

// NewMap creates an empty map over grid. Every hex starts as water until
// SetTerrain says otherwise.
func NewMap(grid *world.Grid) *Map {
	m := &Map{
		grid:       grid,
		terrain:    make(map[world.HexCoord]world.Terrain, grid.Len()),
		registered: mapset.New[Civilization](),
		cities:     make(map[world.Vertex]*City),
		roads:      make(map[world.Edge]*Road),
		roadsByCiv: make(map[Civilization][]world.Edge),
		distances:  make(map[Civilization]map[world.Edge]int),
	}
	for _, c := range grid.Coords() {
		m.terrain[c] = world.TerrainWater
	}
	return m
}

// Grid returns the underlying spatial index.
func (m *Map) Grid() *world.Grid {
	return m.grid
}

// ── Terrain ──────────────────────────────────────────────────────────

// Terrain returns the terrain at c. ok is false if c is not on the grid.
func (m *Map) Terrain(c world.HexCoord) (t world.Terrain, ok bool) {
	t, ok = m.terrain[c]
	return t, ok
}

// SetTerrain reassigns the terrain at c. Terrain has no bearing on
// connectivity, so no derived state needs rebuilding.
func (m *Map) SetTerrain(c world.HexCoord, t world.Terrain) error {
	if !m.grid.Has(c) {
		return violation("set terrain %v: not on the grid", c)
	}
	if t > world.TerrainWater {
		return violation("set terrain %v: unknown terrain %d", c, t)
	}
	m.terrain[c] = t
	return nil
}

// isWater treats hexes off the grid as open water.
func (m *Map) isWater(c world.HexCoord) bool {
	t, ok := m.terrain[c]
	return !ok || t == world.TerrainWater
}

// ── Civilizations ────────────────────────────────────────────────────

// RegisterCivilization adds civ to the map. Registering twice is a no-op.
func (m *Map) RegisterCivilization(civ Civilization) error {
	if !civ.Valid() {
		return violation("register civilization: empty identity")
	}
	if m.registered.Has(civ) {
		return nil
	}
	m.registered.Put(civ)
	m.civs = append(m.civs, civ)
	slog.Debug("civilization registered", "civ", civ)
	return nil
}

// IsRegistered reports whether civ may own things on this map.
func (m *Map) IsRegistered(civ Civilization) bool {
	return m.registered.Has(civ)
}

// Civilizations returns registered civilizations in registration order.
func (m *Map) Civilizations() []Civilization {
	return append([]Civilization(nil), m.civs...)
}

// ── Cities ───────────────────────────────────────────────────────────

// AddOutpost places a new Outpost-level city.
func (m *Map) AddOutpost(v world.Vertex, civ Civilization) error {
	return m.AddCity(v, civ, LevelOutpost)
}

// AddCity places a city of the given level at v.
func (m *Map) AddCity(v world.Vertex, civ Civilization, level Level) error {
	if !v.Valid() {
		return fmt.Errorf("add city %v: %w", v, world.ErrInvalidGeometry)
	}
	if !m.registered.Has(civ) {
		return violation("add city %v: civilization %q not registered", v, civ)
	}
	if _, taken := m.cities[v]; taken {
		return violation("add city %v: vertex already has a city", v)
	}
	if !m.grid.TouchesVertex(v) {
		return violation("add city %v: vertex does not touch the grid", v)
	}
	if level > MaxLevel {
		return violation("add city %v: level %d above %v", v, level, MaxLevel)
	}
	if level == LevelCapital && m.capital != nil {
		return violation("add city %v: map already has a capital at %v", v, *m.capital)
	}

	m.cities[v] = &City{Vertex: v, Owner: civ, Level: level}
	m.cityOrder = append(m.cityOrder, v)
	if level == LevelCapital {
		cv := v
		m.capital = &cv
	}
	m.recomputeDistances(civ)
	slog.Debug("city added", "vertex", v, "civ", civ, "level", level)
	return nil
}

// UpgradeCity raises the city at v by one level.
func (m *Map) UpgradeCity(v world.Vertex) error {
	city, ok := m.cities[v]
	if !ok {
		return violation("upgrade city %v: no city", v)
	}
	if city.Level >= MaxLevel {
		return violation("upgrade city %v: already %v", v, city.Level)
	}
	next := city.Level + 1
	if next == LevelCapital && m.capital != nil {
		return violation("upgrade city %v: map already has a capital at %v", v, *m.capital)
	}

	city.Level = next
	if next == LevelCapital {
		cv := v
		m.capital = &cv
	}
	slog.Debug("city upgraded", "vertex", v, "civ", city.Owner, "level", next)
	return nil
}

// CityAt returns a copy of the city at v.
func (m *Map) CityAt(v world.Vertex) (City, bool) {
	city, ok := m.cities[v]
	if !ok {
		return City{}, false
	}
	return city.clone(), true
}

// HasCity reports whether v hosts a city.
func (m *Map) HasCity(v world.Vertex) bool {
	_, ok := m.cities[v]
	return ok
}

// CityOwner returns the owner of the city at v.
func (m *Map) CityOwner(v world.Vertex) (Civilization, bool) {
	city, ok := m.cities[v]
	if !ok {
		return Civilization{}, false
	}
	return city.Owner, true
}

// Cities returns copies of every city in placement order.
func (m *Map) Cities() []City {
	out := make([]City, 0, len(m.cityOrder))
	for _, v := range m.cityOrder {
		out = append(out, m.cities[v].clone())
	}
	return out
}

// CitiesOf returns copies of civ's cities in placement order.
func (m *Map) CitiesOf(civ Civilization) []City {
	var out []City
	for _, v := range m.cityOrder {
		if c := m.cities[v]; c.Owner == civ {
			out = append(out, c.clone())
		}
	}
	return out
}

// CityCount returns the number of cities on the map, all owners included.
func (m *Map) CityCount() int {
	return len(m.cityOrder)
}

// Capital returns the vertex of the map's capital, if there is one.
func (m *Map) Capital() (world.Vertex, bool) {
	if m.capital == nil {
		return world.Vertex{}, false
	}
	return *m.capital, true
}

// ── Buildings ────────────────────────────────────────────────────────

// Build adds a building to the city at v and stamps it with at as its last
// production time.
func (m *Map) Build(v world.Vertex, b economy.BuildingType, at time.Time) error {
	city, ok := m.cities[v]
	if !ok {
		return violation("build %v at %v: no city", b, v)
	}
	info, ok := b.Info()
	if !ok {
		return violation("build at %v: unknown building %d", v, b)
	}
	if int(city.Level) < info.MinLevel {
		return violation("build %v at %v: needs %v, city is %v", b, v, Level(info.MinLevel), city.Level)
	}
	if city.Has(b) {
		return violation("build %v at %v: already built", b, v)
	}
	if city.FreeSlots() <= 0 {
		return violation("build %v at %v: all %d slots used", b, v, city.Level.Slots())
	}

	city.Buildings = append(city.Buildings, Building{Type: b, LastProduced: at})
	slog.Debug("building added", "vertex", v, "building", b)
	return nil
}

// RecordProduction updates the last production time of a building.
func (m *Map) RecordProduction(v world.Vertex, b economy.BuildingType, at time.Time) error {
	city, ok := m.cities[v]
	if !ok {
		return violation("record production %v at %v: no city", b, v)
	}
	for i := range city.Buildings {
		if city.Buildings[i].Type == b {
			city.Buildings[i].LastProduced = at
			return nil
		}
	}
	return violation("record production %v at %v: not built", b, v)
}

// EligibleBuildings lists catalog entries the city at v could build now,
// ignoring cost. Empty when the city is full.
func (m *Map) EligibleBuildings(v world.Vertex) []economy.BuildingInfo {
	city, ok := m.cities[v]
	if !ok || city.FreeSlots() <= 0 {
		return nil
	}
	var out []economy.BuildingInfo
	for _, info := range economy.Unlocked(int(city.Level)) {
		if !city.Has(info.Type) {
			out = append(out, info)
		}
	}
	return out
}

// ── Roads ────────────────────────────────────────────────────────────

// AddRoad places a road for civ on e.
func (m *Map) AddRoad(e world.Edge, civ Civilization) error {
	if !e.Valid() {
		return fmt.Errorf("add road %v: %w", e, world.ErrInvalidGeometry)
	}
	if !m.registered.Has(civ) {
		return violation("add road %v: civilization %q not registered", e, civ)
	}
	if _, taken := m.roads[e]; taken {
		return violation("add road %v: edge already has a road", e)
	}
	if !m.grid.TouchesEdge(e) {
		return violation("add road %v: edge does not touch the grid", e)
	}

	m.roads[e] = &Road{Edge: e, Owner: civ}
	m.roadOrder = append(m.roadOrder, e)
	m.roadsByCiv[civ] = append(m.roadsByCiv[civ], e)
	m.recomputeDistances(civ)
	slog.Debug("road added", "edge", e, "civ", civ)
	return nil
}

// RoadAt returns the road on e.
func (m *Map) RoadAt(e world.Edge) (Road, bool) {
	r, ok := m.roads[e]
	if !ok {
		return Road{}, false
	}
	return *r, true
}

// HasRoad reports whether e carries a road.
func (m *Map) HasRoad(e world.Edge) bool {
	_, ok := m.roads[e]
	return ok
}

// RoadOwner returns the owner of the road on e.
func (m *Map) RoadOwner(e world.Edge) (Civilization, bool) {
	r, ok := m.roads[e]
	if !ok {
		return Civilization{}, false
	}
	return r.Owner, true
}

// Roads returns every road in placement order.
func (m *Map) Roads() []Road {
	out := make([]Road, 0, len(m.roadOrder))
	for _, e := range m.roadOrder {
		out = append(out, *m.roads[e])
	}
	return out
}

// RoadsOf returns civ's roads in placement order.
func (m *Map) RoadsOf(civ Civilization) []Road {
	edges := m.roadsByCiv[civ]
	out := make([]Road, 0, len(edges))
	for _, e := range edges {
		out = append(out, *m.roads[e])
	}
	return out
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(hexes=%d, civs=%d, cities=%d, roads=%d)",
		m.grid.Len(), len(m.civs), len(m.cityOrder), len(m.roadOrder))
}
