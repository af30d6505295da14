package island

import (
	"errors"
	"testing"
	"time"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/world"
)

var origin = world.HexCoord{}

// n returns the i-th neighbor of the origin.
func n(i int) world.HexCoord {
	return origin.Neighbor(world.Direction(i))
}

func edge(t *testing.T, a, b world.HexCoord) world.Edge {
	t.Helper()
	e, err := world.NewEdge(a, b)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func vertex(t *testing.T, a, b, c world.HexCoord) world.Vertex {
	t.Helper()
	v, err := world.NewVertex(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// spoke is the edge between the origin and its i-th neighbor.
func spoke(t *testing.T, i int) world.Edge {
	return edge(t, origin, n(i%6))
}

// corner is the vertex between the origin and neighbors i and i+1.
func corner(t *testing.T, i int) world.Vertex {
	return vertex(t, origin, n(i%6), n((i+1)%6))
}

func civ(t *testing.T, id string) Civilization {
	t.Helper()
	c, err := ParseCivilization(id)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// newTestMap returns an all-wheat hexagon of radius 3 with two registered
// civilizations.
func newTestMap(t *testing.T) (*Map, Civilization, Civilization) {
	t.Helper()
	var coords []world.HexCoord
	for q := -3; q <= 3; q++ {
		for r := -3; r <= 3; r++ {
			c := world.HexCoord{Q: q, R: r}
			if world.Distance(origin, c) <= 3 {
				coords = append(coords, c)
			}
		}
	}
	m := NewMap(world.NewGrid(coords))
	for _, c := range coords {
		if err := m.SetTerrain(c, world.TerrainWheat); err != nil {
			t.Fatal(err)
		}
	}
	red, blue := civ(t, "red"), civ(t, "blue")
	for _, c := range []Civilization{red, blue} {
		if err := m.RegisterCivilization(c); err != nil {
			t.Fatal(err)
		}
	}
	return m, red, blue
}

func wantViolation(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("error = %v, want ErrRuleViolation", err)
	}
}

func TestRegisterCivilization(t *testing.T) {
	m, red, _ := newTestMap(t)
	if err := m.RegisterCivilization(red); err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if got := len(m.Civilizations()); got != 2 {
		t.Errorf("Civilizations() = %d, want 2", got)
	}
	wantViolation(t, m.RegisterCivilization(Civilization{}))
	if _, err := ParseCivilization("  "); err == nil {
		t.Errorf("blank civilization id accepted")
	}
	if NewCivilization() == NewCivilization() {
		t.Errorf("generated civilizations collide")
	}
}

func TestSetTerrain(t *testing.T) {
	m, _, _ := newTestMap(t)
	if err := m.SetTerrain(n(0), world.TerrainOre); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Terrain(n(0)); got != world.TerrainOre {
		t.Errorf("Terrain = %v, want Ore", got)
	}
	wantViolation(t, m.SetTerrain(world.HexCoord{Q: 9, R: 9}, world.TerrainOre))
	if _, ok := m.Terrain(world.HexCoord{Q: 9, R: 9}); ok {
		t.Errorf("Terrain off the grid should not be ok")
	}
}

func TestAddCityRules(t *testing.T) {
	m, red, _ := newTestMap(t)
	stranger := civ(t, "stranger")
	far := vertex(t, world.HexCoord{Q: 10, R: 0}, world.HexCoord{Q: 11, R: 0}, world.HexCoord{Q: 10, R: 1})

	wantViolation(t, m.AddOutpost(corner(t, 0), stranger))
	wantViolation(t, m.AddOutpost(far, red))
	if err := m.AddOutpost(corner(t, 0), red); err != nil {
		t.Fatal(err)
	}
	wantViolation(t, m.AddOutpost(corner(t, 0), red))
	wantViolation(t, m.AddCity(corner(t, 2), red, MaxLevel+1))

	if m.CityCount() != 1 || !m.HasCity(corner(t, 0)) {
		t.Fatalf("refused calls changed the map: %v", m)
	}
	if owner, _ := m.CityOwner(corner(t, 0)); owner != red {
		t.Errorf("owner = %v, want red", owner)
	}
}

func TestUpgradeLadder(t *testing.T) {
	m, red, _ := newTestMap(t)
	v := corner(t, 0)
	if err := m.AddOutpost(v, red); err != nil {
		t.Fatal(err)
	}
	for want := LevelColony; want <= LevelCapital; want++ {
		if err := m.UpgradeCity(v); err != nil {
			t.Fatalf("upgrade to %v: %v", want, err)
		}
		city, _ := m.CityAt(v)
		if city.Level != want {
			t.Fatalf("level = %v, want %v", city.Level, want)
		}
	}
	wantViolation(t, m.UpgradeCity(v))
	wantViolation(t, m.UpgradeCity(corner(t, 3)))
	if capital, ok := m.Capital(); !ok || capital != v {
		t.Errorf("Capital() = %v, %v", capital, ok)
	}
	if got := LevelCapital.Slots(); got != 10 {
		t.Errorf("capital slots = %d, want 10", got)
	}
}

func TestSecondCapitalRefused(t *testing.T) {
	m, red, blue := newTestMap(t)
	first, second := corner(t, 0), corner(t, 3)
	if err := m.AddCity(first, red, LevelCapital); err != nil {
		t.Fatal(err)
	}
	if err := m.AddCity(second, blue, LevelMetropolis); err != nil {
		t.Fatal(err)
	}
	if err := m.Build(second, economy.BuildingWorkshop, time.Unix(100, 0)); err != nil {
		t.Fatal(err)
	}
	before1, _ := m.CityAt(first)
	before2, _ := m.CityAt(second)

	wantViolation(t, m.UpgradeCity(second))
	wantViolation(t, m.AddCity(corner(t, 1), blue, LevelCapital))

	after1, _ := m.CityAt(first)
	after2, _ := m.CityAt(second)
	if before1.Level != after1.Level || before1.Owner != after1.Owner || len(before1.Buildings) != len(after1.Buildings) {
		t.Errorf("capital changed: %+v -> %+v", before1, after1)
	}
	if before2.Level != after2.Level || before2.Owner != after2.Owner || len(before2.Buildings) != len(after2.Buildings) {
		t.Errorf("metropolis changed: %+v -> %+v", before2, after2)
	}
	if capital, _ := m.Capital(); capital != first {
		t.Errorf("capital moved to %v", capital)
	}
}

func TestAddRoadRules(t *testing.T) {
	m, red, _ := newTestMap(t)
	wantViolation(t, m.AddRoad(spoke(t, 0), civ(t, "stranger")))
	wantViolation(t, m.AddRoad(edge(t, world.HexCoord{Q: 8, R: 0}, world.HexCoord{Q: 9, R: 0}), red))
	if err := m.AddRoad(spoke(t, 0), red); err != nil {
		t.Fatal(err)
	}
	wantViolation(t, m.AddRoad(spoke(t, 0), red))
	if len(m.Roads()) != 1 || len(m.RoadsOf(red)) != 1 {
		t.Errorf("roads = %d", len(m.Roads()))
	}
	if owner, ok := m.RoadOwner(spoke(t, 0)); !ok || owner != red {
		t.Errorf("RoadOwner = %v, %v", owner, ok)
	}
}

func TestBuildings(t *testing.T) {
	m, red, _ := newTestMap(t)
	v := corner(t, 0)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	wantViolation(t, m.Build(v, economy.BuildingFarm, at))
	if err := m.AddOutpost(v, red); err != nil {
		t.Fatal(err)
	}
	if got := len(m.EligibleBuildings(v)); got != 3 {
		t.Errorf("eligible at outpost = %d, want 3", got)
	}
	wantViolation(t, m.Build(v, economy.BuildingMine, at))
	if err := m.Build(v, economy.BuildingFarm, at); err != nil {
		t.Fatal(err)
	}
	wantViolation(t, m.Build(v, economy.BuildingFarm, at))
	if err := m.Build(v, economy.BuildingClayPit, at); err != nil {
		t.Fatal(err)
	}
	wantViolation(t, m.Build(v, economy.BuildingLumberCamp, at))
	if m.EligibleBuildings(v) != nil {
		t.Errorf("a full city should have nothing eligible")
	}

	later := at.Add(time.Hour)
	if err := m.RecordProduction(v, economy.BuildingFarm, later); err != nil {
		t.Fatal(err)
	}
	wantViolation(t, m.RecordProduction(v, economy.BuildingMine, later))
	city, _ := m.CityAt(v)
	if !city.Buildings[0].LastProduced.Equal(later) {
		t.Errorf("LastProduced = %v, want %v", city.Buildings[0].LastProduced, later)
	}
	city.Buildings[0].Type = economy.BuildingPalace
	if again, _ := m.CityAt(v); again.Buildings[0].Type != economy.BuildingFarm {
		t.Errorf("CityAt returned shared building storage")
	}
}

func TestZeroGeometryRefused(t *testing.T) {
	m := NewMap(world.NewGrid([]world.HexCoord{origin, n(0)}))
	red := civ(t, "red")
	if err := m.RegisterCivilization(red); err != nil {
		t.Fatal(err)
	}

	if err := m.AddCity(world.Vertex{}, red, LevelOutpost); !errors.Is(err, world.ErrInvalidGeometry) {
		t.Errorf("AddCity(zero vertex) = %v, want ErrInvalidGeometry", err)
	}
	if err := m.AddRoad(world.Edge{}, red); !errors.Is(err, world.ErrInvalidGeometry) {
		t.Errorf("AddRoad(zero edge) = %v, want ErrInvalidGeometry", err)
	}
	if m.CityCount() != 0 || len(m.Roads()) != 0 {
		t.Errorf("cities=%d roads=%d after refused calls", m.CityCount(), len(m.Roads()))
	}
	if m.CanBuildRoad(world.Edge{}, red) || m.CanBuildOutpost(world.Vertex{}, red) {
		t.Error("zero geometry reported buildable")
	}
}
