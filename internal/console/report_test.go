package console

import (
	"strings"
	"testing"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

func TestWriteReport(t *testing.T) {
	origin := world.HexCoord{}
	coords := []world.HexCoord{origin}
	for d := world.Direction(0); d < 6; d++ {
		coords = append(coords, origin.Neighbor(d))
	}
	m := island.NewMap(world.NewGrid(coords))
	east, northEast := origin.Neighbor(world.East), origin.Neighbor(world.NorthEast)
	if err := m.SetTerrain(origin, world.TerrainWood); err != nil {
		t.Fatal(err)
	}
	if err := m.SetTerrain(east, world.TerrainBrick); err != nil {
		t.Fatal(err)
	}

	red, err := island.ParseCivilization("red")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterCivilization(red); err != nil {
		t.Fatal(err)
	}
	v, err := world.NewVertex(origin, east, northEast)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddOutpost(v, red); err != nil {
		t.Fatal(err)
	}
	e, err := world.NewEdge(origin, east)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoad(e, red); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := WriteReport(&b, m); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"Island: 7 hexes (2 land, 5 water)",
		"Terrain: Wood 1, Brick 1\n",
		"Civilizations: 1",
		"1 city, 1 road",
		"Cities: 1",
		"1st",
		"Outpost",
		"0/2 slots",
		"Roads: 1",
		"Capital: none",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 cities"},
		{1, "1 city"},
		{12, "12 cities"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "city", "cities"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
