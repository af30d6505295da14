// Package console renders an island as plain text and serves it over SSH.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

// WriteReport writes a text summary of m: hex and terrain counts, each
// civilization with its frontiers, every city and the road total.
func WriteReport(w io.Writer, m *island.Map) error {
	var b strings.Builder

	counts := make(map[world.Terrain]int)
	land := 0
	for _, c := range m.Grid().Coords() {
		t, _ := m.Terrain(c)
		counts[t]++
		if t.IsLand() {
			land++
		}
	}
	fmt.Fprintf(&b, "Island: %s hexes (%s land, %s water), %s visible\n",
		humanize.Comma(int64(m.Grid().Len())),
		humanize.Comma(int64(land)),
		humanize.Comma(int64(counts[world.TerrainWater])),
		humanize.Comma(int64(len(m.VisibleHexes()))))

	var terrain []string
	for _, t := range world.LandTerrains {
		if counts[t] > 0 {
			terrain = append(terrain, fmt.Sprintf("%v %d", t, counts[t]))
		}
	}
	if len(terrain) > 0 {
		fmt.Fprintf(&b, "Terrain: %s\n", strings.Join(terrain, ", "))
	}

	civs := m.Civilizations()
	fmt.Fprintf(&b, "\nCivilizations: %d\n", len(civs))
	for _, civ := range civs {
		fmt.Fprintf(&b, "  %-12s %s, %s, road frontier %d, outpost frontier %d\n",
			civ,
			plural(len(m.CitiesOf(civ)), "city", "cities"),
			plural(len(m.RoadsOf(civ)), "road", "roads"),
			len(m.RoadFrontier(civ)),
			len(m.OutpostFrontier(civ)))
	}

	cities := m.Cities()
	fmt.Fprintf(&b, "\nCities: %d\n", len(cities))
	for i, c := range cities {
		fmt.Fprintf(&b, "  %-5s %-22v %-12s %-10v %d/%d slots\n",
			humanize.Ordinal(i+1), c.Vertex, c.Owner, c.Level, len(c.Buildings), c.Level.Slots())
	}

	fmt.Fprintf(&b, "\nRoads: %s\n", humanize.Comma(int64(len(m.Roads()))))
	if v, ok := m.Capital(); ok {
		fmt.Fprintf(&b, "Capital: %v\n", v)
	} else {
		b.WriteString("Capital: none\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
