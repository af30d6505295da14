package island

import (
	"fmt"

	"github.com/talgya/hex-isle/internal/world"
)

// Snapshot is everything needed to rebuild a Map. Replaying it through
// Restore yields identical visibility, frontier and distance answers.
type Snapshot struct {
	Coords        []world.HexCoord `json:"coords"`
	Terrain       []world.Terrain  `json:"terrain"` // parallel to Coords
	Civilizations []string         `json:"civilizations"`
	Cities        []CityRecord     `json:"cities"`
	Roads         []RoadRecord     `json:"roads"`
}

// CityRecord is a saved city.
type CityRecord struct {
	Vertex    [3]world.HexCoord `json:"vertex"`
	Owner     string            `json:"owner"`
	Level     Level             `json:"level"`
	Buildings []Building        `json:"buildings"`
}

// RoadRecord is a saved road.
type RoadRecord struct {
	Edge  [2]world.HexCoord `json:"edge"`
	Owner string            `json:"owner"`
}

// Snapshot captures the map in placement order.
func (m *Map) Snapshot() Snapshot {
	s := Snapshot{
		Coords:  append([]world.HexCoord(nil), m.grid.Coords()...),
		Terrain: make([]world.Terrain, 0, m.grid.Len()),
	}
	for _, c := range s.Coords {
		s.Terrain = append(s.Terrain, m.terrain[c])
	}
	for _, civ := range m.civs {
		s.Civilizations = append(s.Civilizations, civ.ID())
	}
	for _, v := range m.cityOrder {
		city := m.cities[v]
		s.Cities = append(s.Cities, CityRecord{
			Vertex:    v.Coords(),
			Owner:     city.Owner.ID(),
			Level:     city.Level,
			Buildings: append([]Building(nil), city.Buildings...),
		})
	}
	for _, e := range m.roadOrder {
		s.Roads = append(s.Roads, RoadRecord{Edge: e.Coords(), Owner: m.roads[e].Owner.ID()})
	}
	return s
}

// Restore rebuilds a Map by replaying s through the regular constructors
// and mutators, so a corrupt snapshot is refused the same way a bad live
// call would be.
func Restore(s Snapshot) (*Map, error) {
	if len(s.Terrain) != len(s.Coords) {
		return nil, fmt.Errorf("restore: %d coords but %d terrain entries", len(s.Coords), len(s.Terrain))
	}
	m := NewMap(world.NewGrid(s.Coords))
	for i, c := range s.Coords {
		if err := m.SetTerrain(c, s.Terrain[i]); err != nil {
			return nil, fmt.Errorf("restore terrain: %w", err)
		}
	}

	civs := make(map[string]Civilization, len(s.Civilizations))
	for _, id := range s.Civilizations {
		civ, err := ParseCivilization(id)
		if err != nil {
			return nil, fmt.Errorf("restore civilization: %w", err)
		}
		if err := m.RegisterCivilization(civ); err != nil {
			return nil, fmt.Errorf("restore civilization: %w", err)
		}
		civs[id] = civ
	}

	for _, rec := range s.Cities {
		v, err := world.NewVertex(rec.Vertex[0], rec.Vertex[1], rec.Vertex[2])
		if err != nil {
			return nil, fmt.Errorf("restore city: %w", err)
		}
		if err := m.AddCity(v, civs[rec.Owner], rec.Level); err != nil {
			return nil, fmt.Errorf("restore city: %w", err)
		}
		for _, b := range rec.Buildings {
			if err := m.Build(v, b.Type, b.LastProduced); err != nil {
				return nil, fmt.Errorf("restore building: %w", err)
			}
		}
	}

	for _, rec := range s.Roads {
		e, err := world.NewEdge(rec.Edge[0], rec.Edge[1])
		if err != nil {
			return nil, fmt.Errorf("restore road: %w", err)
		}
		if err := m.AddRoad(e, civs[rec.Owner]); err != nil {
			return nil, fmt.Errorf("restore road: %w", err)
		}
	}
	return m, nil
}
