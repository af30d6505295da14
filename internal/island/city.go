package island

import (
	"time"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/world"
)

// Level is a city's rank. Levels only go up, one step at a time.
type Level uint8

const (
	LevelOutpost Level = iota
	LevelColony
	LevelTown
	LevelMetropolis
	LevelCapital
)

// MaxLevel is the top of the ladder. At most one city per map may hold it.
const MaxLevel = LevelCapital

// Slots returns how many buildings a city of this level can hold.
func (l Level) Slots() int {
	return 2 * (int(l) + 1)
}

func (l Level) String() string {
	switch l {
	case LevelOutpost:
		return "Outpost"
	case LevelColony:
		return "Colony"
	case LevelTown:
		return "Town"
	case LevelMetropolis:
		return "Metropolis"
	case LevelCapital:
		return "Capital"
	default:
		return "Unknown"
	}
}

// Building is one structure inside a city.
type Building struct {
	Type         economy.BuildingType `json:"type"`
	LastProduced time.Time            `json:"last_produced"`
}

// City is a settlement at a vertex. Values returned by Map are copies.
type City struct {
	Vertex    world.Vertex
	Owner     Civilization
	Level     Level
	Buildings []Building
}

// FreeSlots returns how many more buildings fit.
func (c City) FreeSlots() int {
	return c.Level.Slots() - len(c.Buildings)
}

// Has reports whether the city already holds a building of type b.
func (c City) Has(b economy.BuildingType) bool {
	for _, existing := range c.Buildings {
		if existing.Type == b {
			return true
		}
	}
	return false
}

func (c *City) clone() City {
	out := *c
	out.Buildings = append([]Building(nil), c.Buildings...)
	return out
}

// Road is a road segment on an edge.
type Road struct {
	Edge  world.Edge
	Owner Civilization
}
