package world

import (
	"fmt"
	"strings"
)

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainWood   Terrain = iota // Forest, yields wood
	TerrainBrick                 // Clay pits, yields brick
	TerrainWheat                 // Fields, yields wheat
	TerrainSheep                 // Pasture, yields sheep
	TerrainOre                   // Mountains, yields ore
	TerrainDesert                // Barren, yields nothing
	TerrainWater                 // Sea, not buildable on its own
)

// LandTerrains lists every terrain that counts as land, in a fixed order.
var LandTerrains = []Terrain{
	TerrainWood,
	TerrainBrick,
	TerrainWheat,
	TerrainSheep,
	TerrainOre,
	TerrainDesert,
}

// IsLand reports whether the terrain is anything but water.
func (t Terrain) IsLand() bool {
	return t != TerrainWater
}

// String returns a human-readable name for a terrain type.
func (t Terrain) String() string {
	switch t {
	case TerrainWood:
		return "Wood"
	case TerrainBrick:
		return "Brick"
	case TerrainWheat:
		return "Wheat"
	case TerrainSheep:
		return "Sheep"
	case TerrainOre:
		return "Ore"
	case TerrainDesert:
		return "Desert"
	case TerrainWater:
		return "Water"
	default:
		return "Unknown"
	}
}

// ParseTerrain is the inverse of Terrain.String, case-insensitive.
func ParseTerrain(s string) (Terrain, error) {
	for t := TerrainWood; t <= TerrainWater; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", s)
}
