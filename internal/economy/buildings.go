package economy

import (
	"fmt"
	"strings"
)

// BuildingType identifies a kind of building a city can hold.
type BuildingType uint8

const (
	BuildingLumberCamp BuildingType = iota
	BuildingClayPit
	BuildingFarm
	BuildingPasture
	BuildingMine
	BuildingMarket
	BuildingGranary
	BuildingWorkshop
	BuildingPalace
)

// BuildingInfo describes one catalog entry.
type BuildingInfo struct {
	Type     BuildingType
	Name     string
	MinLevel int // lowest city level (0 = Outpost) allowed to build it
	Yields   Resource
	Produces bool // false for buildings without a resource yield
}

// Buildings is the catalog, ordered by type.
var Buildings = []BuildingInfo{
	{Type: BuildingLumberCamp, Name: "Lumber Camp", MinLevel: 0, Yields: ResourceWood, Produces: true},
	{Type: BuildingClayPit, Name: "Clay Pit", MinLevel: 0, Yields: ResourceBrick, Produces: true},
	{Type: BuildingFarm, Name: "Farm", MinLevel: 0, Yields: ResourceWheat, Produces: true},
	{Type: BuildingPasture, Name: "Pasture", MinLevel: 1, Yields: ResourceSheep, Produces: true},
	{Type: BuildingMine, Name: "Mine", MinLevel: 1, Yields: ResourceOre, Produces: true},
	{Type: BuildingMarket, Name: "Market", MinLevel: 2},
	{Type: BuildingGranary, Name: "Granary", MinLevel: 2},
	{Type: BuildingWorkshop, Name: "Workshop", MinLevel: 3},
	{Type: BuildingPalace, Name: "Palace", MinLevel: 4},
}

// Info returns the catalog entry for t.
func (t BuildingType) Info() (BuildingInfo, bool) {
	if int(t) >= len(Buildings) {
		return BuildingInfo{}, false
	}
	return Buildings[t], true
}

func (t BuildingType) String() string {
	if info, ok := t.Info(); ok {
		return info.Name
	}
	return fmt.Sprintf("Building(%d)", uint8(t))
}

// ParseBuilding looks a building up by catalog name, case-insensitive.
func ParseBuilding(name string) (BuildingType, error) {
	for _, b := range Buildings {
		if strings.EqualFold(b.Name, name) {
			return b.Type, nil
		}
	}
	return 0, fmt.Errorf("unknown building %q", name)
}

// Unlocked returns the catalog entries available at the given city level.
func Unlocked(level int) []BuildingInfo {
	var out []BuildingInfo
	for _, b := range Buildings {
		if b.MinLevel <= level {
			out = append(out, b)
		}
	}
	return out
}
