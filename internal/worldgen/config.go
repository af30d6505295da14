// Package worldgen grows a random island under adjacency rules, picks the
// opening settlement site, and deals out terrain.
package worldgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

// ErrGeneration marks every failed generation attempt. No partial island is
// ever returned alongside it; retry with another seed or config.
var ErrGeneration = errors.New("generation failed")

// ErrConfig marks a configuration refused before any generation work.
// It wraps ErrGeneration.
var ErrConfig = fmt.Errorf("invalid configuration: %w", ErrGeneration)

// Config holds island generation parameters.
//
// Counts must include at least one wood and one brick hex: the opening
// corner sits on a wood anchor and a brick anchor, and those two hexes are
// taken from the requested counts. So {wheat: 5} is refused, and the
// smallest island is {wood: 1, brick: 1}.
type Config struct {
	Counts        map[world.Terrain]int // land hexes per terrain; total is the island size
	Civilizations []island.Civilization // the first one receives the opening outpost
	Seed          int64                 // every random choice derives from it
	Roughness     float64               // 0 picks growth candidates uniformly; higher follows noise ridges
}

// DefaultConfig returns a nineteen-hex island for one civilization.
func DefaultConfig(civs ...island.Civilization) Config {
	return Config{
		Counts: map[world.Terrain]int{
			world.TerrainWood:   4,
			world.TerrainBrick:  3,
			world.TerrainWheat:  4,
			world.TerrainSheep:  4,
			world.TerrainOre:    3,
			world.TerrainDesert: 1,
		},
		Civilizations: civs,
		Seed:          42,
		Roughness:     0.5,
	}
}

// SmallConfig returns a tiny island for rapid iteration.
func SmallConfig(civs ...island.Civilization) Config {
	return Config{
		Counts: map[world.Terrain]int{
			world.TerrainWood:  2,
			world.TerrainBrick: 1,
			world.TerrainWheat: 1,
			world.TerrainSheep: 1,
		},
		Civilizations: civs,
		Seed:          7,
	}
}

// Total returns the number of land hexes the island will have.
func (c Config) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// Validate checks the config. The opening corner needs one wood and one
// brick hex, so both counts must be at least one.
func (c Config) Validate() error {
	if len(c.Civilizations) == 0 {
		return fmt.Errorf("no civilizations: %w", ErrConfig)
	}
	for i, civ := range c.Civilizations {
		if !civ.Valid() {
			return fmt.Errorf("civilization %d has no identity: %w", i, ErrConfig)
		}
	}
	for t, v := range c.Counts {
		if v < 0 {
			return fmt.Errorf("negative count %d for %v: %w", v, t, ErrConfig)
		}
		if !t.IsLand() && v > 0 {
			return fmt.Errorf("count for %v: only land terrain can be requested: %w", t, ErrConfig)
		}
		if t > world.TerrainWater {
			return fmt.Errorf("unknown terrain %d: %w", t, ErrConfig)
		}
	}
	if c.Total() <= 0 {
		return fmt.Errorf("total count must be positive: %w", ErrConfig)
	}
	if c.Counts[world.TerrainWood] < 1 || c.Counts[world.TerrainBrick] < 1 {
		return fmt.Errorf("need at least one wood and one brick hex: %w", ErrConfig)
	}
	if math.IsNaN(c.Roughness) || math.IsInf(c.Roughness, 0) || c.Roughness < 0 {
		return fmt.Errorf("roughness %v must be finite and non-negative: %w", c.Roughness, ErrConfig)
	}
	return nil
}
