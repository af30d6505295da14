// Package economy provides resources, cost curves, and the building catalog.
// Nothing here holds game state; costs are derived from island queries.
package economy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/hex-isle/internal/world"
)

// Resource enumerates the harvestable resources.
type Resource uint8

const (
	ResourceWood Resource = iota
	ResourceBrick
	ResourceWheat
	ResourceSheep
	ResourceOre
)

// Resources lists every resource in a fixed order.
var Resources = []Resource{ResourceWood, ResourceBrick, ResourceWheat, ResourceSheep, ResourceOre}

func (r Resource) String() string {
	switch r {
	case ResourceWood:
		return "wood"
	case ResourceBrick:
		return "brick"
	case ResourceWheat:
		return "wheat"
	case ResourceSheep:
		return "sheep"
	case ResourceOre:
		return "ore"
	default:
		return "unknown"
	}
}

// ResourceFor returns the resource a terrain yields. Desert and water
// yield nothing.
func ResourceFor(t world.Terrain) (Resource, bool) {
	switch t {
	case world.TerrainWood:
		return ResourceWood, true
	case world.TerrainBrick:
		return ResourceBrick, true
	case world.TerrainWheat:
		return ResourceWheat, true
	case world.TerrainSheep:
		return ResourceSheep, true
	case world.TerrainOre:
		return ResourceOre, true
	default:
		return 0, false
	}
}

// Bundle is a quantity per resource. Missing entries mean zero.
type Bundle map[Resource]int

// Scale returns a new bundle with every quantity multiplied by n.
func (b Bundle) Scale(n int) Bundle {
	out := make(Bundle, len(b))
	for r, q := range b {
		out[r] = q * n
	}
	return out
}

// Add returns the sum of b and other.
func (b Bundle) Add(other Bundle) Bundle {
	out := make(Bundle, len(b)+len(other))
	for r, q := range b {
		out[r] += q
	}
	for r, q := range other {
		out[r] += q
	}
	return out
}

// Covers reports whether b holds at least cost of every resource.
func (b Bundle) Covers(cost Bundle) bool {
	for r, q := range cost {
		if b[r] < q {
			return false
		}
	}
	return true
}

// Total returns the sum of all quantities.
func (b Bundle) Total() int {
	n := 0
	for _, q := range b {
		n += q
	}
	return n
}

// Equal reports whether both bundles hold the same non-zero quantities.
func (b Bundle) Equal(other Bundle) bool {
	for _, r := range Resources {
		if b[r] != other[r] {
			return false
		}
	}
	return true
}

// String renders the bundle as "brick:1 wood:1", sorted by name, zeroes omitted.
func (b Bundle) String() string {
	parts := make([]string, 0, len(b))
	for r, q := range b {
		if q != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", r, q))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
