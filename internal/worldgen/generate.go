package worldgen

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

// Result is a freshly generated island.
type Result struct {
	Map   *island.Map
	Start world.Vertex   // opening outpost of the first civilization
	Wood  world.HexCoord // land anchor of the opening corner
	Brick world.HexCoord // land anchor of the opening corner
	Land  []world.HexCoord
	Water []world.HexCoord
}

// Generate grows an island from cfg. Identical configs produce identical
// islands. On failure nothing is returned but the error.
func Generate(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	noise := opensimplex.NewNormalized(cfg.Seed)

	land, err := grow(rng, noise, cfg.Total(), cfg.Roughness)
	if err != nil {
		return nil, err
	}
	start, wood, brick, err := findBorderVertex(rng, land)
	if err != nil {
		return nil, err
	}
	water := waterRing(land)

	coords := make([]world.HexCoord, 0, len(land)+len(water))
	coords = append(coords, land...)
	coords = append(coords, water...)
	m := island.NewMap(world.NewGrid(coords))

	if err := assignTerrain(rng, m, cfg.Counts, land, wood, brick); err != nil {
		return nil, err
	}
	for _, civ := range cfg.Civilizations {
		if err := m.RegisterCivilization(civ); err != nil {
			return nil, fmt.Errorf("register %v: %v: %w", civ, err, ErrGeneration)
		}
	}
	if err := m.AddOutpost(start, cfg.Civilizations[0]); err != nil {
		return nil, fmt.Errorf("opening outpost: %v: %w", err, ErrGeneration)
	}

	slog.Debug("island generated",
		"seed", cfg.Seed,
		"land", len(land),
		"water", len(water),
		"start", start,
	)
	return &Result{Map: m, Start: start, Wood: wood, Brick: brick, Land: land, Water: water}, nil
}

// grow places two adjacent seed hexes and then keeps attaching hexes that
// touch at least two placed ones until total is reached. Requiring two
// placed neighbors keeps the island compact with no one-hex spurs.
func grow(rng *rand.Rand, noise opensimplex.Noise, total int, roughness float64) ([]world.HexCoord, error) {
	first := world.HexCoord{}
	second := first.Neighbor(world.Direction(rng.Intn(6)))

	placed := mapset.Of(first, second)
	order := []world.HexCoord{first, second}

	for len(order) < total {
		candidates := attachable(placed, order)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("growth stalled at %d of %d hexes: %w", len(order), total, ErrGeneration)
		}
		next := choose(rng, noise, candidates, roughness)
		placed.Put(next)
		order = append(order, next)
	}
	return order, nil
}

// attachable lists unplaced hexes with two or more placed neighbors, in a
// deterministic order derived from placement order.
func attachable(placed mapset.Set[world.HexCoord], order []world.HexCoord) []world.HexCoord {
	seen := mapset.New[world.HexCoord]()
	var out []world.HexCoord
	for _, h := range order {
		for _, c := range h.Neighbors() {
			if placed.Has(c) || seen.Has(c) {
				continue
			}
			seen.Put(c)
			if placedNeighbors(placed, c) >= 2 {
				out = append(out, c)
			}
		}
	}
	return out
}

func placedNeighbors(placed mapset.Set[world.HexCoord], c world.HexCoord) int {
	n := 0
	for _, nb := range c.Neighbors() {
		if placed.Has(nb) {
			n++
		}
	}
	return n
}

// choose picks one candidate. With roughness 0 every candidate is equally
// likely; otherwise each is weighted by layered noise at its position.
func choose(rng *rand.Rand, noise opensimplex.Noise, candidates []world.HexCoord, roughness float64) world.HexCoord {
	if roughness == 0 {
		return candidates[rng.Intn(len(candidates))]
	}
	weights := make([]float64, len(candidates))
	sum := 0.0
	for i, c := range candidates {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(c.Q) + float64(c.R)*0.5
		y := float64(c.R) * math.Sqrt(3.0) / 2.0
		weights[i] = 1 + roughness*octaveNoise(noise, x, y, 3, 0.15, 0.5)
		sum += weights[i]
	}
	pick := rng.Float64() * sum
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// findBorderVertex picks a corner made of two adjacent land hexes and one
// hex that will be water. The first land hex in canonical order becomes
// the wood anchor, the other the brick anchor.
func findBorderVertex(rng *rand.Rand, land []world.HexCoord) (v world.Vertex, wood, brick world.HexCoord, err error) {
	placed := mapset.Of(land...)

	type corner struct {
		v           world.Vertex
		wood, brick world.HexCoord
	}
	var corners []corner
	for _, a := range land {
		for d := world.Direction(0); d < 6; d++ {
			b := a.Neighbor(d)
			if !placed.Has(b) || !a.Less(b) {
				continue
			}
			for _, c := range []world.HexCoord{a.Neighbor(d - 1), a.Neighbor(d + 1)} {
				if placed.Has(c) {
					continue
				}
				vx, err := world.NewVertex(a, b, c)
				if err != nil {
					return world.Vertex{}, world.HexCoord{}, world.HexCoord{}, fmt.Errorf("border vertex: %v: %w", err, ErrGeneration)
				}
				corners = append(corners, corner{v: vx, wood: a, brick: b})
			}
		}
	}
	if len(corners) == 0 {
		return world.Vertex{}, world.HexCoord{}, world.HexCoord{}, fmt.Errorf("no border vertex among %d land hexes: %w", len(land), ErrGeneration)
	}
	pick := corners[rng.Intn(len(corners))]
	return pick.v, pick.wood, pick.brick, nil
}

// waterRing returns every hex adjacent to land that is not land itself,
// each once, in the order land was placed.
func waterRing(land []world.HexCoord) []world.HexCoord {
	placed := mapset.Of(land...)
	ring := mapset.New[world.HexCoord]()
	var out []world.HexCoord
	for _, h := range land {
		for _, c := range h.Neighbors() {
			if placed.Has(c) || ring.Has(c) {
				continue
			}
			ring.Put(c)
			out = append(out, c)
		}
	}
	return out
}

// assignTerrain fixes the two anchors, deals the remaining counts over the
// shuffled remaining land, and leaves the ring as water.
func assignTerrain(rng *rand.Rand, m *island.Map, counts map[world.Terrain]int, land []world.HexCoord, wood, brick world.HexCoord) error {
	var deck []world.Terrain
	for _, t := range world.LandTerrains {
		n := counts[t]
		switch t {
		case world.TerrainWood, world.TerrainBrick:
			n--
		}
		for i := 0; i < n; i++ {
			deck = append(deck, t)
		}
	}

	rest := make([]world.HexCoord, 0, len(land))
	for _, c := range land {
		if c != wood && c != brick {
			rest = append(rest, c)
		}
	}
	if len(rest) != len(deck) {
		return fmt.Errorf("%d land hexes for %d terrain cards: %w", len(rest), len(deck), ErrGeneration)
	}
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	if err := m.SetTerrain(wood, world.TerrainWood); err != nil {
		return fmt.Errorf("wood anchor: %v: %w", err, ErrGeneration)
	}
	if err := m.SetTerrain(brick, world.TerrainBrick); err != nil {
		return fmt.Errorf("brick anchor: %v: %w", err, ErrGeneration)
	}
	for i, c := range rest {
		if err := m.SetTerrain(c, deck[i]); err != nil {
			return fmt.Errorf("terrain %v: %v: %w", c, err, ErrGeneration)
		}
	}
	// Ring hexes start as water in a new map.
	return nil
}
