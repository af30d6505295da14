// Package session owns one island map for one game and serializes every
// access to it. Outer surfaces (HTTP, SSH) go through a Session; the map
// itself assumes a single writer.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

// Session is one running game.
type Session struct {
	ID    string
	Label string

	mu        sync.Mutex
	m         *island.Map
	cooldowns *Cooldowns
}

// New wraps m in a session. Harvesting a hex is throttled to once per
// cooldown.
func New(label string, m *island.Map, cooldown time.Duration) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Label:     label,
		m:         m,
		cooldowns: NewCooldowns(cooldown),
	}
}

// Read runs fn with the map. fn must not call mutators.
func (s *Session) Read(fn func(m *island.Map) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// Write runs fn with exclusive access to the map.
func (s *Session) Write(fn func(m *island.Map) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// Snapshot captures the map under the session lock.
func (s *Session) Snapshot() island.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Snapshot()
}

// Harvest gathers from every visible land hex on a corner of one of civ's
// cities. Each hex yields one unit of its resource, plus one if the city
// has a building producing it, and then rests for the cooldown.
func (s *Session) Harvest(civ island.Civilization, now time.Time) economy.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := economy.Bundle{}
	for _, city := range s.m.CitiesOf(civ) {
		for _, c := range city.Vertex.Coords() {
			res, ok := s.yield(c)
			if !ok || !s.cooldowns.Ready(c, now) {
				continue
			}
			out[res]++
			for _, b := range city.Buildings {
				if info, _ := b.Type.Info(); info.Produces && info.Yields == res {
					out[res]++
					if err := s.m.RecordProduction(city.Vertex, b.Type, now); err != nil {
						slog.Warn("record production failed", "vertex", city.Vertex, "building", b.Type, "error", err)
					}
				}
			}
			s.cooldowns.Mark(c, now)
		}
	}
	return out
}

func (s *Session) yield(c world.HexCoord) (economy.Resource, bool) {
	t, ok := s.m.Terrain(c)
	if !ok || !t.IsLand() || !s.m.IsVisible(c) {
		return 0, false
	}
	return economy.ResourceFor(t)
}
