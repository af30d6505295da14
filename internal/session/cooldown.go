package session

import (
	"time"

	"github.com/talgya/hex-isle/internal/world"
)

// Cooldowns throttles per-hex harvesting. Each session owns its own.
type Cooldowns struct {
	period time.Duration
	last   map[world.HexCoord]time.Time
}

// NewCooldowns returns a throttle allowing one harvest per hex per period.
func NewCooldowns(period time.Duration) *Cooldowns {
	return &Cooldowns{period: period, last: make(map[world.HexCoord]time.Time)}
}

// Ready reports whether c may be harvested at now.
func (cd *Cooldowns) Ready(c world.HexCoord, now time.Time) bool {
	last, ok := cd.last[c]
	return !ok || now.Sub(last) >= cd.period
}

// Mark records a harvest of c at now.
func (cd *Cooldowns) Mark(c world.HexCoord, now time.Time) {
	cd.last[c] = now
}
