package island

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hex-isle/internal/world"
)

// touched collects every hex that is a member of a city vertex or an
// endpoint of a road edge. Computed per call; there is no cache to go stale.
func (m *Map) touched() mapset.Set[world.HexCoord] {
	lit := mapset.New[world.HexCoord]()
	for _, v := range m.cityOrder {
		for _, c := range v.Coords() {
			lit.Put(c)
		}
	}
	for _, e := range m.roadOrder {
		for _, c := range e.Coords() {
			lit.Put(c)
		}
	}
	return lit
}

func (m *Map) visible(c world.HexCoord, lit mapset.Set[world.HexCoord]) bool {
	if !m.grid.Has(c) {
		return false
	}
	if !m.isWater(c) {
		return lit.Has(c)
	}
	for _, n := range m.grid.Neighbors(c) {
		if !m.isWater(n) && lit.Has(n) {
			return true
		}
	}
	return false
}

// IsVisible reports whether c has been revealed. A land hex is visible
// when a city sits on one of its corners or a road runs along one of its
// sides. A water hex is visible when it borders a visible land hex.
func (m *Map) IsVisible(c world.HexCoord) bool {
	return m.visible(c, m.touched())
}

// VisibleHexes returns every visible hex in grid order.
func (m *Map) VisibleHexes() []world.HexCoord {
	lit := m.touched()
	var out []world.HexCoord
	for _, c := range m.grid.Coords() {
		if m.visible(c, lit) {
			out = append(out, c)
		}
	}
	return out
}
