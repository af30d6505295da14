package session

import (
	"testing"
	"time"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
	"github.com/talgya/hex-isle/internal/worldgen"
)

func TestHarvestCooldown(t *testing.T) {
	red, err := island.ParseCivilization("red")
	if err != nil {
		t.Fatal(err)
	}
	res, err := worldgen.Generate(worldgen.DefaultConfig(red))
	if err != nil {
		t.Fatal(err)
	}
	s := New("test", res.Map, time.Minute)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// The opening corner is wood + brick + water.
	got := s.Harvest(red, start)
	want := economy.Bundle{economy.ResourceWood: 1, economy.ResourceBrick: 1}
	if !got.Equal(want) {
		t.Fatalf("first harvest = %v, want %v", got, want)
	}
	if again := s.Harvest(red, start.Add(30*time.Second)); again.Total() != 0 {
		t.Errorf("harvest during cooldown = %v", again)
	}

	if err := s.Write(func(m *island.Map) error {
		return m.Build(res.Start, economy.BuildingLumberCamp, start)
	}); err != nil {
		t.Fatal(err)
	}
	later := start.Add(time.Minute)
	got = s.Harvest(red, later)
	want = economy.Bundle{economy.ResourceWood: 2, economy.ResourceBrick: 1}
	if !got.Equal(want) {
		t.Fatalf("harvest with lumber camp = %v, want %v", got, want)
	}
	_ = s.Read(func(m *island.Map) error {
		city, _ := m.CityAt(res.Start)
		if !city.Buildings[0].LastProduced.Equal(later) {
			t.Errorf("lumber camp last produced %v, want %v", city.Buildings[0].LastProduced, later)
		}
		return nil
	})

	blue, _ := island.ParseCivilization("blue")
	if got := s.Harvest(blue, later.Add(time.Hour)); got.Total() != 0 {
		t.Errorf("civilization without cities harvested %v", got)
	}
}

func TestCooldowns(t *testing.T) {
	cd := NewCooldowns(time.Second)
	now := time.Unix(0, 0)
	c := world.HexCoord{Q: 1, R: 2}
	if !cd.Ready(c, now) {
		t.Fatal("fresh hex should be ready")
	}
	cd.Mark(c, now)
	if cd.Ready(c, now.Add(999*time.Millisecond)) {
		t.Error("hex ready before its cooldown")
	}
	if !cd.Ready(c, now.Add(time.Second)) {
		t.Error("hex not ready after its cooldown")
	}
}
