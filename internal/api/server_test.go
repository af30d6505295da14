package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/session"
	"github.com/talgya/hex-isle/internal/world"
	"github.com/talgya/hex-isle/internal/worldgen"
)

const testKey = "secret"

type frontierResponse struct {
	Civilization string            `json:"civilization"`
	Roads        []frontierRoad    `json:"roads"`
	Outposts     []frontierOutpost `json:"outposts"`
	OutpostCost  map[string]int    `json:"outpost_cost"`
}

func newTestServer(t *testing.T, adminKey string) (*httptest.Server, *worldgen.Result) {
	t.Helper()
	red, err := island.ParseCivilization("red")
	if err != nil {
		t.Fatal(err)
	}
	res, err := worldgen.Generate(worldgen.DefaultConfig(red))
	if err != nil {
		t.Fatal(err)
	}
	s := &Server{Session: session.New("test", res.Map, time.Minute), AdminKey: adminKey}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, res
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func post(t *testing.T, url, key string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStatus(t *testing.T) {
	ts, res := newTestServer(t, testKey)

	var status struct {
		Hexes         int      `json:"hexes"`
		Land          int      `json:"land"`
		Civilizations []string `json:"civilizations"`
		Cities        int      `json:"cities"`
		Roads         int      `json:"roads"`
	}
	getJSON(t, ts.URL+"/api/v1/status", &status)

	if status.Hexes != len(res.Land)+len(res.Water) {
		t.Errorf("hexes = %d, want %d", status.Hexes, len(res.Land)+len(res.Water))
	}
	if status.Land != len(res.Land) {
		t.Errorf("land = %d, want %d", status.Land, len(res.Land))
	}
	if status.Cities != 1 || status.Roads != 0 {
		t.Errorf("cities=%d roads=%d, want 1 and 0", status.Cities, status.Roads)
	}
	if len(status.Civilizations) != 1 || status.Civilizations[0] != "red" {
		t.Errorf("civilizations = %v", status.Civilizations)
	}
}

func TestHexes(t *testing.T) {
	ts, res := newTestServer(t, testKey)

	var hexes []hexEntry
	getJSON(t, ts.URL+"/api/v1/hexes", &hexes)
	if len(hexes) != len(res.Land)+len(res.Water) {
		t.Fatalf("got %d hexes", len(hexes))
	}
	visible := make(map[world.HexCoord]bool)
	for _, h := range hexes {
		if h.Visible {
			visible[world.HexCoord{Q: h.Q, R: h.R}] = true
		}
	}
	for _, c := range res.Start.Coords() {
		if !visible[c] {
			t.Errorf("opening corner member %v not visible", c)
		}
	}
	if len(visible) >= len(hexes) {
		t.Errorf("every hex visible with a single outpost")
	}
}

func TestBuildRoadFlow(t *testing.T) {
	ts, _ := newTestServer(t, testKey)

	var before frontierResponse
	getJSON(t, ts.URL+"/api/v1/civ/red/frontier", &before)
	if len(before.Roads) != 3 {
		t.Fatalf("opening road frontier = %d, want 3", len(before.Roads))
	}
	if len(before.Outposts) != 0 {
		t.Errorf("opening outpost frontier = %d, want 0", len(before.Outposts))
	}
	first := before.Roads[0]
	if first.Distance != 1 || first.Cost["wood"] != 2 || first.Cost["brick"] != 2 {
		t.Errorf("first frontier road = %+v, want distance 1 costing 2 wood 2 brick", first)
	}

	resp := post(t, ts.URL+"/api/v1/road", testKey, roadRequest{Civ: "red", Edge: first.Edge})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("build road: status %d", resp.StatusCode)
	}

	var roads []roadEntry
	getJSON(t, ts.URL+"/api/v1/roads", &roads)
	if len(roads) != 1 || roads[0].Owner != "red" || roads[0].Distance == nil || *roads[0].Distance != 1 {
		t.Fatalf("roads = %+v", roads)
	}

	// The same edge again is a rule violation.
	resp = post(t, ts.URL+"/api/v1/road", testKey, roadRequest{Civ: "red", Edge: first.Edge})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate road: status %d, want 409", resp.StatusCode)
	}
}

func TestBuildErrors(t *testing.T) {
	ts, res := newTestServer(t, testKey)
	far := world.HexCoord{Q: 40, R: 40}

	tests := []struct {
		name string
		path string
		key  string
		body any
		want int
	}{
		{"no token", "/api/v1/road", "", roadRequest{Civ: "red"}, http.StatusUnauthorized},
		{"wrong token", "/api/v1/road", "nope", roadRequest{Civ: "red"}, http.StatusUnauthorized},
		{"non-adjacent edge", "/api/v1/road", testKey, roadRequest{Civ: "red", Edge: [2]world.HexCoord{{}, far}}, http.StatusBadRequest},
		{"empty civ", "/api/v1/road", testKey, roadRequest{Civ: " ", Edge: [2]world.HexCoord{{}, {Q: 1}}}, http.StatusBadRequest},
		{"unknown civ", "/api/v1/road", testKey, roadRequest{Civ: "blue", Edge: res.Start.Edges()[0].Coords()}, http.StatusConflict},
		{"invalid vertex", "/api/v1/city", testKey, vertexRequest{Civ: "red", Vertex: [3]world.HexCoord{{}, {Q: 1}, far}}, http.StatusBadRequest},
		{"outpost on own city", "/api/v1/city", testKey, vertexRequest{Civ: "red", Vertex: res.Start.Coords()}, http.StatusConflict},
		{"upgrade empty vertex", "/api/v1/upgrade", testKey, vertexRequest{Vertex: [3]world.HexCoord{{Q: 40, R: 40}, {Q: 41, R: 40}, {Q: 40, R: 41}}}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.key, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAdminDisabled(t *testing.T) {
	ts, _ := newTestServer(t, "")
	resp := post(t, ts.URL+"/api/v1/road", "anything", roadRequest{Civ: "red"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status %d, want 403", resp.StatusCode)
	}
}

func TestUpgrade(t *testing.T) {
	ts, res := newTestServer(t, testKey)

	resp := post(t, ts.URL+"/api/v1/upgrade", testKey, vertexRequest{Vertex: res.Start.Coords()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upgrade: status %d", resp.StatusCode)
	}
	var city cityEntry
	if err := json.NewDecoder(resp.Body).Decode(&city); err != nil {
		t.Fatal(err)
	}
	if city.Level != "Colony" || city.Slots != 4 {
		t.Errorf("upgraded city = %+v, want Colony with 4 slots", city)
	}
}

func TestFrontierUnknownCiv(t *testing.T) {
	ts, _ := newTestServer(t, testKey)
	resp, err := http.Get(ts.URL + "/api/v1/civ/blue/frontier")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute).WithClock(func() time.Time { return now })

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests refused")
	}
	if rl.Allow("a") {
		t.Error("third request in window allowed")
	}
	if !rl.Allow("b") {
		t.Error("other client refused")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Errorf("RetryAfter = %d, want 61", got)
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("request after window refused")
	}

	now = now.Add(3 * time.Minute)
	rl.Allow("c")
	if _, ok := rl.buckets["b"]; ok {
		t.Error("idle bucket survived pruning")
	}
}
