// Package api provides the HTTP API for an island session.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token and are rate limited per client.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/session"
	"github.com/talgya/hex-isle/internal/world"
)

// Server serves one session over HTTP.
type Server struct {
	Session  *session.Session
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Limiter throttles POST endpoints. Nil means 60 per minute per client.
	Limiter *RateLimiter
}

// Handler builds the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	if s.Limiter == nil {
		s.Limiter = NewRateLimiter(60, time.Minute)
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/hexes", s.handleHexes)
	mux.HandleFunc("/api/v1/cities", s.handleCities)
	mux.HandleFunc("/api/v1/roads", s.handleRoads)
	mux.HandleFunc("/api/v1/civ/", s.handleCivRoutes)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/road", s.adminOnly(RateLimitMiddleware(s.Limiter, s.handleBuildRoad)))
	mux.HandleFunc("/api/v1/city", s.adminOnly(RateLimitMiddleware(s.Limiter, s.handleBuildOutpost)))
	mux.HandleFunc("/api/v1/upgrade", s.adminOnly(RateLimitMiddleware(s.Limiter, s.handleUpgrade)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "session", s.Session.ID, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set ISLAND_CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("ISLAND_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly restricts a handler to authenticated POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no ISLAND_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// ── Public views ─────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"session": s.Session.ID, "label": s.Session.Label}
	_ = s.Session.Read(func(m *island.Map) error {
		land := 0
		for _, c := range m.Grid().Coords() {
			if t, _ := m.Terrain(c); t.IsLand() {
				land++
			}
		}
		civs := make([]string, 0)
		for _, civ := range m.Civilizations() {
			civs = append(civs, civ.ID())
		}
		status["hexes"] = m.Grid().Len()
		status["land"] = land
		status["visible"] = len(m.VisibleHexes())
		status["civilizations"] = civs
		status["cities"] = m.CityCount()
		status["roads"] = len(m.Roads())
		if v, ok := m.Capital(); ok {
			status["capital"] = v.Coords()
		}
		return nil
	})
	writeJSON(w, status)
}

type hexEntry struct {
	Q       int    `json:"q"`
	R       int    `json:"r"`
	Terrain string `json:"terrain"`
	Visible bool   `json:"visible"`
}

func (s *Server) handleHexes(w http.ResponseWriter, r *http.Request) {
	var hexes []hexEntry
	_ = s.Session.Read(func(m *island.Map) error {
		hexes = make([]hexEntry, 0, m.Grid().Len())
		for _, c := range m.Grid().Coords() {
			t, _ := m.Terrain(c)
			hexes = append(hexes, hexEntry{Q: c.Q, R: c.R, Terrain: t.String(), Visible: m.IsVisible(c)})
		}
		return nil
	})
	writeJSON(w, hexes)
}

type cityEntry struct {
	Vertex    [3]world.HexCoord `json:"vertex"`
	Owner     string            `json:"owner"`
	Level     string            `json:"level"`
	Slots     int               `json:"slots"`
	Buildings []string          `json:"buildings"`
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	var cities []cityEntry
	_ = s.Session.Read(func(m *island.Map) error {
		cities = make([]cityEntry, 0, m.CityCount())
		for _, c := range m.Cities() {
			entry := cityEntry{
				Vertex:    c.Vertex.Coords(),
				Owner:     c.Owner.ID(),
				Level:     c.Level.String(),
				Slots:     c.Level.Slots(),
				Buildings: make([]string, 0, len(c.Buildings)),
			}
			for _, b := range c.Buildings {
				entry.Buildings = append(entry.Buildings, b.Type.String())
			}
			cities = append(cities, entry)
		}
		return nil
	})
	writeJSON(w, cities)
}

type roadEntry struct {
	Edge     [2]world.HexCoord `json:"edge"`
	Owner    string            `json:"owner"`
	Distance *int              `json:"distance,omitempty"` // Omitted when cut off from every city
}

func (s *Server) handleRoads(w http.ResponseWriter, r *http.Request) {
	var roads []roadEntry
	_ = s.Session.Read(func(m *island.Map) error {
		all := m.Roads()
		roads = make([]roadEntry, 0, len(all))
		for _, rd := range all {
			entry := roadEntry{Edge: rd.Edge.Coords(), Owner: rd.Owner.ID()}
			if d, ok := m.RoadDistance(rd.Edge, rd.Owner); ok {
				entry.Distance = &d
			}
			roads = append(roads, entry)
		}
		return nil
	})
	writeJSON(w, roads)
}

// handleCivRoutes dispatches GET /api/v1/civ/:id/frontier.
func (s *Server) handleCivRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/civ/")
	id, rest, _ := strings.Cut(path, "/")
	if rest != "frontier" {
		http.NotFound(w, r)
		return
	}
	civ, err := island.ParseCivilization(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.handleFrontier(w, civ)
}

type frontierRoad struct {
	Edge     [2]world.HexCoord `json:"edge"`
	Distance int               `json:"distance"`
	Cost     map[string]int    `json:"cost"`
}

type frontierOutpost struct {
	Vertex   [3]world.HexCoord `json:"vertex"`
	Distance int               `json:"distance"`
}

func (s *Server) handleFrontier(w http.ResponseWriter, civ island.Civilization) {
	roads := make([]frontierRoad, 0)
	outposts := make([]frontierOutpost, 0)
	var outpostCost economy.Bundle

	err := s.Session.Read(func(m *island.Map) error {
		if !m.IsRegistered(civ) {
			return fmt.Errorf("civilization %q not registered: %w", civ, island.ErrRuleViolation)
		}
		for _, e := range m.RoadFrontier(civ) {
			d, _ := m.ProspectiveRoadDistance(e, civ)
			cost, _ := m.RoadCost(e, civ, economy.RoadBaseCost)
			roads = append(roads, frontierRoad{Edge: e.Coords(), Distance: d, Cost: bundleJSON(cost)})
		}
		for _, v := range m.OutpostFrontier(civ) {
			d, _ := m.VertexDistance(v, civ)
			outposts = append(outposts, frontierOutpost{Vertex: v.Coords(), Distance: d})
		}
		outpostCost = m.OutpostCost(economy.OutpostBaseCost)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"civilization": civ.ID(),
		"roads":        roads,
		"outposts":     outposts,
		"outpost_cost": bundleJSON(outpostCost),
	})
}

// ── Admin commands ───────────────────────────────────────────────────

type roadRequest struct {
	Civ  string            `json:"civ"`
	Edge [2]world.HexCoord `json:"edge"`
}

func (s *Server) handleBuildRoad(w http.ResponseWriter, r *http.Request) {
	var req roadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	civ, err := island.ParseCivilization(req.Civ)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := world.NewEdge(req.Edge[0], req.Edge[1])
	if err != nil {
		writeError(w, err)
		return
	}

	var resp roadEntry
	err = s.Session.Write(func(m *island.Map) error {
		if !m.CanBuildRoad(e, civ) {
			return fmt.Errorf("road %v is not on the frontier of %v: %w", e, civ, island.ErrRuleViolation)
		}
		if err := m.AddRoad(e, civ); err != nil {
			return err
		}
		resp = roadEntry{Edge: e.Coords(), Owner: civ.ID()}
		if d, ok := m.RoadDistance(e, civ); ok {
			resp.Distance = &d
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("road built", "session", s.Session.ID, "civ", civ, "edge", e)
	writeJSON(w, resp)
}

type vertexRequest struct {
	Civ    string            `json:"civ"`
	Vertex [3]world.HexCoord `json:"vertex"`
}

func (s *Server) decodeVertex(w http.ResponseWriter, r *http.Request) (vertexRequest, world.Vertex, bool) {
	var req vertexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return req, world.Vertex{}, false
	}
	v, err := world.NewVertex(req.Vertex[0], req.Vertex[1], req.Vertex[2])
	if err != nil {
		writeError(w, err)
		return req, world.Vertex{}, false
	}
	return req, v, true
}

func (s *Server) handleBuildOutpost(w http.ResponseWriter, r *http.Request) {
	req, v, ok := s.decodeVertex(w, r)
	if !ok {
		return
	}
	civ, err := island.ParseCivilization(req.Civ)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp cityEntry
	err = s.Session.Write(func(m *island.Map) error {
		if !m.CanBuildOutpost(v, civ) {
			return fmt.Errorf("outpost %v is not on the frontier of %v: %w", v, civ, island.ErrRuleViolation)
		}
		if err := m.AddOutpost(v, civ); err != nil {
			return err
		}
		city, _ := m.CityAt(v)
		resp = cityEntry{Vertex: v.Coords(), Owner: civ.ID(), Level: city.Level.String(), Slots: city.Level.Slots(), Buildings: []string{}}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("outpost founded", "session", s.Session.ID, "civ", civ, "vertex", v)
	writeJSON(w, resp)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	_, v, ok := s.decodeVertex(w, r)
	if !ok {
		return
	}

	var resp cityEntry
	err := s.Session.Write(func(m *island.Map) error {
		if err := m.UpgradeCity(v); err != nil {
			return err
		}
		city, _ := m.CityAt(v)
		resp = cityEntry{Vertex: v.Coords(), Owner: city.Owner.ID(), Level: city.Level.String(), Slots: city.Level.Slots(), Buildings: []string{}}
		for _, b := range city.Buildings {
			resp.Buildings = append(resp.Buildings, b.Type.String())
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("city upgraded", "session", s.Session.ID, "vertex", v, "level", resp.Level)
	writeJSON(w, resp)
}

// ── Helpers ──────────────────────────────────────────────────────────

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, world.ErrInvalidGeometry):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, island.ErrRuleViolation):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func bundleJSON(b economy.Bundle) map[string]int {
	out := make(map[string]int, len(b))
	for res, n := range b {
		if n != 0 {
			out[res.String()] = n
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
