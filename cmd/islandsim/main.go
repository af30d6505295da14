// Command islandsim generates or restores an island and serves it over
// HTTP and SSH until interrupted.
package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/hex-isle/internal/api"
	"github.com/talgya/hex-isle/internal/console"
	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/persistence"
	"github.com/talgya/hex-isle/internal/session"
	"github.com/talgya/hex-isle/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	seed := envInt("ISLAND_SEED", 42)
	dbPath := envString("ISLAND_DB", "data/island.db")
	apiPort := int(envInt("ISLAND_HTTP_PORT", 8080))
	sshAddr := envString("ISLAND_SSH_ADDR", ":2222")
	civNames := envString("ISLAND_CIVS", "red,blue")

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Load or Generate Island ──────────────────────────────────────
	var m *island.Map
	label := "seed-" + strconv.FormatInt(seed, 10)
	slot, err := db.LatestSlot()
	switch {
	case err == nil:
		slog.Info("found saved island, loading...", "slot", slot)
		m, err = db.LoadMap(slot)
		if err == nil {
			label, err = db.SlotLabel(slot)
		}
		if err != nil {
			slog.Error("failed to load island", "slot", slot, "error", err)
			os.Exit(1)
		}
	case errors.Is(err, persistence.ErrNoSlot):
		slog.Info("no saved island found, generating...", "seed", seed)
		var civs []island.Civilization
		for _, name := range strings.Split(civNames, ",") {
			civ, err := island.ParseCivilization(strings.TrimSpace(name))
			if err != nil {
				slog.Error("bad ISLAND_CIVS entry", "entry", name, "error", err)
				os.Exit(1)
			}
			civs = append(civs, civ)
		}
		cfg := worldgen.DefaultConfig(civs...)
		cfg.Seed = seed
		res, err := worldgen.Generate(cfg)
		if err != nil {
			slog.Error("island generation failed", "seed", seed, "error", err)
			os.Exit(1)
		}
		m = res.Map
		slot, err = db.SaveIsland(label, m.Snapshot())
		if err != nil {
			slog.Error("failed to save island", "error", err)
			os.Exit(1)
		}
		slog.Info("island generated", "slot", slot, "land", len(res.Land), "water", len(res.Water), "start", res.Start)
	default:
		slog.Error("failed to look up saved islands", "error", err)
		os.Exit(1)
	}

	sess := session.New(label, m, time.Minute)
	slog.Info("island ready", "session", sess.ID, "map", m.String())

	save := func() {
		if err := db.ReplaceIsland(slot, sess.Label, sess.Snapshot()); err != nil {
			slog.Error("save failed", "slot", slot, "error", err)
			return
		}
		slog.Info("island saved", "slot", slot)
	}

	// ── HTTP API ─────────────────────────────────────────────────────
	adminKey := os.Getenv("ISLAND_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("ISLAND_ADMIN_KEY not set, POST endpoints disabled")
	}
	srv := &api.Server{Session: sess, Port: apiPort, AdminKey: adminKey}
	srv.Start()

	// ── SSH Console ──────────────────────────────────────────────────
	con := &console.Server{Session: sess, Addr: sshAddr, HostKey: os.Getenv("ISLAND_SSH_HOST_KEY")}
	go func() {
		if err := con.Start(); err != nil {
			slog.Error("SSH console stopped", "error", err)
		}
	}()

	// ── Autosave + Shutdown ──────────────────────────────────────────
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			save()
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			slog.Info("final save...")
			save()
			return
		}
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed integer", "key", key, "value", v)
		return def
	}
	return n
}
