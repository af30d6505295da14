// Package persistence provides SQLite-based island storage. Each save is a
// slot holding one island snapshot; saving to a slot replaces it whole.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hex-isle/internal/economy"
	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/world"
)

// ErrNoSlot is returned when a requested save slot does not exist.
var ErrNoSlot = errors.New("no such save slot")

// DB wraps a SQLite connection for island persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS islands (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hexes (
		island_id TEXT NOT NULL REFERENCES islands(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		PRIMARY KEY (island_id, ord)
	);

	CREATE TABLE IF NOT EXISTS civilizations (
		island_id TEXT NOT NULL REFERENCES islands(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		civ TEXT NOT NULL,
		PRIMARY KEY (island_id, ord)
	);

	CREATE TABLE IF NOT EXISTS cities (
		island_id TEXT NOT NULL REFERENCES islands(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		owner TEXT NOT NULL,
		level INTEGER NOT NULL,
		aq INTEGER NOT NULL, ar INTEGER NOT NULL,
		bq INTEGER NOT NULL, br INTEGER NOT NULL,
		cq INTEGER NOT NULL, cr INTEGER NOT NULL,
		PRIMARY KEY (island_id, ord)
	);

	CREATE TABLE IF NOT EXISTS buildings (
		island_id TEXT NOT NULL REFERENCES islands(id) ON DELETE CASCADE,
		city_ord INTEGER NOT NULL,
		ord INTEGER NOT NULL,
		building INTEGER NOT NULL,
		last_produced INTEGER,
		PRIMARY KEY (island_id, city_ord, ord)
	);

	CREATE TABLE IF NOT EXISTS roads (
		island_id TEXT NOT NULL REFERENCES islands(id) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		owner TEXT NOT NULL,
		aq INTEGER NOT NULL, ar INTEGER NOT NULL,
		bq INTEGER NOT NULL, br INTEGER NOT NULL,
		PRIMARY KEY (island_id, ord)
	);

	CREATE INDEX IF NOT EXISTS idx_islands_saved ON islands(saved_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveIsland stores snap in a new slot and returns the slot id.
func (db *DB) SaveIsland(label string, snap island.Snapshot) (string, error) {
	slot := uuid.New().String()
	if err := db.ReplaceIsland(slot, label, snap); err != nil {
		return "", err
	}
	return slot, nil
}

// ReplaceIsland writes snap to slot, replacing whatever the slot held.
func (db *DB) ReplaceIsland(slot, label string, snap island.Snapshot) error {
	if len(snap.Terrain) != len(snap.Coords) {
		return fmt.Errorf("save %s: %d coords but %d terrain entries", slot, len(snap.Coords), len(snap.Terrain))
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"roads", "buildings", "cities", "civilizations", "hexes"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE island_id = ?", slot); err != nil {
			return fmt.Errorf("clear %s of slot %s: %w", table, slot, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM islands WHERE id = ?", slot); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	if _, err := tx.Exec("INSERT INTO islands (id, label, saved_at) VALUES (?, ?, ?)",
		slot, label, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("insert island %s: %w", slot, err)
	}

	hexStmt, err := tx.Preparex("INSERT INTO hexes (island_id, ord, q, r, terrain) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer hexStmt.Close()
	for i, c := range snap.Coords {
		if _, err := hexStmt.Exec(slot, i, c.Q, c.R, snap.Terrain[i]); err != nil {
			return fmt.Errorf("insert hex %v: %w", c, err)
		}
	}

	for i, civ := range snap.Civilizations {
		if _, err := tx.Exec("INSERT INTO civilizations (island_id, ord, civ) VALUES (?, ?, ?)", slot, i, civ); err != nil {
			return fmt.Errorf("insert civilization %s: %w", civ, err)
		}
	}

	for i, city := range snap.Cities {
		v := city.Vertex
		_, err := tx.Exec(`INSERT INTO cities
			(island_id, ord, owner, level, aq, ar, bq, br, cq, cr)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			slot, i, city.Owner, city.Level,
			v[0].Q, v[0].R, v[1].Q, v[1].R, v[2].Q, v[2].R,
		)
		if err != nil {
			return fmt.Errorf("insert city %d: %w", i, err)
		}
		for j, b := range city.Buildings {
			var produced *int64
			if !b.LastProduced.IsZero() {
				n := b.LastProduced.UnixNano()
				produced = &n
			}
			if _, err := tx.Exec(`INSERT INTO buildings
				(island_id, city_ord, ord, building, last_produced) VALUES (?, ?, ?, ?, ?)`,
				slot, i, j, b.Type, produced); err != nil {
				return fmt.Errorf("insert building %v of city %d: %w", b.Type, i, err)
			}
		}
	}

	for i, road := range snap.Roads {
		e := road.Edge
		if _, err := tx.Exec(`INSERT INTO roads
			(island_id, ord, owner, aq, ar, bq, br) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			slot, i, road.Owner, e[0].Q, e[0].R, e[1].Q, e[1].R); err != nil {
			return fmt.Errorf("insert road %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("island saved", "slot", slot, "label", label,
		"hexes", len(snap.Coords), "cities", len(snap.Cities), "roads", len(snap.Roads))
	return nil
}

type hexRow struct {
	Q       int           `db:"q"`
	R       int           `db:"r"`
	Terrain world.Terrain `db:"terrain"`
}

type cityRow struct {
	Ord   int          `db:"ord"`
	Owner string       `db:"owner"`
	Level island.Level `db:"level"`
	AQ    int          `db:"aq"`
	AR    int          `db:"ar"`
	BQ    int          `db:"bq"`
	BR    int          `db:"br"`
	CQ    int          `db:"cq"`
	CR    int          `db:"cr"`
}

type buildingRow struct {
	CityOrd      int                  `db:"city_ord"`
	Building     economy.BuildingType `db:"building"`
	LastProduced sql.NullInt64        `db:"last_produced"`
}

type roadRow struct {
	Owner string `db:"owner"`
	AQ    int    `db:"aq"`
	AR    int    `db:"ar"`
	BQ    int    `db:"bq"`
	BR    int    `db:"br"`
}

// LoadIsland reads the snapshot stored in slot.
func (db *DB) LoadIsland(slot string) (island.Snapshot, error) {
	var snap island.Snapshot

	label, err := db.SlotLabel(slot)
	if err != nil {
		return snap, fmt.Errorf("load: %w", err)
	}

	var hexes []hexRow
	if err := db.conn.Select(&hexes, "SELECT q, r, terrain FROM hexes WHERE island_id = ? ORDER BY ord", slot); err != nil {
		return snap, fmt.Errorf("load hexes: %w", err)
	}
	for _, h := range hexes {
		snap.Coords = append(snap.Coords, world.HexCoord{Q: h.Q, R: h.R})
		snap.Terrain = append(snap.Terrain, h.Terrain)
	}

	if err := db.conn.Select(&snap.Civilizations, "SELECT civ FROM civilizations WHERE island_id = ? ORDER BY ord", slot); err != nil {
		return snap, fmt.Errorf("load civilizations: %w", err)
	}

	var cities []cityRow
	if err := db.conn.Select(&cities, `SELECT ord, owner, level, aq, ar, bq, br, cq, cr
		FROM cities WHERE island_id = ? ORDER BY ord`, slot); err != nil {
		return snap, fmt.Errorf("load cities: %w", err)
	}
	var buildings []buildingRow
	if err := db.conn.Select(&buildings, `SELECT city_ord, building, last_produced
		FROM buildings WHERE island_id = ? ORDER BY city_ord, ord`, slot); err != nil {
		return snap, fmt.Errorf("load buildings: %w", err)
	}
	byCity := make(map[int][]island.Building)
	for _, b := range buildings {
		var at time.Time
		if b.LastProduced.Valid {
			at = time.Unix(0, b.LastProduced.Int64).UTC()
		}
		byCity[b.CityOrd] = append(byCity[b.CityOrd], island.Building{Type: b.Building, LastProduced: at})
	}
	for _, c := range cities {
		snap.Cities = append(snap.Cities, island.CityRecord{
			Vertex: [3]world.HexCoord{
				{Q: c.AQ, R: c.AR},
				{Q: c.BQ, R: c.BR},
				{Q: c.CQ, R: c.CR},
			},
			Owner:     c.Owner,
			Level:     c.Level,
			Buildings: byCity[c.Ord],
		})
	}

	var roads []roadRow
	if err := db.conn.Select(&roads, "SELECT owner, aq, ar, bq, br FROM roads WHERE island_id = ? ORDER BY ord", slot); err != nil {
		return snap, fmt.Errorf("load roads: %w", err)
	}
	for _, r := range roads {
		snap.Roads = append(snap.Roads, island.RoadRecord{
			Edge:  [2]world.HexCoord{{Q: r.AQ, R: r.AR}, {Q: r.BQ, R: r.BR}},
			Owner: r.Owner,
		})
	}

	slog.Debug("island loaded", "slot", slot, "label", label)
	return snap, nil
}

// LoadMap reads slot and replays it into a live map.
func (db *DB) LoadMap(slot string) (*island.Map, error) {
	snap, err := db.LoadIsland(slot)
	if err != nil {
		return nil, err
	}
	return island.Restore(snap)
}

// LatestSlot returns the most recently saved slot.
func (db *DB) LatestSlot() (string, error) {
	var slot string
	err := db.conn.Get(&slot, "SELECT id FROM islands ORDER BY saved_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSlot
	}
	return slot, err
}

// HasIslands reports whether any slot has been saved.
func (db *DB) HasIslands() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM islands"); err != nil {
		return false
	}
	return n > 0
}

// SlotLabel returns the label slot was saved under.
func (db *DB) SlotLabel(slot string) (string, error) {
	var label string
	err := db.conn.Get(&label, "SELECT label FROM islands WHERE id = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("label %s: %w", slot, ErrNoSlot)
	}
	return label, err
}
