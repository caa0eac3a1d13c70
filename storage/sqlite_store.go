package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bizdash/importer"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrCacheMiss is returned when no fresh fetch exists for a source key.
var ErrCacheMiss = errors.New("snapshot cache miss")

const (
	roleLogbook      = "logbook"
	roleRevenue      = "revenue"
	roleCompensation = "compensation"
	roleClientMap    = "client_map"
)

// SnapshotCache keeps the raw tables of the latest fetch per source so a
// reload within the TTL does not hit the remote source again. It never
// holds derived data.
type SnapshotCache struct {
	db *sql.DB
}

type CacheEntry struct {
	ID        uuid.UUID
	SourceKey string
	FetchedAt time.Time
	Rows      int
}

func OpenSQLite(path string) (*SnapshotCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	cache := &SnapshotCache{db: db}
	if err := cache.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return cache, nil
}

func (c *SnapshotCache) Close() error {
	return c.db.Close()
}

func (c *SnapshotCache) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS fetches (
	id TEXT PRIMARY KEY,
	source_key TEXT NOT NULL UNIQUE,
	fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	fetch_id TEXT NOT NULL,
	role TEXT NOT NULL,
	sheet_name TEXT NOT NULL,
	row_index INTEGER NOT NULL,
	cells TEXT NOT NULL,
	PRIMARY KEY (fetch_id, role, row_index)
);
`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Put replaces the cached fetch of sourceKey with tables.
func (c *SnapshotCache) Put(sourceKey string, tables importer.Tables, fetchedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := c.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sheet_rows WHERE fetch_id IN (SELECT id FROM fetches WHERE source_key = ?);`, sourceKey); err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("delete cached rows: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM fetches WHERE source_key = ?;`, sourceKey); err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("delete cached fetch: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO fetches (id, source_key, fetched_at) VALUES (?, ?, ?);`,
		id.String(), sourceKey, fetchedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("insert fetch: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO sheet_rows (fetch_id, role, sheet_name, row_index, cells) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for role, sheet := range sheetsByRole(tables) {
		if sheet == nil {
			continue
		}
		rows := sheet.Rows()
		if len(rows) == 0 {
			rows = [][]string{{}}
		}
		for i, row := range rows {
			cells, err := json.Marshal(row)
			if err != nil {
				_ = tx.Rollback()
				return uuid.Nil, fmt.Errorf("encode %s row %d: %w", role, i, err)
			}
			if _, err := stmt.Exec(id.String(), role, sheet.Name, i, string(cells)); err != nil {
				_ = tx.Rollback()
				return uuid.Nil, fmt.Errorf("insert %s row %d: %w", role, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// Get returns the cached tables of sourceKey when they are younger than
// maxAge at now. A non-positive maxAge accepts any age.
func (c *SnapshotCache) Get(sourceKey string, maxAge time.Duration, now time.Time) (importer.Tables, time.Time, error) {
	var (
		id         string
		fetchedRaw string
	)
	err := c.db.QueryRow(`SELECT id, fetched_at FROM fetches WHERE source_key = ?;`, sourceKey).Scan(&id, &fetchedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return importer.Tables{}, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return importer.Tables{}, time.Time{}, fmt.Errorf("query fetch: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339Nano, fetchedRaw)
	if err != nil {
		return importer.Tables{}, time.Time{}, fmt.Errorf("parse fetched_at %q: %w", fetchedRaw, err)
	}
	if maxAge > 0 && now.Sub(fetchedAt) > maxAge {
		return importer.Tables{}, fetchedAt, ErrCacheMiss
	}

	rows, err := c.db.Query(`SELECT role, sheet_name, cells FROM sheet_rows WHERE fetch_id = ? ORDER BY role, row_index;`, id)
	if err != nil {
		return importer.Tables{}, time.Time{}, fmt.Errorf("query cached rows: %w", err)
	}
	defer rows.Close()

	type rawSheet struct {
		name string
		rows [][]string
	}
	byRole := make(map[string]*rawSheet, 4)
	for rows.Next() {
		var role, name, cellsRaw string
		if err := rows.Scan(&role, &name, &cellsRaw); err != nil {
			return importer.Tables{}, time.Time{}, fmt.Errorf("scan cached row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsRaw), &cells); err != nil {
			return importer.Tables{}, time.Time{}, fmt.Errorf("decode cached row: %w", err)
		}
		sheet, ok := byRole[role]
		if !ok {
			sheet = &rawSheet{name: name}
			byRole[role] = sheet
		}
		sheet.rows = append(sheet.rows, cells)
	}
	if err := rows.Err(); err != nil {
		return importer.Tables{}, time.Time{}, fmt.Errorf("iterate cached rows: %w", err)
	}

	restore := func(role string) *importer.Sheet {
		sheet, ok := byRole[role]
		if !ok {
			return nil
		}
		return importer.NewSheet(sheet.name, sheet.rows)
	}
	tables := importer.Tables{
		Logbook:      restore(roleLogbook),
		Revenue:      restore(roleRevenue),
		Compensation: restore(roleCompensation),
		ClientMap:    restore(roleClientMap),
	}
	return tables, fetchedAt, nil
}

// List returns every cached fetch, newest first.
func (c *SnapshotCache) List() ([]CacheEntry, error) {
	const query = `
SELECT f.id, f.source_key, f.fetched_at, COUNT(r.row_index)
FROM fetches f
LEFT JOIN sheet_rows r ON r.fetch_id = f.id
GROUP BY f.id, f.source_key, f.fetched_at
ORDER BY f.fetched_at DESC;
`
	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query fetches: %w", err)
	}
	defer rows.Close()

	entries := make([]CacheEntry, 0, 4)
	for rows.Next() {
		var (
			entry      CacheEntry
			idRaw      string
			fetchedRaw string
		)
		if err := rows.Scan(&idRaw, &entry.SourceKey, &fetchedRaw, &entry.Rows); err != nil {
			return nil, fmt.Errorf("scan fetch: %w", err)
		}
		if entry.ID, err = uuid.Parse(idRaw); err != nil {
			return nil, fmt.Errorf("parse fetch id %q: %w", idRaw, err)
		}
		if entry.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedRaw); err != nil {
			return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedRaw, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetches: %w", err)
	}
	return entries, nil
}

// Clear drops every cached fetch and reports how many were removed.
func (c *SnapshotCache) Clear() (int64, error) {
	if _, err := c.db.Exec(`DELETE FROM sheet_rows;`); err != nil {
		return 0, fmt.Errorf("delete cached rows: %w", err)
	}
	res, err := c.db.Exec(`DELETE FROM fetches;`)
	if err != nil {
		return 0, fmt.Errorf("delete fetches: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func sheetsByRole(tables importer.Tables) map[string]*importer.Sheet {
	return map[string]*importer.Sheet{
		roleLogbook:      tables.Logbook,
		roleRevenue:      tables.Revenue,
		roleCompensation: tables.Compensation,
		roleClientMap:    tables.ClientMap,
	}
}
