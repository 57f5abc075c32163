// Package sqlite implements the embedded search engine on top of SQLite
// FTS5.
//
// SQLite has no structured web-search parser, so this engine always reports
// NoStructuredSyntax: it receives plain tokens, matches them all, and never
// produces highlights.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"unicode"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/driftmesh/roomsearch/pkg/engine"
	"github.com/driftmesh/roomsearch/pkg/log"
	"github.com/driftmesh/roomsearch/pkg/sanitize"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS event_search (
		event_id TEXT NOT NULL,
		room_id  TEXT NOT NULL,
		key      TEXT NOT NULL,
		value    TEXT NOT NULL,
		PRIMARY KEY (event_id, key)
	)`,
	`CREATE INDEX IF NOT EXISTS event_search_room_idx ON event_search (room_id)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS event_search_fts USING fts5(value)`,
}

// Engine is an embedded SQLite search index.
type Engine struct {
	db     *sql.DB
	logger *log.Logger

	mu     sync.Mutex
	forced *engine.Capability
}

// Open opens (or creates) the search index at dbPath.
func Open(dbPath string) (*Engine, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating search schema: %w", err)
		}
	}

	return &Engine{db: db, logger: log.ForEngine("sqlite")}, nil
}

// Close releases the database handle.
func (e *Engine) Close() error {
	return e.db.Close()
}

// ForceCapability pins the reported tier. SQLite only ever executes plain
// token queries, so forcing a richer tier changes translation but not what
// the engine can actually match.
func (e *Engine) ForceCapability(c engine.Capability) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forced = &c
}

// Capability always reports NoStructuredSyntax unless forced.
func (e *Engine) Capability(ctx context.Context) (engine.Capability, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.forced != nil {
		return *e.forced, nil
	}
	return engine.NoStructuredSyntax, nil
}

// Index stores entries in both the lookup table and the FTS index, keyed by
// the same rowid. Values are sanitized before they reach FTS5, which rejects
// null bytes.
func (e *Engine) Index(ctx context.Context, entries []engine.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				e.logger.Warnf("rolling back index transaction: %v", err)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO event_search (event_id, room_id, key, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			e.logger.Warnf("closing statement: %v", err)
		}
	}()

	ftsStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO event_search_fts (rowid, value)
		VALUES ((SELECT rowid FROM event_search WHERE event_id = ? AND key = ?), ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing FTS statement: %w", err)
	}
	defer func() {
		if err := ftsStmt.Close(); err != nil {
			e.logger.Warnf("closing FTS statement: %v", err)
		}
	}()

	for _, entry := range entries {
		value := sanitize.Clean(entry.Value)
		if _, err := stmt.ExecContext(ctx, entry.EventID, entry.RoomID, entry.Key, value); err != nil {
			return fmt.Errorf("indexing event %s: %w", entry.EventID, err)
		}
		if _, err := ftsStmt.ExecContext(ctx, entry.EventID, entry.Key, value); err != nil {
			return fmt.Errorf("indexing event %s into FTS: %w", entry.EventID, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// Search matches all tokens of the translated query against the FTS index,
// scoped to the given rooms and keys. Results are ordered by bm25 relevance;
// no highlights are produced at this tier.
func (e *Engine) Search(ctx context.Context, translated string, roomIDs, keys []string) ([]engine.Match, error) {
	if translated == "" || len(roomIDs) == 0 || len(keys) == 0 {
		return nil, nil
	}

	match := ftsMatchExpr(translated)
	if match == "" {
		return nil, nil
	}

	sqlQuery := `
		SELECT e.event_id, e.room_id, e.key, bm25(event_search_fts) AS rank
		FROM event_search e
		JOIN event_search_fts f ON e.rowid = f.rowid
		WHERE event_search_fts MATCH ?
		  AND e.room_id IN (` + placeholders(len(roomIDs)) + `)
		  AND e.key IN (` + placeholders(len(keys)) + `)
		ORDER BY rank, e.event_id`

	args := make([]interface{}, 0, 1+len(roomIDs)+len(keys))
	args = append(args, match)
	for _, roomID := range roomIDs {
		args = append(args, roomID)
	}
	for _, key := range keys {
		args = append(args, key)
	}

	e.logger.Debugf("executing token search %q in %d rooms", match, len(roomIDs))

	rows, err := e.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying event_search: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			e.logger.Warnf("closing search rows: %v", err)
		}
	}()

	var matches []engine.Match
	for rows.Next() {
		var m engine.Match
		if err := rows.Scan(&m.EventID, &m.RoomID, &m.Key, &m.Rank); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Stats reports index totals.
func (e *Engine) Stats(ctx context.Context) (engine.Stats, error) {
	var stats engine.Stats
	err := e.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT room_id) FROM event_search",
	).Scan(&stats.Entries, &stats.Rooms)
	if err != nil {
		return engine.Stats{}, fmt.Errorf("counting index entries: %w", err)
	}
	return stats, nil
}

// ftsMatchExpr turns space-separated plain tokens into an FTS5 MATCH
// expression. Each token is double-quoted so FTS5 treats it as a literal
// string rather than query syntax. Tokens with no letters or digits are
// dropped: they tokenize to nothing and would make the MATCH expression
// invalid.
func ftsMatchExpr(translated string) string {
	tokens := strings.Fields(translated)
	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !strings.ContainsFunc(tok, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(tok, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " AND ")
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
