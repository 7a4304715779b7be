// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a SQLite copy of raw session documents so analysts
// can query experiment metadata with plain SQL instead of re-reading the
// JSON directory.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vullab/rps-export/internal/scan"
	"github.com/vullab/rps-export/pkg/types"
)

const defaultDBFile = "sessions.db"

// Store manages the session archive SQLite database.
type Store struct {
	db  *sql.DB
	cfg types.ArchiveConfig
}

// NewStore opens or creates the archive database at cfg.DBPath (default
// "sessions.db") and creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBFile
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		filename TEXT PRIMARY KEY,
		schema_version TEXT NOT NULL,
		game_id TEXT,
		round_count INTEGER NOT NULL,
		bot_strategy TEXT,
		file_mod_time TEXT NOT NULL,
		ingested_at TEXT NOT NULL,
		raw_json TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// IngestSummary holds the outcome of an ingestion run.
type IngestSummary struct {
	Indexed int
	Skipped int
	Failed  int
}

// HasFailures reports whether any session failed ingestion.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest scans the data directory and upserts one archive row per session
// file. A file whose modification time matches its stored row is skipped.
// Per-file failures are counted and reported but do not stop the run.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	var sum IngestSummary

	files, err := scan.Sessions(s.cfg.DataDir)
	if err != nil {
		return sum, err
	}

	for _, name := range files {
		switch err := s.ingestFile(ctx, name); {
		case err == nil:
			fmt.Fprintf(w, "indexed: %s\n", name)
			sum.Indexed++
		case err == errUnchanged:
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", name)
			sum.Skipped++
		default:
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			sum.Failed++
		}
	}

	fmt.Fprintf(w, "\nArchive summary: %d indexed, %d skipped, %d failed\n",
		sum.Indexed, sum.Skipped, sum.Failed)
	return sum, nil
}

// errUnchanged marks a session file already archived at its current
// modification time.
var errUnchanged = fmt.Errorf("unchanged")

// sessionMeta is the subset of a session document stored in queryable
// columns; the full document goes in raw_json.
type sessionMeta struct {
	Rounds []struct {
		GameID string `json:"game_id"`
	} `json:"rounds"`
	BotStrategy string `json:"player2_bot_strategy"`
}

func (s *Store) ingestFile(ctx context.Context, name string) error {
	path := filepath.Join(s.cfg.DataDir, name)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM sessions WHERE filename = ?`, name).Scan(&stored)
	if err == nil && stored == modTime {
		return errUnchanged
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var meta sessionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("parsing session document: %w", err)
	}

	gameID := ""
	if len(meta.Rounds) > 0 {
		gameID = meta.Rounds[0].GameID
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO sessions
		(filename, schema_version, game_id, round_count, bot_strategy,
		 file_mod_time, ingested_at, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, string(s.cfg.Schema), gameID, len(meta.Rounds), meta.BotStrategy,
		modTime, time.Now().UTC().Format(time.RFC3339), string(data))
	if err != nil {
		return fmt.Errorf("inserting session row: %w", err)
	}
	return nil
}

// Count returns the number of archived sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

// SessionRecord is one archived session row.
type SessionRecord struct {
	Filename    string
	Schema      types.SchemaVersion
	GameID      string
	RoundCount  int
	BotStrategy string
}

// Session fetches the archive row for one session file.
func (s *Store) Session(ctx context.Context, filename string) (*SessionRecord, error) {
	var rec SessionRecord
	var schema string
	err := s.db.QueryRowContext(ctx,
		`SELECT filename, schema_version, game_id, round_count, bot_strategy
		 FROM sessions WHERE filename = ?`, filename).
		Scan(&rec.Filename, &schema, &rec.GameID, &rec.RoundCount, &rec.BotStrategy)
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", filename, err)
	}
	rec.Schema = types.SchemaVersion(schema)
	return &rec, nil
}
