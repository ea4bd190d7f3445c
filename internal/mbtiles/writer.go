package mbtiles

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"image/png"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/MeKo-Tech/planetgen/internal/tile"
)

// batchSize is the number of tiles buffered before a transaction is committed.
const batchSize = 64

const schema = `
	CREATE TABLE IF NOT EXISTS metadata (name TEXT NOT NULL, value TEXT);
	CREATE TABLE IF NOT EXISTS tiles (
		zoom_level INTEGER NOT NULL,
		tile_column INTEGER NOT NULL,
		tile_row INTEGER NOT NULL,
		tile_data BLOB NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS tile_index ON tiles (zoom_level, tile_column, tile_row);
`

type pending struct {
	coords tile.Coords
	data   []byte
}

// Writer adds preview tiles to an MBTiles file. It is safe for concurrent use.
type Writer struct {
	db      *sql.DB
	mu      sync.Mutex
	pending []pending
	written int
}

// Create opens or creates the tileset at path and replaces its metadata.
func Create(path string, meta Metadata) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range []string{"PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialise %s: %w", path, err)
		}
	}

	if err := replaceMetadata(db, meta); err != nil {
		db.Close()
		return nil, err
	}

	return &Writer{db: db, pending: make([]pending, 0, batchSize)}, nil
}

func replaceMetadata(db *sql.DB, meta Metadata) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	for name, value := range meta.rows() {
		if _, err := tx.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// WriteImage encodes img as PNG and queues it for c.
func (w *Writer) WriteImage(c tile.Coords, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode tile %s: %w", c.String(), err)
	}
	return w.WriteTile(c, buf.Bytes())
}

// WriteTile queues encoded tile data for c. A full batch is flushed at once.
func (w *Writer) WriteTile(c tile.Coords, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, pending{coords: c, data: data})
	if len(w.pending) >= batchSize {
		return w.flushLocked()
	}
	return nil
}

// Written returns the number of tiles committed so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush commits queued tiles.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if len(w.pending) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range w.pending {
		if _, err := stmt.Exec(p.coords.Z, p.coords.X, tmsRow(p.coords), p.data); err != nil {
			return fmt.Errorf("failed to insert tile %s: %w", p.coords.String(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tiles: %w", err)
	}

	w.written += len(w.pending)
	w.pending = w.pending[:0]
	return nil
}

// Close flushes remaining tiles and closes the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// tmsRow flips an XYZ row into the TMS row MBTiles stores.
func tmsRow(c tile.Coords) uint32 {
	return (uint32(1) << c.Z) - 1 - c.Y
}
