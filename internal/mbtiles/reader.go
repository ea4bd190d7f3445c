package mbtiles

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/MeKo-Tech/planetgen/internal/tile"
)

// ErrTileNotFound is returned when a tileset has no entry for a tile.
var ErrTileNotFound = errors.New("tile not found")

// Reader reads preview tiles back from an MBTiles file.
type Reader struct {
	db *sql.DB
}

// Open opens an existing tileset.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open tileset: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='tiles'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("%s has no tiles table", path)
	}

	return &Reader{db: db}, nil
}

// Tile returns the stored data for c.
func (r *Reader) Tile(c tile.Coords) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?",
		c.Z, c.X, tmsRow(c),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTileNotFound, c.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tile %s: %w", c.String(), err)
	}
	return data, nil
}

// Image decodes the stored PNG for c.
func (r *Reader) Image(c tile.Coords) (image.Image, error) {
	data, err := r.Tile(c)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile %s: %w", c.String(), err)
	}
	return img, nil
}

// Count returns the number of stored tiles.
func (r *Reader) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tiles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tiles: %w", err)
	}
	return n, nil
}

// Metadata reads the metadata table.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	return parseMetadata(values), nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
