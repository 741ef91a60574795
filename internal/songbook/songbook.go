// Package songbook is a local SQLite catalog of converted songs, keyed by
// the BLAKE3 fingerprint of the source input so re-adding the same file is
// idempotent.
package songbook

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
	"github.com/FocuswithJustin/Lyrebird/core/sqlite"
	"github.com/FocuswithJustin/Lyrebird/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	format      TEXT NOT NULL,
	fingerprint TEXT NOT NULL UNIQUE,
	verses      INTEGER NOT NULL,
	document    BLOB NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS songs_title ON songs(title);
`

// Entry is one cataloged song.
type Entry struct {
	ID          string
	Title       string
	Format      string
	Fingerprint string
	Verses      int
	Document    []byte
	CreatedAt   time.Time
}

// Store is a songbook catalog backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening songbook")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating songbook schema")
	}
	return &Store{db: db}, nil
}

// Close closes the catalog.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add catalogs a converted song. When a song with the same input
// fingerprint already exists, the existing entry is returned unchanged.
func (s *Store) Add(ctx context.Context, title, format, fingerprint string, verses int, document []byte) (*Entry, error) {
	if existing, err := s.GetByFingerprint(ctx, fingerprint); err == nil {
		logging.Debug("songbook add skipped, fingerprint exists",
			"id", existing.ID, "fingerprint", fingerprint)
		return existing, nil
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	entry := &Entry{
		ID:          uuid.NewString(),
		Title:       title,
		Format:      format,
		Fingerprint: fingerprint,
		Verses:      verses,
		Document:    document,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO songs (id, title, format, fingerprint, verses, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.Format, entry.Fingerprint,
		entry.Verses, entry.Document, entry.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrap(err, "inserting song")
	}
	logging.Debug("songbook entry added", "id", entry.ID, "title", entry.Title)
	return entry, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	return s.one(ctx, `WHERE id = ?`, id)
}

// GetByFingerprint returns the entry for an input fingerprint.
func (s *Store) GetByFingerprint(ctx context.Context, fingerprint string) (*Entry, error) {
	return s.one(ctx, `WHERE fingerprint = ?`, fingerprint)
}

func (s *Store) one(ctx context.Context, where string, arg any) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, format, fingerprint, verses, document, created_at FROM songs `+where, arg)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, &errors.NotFoundError{Resource: "song", ID: toString(arg)}
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading song")
	}
	return entry, nil
}

// List returns all entries, oldest first.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, format, fingerprint, verses, document, created_at
		 FROM songs ORDER BY created_at, title`)
	if err != nil {
		return nil, errors.Wrap(err, "listing songs")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(err, "reading song row")
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Remove deletes the entry with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting song")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &errors.NotFoundError{Resource: "song", ID: id}
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (*Entry, error) {
	var entry Entry
	var created string
	if err := scan(&entry.ID, &entry.Title, &entry.Format, &entry.Fingerprint,
		&entry.Verses, &entry.Document, &created); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		entry.CreatedAt = t
	}
	return &entry, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
