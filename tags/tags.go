// Package tags stores per-image marks in a SQLite database.
//
// Tags are free-form strings attached to image paths. The browser uses
// [Starred] for the single built-in mark, but any string works.
package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Starred is the built-in favorite mark.
const Starred = "starred"

// ErrEmptyTag is returned when a tag operation gets an empty tag name.
var ErrEmptyTag = errors.New("tags: empty tag")

const schema = `
create table if not exists tags (
    path text not null,
    tag  text not null,
    primary key (path, tag)
)`

// Store persists tags in a SQLite file. It is safe for concurrent use;
// database/sql serializes access to the underlying connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the tag database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tags: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tags: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add attaches tag to path. Adding an existing tag is a no-op.
func (s *Store) Add(ctx context.Context, path, tag string) error {
	if tag == "" {
		return ErrEmptyTag
	}
	_, err := s.db.ExecContext(ctx,
		`insert into tags (path, tag) values (?, ?) on conflict do nothing`,
		path, tag)
	if err != nil {
		return fmt.Errorf("tags: add %q to %s: %w", tag, path, err)
	}
	return nil
}

// Remove detaches tag from path. Removing an absent tag is a no-op.
func (s *Store) Remove(ctx context.Context, path, tag string) error {
	if tag == "" {
		return ErrEmptyTag
	}
	_, err := s.db.ExecContext(ctx,
		`delete from tags where path = ? and tag = ?`, path, tag)
	if err != nil {
		return fmt.Errorf("tags: remove %q from %s: %w", tag, path, err)
	}
	return nil
}

// Has reports whether path carries tag.
func (s *Store) Has(ctx context.Context, path, tag string) (bool, error) {
	if tag == "" {
		return false, ErrEmptyTag
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`select 1 from tags where path = ? and tag = ?`, path, tag).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("tags: query %q on %s: %w", tag, path, err)
	}
	return true, nil
}

// Toggle flips tag on path and reports the new state.
func (s *Store) Toggle(ctx context.Context, path, tag string) (bool, error) {
	has, err := s.Has(ctx, path, tag)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.Remove(ctx, path, tag)
	}
	return true, s.Add(ctx, path, tag)
}

// List returns the tags of path in lexical order.
func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`select tag from tags where path = ? order by tag`, path)
	if err != nil {
		return nil, fmt.Errorf("tags: list %s: %w", path, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("tags: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tags: list %s: %w", path, err)
	}
	return out, nil
}

// Paths returns every path carrying tag, in lexical order.
func (s *Store) Paths(ctx context.Context, tag string) ([]string, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	rows, err := s.db.QueryContext(ctx,
		`select path from tags where tag = ? order by path`, tag)
	if err != nil {
		return nil, fmt.Errorf("tags: paths for %q: %w", tag, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("tags: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tags: paths for %q: %w", tag, err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
