// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
// The development backend serves its REST resource from it.
//
// SCHEMA
// ──────
// Restaurants and their locations live in two tables, mirroring the
// nested wire shape: one restaurants row owns exactly one locations row.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// now is replaced in tests to get stable timestamps.
var now = func() time.Time { return time.Now().UTC() }

const schema = `
	CREATE TABLE IF NOT EXISTS restaurants (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		mobile      TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS locations (
		restaurant_id INTEGER PRIMARY KEY REFERENCES restaurants(id) ON DELETE CASCADE,
		city          TEXT NOT NULL,
		state         TEXT NOT NULL,
		country       TEXT NOT NULL,
		address       TEXT NOT NULL
	);
`

// selectColumns lists columns in the order scanRestaurant reads them.
const selectColumns = `
	SELECT r.id, r.name, r.email, r.mobile, r.description,
	       COALESCE(l.city, ''), COALESCE(l.state, ''),
	       COALESCE(l.country, ''), COALESCE(l.address, ''),
	       r.created_at, r.updated_at
	FROM restaurants r
	LEFT JOIN locations l ON l.restaurant_id = r.id`

// New opens the SQLite database at path and creates the tables if they
// do not already exist.
//
// Foreign keys are switched on through the DSN so deleting a restaurant
// also deletes its location.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// ":memory:" databases exist per connection; a single connection
	// keeps every query on the same database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe on every startup.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Create inserts the restaurant row and its location row in one
// transaction, then re-reads the stored record.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Create(ctx context.Context, in types.RestaurantInput) (types.Restaurant, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Create: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	stamp := now().Format(time.RFC3339)

	result, err := tx.ExecContext(ctx,
		`INSERT INTO restaurants (name, email, mobile, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Mobile, in.Description, stamp, stamp,
	)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Create: insert restaurant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Create: last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO locations (restaurant_id, city, state, country, address)
		 VALUES (?, ?, ?, ?, ?)`,
		id, in.City, in.State, in.Country, in.Address,
	); err != nil {
		return types.Restaurant{}, fmt.Errorf("Create: insert location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Restaurant{}, fmt.Errorf("Create: commit: %w", err)
	}

	r, found, err := s.GetByID(ctx, id)
	if err != nil {
		return types.Restaurant{}, err
	}
	if !found {
		return types.Restaurant{}, fmt.Errorf("Create: restaurant %d vanished after insert", id)
	}
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID fetches exactly one restaurant joined with its location.
// sql.ErrNoRows is the "nothing matched" sentinel and maps to found=false.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetByID(ctx context.Context, id int64) (types.Restaurant, bool, error) {
	row := s.Db.QueryRowContext(ctx, selectColumns+" WHERE r.id = ? LIMIT 1", id)

	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Restaurant{}, false, nil
	}
	if err != nil {
		return types.Restaurant{}, false, fmt.Errorf("GetByID: scan: %w", err)
	}
	return r, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ListAll returns every restaurant ordered by id. The slice is never nil,
// so an empty table encodes as [] rather than null.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ListAll(ctx context.Context) ([]types.Restaurant, error) {
	rows, err := s.Db.QueryContext(ctx, selectColumns+" ORDER BY r.id")
	if err != nil {
		return nil, fmt.Errorf("ListAll: query: %w", err)
	}
	defer rows.Close()

	restaurants := make([]types.Restaurant, 0)
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("ListAll: scan row: %w", err)
		}
		restaurants = append(restaurants, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAll: rows iteration: %w", err)
	}
	return restaurants, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update replaces the editable fields of a restaurant and its location.
// created_at is never touched; updated_at is bumped.
// Returns storage.ErrNotFound when no row has that id.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Update(ctx context.Context, id int64, in types.RestaurantInput) (types.Restaurant, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Update: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE restaurants
		 SET name = ?, email = ?, mobile = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		in.Name, in.Email, in.Mobile, in.Description, now().Format(time.RFC3339), id,
	)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Update: update restaurant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("Update: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Restaurant{}, fmt.Errorf("Update: id %d: %w", id, storage.ErrNotFound)
	}

	// Upsert so a restaurant that somehow lost its location gets one back.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO locations (restaurant_id, city, state, country, address)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(restaurant_id) DO UPDATE SET
		   city = excluded.city, state = excluded.state,
		   country = excluded.country, address = excluded.address`,
		id, in.City, in.State, in.Country, in.Address,
	); err != nil {
		return types.Restaurant{}, fmt.Errorf("Update: upsert location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Restaurant{}, fmt.Errorf("Update: commit: %w", err)
	}

	// Re-fetch so we return exactly what is stored.
	r, found, err := s.GetByID(ctx, id)
	if err != nil {
		return types.Restaurant{}, err
	}
	if !found {
		return types.Restaurant{}, fmt.Errorf("Update: id %d: %w", id, storage.ErrNotFound)
	}
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete removes a restaurant; its location goes with it (ON DELETE
// CASCADE). Deleting a missing id is not an error.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Delete(ctx context.Context, id int64) error {
	_, err := s.Remove(ctx, id)
	return err
}

// Remove deletes restaurant id in a single statement and reports whether
// a row was there to delete.
func (s *SQLite) Remove(ctx context.Context, id int64) (bool, error) {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM restaurants WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("Remove: exec: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Remove: rows affected: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRestaurant reads the columns of selectColumns IN ORDER.
func scanRestaurant(sc scanner) (types.Restaurant, error) {
	var r types.Restaurant
	err := sc.Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.Mobile,
		&r.Description,
		&r.City,
		&r.State,
		&r.Country,
		&r.Address,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}
