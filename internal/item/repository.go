// Package item manages the item catalog and its persistence.
package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Item represents a catalog entry.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("item not found")

// ErrAlreadyExists is returned when an item name is already taken.
var ErrAlreadyExists = errors.New("item already exists")

// Repository handles all item database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const itemColumns = `id, name, description, image_url, created_at, updated_at`

// Create inserts a new item and returns the created record.
func (r *Repository) Create(ctx context.Context, name, description string) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO items (name, description)
		 VALUES ($1, $2)
		 RETURNING `+itemColumns,
		name, description,
	).Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// GetByID fetches an item by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return it, nil
}

// List returns all items ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Update patches the given fields; nil fields keep their current value.
func (r *Repository) Update(ctx context.Context, id int64, name, description *string) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		`UPDATE items
		 SET name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+itemColumns,
		id, name, description,
	).Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

// Delete removes an item by its ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImageURL stores the public image URL for an item.
func (r *Repository) SetImageURL(ctx context.Context, id int64, url string) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		`UPDATE items SET image_url = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+itemColumns,
		id, url,
	).Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set item image url: %w", err)
	}
	return it, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
