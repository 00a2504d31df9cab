package item

import (
	"context"
	"errors"
	"fmt"
)

// Repo is the persistence port for items. *Repository implements it; tests
// substitute a mock.
type Repo interface {
	Create(ctx context.Context, name, description string) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id int64, name, description *string) (*Item, error)
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) (*Item, error)
}

// Service contains business logic for item management.
type Service struct {
	repo Repo
}

// NewService creates a new item Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Create adds a new item to the catalog.
func (s *Service) Create(ctx context.Context, name, description string) (*Item, error) {
	it, err := s.repo.Create(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// GetByID returns an item by its ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// Update patches an item; nil fields are left unchanged.
func (s *Service) Update(ctx context.Context, id int64, name, description *string) (*Item, error) {
	return s.repo.Update(ctx, id, name, description)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// SetImageURL records the public URL of an uploaded item image.
func (s *Service) SetImageURL(ctx context.Context, id int64, url string) (*Item, error) {
	return s.repo.SetImageURL(ctx, id, url)
}

// IsNotFound returns true when the error indicates an item was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
