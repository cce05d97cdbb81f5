package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/bookmarks/internal/models"
)

// BookmarkStore defines the persistence operations the service relies on.
type BookmarkStore interface {
	// Create inserts a new bookmark and returns it with its id and timestamps assigned.
	Create(ctx context.Context, fields models.BookmarkFields) (*models.Bookmark, error)

	// GetByID retrieves a bookmark by its id.
	GetByID(ctx context.Context, id int64) (*models.Bookmark, error)

	// List returns the bookmarks matching criteria.
	List(ctx context.Context, criteria models.FilterCriteria) ([]models.Bookmark, error)

	// Update replaces every mutable field of a bookmark.
	Update(ctx context.Context, id int64, fields models.BookmarkFields) (*models.Bookmark, error)

	// UpdateStatus sets the status of a bookmark.
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Bookmark, error)

	// ToggleStatus flips the status of a bookmark between INBOX and DONE in one write.
	ToggleStatus(ctx context.Context, id int64) (*models.Bookmark, error)

	// Delete removes a bookmark by its id.
	Delete(ctx context.Context, id int64) error

	// Ping checks that the underlying database is reachable.
	Ping(ctx context.Context) error
}

// BookmarkService validates client input and orchestrates bookmark operations on the store.
type BookmarkService struct {
	store     BookmarkStore
	validator *validator.Validate
}

func NewBookmarkService(store BookmarkStore) *BookmarkService {
	return &BookmarkService{
		store:     store,
		validator: newValidate(),
	}
}

func (s *BookmarkService) CreateBookmark(ctx context.Context, input models.BookmarkInput) (*models.Bookmark, error) {
	const op = "service.BookmarkService.CreateBookmark"

	fields, err := s.ValidateForCreate(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookmark, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create bookmark: %w", op, err)
	}

	return bookmark, nil
}

func (s *BookmarkService) GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error) {
	const op = "service.BookmarkService.GetBookmark"

	bookmark, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get bookmark: %w", op, err)
	}

	return bookmark, nil
}

// ListBookmarks returns the bookmarks matching the filters carried by query.
func (s *BookmarkService) ListBookmarks(ctx context.Context, query url.Values) ([]models.Bookmark, error) {
	const op = "service.BookmarkService.ListBookmarks"

	criteria, err := BuildCriteria(query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookmarks, err := s.store.List(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list bookmarks: %w", op, err)
	}

	return bookmarks, nil
}

// UpdateBookmark replaces the bookmark with validated input. Invalid input never reaches the store.
func (s *BookmarkService) UpdateBookmark(ctx context.Context, id int64, input models.BookmarkInput) (*models.Bookmark, error) {
	const op = "service.BookmarkService.UpdateBookmark"

	fields, err := s.ValidateForUpdate(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookmark, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update bookmark: %w", op, err)
	}

	return bookmark, nil
}

// UpdateBookmarkStatus sets the status named by raw. Setting the current status again is a no-op
// apart from refreshing updatedAt.
func (s *BookmarkService) UpdateBookmarkStatus(ctx context.Context, id int64, raw string) (*models.Bookmark, error) {
	const op = "service.BookmarkService.UpdateBookmarkStatus"

	status, ok := models.ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, newValidationError(FieldError{Field: "status", Message: "invalid status"}))
	}

	bookmark, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update bookmark status: %w", op, err)
	}

	return bookmark, nil
}

func (s *BookmarkService) ToggleBookmarkStatus(ctx context.Context, id int64) (*models.Bookmark, error) {
	const op = "service.BookmarkService.ToggleBookmarkStatus"

	bookmark, err := s.store.ToggleStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to toggle bookmark status: %w", op, err)
	}

	return bookmark, nil
}

func (s *BookmarkService) DeleteBookmark(ctx context.Context, id int64) error {
	const op = "service.BookmarkService.DeleteBookmark"

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete bookmark: %w", op, err)
	}

	return nil
}

func (s *BookmarkService) Ping(ctx context.Context) error {
	const op = "service.BookmarkService.Ping"

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
