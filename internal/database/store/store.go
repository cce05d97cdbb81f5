// Package store persists bookmarks in a relational database through sqlx.
//
// Statements are written with "?" placeholders and rebound to the bind style of
// the underlying driver, so the same store works on PostgreSQL and SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/bookmarks/internal/database"
	"github.com/vadimbarashkov/bookmarks/internal/models"
)

type Option func(*BookmarkStore)

// WithClock replaces the clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *BookmarkStore) {
		s.now = now
	}
}

// BookmarkStore is the only component that reads or writes the bookmarks table.
type BookmarkStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewBookmarkStore(db *sqlx.DB, opts ...Option) *BookmarkStore {
	s := &BookmarkStore{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// timestamp returns the current time in UTC truncated to microseconds,
// the finest precision both PostgreSQL and SQLite round-trip.
func (s *BookmarkStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create inserts a new bookmark. Both timestamps are set to the same instant.
func (s *BookmarkStore) Create(ctx context.Context, fields models.BookmarkFields) (*models.Bookmark, error) {
	const op = "database.store.BookmarkStore.Create"

	rec := new(bookmarkRecord)
	now := s.timestamp()
	query := s.db.Rebind(`INSERT INTO bookmarks (url, title, tags, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + columns)

	err := s.db.GetContext(ctx, rec, query,
		fields.URL, fields.Title, fields.Tags, fields.Notes, string(fields.Status), now, now)
	if err != nil {
		if isConstraintViolationError(err) {
			return nil, fmt.Errorf("%s: %w: %w", op, database.ErrConstraintViolation, err)
		}

		return nil, fmt.Errorf("%s: failed to create bookmark record: %w", op, err)
	}

	return rec.ToBookmark(), nil
}

func (s *BookmarkStore) GetByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	const op = "database.store.BookmarkStore.GetByID"

	rec := new(bookmarkRecord)
	query := s.db.Rebind(`SELECT ` + columns + ` FROM bookmarks WHERE id = ?`)

	err := s.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrBookmarkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get bookmark record: %w", op, err)
	}

	return rec.ToBookmark(), nil
}

// List returns every bookmark matching criteria, fully materialized.
// The result is never nil.
func (s *BookmarkStore) List(ctx context.Context, criteria models.FilterCriteria) ([]models.Bookmark, error) {
	const op = "database.store.BookmarkStore.List"

	query, args := buildListQuery(criteria)

	var recs []bookmarkRecord

	if err := s.db.SelectContext(ctx, &recs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list bookmark records: %w", op, err)
	}

	bookmarks := make([]models.Bookmark, 0, len(recs))
	for i := range recs {
		bookmarks = append(bookmarks, *recs[i].ToBookmark())
	}

	return bookmarks, nil
}

// Update replaces every mutable field of the bookmark and refreshes updated_at.
func (s *BookmarkStore) Update(ctx context.Context, id int64, fields models.BookmarkFields) (*models.Bookmark, error) {
	const op = "database.store.BookmarkStore.Update"

	rec := new(bookmarkRecord)
	query := s.db.Rebind(`UPDATE bookmarks
		SET url = ?, title = ?, tags = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING ` + columns)

	err := s.db.GetContext(ctx, rec, query,
		fields.URL, fields.Title, fields.Tags, fields.Notes, string(fields.Status), s.timestamp(), id)
	if err != nil {
		return nil, s.writeError(op, "failed to update bookmark record", err)
	}

	return rec.ToBookmark(), nil
}

// UpdateStatus sets the status of the bookmark and refreshes updated_at.
func (s *BookmarkStore) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Bookmark, error) {
	const op = "database.store.BookmarkStore.UpdateStatus"

	rec := new(bookmarkRecord)
	query := s.db.Rebind(`UPDATE bookmarks
		SET status = ?, updated_at = ?
		WHERE id = ?
		RETURNING ` + columns)

	err := s.db.GetContext(ctx, rec, query, string(status), s.timestamp(), id)
	if err != nil {
		return nil, s.writeError(op, "failed to update bookmark status", err)
	}

	return rec.ToBookmark(), nil
}

// ToggleStatus flips INBOX and DONE in a single statement, so the flip applies
// to whatever status is stored when the row is written.
func (s *BookmarkStore) ToggleStatus(ctx context.Context, id int64) (*models.Bookmark, error) {
	const op = "database.store.BookmarkStore.ToggleStatus"

	rec := new(bookmarkRecord)
	query := s.db.Rebind(`UPDATE bookmarks
		SET status = CASE status WHEN 'INBOX' THEN 'DONE' ELSE 'INBOX' END, updated_at = ?
		WHERE id = ?
		RETURNING ` + columns)

	err := s.db.GetContext(ctx, rec, query, s.timestamp(), id)
	if err != nil {
		return nil, s.writeError(op, "failed to toggle bookmark status", err)
	}

	return rec.ToBookmark(), nil
}

func (s *BookmarkStore) Delete(ctx context.Context, id int64) error {
	const op = "database.store.BookmarkStore.Delete"

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bookmarks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete bookmark record: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrBookmarkNotFound)
	}

	return nil
}

// Ping verifies the database is reachable.
func (s *BookmarkStore) Ping(ctx context.Context) error {
	const op = "database.store.BookmarkStore.Ping"

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *BookmarkStore) writeError(op, msg string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, database.ErrBookmarkNotFound)
	case isConstraintViolationError(err):
		return fmt.Errorf("%s: %w: %w", op, database.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %s: %w", op, msg, err)
	}
}

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByTitle:     "LOWER(title)",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern that matches s literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// buildListQuery translates criteria into one SELECT with "?" placeholders.
// Only fixed SQL fragments are concatenated, every criteria value is returned in args.
func buildListQuery(criteria models.FilterCriteria) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if criteria.Query != "" {
		pattern := likePattern(criteria.Query)
		conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(url) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if criteria.Tag != "" {
		conds = append(conds, `LOWER(tags) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(criteria.Tag))
	}

	if criteria.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(criteria.Status))
	}

	var b strings.Builder

	b.WriteString(`SELECT ` + columns + ` FROM bookmarks`)

	if len(conds) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conds, ` AND `))
	}

	column, ok := sortColumns[criteria.SortBy]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}

	direction := `DESC`
	if criteria.Order == models.OrderAsc {
		direction = `ASC`
	}

	b.WriteString(` ORDER BY ` + column + ` ` + direction + `, id ` + direction)

	return b.String(), args
}
