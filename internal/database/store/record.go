package store

import (
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/vadimbarashkov/bookmarks/internal/models"
)

// columns lists the bookmarks table columns in bookmarkRecord order.
const columns = `id, url, title, tags, notes, status, created_at, updated_at`

type bookmarkRecord struct {
	ID        int64     `db:"id"`
	URL       string    `db:"url"`
	Title     string    `db:"title"`
	Tags      string    `db:"tags"`
	Notes     string    `db:"notes"`
	Status    string    `db:"status"`
	CreatedAt timestamp `db:"created_at"`
	UpdatedAt timestamp `db:"updated_at"`
}

func (r *bookmarkRecord) ToBookmark() *models.Bookmark {
	return &models.Bookmark{
		ID:        r.ID,
		URL:       r.URL,
		Title:     r.Title,
		Tags:      r.Tags,
		Notes:     r.Notes,
		Status:    models.Status(r.Status),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

// timestamp scans both native time values (pgx) and the textual form
// SQLite hands back when a column's declared type is lost.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("store: cannot scan %T into timestamp", src)
	}
}

func (t *timestamp) parse(s string) error {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("store: cannot parse timestamp %q", s)
}
