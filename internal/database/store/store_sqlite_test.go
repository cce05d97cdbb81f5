package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/bookmarks/internal/database"
	"github.com/vadimbarashkov/bookmarks/internal/models"
	"github.com/vadimbarashkov/bookmarks/migrations"
	"github.com/vadimbarashkov/bookmarks/pkg/sqlite"
)

// tickingClock advances by one second on every reading.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

type SQLiteStoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *tickingClock
	store *BookmarkStore
}

func (suite *SQLiteStoreTestSuite) SetupTest() {
	suite.ctx = context.Background()

	db, err := sqlite.New(suite.ctx, sqlite.MemoryPath)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() {
		db.Close()
	})

	err = sqlite.RunMigrations(db, migrations.SQLite, migrations.SQLiteDir)
	suite.Require().NoError(err)

	suite.clock = &tickingClock{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	suite.store = NewBookmarkStore(db, WithClock(suite.clock.Now))
}

func (suite *SQLiteStoreTestSuite) create(url, title, tags string, status models.Status) *models.Bookmark {
	bookmark, err := suite.store.Create(suite.ctx, models.BookmarkFields{
		URL:    url,
		Title:  title,
		Tags:   tags,
		Status: status,
	})
	suite.Require().NoError(err)

	return bookmark
}

func (suite *SQLiteStoreTestSuite) ids(bookmarks []models.Bookmark) []int64 {
	ids := make([]int64, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.ID)
	}
	return ids
}

func (suite *SQLiteStoreTestSuite) TestCreateAndGet() {
	created, err := suite.store.Create(suite.ctx, models.BookmarkFields{
		URL:    "https://example.com",
		Title:  "Example",
		Tags:   "a,b",
		Notes:  "some notes",
		Status: models.StatusInbox,
	})

	suite.Require().NoError(err)
	suite.Positive(created.ID)
	suite.Equal(models.StatusInbox, created.Status)
	suite.Equal(created.CreatedAt, created.UpdatedAt)
	suite.Equal(time.UTC, created.CreatedAt.Location())

	got, err := suite.store.GetByID(suite.ctx, created.ID)

	suite.Require().NoError(err)
	suite.Equal(created, got)
}

func (suite *SQLiteStoreTestSuite) TestCreate_InvalidStatus() {
	bookmark, err := suite.store.Create(suite.ctx, models.BookmarkFields{
		URL:    "https://example.com",
		Title:  "Example",
		Status: models.Status("ARCHIVED"),
	})

	suite.ErrorIs(err, database.ErrConstraintViolation)
	suite.Nil(bookmark)
}

func (suite *SQLiteStoreTestSuite) TestGetByID_NotFound() {
	bookmark, err := suite.store.GetByID(suite.ctx, 999)

	suite.ErrorIs(err, database.ErrBookmarkNotFound)
	suite.Nil(bookmark)
}

func (suite *SQLiteStoreTestSuite) TestUpdate_KeepsCreatedAt() {
	created := suite.create("https://example.com", "Example", "", models.StatusInbox)

	updated, err := suite.store.Update(suite.ctx, created.ID, models.BookmarkFields{
		URL:    "https://example.org",
		Title:  "Changed",
		Tags:   "x",
		Notes:  "n",
		Status: models.StatusDone,
	})

	suite.Require().NoError(err)
	suite.Equal(created.ID, updated.ID)
	suite.Equal("https://example.org", updated.URL)
	suite.Equal("Changed", updated.Title)
	suite.Equal(models.StatusDone, updated.Status)
	suite.Equal(created.CreatedAt, updated.CreatedAt)
	suite.True(updated.UpdatedAt.After(created.UpdatedAt))
}

func (suite *SQLiteStoreTestSuite) TestUpdate_NotFound() {
	bookmark, err := suite.store.Update(suite.ctx, 42, models.BookmarkFields{
		URL:    "https://example.com",
		Title:  "Example",
		Status: models.StatusInbox,
	})

	suite.ErrorIs(err, database.ErrBookmarkNotFound)
	suite.Nil(bookmark)
}

func (suite *SQLiteStoreTestSuite) TestUpdateStatus_Idempotent() {
	created := suite.create("https://example.com", "Example", "", models.StatusInbox)

	first, err := suite.store.UpdateStatus(suite.ctx, created.ID, models.StatusDone)
	suite.Require().NoError(err)

	second, err := suite.store.UpdateStatus(suite.ctx, created.ID, models.StatusDone)
	suite.Require().NoError(err)

	suite.Equal(models.StatusDone, first.Status)
	suite.Equal(models.StatusDone, second.Status)
	suite.False(second.UpdatedAt.Before(first.UpdatedAt))
}

func (suite *SQLiteStoreTestSuite) TestUpdateStatus_InvalidStatus() {
	created := suite.create("https://example.com", "Example", "", models.StatusInbox)

	bookmark, err := suite.store.UpdateStatus(suite.ctx, created.ID, models.Status("archived"))

	suite.ErrorIs(err, database.ErrConstraintViolation)
	suite.Nil(bookmark)

	got, err := suite.store.GetByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusInbox, got.Status)
}

func (suite *SQLiteStoreTestSuite) TestToggleStatus() {
	created := suite.create("https://example.com", "Example", "", models.StatusInbox)

	toggled, err := suite.store.ToggleStatus(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusDone, toggled.Status)

	toggled, err = suite.store.ToggleStatus(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusInbox, toggled.Status)
	suite.Equal(created.CreatedAt, toggled.CreatedAt)
	suite.True(toggled.UpdatedAt.After(created.UpdatedAt))

	_, err = suite.store.ToggleStatus(suite.ctx, 999)
	suite.ErrorIs(err, database.ErrBookmarkNotFound)
}

func (suite *SQLiteStoreTestSuite) TestDelete() {
	created := suite.create("https://example.com", "Example", "", models.StatusInbox)

	suite.Require().NoError(suite.store.Delete(suite.ctx, created.ID))

	_, err := suite.store.GetByID(suite.ctx, created.ID)
	suite.ErrorIs(err, database.ErrBookmarkNotFound)

	err = suite.store.Delete(suite.ctx, created.ID)
	suite.ErrorIs(err, database.ErrBookmarkNotFound)
}

func (suite *SQLiteStoreTestSuite) TestList_Empty() {
	bookmarks, err := suite.store.List(suite.ctx, models.FilterCriteria{})

	suite.Require().NoError(err)
	suite.NotNil(bookmarks)
	suite.Empty(bookmarks)
}

func (suite *SQLiteStoreTestSuite) TestList_Ordering() {
	b1 := suite.create("https://one.example", "Bravo", "", models.StatusInbox)
	b2 := suite.create("https://two.example", "alpha", "", models.StatusInbox)
	b3 := suite.create("https://three.example", "Charlie", "", models.StatusInbox)

	// b1 becomes the most recently updated.
	_, err := suite.store.UpdateStatus(suite.ctx, b1.ID, models.StatusInbox)
	suite.Require().NoError(err)

	tests := []struct {
		name     string
		criteria models.FilterCriteria
		want     []int64
	}{
		{name: "default newest first", want: []int64{b3.ID, b2.ID, b1.ID}},
		{name: "created ascending", criteria: models.FilterCriteria{Order: models.OrderAsc}, want: []int64{b1.ID, b2.ID, b3.ID}},
		{name: "updated descending", criteria: models.FilterCriteria{SortBy: models.SortByUpdatedAt}, want: []int64{b1.ID, b3.ID, b2.ID}},
		{name: "title ascending ignores case", criteria: models.FilterCriteria{SortBy: models.SortByTitle, Order: models.OrderAsc}, want: []int64{b2.ID, b1.ID, b3.ID}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			bookmarks, err := suite.store.List(suite.ctx, tt.criteria)

			suite.Require().NoError(err)
			suite.Equal(tt.want, suite.ids(bookmarks))
		})
	}
}

func (suite *SQLiteStoreTestSuite) TestList_Filters() {
	goDev := suite.create("https://go.dev", "The Go Programming Language", "lang,go", models.StatusInbox)
	news := suite.create("https://news.example.com", "Daily News", "news", models.StatusDone)
	goNews := suite.create("https://example.com/golang", "Weekly digest", "news,GO", models.StatusDone)
	percent := suite.create("https://example.com/sale", "100% off", "deals", models.StatusInbox)
	cafe := suite.create("https://example.com/cafe", "Über Café", "Ärger,Straße", models.StatusInbox)

	tests := []struct {
		name     string
		criteria models.FilterCriteria
		want     []int64
	}{
		{name: "query matches title case-insensitively", criteria: models.FilterCriteria{Query: "daily"}, want: []int64{news.ID}},
		{name: "query matches url", criteria: models.FilterCriteria{Query: "GOLANG"}, want: []int64{goNews.ID}},
		{name: "query matches title or url", criteria: models.FilterCriteria{Query: "go"}, want: []int64{goNews.ID, goDev.ID}},
		{name: "tag substring", criteria: models.FilterCriteria{Tag: "go"}, want: []int64{goNews.ID, goDev.ID}},
		{name: "status", criteria: models.FilterCriteria{Status: models.StatusDone}, want: []int64{goNews.ID, news.ID}},
		{name: "intersection", criteria: models.FilterCriteria{Tag: "news", Status: models.StatusDone, Query: "weekly"}, want: []int64{goNews.ID}},
		{name: "wildcard is literal", criteria: models.FilterCriteria{Query: "%"}, want: []int64{percent.ID}},
		{name: "underscore is literal", criteria: models.FilterCriteria{Query: "_"}, want: []int64{}},
		{name: "no match", criteria: models.FilterCriteria{Tag: "missing"}, want: []int64{}},
		{name: "non-ascii query exact case", criteria: models.FilterCriteria{Query: "Über"}, want: []int64{cafe.ID}},
		{name: "non-ascii query lower case", criteria: models.FilterCriteria{Query: "über café"}, want: []int64{cafe.ID}},
		{name: "non-ascii query upper case", criteria: models.FilterCriteria{Query: "CAFÉ"}, want: []int64{cafe.ID}},
		{name: "non-ascii tag exact case", criteria: models.FilterCriteria{Tag: "Ärger"}, want: []int64{cafe.ID}},
		{name: "non-ascii tag other case", criteria: models.FilterCriteria{Tag: "äRGER"}, want: []int64{cafe.ID}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			bookmarks, err := suite.store.List(suite.ctx, tt.criteria)

			suite.Require().NoError(err)
			suite.Equal(tt.want, suite.ids(bookmarks))
		})
	}
}

func (suite *SQLiteStoreTestSuite) TestPing() {
	suite.NoError(suite.store.Ping(suite.ctx))
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}
