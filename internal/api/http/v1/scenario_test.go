package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/bookmarks/internal/database/store"
	"github.com/vadimbarashkov/bookmarks/internal/service"
	"github.com/vadimbarashkov/bookmarks/migrations"
	"github.com/vadimbarashkov/bookmarks/pkg/response"
	"github.com/vadimbarashkov/bookmarks/pkg/sqlite"
)

func setupServer(t testing.TB) *httpexpect.Expect {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.New(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, sqlite.RunMigrations(db, migrations.SQLite, migrations.SQLiteDir))

	svc := service.NewBookmarkService(store.NewBookmarkStore(db))
	logger := httplog.NewLogger("", httplog.Options{Writer: io.Discard})

	server := httptest.NewServer(NewRouter(logger, svc))
	t.Cleanup(server.Close)

	return httpexpect.Default(t, server.URL)
}

func TestBookmarkLifecycle(t *testing.T) {
	e := setupServer(t)

	created := e.POST("/api/bookmarks").
		WithJSON(map[string]string{"url": "https://a.com", "title": "A", "tags": "x"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()

	created.HasValue("status", "INBOX")
	created.HasValue("url", "https://a.com")
	createdAt := created.Value("createdAt").String().Raw()
	created.HasValue("updatedAt", createdAt)

	id := int64(created.Value("id").Number().Raw())

	e.PATCH("/api/bookmarks/{id}/status", id).
		WithJSON(map[string]string{"status": "DONE"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("status", "DONE").
		HasValue("createdAt", createdAt)

	list := e.GET("/api/bookmarks").
		WithQuery("status", "DONE").
		WithQuery("tag", "x").
		Expect().
		Status(http.StatusOK).
		JSON().Array()

	list.Length().IsEqual(1)
	list.Value(0).Object().HasValue("id", id)

	e.GET("/api/bookmarks").
		WithQuery("status", "INBOX").
		Expect().
		Status(http.StatusOK).
		JSON().Array().IsEmpty()

	e.DELETE("/api/bookmarks/{id}", id).
		Expect().
		Status(http.StatusNoContent)

	e.GET("/api/bookmarks/{id}", id).
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().
		Value("error").Object().
		HasValue("code", response.CodeNotFound)
}

func TestBookmarkToggleAndUpdate(t *testing.T) {
	e := setupServer(t)

	id := int64(e.POST("/api/bookmarks").
		WithJSON(map[string]string{"url": "go.dev", "title": "  Go   home "}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().
		HasValue("url", "https://go.dev").
		HasValue("title", "Go home").
		Value("id").Number().Raw())

	e.PATCH("/api/bookmarks/{id}/status", id).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("status", "DONE")

	e.PATCH("/api/bookmarks/{id}/status", id).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("status", "INBOX")

	e.PUT("/api/bookmarks/{id}", id).
		WithJSON(map[string]string{"url": "https://go.dev/doc", "title": "Docs", "status": "archived"}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().
		Value("error").Object().
		HasValue("message", "invalid status")

	e.GET("/api/bookmarks/{id}", id).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("title", "Go home")

	e.PUT("/api/bookmarks/{id}", id).
		WithJSON(map[string]string{"url": "https://go.dev/doc", "title": "Docs", "status": "done"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("title", "Docs").
		HasValue("status", "DONE")

	e.PUT("/api/bookmarks/999").
		WithJSON(map[string]string{"url": "https://go.dev/doc", "title": "Docs", "status": "DONE"}).
		Expect().
		Status(http.StatusNotFound)

	e.GET("/health").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("status", "UP")
}
