package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/bookmarks/docs"
	"github.com/vadimbarashkov/bookmarks/internal/models"
	"github.com/vadimbarashkov/bookmarks/pkg/middleware/recoverer"

	httpSwagger "github.com/swaggo/http-swagger"
)

// BookmarkService defines the bookmark operations exposed over HTTP.
type BookmarkService interface {
	// CreateBookmark validates input and stores it as a new INBOX bookmark.
	CreateBookmark(ctx context.Context, input models.BookmarkInput) (*models.Bookmark, error)

	// GetBookmark returns the bookmark with the given id.
	GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error)

	// ListBookmarks returns the bookmarks matching the q, tag, status, sort and order parameters.
	ListBookmarks(ctx context.Context, query url.Values) ([]models.Bookmark, error)

	// UpdateBookmark validates input and replaces the bookmark with it.
	UpdateBookmark(ctx context.Context, id int64, input models.BookmarkInput) (*models.Bookmark, error)

	// UpdateBookmarkStatus sets the status named by status.
	UpdateBookmarkStatus(ctx context.Context, id int64, status string) (*models.Bookmark, error)

	// ToggleBookmarkStatus flips the status between INBOX and DONE.
	ToggleBookmarkStatus(ctx context.Context, id int64) (*models.Bookmark, error)

	// DeleteBookmark removes the bookmark with the given id.
	DeleteBookmark(ctx context.Context, id int64) error

	// Ping checks that the storage is reachable.
	Ping(ctx context.Context) error
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
func NewRouter(logger *httplog.Logger, svc BookmarkService) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.Recoverer)

	r.Get("/health", handleHealth(svc))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))
	r.Get("/docs/swagger.yml", handleSwaggerDocument)

	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handleListBookmarks(svc))
		r.Post("/", handleCreateBookmark(svc))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleGetBookmark(svc))
			r.Put("/", handleUpdateBookmark(svc))
			r.Delete("/", handleDeleteBookmark(svc))
			r.Patch("/status", handleChangeBookmarkStatus(svc))
		})
	})

	return r
}

func handleSwaggerDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(docs.Swagger)
}
