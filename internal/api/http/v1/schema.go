package http

import (
	"time"

	"github.com/vadimbarashkov/bookmarks/internal/models"
)

// bookmarkRequest represents the request payload for creating or replacing a bookmark.
// Unknown fields such as id or createdAt are ignored.
type bookmarkRequest struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Tags   string `json:"tags"`
	Notes  string `json:"notes"`
	Status string `json:"status"`
}

func (req bookmarkRequest) toInput() models.BookmarkInput {
	return models.BookmarkInput{
		URL:    req.URL,
		Title:  req.Title,
		Tags:   req.Tags,
		Notes:  req.Notes,
		Status: req.Status,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type bookmarkResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Tags      string    `json:"tags"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBookmarkResponse(b *models.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:        b.ID,
		URL:       b.URL,
		Title:     b.Title,
		Tags:      b.Tags,
		Notes:     b.Notes,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBookmarkResponses(bookmarks []models.Bookmark) []bookmarkResponse {
	resp := make([]bookmarkResponse, 0, len(bookmarks))
	for i := range bookmarks {
		resp = append(resp, toBookmarkResponse(&bookmarks[i]))
	}
	return resp
}

const (
	healthUp   = "UP"
	healthDown = "DOWN"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,omitempty"`
}
