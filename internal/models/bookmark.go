package models

import (
	"strings"
	"time"
)

// Status is the workflow state of a bookmark.
type Status string

const (
	// StatusInbox marks a bookmark that has not been processed yet.
	StatusInbox Status = "INBOX"
	// StatusDone marks a processed bookmark.
	StatusDone Status = "DONE"
)

// ParseStatus converts s into a Status. The match ignores case and surrounding whitespace.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusInbox || s == StatusDone
}

// Bookmark represents a saved URL with its metadata and workflow status.
type Bookmark struct {
	// ID is the server-assigned identifier of the bookmark.
	ID int64
	// URL is the bookmarked address.
	URL string
	// Title is the human readable name of the bookmark.
	Title string
	// Tags is a comma-separated list of free text tags.
	Tags string
	// Notes is free text attached to the bookmark.
	Notes string
	// Status is the current workflow status.
	Status Status
	// CreatedAt is the timestamp indicating when the bookmark was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the bookmark was last modified.
	UpdatedAt time.Time
}

// BookmarkInput is the raw client payload for creating or replacing a bookmark.
type BookmarkInput struct {
	URL    string
	Title  string
	Tags   string
	Notes  string
	Status string
}

// BookmarkFields holds the validated, mutable fields of a bookmark.
type BookmarkFields struct {
	URL    string
	Title  string
	Tags   string
	Notes  string
	Status Status
}
