package models

// SortField is a column a bookmark list can be ordered by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByTitle     SortField = "title"
)

// SortOrder is the direction of a bookmark list ordering.
type SortOrder string

const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

// FilterCriteria describes the predicates applied to a bookmark list.
// A zero-valued field imposes no constraint; all set fields are combined with AND.
type FilterCriteria struct {
	// Query is matched case-insensitively as a substring of the title or the URL.
	Query string
	// Tag is matched case-insensitively as a substring of the tags.
	Tag string
	// Status restricts the list to bookmarks with exactly this status.
	Status Status
	// SortBy defaults to SortByCreatedAt.
	SortBy SortField
	// Order defaults to OrderDesc.
	Order SortOrder
}
