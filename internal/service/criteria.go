package service

import (
	"net/url"
	"strings"

	"github.com/vadimbarashkov/bookmarks/internal/models"
)

var sortFields = map[string]models.SortField{
	"created_at": models.SortByCreatedAt,
	"createdat":  models.SortByCreatedAt,
	"updated_at": models.SortByUpdatedAt,
	"updatedat":  models.SortByUpdatedAt,
	"title":      models.SortByTitle,
}

// BuildCriteria reads the list filters from query parameters q, tag, status, sort and order.
// Blank parameters impose no constraint; an unknown status, sort or order is rejected.
func BuildCriteria(query url.Values) (models.FilterCriteria, error) {
	var (
		criteria models.FilterCriteria
		fields   []FieldError
	)

	criteria.Query = strings.TrimSpace(query.Get("q"))
	criteria.Tag = strings.TrimSpace(query.Get("tag"))

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			fields = append(fields, FieldError{Field: "status", Message: "invalid status"})
		}
		criteria.Status = status
	}

	if raw := strings.TrimSpace(query.Get("sort")); raw != "" {
		sortBy, ok := sortFields[strings.ToLower(raw)]
		if !ok {
			fields = append(fields, FieldError{Field: "sort", Message: "invalid sort"})
		}
		criteria.SortBy = sortBy
	}

	if raw := strings.TrimSpace(query.Get("order")); raw != "" {
		switch order := models.SortOrder(strings.ToLower(raw)); order {
		case models.OrderAsc, models.OrderDesc:
			criteria.Order = order
		default:
			fields = append(fields, FieldError{Field: "order", Message: "invalid order"})
		}
	}

	if len(fields) > 0 {
		return models.FilterCriteria{}, newValidationError(fields...)
	}

	return criteria, nil
}
