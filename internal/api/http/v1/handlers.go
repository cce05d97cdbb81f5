package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/bookmarks/internal/database"
	"github.com/vadimbarashkov/bookmarks/internal/models"
	"github.com/vadimbarashkov/bookmarks/internal/service"
	"github.com/vadimbarashkov/bookmarks/pkg/response"
)

// handleHealth reports UP when the database answers a ping and DOWN otherwise.
func handleHealth(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleHealth"

	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, healthResponse{Status: healthDown})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, healthResponse{Status: healthUp, Timestamp: time.Now().UnixMilli()})
	}
}

// parseID reads the {id} path parameter. Only positive integers are valid ids.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func renderInvalidID(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.ErrorResponse(response.CodeInvalidParameter, "Bookmark id must be a positive integer."))
}

// decodeBody decodes the JSON body into v and renders the error response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.BadRequestResponse)
		return false
	}
	return true
}

func validationDetails(verr *service.ValidationError) []response.Detail {
	details := make([]response.Detail, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, response.Detail{Field: f.Field, Message: f.Message})
	}
	return details
}

// renderError maps a service error to its response. Validation failures are reported
// with validationCode, a missing bookmark with 404, everything else is logged and hidden behind a 500.
func renderError(w http.ResponseWriter, r *http.Request, op, validationCode string, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(validationCode, verr.Message, validationDetails(verr)...))
	case errors.Is(err, database.ErrBookmarkNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.NotFoundResponse)
	case errors.Is(err, database.ErrConstraintViolation):
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(response.CodeValidationError, "The bookmark violates a data constraint."))
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}

// handleListBookmarks handles GET requests listing bookmarks, optionally filtered by
// the q, tag and status query parameters and ordered by sort and order.
func handleListBookmarks(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleListBookmarks"

	return func(w http.ResponseWriter, r *http.Request) {
		bookmarks, err := svc.ListBookmarks(r.Context(), r.URL.Query())
		if err != nil {
			renderError(w, r, op, response.CodeInvalidParameter, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toBookmarkResponses(bookmarks))
	}
}

// handleCreateBookmark handles POST requests creating a bookmark.
//
// The new bookmark always starts in the INBOX status; any id, status or timestamps
// sent by the client are ignored.
func handleCreateBookmark(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleCreateBookmark"

	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest

		if !decodeBody(w, r, &req) {
			return
		}

		bookmark, err := svc.CreateBookmark(r.Context(), req.toInput())
		if err != nil {
			renderError(w, r, op, response.CodeValidationError, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toBookmarkResponse(bookmark))
	}
}

func handleGetBookmark(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleGetBookmark"

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			renderInvalidID(w, r)
			return
		}

		bookmark, err := svc.GetBookmark(r.Context(), id)
		if err != nil {
			renderError(w, r, op, response.CodeValidationError, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toBookmarkResponse(bookmark))
	}
}

// handleUpdateBookmark handles PUT requests replacing every mutable field of a bookmark.
func handleUpdateBookmark(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleUpdateBookmark"

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			renderInvalidID(w, r)
			return
		}

		var req bookmarkRequest

		if !decodeBody(w, r, &req) {
			return
		}

		bookmark, err := svc.UpdateBookmark(r.Context(), id, req.toInput())
		if err != nil {
			renderError(w, r, op, response.CodeValidationError, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toBookmarkResponse(bookmark))
	}
}

// handleChangeBookmarkStatus handles PATCH requests on the status of a bookmark.
//
// A body carrying a status sets it. An empty body, or one without a status, toggles
// the bookmark between INBOX and DONE.
func handleChangeBookmarkStatus(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleChangeBookmarkStatus"

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			renderInvalidID(w, r)
			return
		}

		var req statusRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		var (
			bookmark *models.Bookmark
			err      error
		)

		if strings.TrimSpace(req.Status) == "" {
			bookmark, err = svc.ToggleBookmarkStatus(r.Context(), id)
		} else {
			bookmark, err = svc.UpdateBookmarkStatus(r.Context(), id, req.Status)
		}
		if err != nil {
			renderError(w, r, op, response.CodeValidationError, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toBookmarkResponse(bookmark))
	}
}

func handleDeleteBookmark(svc BookmarkService) http.HandlerFunc {
	const op = "api.http.handleDeleteBookmark"

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			renderInvalidID(w, r)
			return
		}

		if err := svc.DeleteBookmark(r.Context(), id); err != nil {
			renderError(w, r, op, response.CodeValidationError, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
