// Package recoverer turns handler panics into the JSON server error response.
package recoverer

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/bookmarks/pkg/response"
)

// Recoverer recovers from panics in next, attaches the panic value and stack to the
// request log entry and answers with a 500 error envelope.
// http.ErrAbortHandler is re-panicked so the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	const op = "middleware.recoverer.Recoverer"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}

			if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rvr)
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{
				"op":    op,
				"panic": rvr,
				"stack": string(debug.Stack()),
			})

			if r.Header.Get("Connection") != "Upgrade" {
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
