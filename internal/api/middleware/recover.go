package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Fantasim/balanceapi/internal/api/handlers"
	"github.com/Fantasim/balanceapi/internal/logging"
)

// Recover turns a panic in a handler into a 500 InternalError envelope.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.FromContext(r.Context()).Error("handler panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			handlers.WriteInternalError(w, fmt.Sprintf("%v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
