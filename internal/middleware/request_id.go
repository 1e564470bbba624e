package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

// RequestIDMiddleware tags every request with a UUID that ends up in audit
// log entries.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := utils.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
