package middleware

import (
	"net/http"

	"appointment-booking/pkg/utils"
)

const maxRequestIDLength = 128

// RequestID reuses the caller's X-Request-Id or generates a new one and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(utils.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = utils.NewRequestID()
		}

		w.Header().Set(utils.RequestIDHeader, id)
		ctx := utils.SetRequestIDContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
