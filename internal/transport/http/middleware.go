package http

import (
	"net/http"

	"github.com/google/uuid"

	id "ronda/pkg/domain"
	"ronda/pkg/requestcontext"
)

// requestID tags every request with a correlation id, honoring the client's
// X-Request-ID when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), rid)))
	})
}

// actor extracts the acting member from the X-Member-ID header. Upstream
// infrastructure terminates authentication; this service only needs the
// resolved member identity.
func actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Member-ID")
		if raw != "" {
			if memberID, err := id.ParseMemberID(raw); err == nil {
				r = r.WithContext(requestcontext.WithActorID(r.Context(), memberID))
			}
		}
		next.ServeHTTP(w, r)
	})
}
