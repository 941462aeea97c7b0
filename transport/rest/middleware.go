package rest

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

// authedHandler is a handler that only runs with a verified caller id.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// authenticated - extracts and verifies the bearer token, handing the
// authenticated user id to next.
func (that *Server) authenticated(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, apperror.ErrUnauthenticated)
			return
		}

		userID, err := that.auth.VerifyToken(token)
		if err != nil {
			writeError(w, err)
			return
		}

		next(w, r, userID)
	})
}

// withRequestID - tags every request with an id for log correlation.
func (that *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		that.logger.Debug("request", "id", requestID, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r)
	})
}
