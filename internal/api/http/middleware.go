package http

import (
	"errors"
	"net/http"
	"time"

	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type AuthMiddleware struct {
	resolver *security.PrincipalResolver
}

func NewAuthMiddleware(resolver *security.PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Middleware resolves the bearer token into a principal for the routes
// behind it.
func (m *AuthMiddleware) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := security.BearerToken(r.Header.Get("Authorization"))
			p, err := m.resolver.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case security.IsUnauthenticated(err):
					w.Header().Set("WWW-Authenticate", "Bearer")
					respondError(w, r, http.StatusUnauthorized, err.Error())
				case errors.Is(err, security.ErrPrincipalDisabled):
					respondError(w, r, http.StatusForbidden, err.Error())
				default:
					logger.ErrorContext(r.Context(), "Failed to resolve principal", "error", err)
					respondError(w, r, http.StatusInternalServerError, "internal server error")
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(security.WithPrincipal(r.Context(), p)))
		})
	}
}
