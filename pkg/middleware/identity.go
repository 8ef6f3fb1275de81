package middleware

import (
	"context"
	"net/http"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const (
	RequesterKey contextKey = "requester"

	HeaderRequesterID   = "X-Requester-Id"
	HeaderRequesterRole = "X-Requester-Role"
)

// Identity reads the authenticated requester the auth gateway attached to
// the request. The gateway has already verified the session; this service
// trusts the headers as-is and only insists they are present.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequesterID)
			if id == "" {
				log.Warn("Request without requester identity",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Not authenticated"}`))
				return
			}

			role := r.Header.Get(HeaderRequesterRole)
			if role == "" {
				role = model.RoleEmployee
			}

			ctx := context.WithValue(r.Context(), RequesterKey, model.Requester{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequesterFromContext returns the identity set by Identity. The zero value
// means the middleware did not run (e.g. health endpoints).
func RequesterFromContext(ctx context.Context) model.Requester {
	if v := ctx.Value(RequesterKey); v != nil {
		if req, ok := v.(model.Requester); ok {
			return req
		}
	}
	return model.Requester{}
}
