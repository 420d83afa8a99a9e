package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	pkgAuth "github.com/ovenmade/ovenmade-backend/pkg/auth"
	"github.com/ovenmade/ovenmade-backend/pkg/config"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// authenticated baker identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.BakerID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing baker id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxBakerID, claims.BakerID.String())
			if claims.Email != "" {
				ctx = context.WithValue(ctx, ctxBakerEmail, claims.Email)
			}

			if logg != nil {
				ctx = logg.WithBakerID(ctx, claims.BakerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
