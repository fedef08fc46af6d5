package middleware

import (
	"net/http"
	"strings"

	"github.com/minhvule/teacart/api/responses"
	pkgauth "github.com/minhvule/teacart/pkg/auth"
	"github.com/minhvule/teacart/pkg/config"
	pkgerrors "github.com/minhvule/teacart/pkg/errors"
	"github.com/minhvule/teacart/pkg/logger"
)

// Auth validates the storefront-issued bearer token and seeds the request
// context with the session identity. The raw token is kept around because
// every upstream cart call forwards it.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthRequired, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthRequired, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeAuthRequired, err, "invalid token"))
				return
			}
			if claims.SessionID() == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthRequired, "missing session id"))
				return
			}

			ctx := WithSessionID(r.Context(), claims.SessionID())
			ctx = WithUserID(ctx, claims.UserID.String())
			ctx = WithAccessToken(ctx, token)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"session_id": claims.SessionID(),
					"user_id":    claims.UserID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
