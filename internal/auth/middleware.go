package auth

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/web"
)

// TokenField is the payload/query key carrying the token.
const TokenField = "_token"

// Authenticate resolves the principal from _token in the query string or the
// JSON body. A missing or bad token leaves the request anonymous; routes that
// need a principal wrap themselves in RequireLogin.
func Authenticate(tokens *TokenService, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFrom(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := tokens.Verify(raw)
			if err != nil {
				logger.Debugw("ignoring invalid token", "path", r.URL.Path, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func tokenFrom(r *http.Request) string {
	if t := r.URL.Query().Get(TokenField); t != "" {
		return t
	}
	raw, err := web.PeekBody(r)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var body struct {
		Token string `json:"_token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Token
}

// RequireLogin rejects anonymous requests with 401.
func RequireLogin(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				web.Error(w, r, logger, apperror.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects principals whose role is not one of roles.
func RequireRole(logger *zap.SugaredLogger, roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if ok {
				for _, role := range roles {
					if p.Role == role {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			web.Error(w, r, logger, apperror.Unauthorized())
		})
	}
}
