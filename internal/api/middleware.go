package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"shopauth/internal/session"
	"shopauth/pkg/config"
	"shopauth/pkg/shopify"
)

// RequireSession resolves the installed-shop session of the caller and puts
// it on the request context.
//
// Two credentials are accepted:
//   - the session cookie set when the install completed
//   - Authorization: Bearer <embedded app session token>, verified against the
//     API secret and mapped to the shop's latest session
func RequireSession(cfg config.Config, store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				s   *session.Session
				err error
			)

			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				vt, verr := shopify.VerifySessionToken(strings.TrimSpace(authz[7:]), cfg.Shopify.APIKey, cfg.Shopify.APISecret, time.Now())
				if verr != nil {
					log.Debug().Err(verr).Msg("rejected session token")
					WriteError(w, http.StatusUnauthorized, "invalid session token")
					return
				}
				s, err = store.GetByShop(r.Context(), vt.ShopDomain)
			} else {
				c, cerr := r.Cookie(cfg.SessionCookieName)
				if cerr != nil || c.Value == "" {
					WriteError(w, http.StatusUnauthorized, "missing session")
					return
				}
				s, err = store.Get(r.Context(), c.Value)
			}

			if errors.Is(err, session.ErrNotFound) {
				WriteError(w, http.StatusUnauthorized, "unknown session")
				return
			}
			if err != nil {
				log.Error().Err(err).Msg("session lookup failed")
				WriteError(w, http.StatusInternalServerError, "failed to load session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
