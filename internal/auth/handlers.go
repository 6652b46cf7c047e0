package auth

import (
	"net/http"

	"shopauth/internal/api"
)

type Handlers struct {
	Flow *Flow
}

// Install handles GET /auth?shop=.
func (h Handlers) Install(w http.ResponseWriter, r *http.Request) {
	_ = h.Flow.BeginAuth(r.Context(), NewHTTPResponder(w, r), r.URL.Query().Get("shop"))
}

// Callback handles GET /auth/callback, the redirect back from Shopify.
func (h Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	cb := Callback{
		Request: AuthRequest{
			Shop:      qs.Get("shop"),
			HMAC:      qs.Get("hmac"),
			Code:      qs.Get("code"),
			State:     qs.Get("state"),
			Timestamp: qs.Get("timestamp"),
		},
		Query: qs,
	}
	if c, err := r.Cookie(StateCookieName); err == nil {
		cb.CookieState = c.Value
	}

	_ = h.Flow.CompleteAuth(r.Context(), NewHTTPResponder(w, r), cb)
}

// Check handles GET /auth/check behind api.RequireSession.
func (h Handlers) Check(w http.ResponseWriter, r *http.Request) {
	s := api.SessionFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "missing session")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"auth":  true,
		"shop":  s.Shop,
		"scope": s.Scope,
	})
}
