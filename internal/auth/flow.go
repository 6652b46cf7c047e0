package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shopauth/internal/session"
	"shopauth/pkg/config"
	"shopauth/pkg/shopify"
)

const StateCookieName = "state"

// TokenExchanger trades an authorization code for an access token. A nil
// grant means the exchange failed; the cause stays with the exchanger.
type TokenExchanger interface {
	Exchange(ctx context.Context, shop, code string) *shopify.AccessTokenGrant
}

// AuthRequest holds the callback query parameters. All of them are untrusted
// until CompleteAuth has checked them.
type AuthRequest struct {
	Shop      string
	HMAC      string
	Code      string
	State     string
	Timestamp string
}

// Callback is everything CompleteAuth needs from the incoming redirect.
type Callback struct {
	Request AuthRequest

	// CookieState is the state cookie value the browser sent back.
	CookieState string

	// Query is the full callback query, hmac included.
	Query url.Values
}

// Flow runs the two requests of the Shopify install handshake.
type Flow struct {
	cfg       config.ShopifyConfig
	nonces    NonceGenerator
	verifier  Verifier
	exchanger TokenExchanger
	sessions  session.Store
	newID     func() string

	sessionCookie string
	secure        bool
}

type Option func(*Flow)

func WithNonceGenerator(g NonceGenerator) Option {
	return func(f *Flow) { f.nonces = g }
}

func WithVerifier(v Verifier) Option {
	return func(f *Flow) { f.verifier = v }
}

// WithSessionIDs replaces the uuid source for new session ids.
func WithSessionIDs(newID func() string) Option {
	return func(f *Flow) {
		if newID != nil {
			f.newID = newID
		}
	}
}

// WithCookies sets the session cookie name and whether cookies are Secure.
func WithCookies(sessionCookie string, secure bool) Option {
	return func(f *Flow) {
		if sessionCookie != "" {
			f.sessionCookie = sessionCookie
		}
		f.secure = secure
	}
}

func NewFlow(cfg config.ShopifyConfig, exchanger TokenExchanger, sessions session.Store, opts ...Option) *Flow {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	f := &Flow{
		cfg:           cfg,
		nonces:        CryptoNonce{},
		verifier:      NewHMACVerifier(cfg.APISecret),
		exchanger:     exchanger,
		sessions:      sessions,
		newID:         uuid.NewString,
		sessionCookie: "shopify_session",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AuthorizeURL is the Shopify consent screen for shop carrying state.
func (f *Flow) AuthorizeURL(shop, state string) string {
	u := url.URL{
		Scheme: "https",
		Host:   shop,
		Path:   "/admin/oauth/authorize",
	}
	q := url.Values{}
	q.Set("client_id", f.cfg.APIKey)
	q.Set("scope", f.cfg.Scopes)
	q.Set("state", state)
	q.Set("redirect_uri", f.cfg.RedirectURI())
	u.RawQuery = q.Encode()
	return u.String()
}

// BeginAuth redirects the merchant to the consent screen of shop and binds a
// fresh state token to their browser. A missing or malformed shop gets an
// empty 400 and no cookie.
func (f *Flow) BeginAuth(_ context.Context, w Responder, shop string) error {
	if strings.TrimSpace(shop) == "" {
		return f.rejectBegin(w, ErrInvalidRequest)
	}
	shop, ok := shopify.NormalizeShopDomain(shop)
	if !ok {
		return f.rejectBegin(w, ErrInvalidShop)
	}

	state := f.nonces.Generate()
	installURL := f.AuthorizeURL(shop, state)

	log.Info().Str("shop", shop).Str("scopes", f.cfg.Scopes).Msg("installing app")
	handshakes.WithLabelValues(stepBegin, outcomeOK).Inc()
	w.Redirect(installURL, f.stateCookie(state))
	return nil
}

func (f *Flow) rejectBegin(w Responder, e *Error) error {
	handshakes.WithLabelValues(stepBegin, string(e.Kind)).Inc()
	w.JSON(e.Status, nil)
	return e
}

// CompleteAuth validates the redirect back from Shopify and stores the
// resulting session. The checks run in a fixed order and the first failure
// ends the request: state, required parameters, shop domain, HMAC, token
// exchange, persistence. The exchange and the store write each happen at most
// once. The state cookie is cleared whatever the outcome. A successful install
// always gets a new session id; an id the browser already holds is never reused.
func (f *Flow) CompleteAuth(ctx context.Context, w Responder, cb Callback) error {
	req := cb.Request
	clearState := f.expiredStateCookie()

	fail := func(e *Error, shop string) error {
		log.Warn().Str("shop", shop).Str("reason", string(e.Kind)).Msg("install callback rejected")
		handshakes.WithLabelValues(stepCallback, string(e.Kind)).Inc()
		w.JSON(e.Status, map[string]string{"error": e.Message}, clearState)
		return e
	}

	if req.State == "" || cb.CookieState == "" ||
		subtle.ConstantTimeCompare([]byte(req.State), []byte(cb.CookieState)) != 1 {
		return fail(ErrCsrfMismatch, req.Shop)
	}

	if strings.TrimSpace(req.Shop) == "" || strings.TrimSpace(req.HMAC) == "" || strings.TrimSpace(req.Code) == "" {
		return fail(ErrInvalidRequest, req.Shop)
	}

	shop, ok := shopify.NormalizeShopDomain(req.Shop)
	if !ok {
		return fail(ErrInvalidShop, req.Shop)
	}

	if !f.verifier.Verify(req.HMAC, cb.Query) {
		return fail(ErrHmacInvalid, shop)
	}

	start := time.Now()
	grant := f.exchanger.Exchange(ctx, shop, req.Code)
	exchangeDuration.Observe(time.Since(start).Seconds())
	if grant == nil {
		return fail(ErrUpstreamExchangeFailed, shop)
	}

	sessionID := f.newID()
	s := session.Session{
		Shop:        shop,
		AccessToken: grant.AccessToken,
		Scope:       grant.Scope,
	}
	if err := f.sessions.Create(ctx, sessionID, s); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("persist shopify session")
		return fail(ErrSessionPersistFailed, shop)
	}

	log.Info().Str("shop", shop).Str("session_id", sessionID).Str("scope", grant.Scope).Msg("app installed")
	handshakes.WithLabelValues(stepCallback, outcomeOK).Inc()
	w.JSON(http.StatusOK, map[string]any{"auth": true, "shop": shop}, f.sessionIDCookie(sessionID), clearState)
	return nil
}

func (f *Flow) stateCookie(state string) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(f.cfg.StateTTL / time.Second),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (f *Flow) expiredStateCookie() *http.Cookie {
	c := f.stateCookie("")
	c.MaxAge = -1
	return c
}

func (f *Flow) sessionIDCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     f.sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
