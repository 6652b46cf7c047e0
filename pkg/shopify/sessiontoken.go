package shopify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSessionToken = errors.New("missing session token")
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// SessionTokenClaims are the claims of an embedded app session token. Only
// dest is needed beyond the registered claims.
type SessionTokenClaims struct {
	jwt.RegisteredClaims

	Dest string `json:"dest,omitempty"` // https://{shop}
}

type VerifiedSessionToken struct {
	ShopDomain string
	ExpiresAt  time.Time
}

// VerifySessionToken validates an HS256 session token signed with the app
// secret and addressed to the app's API key, and returns the shop it was
// issued for.
func VerifySessionToken(tokenString, apiKey, apiSecret string, now time.Time) (*VerifiedSessionToken, error) {
	if tokenString == "" {
		return nil, ErrMissingSessionToken
	}
	if apiSecret == "" {
		return nil, fmt.Errorf("%w: missing api secret", ErrInvalidSessionToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if apiKey != "" {
		opts = append(opts, jwt.WithAudience(apiKey))
	}

	claims := &SessionTokenClaims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(apiSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidSessionToken
	}

	shop, ok := NormalizeShopDomain(hostOf(claims.Dest))
	if !ok {
		shop, ok = NormalizeShopDomain(hostOf(claims.Issuer))
	}
	if !ok {
		return nil, fmt.Errorf("%w: no shop in token", ErrInvalidSessionToken)
	}

	return &VerifiedSessionToken{
		ShopDomain: shop,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// hostOf strips scheme and path from values like https://shop.myshopify.com/admin.
func hostOf(v string) string {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
