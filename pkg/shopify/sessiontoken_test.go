package shopify

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "test_api_key"
	testSecret = "test_secret"
)

func signSessionToken(t *testing.T, claims SessionTokenClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifySessionToken_AudienceAndDest(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok := signSessionToken(t, SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  []string{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
		Dest: "https://my-shop.myshopify.com",
	}, testSecret)

	got, err := VerifySessionToken(tok, testAPIKey, testSecret, now)
	require.NoError(t, err)
	assert.Equal(t, "my-shop.myshopify.com", got.ShopDomain)
	assert.Equal(t, now.Add(10*time.Minute).Unix(), got.ExpiresAt.Unix())
}

func TestVerifySessionToken_IssuerFallback(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok := signSessionToken(t, SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://my-shop.myshopify.com/admin",
			Audience:  []string{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}, testSecret)

	got, err := VerifySessionToken(tok, testAPIKey, testSecret, now)
	require.NoError(t, err)
	assert.Equal(t, "my-shop.myshopify.com", got.ShopDomain)
}

func TestVerifySessionToken_Rejects(t *testing.T) {
	now := time.Unix(1700000000, 0)
	valid := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  []string{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Dest: "https://my-shop.myshopify.com",
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	wrongAud := valid
	wrongAud.Audience = []string{"someone-else"}

	foreignDest := valid
	foreignDest.Dest = "https://evil.example.com"

	cases := map[string]string{
		"expired":      signSessionToken(t, expired, testSecret),
		"no expiry":    signSessionToken(t, noExpiry, testSecret),
		"wrong aud":    signSessionToken(t, wrongAud, testSecret),
		"foreign dest": signSessionToken(t, foreignDest, testSecret),
		"wrong secret": signSessionToken(t, valid, "other_secret"),
		"garbage":      "not.a.jwt",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := VerifySessionToken(tok, testAPIKey, testSecret, now)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}

	_, err := VerifySessionToken("", testAPIKey, testSecret, now)
	assert.ErrorIs(t, err, ErrMissingSessionToken)
}
