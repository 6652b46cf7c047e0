package webhook

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopauth/internal/session"
)

const testSecret = "whsec"

func signedRequest(t *testing.T, topic, shop string, body []byte, secret string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/shopify/"+topic, bytes.NewReader(body))
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", shop)
	req.Header.Set("X-Shopify-Webhook-Id", "wh-1")
	req.Header.Set("X-Shopify-Hmac-Sha256", base64.StdEncoding.EncodeToString(Sign(body, secret)))
	return req
}

func seeded(t *testing.T) *session.MemoryStore {
	t.Helper()
	st := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Create(ctx, "sid-a", session.Session{Shop: "a.myshopify.com", AccessToken: "x"}))
	require.NoError(t, st.Create(ctx, "sid-b", session.Session{Shop: "b.myshopify.com", AccessToken: "y"}))
	return st
}

func TestHandler_AppUninstalledDropsSessions(t *testing.T) {
	st := seeded(t)
	h := Handler{Secret: testSecret, Sessions: st}
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, "app/uninstalled", "a.myshopify.com", []byte(`{"id":1}`), testSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := st.Get(context.Background(), "sid-a")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = st.Get(context.Background(), "sid-b")
	assert.NoError(t, err)
}

type failingStore struct {
	*session.MemoryStore
}

func (failingStore) DeleteShop(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestHandler_DeleteFailureAsksForRedelivery(t *testing.T) {
	h := Handler{Secret: testSecret, Sessions: failingStore{MemoryStore: seeded(t)}}
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, "shop/redact", "a.myshopify.com", []byte(`{}`), testSecret))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to process webhook"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestHandler_RejectsBadSignature(t *testing.T) {
	st := seeded(t)
	h := Handler{Secret: testSecret, Sessions: st}
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, "app/uninstalled", "a.myshopify.com", []byte(`{}`), "other"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, err := st.Get(context.Background(), "sid-a")
	assert.NoError(t, err)
}

func TestHandler_UnknownTopicIsAcknowledged(t *testing.T) {
	st := seeded(t)
	rec := httptest.NewRecorder()

	Handler{Secret: testSecret, Sessions: st}.ServeHTTP(rec, signedRequest(t, "orders/paid", "a.myshopify.com", []byte(`{}`), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := st.Get(context.Background(), "sid-a")
	assert.NoError(t, err)
}

func TestVerifyShopifyWebhook(t *testing.T) {
	body := []byte(`{"id":1}`)
	sig := base64.StdEncoding.EncodeToString(Sign(body, testSecret))

	assert.True(t, VerifyShopifyWebhook(body, sig, testSecret))
	assert.False(t, VerifyShopifyWebhook([]byte(`{"id":2}`), sig, testSecret))
	assert.False(t, VerifyShopifyWebhook(body, "", testSecret))
	assert.False(t, VerifyShopifyWebhook(body, "%%%", testSecret))
	assert.False(t, VerifyShopifyWebhook(body, sig, ""))
}

func TestNormalizeTopic(t *testing.T) {
	assert.Equal(t, "app_uninstalled", NormalizeTopic("app/uninstalled"))
	assert.Equal(t, "shop_redact", NormalizeTopic(" Shop/Redact "))
	assert.Equal(t, "orders_paid", NormalizeTopic("orders//paid"))
	assert.Equal(t, "app_uninstalled", NormalizeTopic("app_uninstalled"))
}
