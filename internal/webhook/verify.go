package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifyShopifyWebhook checks X-Shopify-Hmac-Sha256, which is
// base64(HMAC_SHA256(body)) keyed with the webhook secret.
func VerifyShopifyWebhook(body []byte, hmacHeader, secret string) bool {
	if hmacHeader == "" || secret == "" {
		return false
	}
	given, err := base64.StdEncoding.DecodeString(hmacHeader)
	if err != nil {
		return false
	}
	return hmac.Equal(Sign(body, secret), given)
}

// Sign returns the raw HMAC-SHA256 of body.
func Sign(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}
