package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Verifier checks the signature Shopify attaches to redirect query strings.
type Verifier interface {
	Verify(suppliedHMAC string, params url.Values) bool
}

type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(apiSecret string) HMACVerifier {
	return HMACVerifier{secret: []byte(apiSecret)}
}

// Verify recomputes the HMAC-SHA256 of the canonical query and compares it
// with suppliedHMAC in constant time. Malformed input yields false.
func (v HMACVerifier) Verify(suppliedHMAC string, params url.Values) bool {
	if suppliedHMAC == "" || len(v.secret) == 0 {
		return false
	}
	given, err := hex.DecodeString(suppliedHMAC)
	if err != nil {
		return false
	}
	return hmac.Equal(v.sum(params), given)
}

// Sign returns the hex digest Shopify would send for params.
func (v HMACVerifier) Sign(params url.Values) string {
	return hex.EncodeToString(v.sum(params))
}

func (v HMACVerifier) sum(params url.Values) []byte {
	mac := hmac.New(sha256.New, v.secret)
	_, _ = mac.Write([]byte(CanonicalQuery(params)))
	return mac.Sum(nil)
}

var (
	keyEscaper   = strings.NewReplacer("%", "%25", "&", "%26", "=", "%3D")
	valueEscaper = strings.NewReplacer("%", "%25", "&", "%26")
)

// CanonicalQuery is the message Shopify signs: every parameter except hmac and
// signature, sorted by key, as key=value pairs joined by &.
func CanonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, keyEscaper.Replace(k)+"="+valueEscaper.Replace(v))
		}
	}
	return strings.Join(parts, "&")
}
