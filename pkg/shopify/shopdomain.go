package shopify

import (
	"regexp"
	"strings"
)

var shopDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain lowercases and trims a shop parameter and reports
// whether it names a *.myshopify.com store. Anything else is rejected so the
// app never sends its credentials to an arbitrary host.
func NormalizeShopDomain(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if !shopDomainRe.MatchString(s) {
		return "", false
	}
	return s, true
}
