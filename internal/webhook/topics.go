package webhook

import "strings"

const (
	TopicAppUninstalled = "app_uninstalled"
	TopicShopRedact     = "shop_redact"
)

// NormalizeTopic converts Shopify topic strings into a stable internal form:
// "app/uninstalled" -> "app_uninstalled", "shop/redact" -> "shop_redact".
func NormalizeTopic(topic string) string {
	t := strings.TrimSpace(strings.ToLower(topic))
	t = strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(t)
	for strings.Contains(t, "__") {
		t = strings.ReplaceAll(t, "__", "_")
	}
	return strings.Trim(t, "_")
}
