package webhook

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"shopauth/internal/api"
	"shopauth/internal/session"
	"shopauth/pkg/shopify"
)

const maxBodyBytes = 1 << 20

// Handler receives Shopify webhooks. Uninstall and shop redaction drop every
// stored session of the shop so its access token is never used again.
type Handler struct {
	Secret   string
	Sessions session.Store
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Prefer Shopify's topic header; fall back to the route param.
	topic := strings.TrimSpace(r.Header.Get("X-Shopify-Topic"))
	if topic == "" {
		topic = chi.URLParam(r, "topic")
	}
	topic = NormalizeTopic(topic)

	hmacHeader := strings.TrimSpace(r.Header.Get("X-Shopify-Hmac-Sha256"))
	webhookID := strings.TrimSpace(r.Header.Get("X-Shopify-Webhook-Id"))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if !VerifyShopifyWebhook(body, hmacHeader, h.Secret) {
		api.WriteError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	shop, ok := shopify.NormalizeShopDomain(r.Header.Get("X-Shopify-Shop-Domain"))
	if !ok {
		// Signed but unusable; acknowledge so Shopify stops retrying.
		log.Warn().Str("topic", topic).Str("webhook_id", webhookID).Msg("webhook without valid shop domain")
		w.WriteHeader(http.StatusOK)
		return
	}

	logger := log.With().Str("shop", shop).Str("topic", topic).Str("webhook_id", webhookID).Logger()

	switch topic {
	case TopicAppUninstalled, TopicShopRedact:
		if err := h.Sessions.DeleteShop(r.Context(), shop); err != nil {
			// Non-2xx makes Shopify redeliver.
			logger.Error().Err(err).Msg("delete shop sessions")
			api.WriteError(w, http.StatusInternalServerError, "failed to process webhook")
			return
		}
		logger.Info().Msg("shop sessions removed")
	default:
		logger.Debug().Msg("ignoring webhook topic")
	}

	w.WriteHeader(http.StatusOK)
}
