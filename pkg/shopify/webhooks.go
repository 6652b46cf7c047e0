package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type webhookCreateRequest struct {
	Webhook webhookPayload `json:"webhook"`
}

type webhookPayload struct {
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format"`
}

type webhookCreateResponse struct {
	Webhook struct {
		ID int64 `json:"id"`
	} `json:"webhook"`
}

// CreateWebhook subscribes address to topic (e.g. app/uninstalled) and returns
// the subscription id.
func (c Client) CreateWebhook(ctx context.Context, topic, address string) (int64, error) {
	topic = strings.TrimSpace(topic)
	address = strings.TrimSpace(address)
	if topic == "" || address == "" {
		return 0, fmt.Errorf("missing topic or address")
	}

	req := webhookCreateRequest{
		Webhook: webhookPayload{Topic: topic, Address: address, Format: "json"},
	}
	var resp webhookCreateResponse
	if err := c.call(ctx, http.MethodPost, "/webhooks.json", req, &resp); err != nil {
		return 0, fmt.Errorf("create webhook %s: %w", topic, err)
	}
	return resp.Webhook.ID, nil
}
