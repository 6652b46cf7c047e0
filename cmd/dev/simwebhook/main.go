package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"shopauth/internal/webhook"
	"shopauth/pkg/config"
)

func main() {
	cfg := config.Load()

	var (
		url       = flag.String("url", "", "webhook endpoint (defaults to http://localhost<HTTP_ADDR>/v1/webhooks/shopify/app_uninstalled)")
		topic     = flag.String("topic", "app/uninstalled", "X-Shopify-Topic")
		shop      = flag.String("shop", "example.myshopify.com", "X-Shopify-Shop-Domain")
		secret    = flag.String("secret", cfg.Shopify.WebhookSecret, "webhook secret (defaults to SHOPIFY_WEBHOOK_SECRET)")
		payload   = flag.String("payload", "", "path to a json payload file (defaults to {})")
		webhookID = flag.String("id", uuid.NewString(), "X-Shopify-Webhook-Id")
	)
	flag.Parse()

	if *url == "" {
		*url = localURL(cfg.HTTPAddr, "/v1/webhooks/shopify/"+webhook.NormalizeTopic(*topic))
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or SHOPIFY_WEBHOOK_SECRET in env/.env)")
		os.Exit(2)
	}

	body := []byte(`{}`)
	if *payload != "" {
		b, err := os.ReadFile(*payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read payload: %v\n", err)
			os.Exit(2)
		}
		body = b
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", *topic)
	req.Header.Set("X-Shopify-Shop-Domain", *shop)
	req.Header.Set("X-Shopify-Webhook-Id", *webhookID)
	req.Header.Set("X-Shopify-Hmac-Sha256", base64.StdEncoding.EncodeToString(webhook.Sign(body, *secret)))

	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(out))
}

func localURL(httpAddr, path string) string {
	if len(httpAddr) > 0 && httpAddr[0] == ':' {
		return "http://localhost" + httpAddr + path
	}
	return "http://localhost:8081" + path
}
