package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shopauth/internal/session"
	"shopauth/internal/webhook"
	"shopauth/pkg/config"
	"shopauth/pkg/db"
	"shopauth/pkg/shopify"
)

// Registers app/uninstalled for one installed shop. The access token comes from
// -access-token or from the shop's latest stored session. Compliance topics such
// as shop/redact are set in the app configuration, not through the Admin API.
func main() {
	var (
		shopDomain = flag.String("shop", "", "shop domain (e.g. your-store.myshopify.com)")
		token      = flag.String("access-token", "", "shop access token (optional; defaults to the stored session)")
		base       = flag.String("base", "", "public base URL webhooks are delivered to (defaults to SHOPIFY_FORWARDING_ADDRESS)")
	)
	flag.Parse()

	cfg := config.Load()

	shop, ok := shopify.NormalizeShopDomain(*shopDomain)
	if !ok {
		fmt.Fprintln(os.Stderr, "missing or invalid -shop")
		os.Exit(2)
	}
	if *base == "" {
		*base = cfg.Shopify.ForwardingAddress
	}
	if *base == "" {
		fmt.Fprintln(os.Stderr, "missing -base (or SHOPIFY_FORWARDING_ADDRESS in env/.env)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accessToken := strings.TrimSpace(*token)
	if accessToken == "" {
		s, err := storedSession(ctx, cfg, shop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load session for %s: %v\n", shop, err)
			os.Exit(1)
		}
		accessToken = s.AccessToken
	}

	c := shopify.Client{
		ShopDomain:  shop,
		AccessToken: accessToken,
		APIVersion:  cfg.Shopify.APIVersion,
	}
	const topic = "app/uninstalled"
	address := strings.TrimRight(*base, "/") + "/v1/webhooks/shopify/" + webhook.NormalizeTopic(topic)
	id, err := c.CreateWebhook(ctx, topic, address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register %s: %v\n", topic, err)
		os.Exit(1)
	}
	fmt.Printf("registered %s -> %s (id=%d)\n", topic, address, id)
}

func storedSession(ctx context.Context, cfg config.Config, shop string) (*session.Session, error) {
	switch cfg.SessionStore {
	case "postgres":
		pool, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return session.NewPostgresStore(pool).GetByShop(ctx, shop)
	case "redis":
		client, err := db.OpenRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return session.NewRedisStore(client).GetByShop(ctx, shop)
	default:
		return nil, fmt.Errorf("SESSION_STORE=%q keeps no sessions across processes; pass -access-token", cfg.SessionStore)
	}
}
