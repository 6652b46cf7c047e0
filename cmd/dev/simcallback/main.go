// Command simcallback prints an /auth/callback URL signed the way Shopify signs
// it, so the callback can be exercised locally without a real store. Pair it
// with the state cookie issued by /auth:
//
//	curl -i -b "state=<state>" "$(go run ./cmd/dev/simcallback -shop x.myshopify.com -state <state>)"
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"shopauth/internal/auth"
	"shopauth/pkg/config"
)

func main() {
	cfg := config.Load()

	var (
		base   = flag.String("base", cfg.Shopify.ForwardingAddress, "public base URL (defaults to SHOPIFY_FORWARDING_ADDRESS)")
		shop   = flag.String("shop", "", "shop domain (e.g. your-store.myshopify.com)")
		code   = flag.String("code", "dev-code", "authorization code")
		state  = flag.String("state", "", "state value from the state cookie")
		secret = flag.String("secret", cfg.Shopify.APISecret, "api secret (defaults to SHOPIFY_API_SECRET)")
	)
	flag.Parse()

	if *shop == "" || *state == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -shop, -state or -secret")
		os.Exit(2)
	}
	if *base == "" {
		*base = "http://localhost" + cfg.HTTPAddr
	}

	q := url.Values{
		"shop":      {*shop},
		"code":      {*code},
		"state":     {*state},
		"timestamp": {strconv.FormatInt(time.Now().Unix(), 10)},
	}
	q.Set("hmac", auth.NewHMACVerifier(*secret).Sign(q))

	fmt.Println(*base + "/auth/callback?" + q.Encode())
}
