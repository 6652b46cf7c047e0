package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultExchangeTimeout = 15 * time.Second

// AccessTokenGrant is what Shopify hands back for a valid authorization code.
type AccessTokenGrant struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// OAuthExchanger trades the temporary code from the install callback for a
// permanent access token.
type OAuthExchanger struct {
	HTTPClient *http.Client
	APIKey     string
	APISecret  string
	Timeout    time.Duration
}

// Exchange performs a single exchange attempt and returns nil if it failed for
// any reason. The cause is logged here and never reaches the caller.
func (o OAuthExchanger) Exchange(ctx context.Context, shopDomain, code string) *AccessTokenGrant {
	grant, err := o.ExchangeCodeForToken(ctx, shopDomain, code)
	if err != nil {
		log.Warn().Err(err).Str("shop", shopDomain).Msg("shopify token exchange failed")
		return nil
	}
	return grant
}

func (o OAuthExchanger) ExchangeCodeForToken(ctx context.Context, shopDomain, code string) (*AccessTokenGrant, error) {
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultExchangeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"client_id":     o.APIKey,
		"client_secret": o.APISecret,
		"code":          code,
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("https://%s/admin/oauth/access_token", shopDomain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("shopify token exchange failed: status=%d", resp.StatusCode)
	}

	var grant AccessTokenGrant
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&grant); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("shopify token exchange returned empty access_token")
	}
	return &grant, nil
}
