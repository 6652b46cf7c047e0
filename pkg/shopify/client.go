package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultAPIVersion = "2025-10"

// maxResponseBytes bounds how much of an Admin API response is read.
const maxResponseBytes = 1 << 20

var ErrMissingCredentials = errors.New("shopify: missing shop domain or access token")

// APIError is a non-2xx Admin API answer. The response body is logged, never
// carried in the error.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Client calls the Admin REST API of one shop with an access token obtained
// through the install flow.
type Client struct {
	HTTPClient  *http.Client
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

func (c Client) endpoint(path string) string {
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("https://%s/admin/api/%s%s", c.ShopDomain, version, path)
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 20 * time.Second}
}

// call sends in as JSON and decodes a 2xx answer into out. Either may be nil.
func (c Client) call(ctx context.Context, method, path string, in, out any) error {
	if c.ShopDomain == "" || c.AccessToken == "" {
		return ErrMissingCredentials
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Shopify explains missing scopes and bad payloads in the body.
		log.Warn().
			Str("shop", c.ShopDomain).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Bytes("body", raw).
			Msg("shopify admin api error")
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
