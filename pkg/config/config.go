package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	LogLevel       string
	MigrationsPath string

	// DATABASE_URL is the runtime connection (often a pooler),
	// DIRECT_URL the direct connection used for migrations.
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	RedisURL string

	// SessionStore selects the session backend: memory, postgres or redis.
	SessionStore      string
	SessionCookieName string

	// SessionTTL expires stored sessions in backends that support it. Zero
	// keeps them until the shop uninstalls.
	SessionTTL time.Duration

	// AllowedOrigins may call /auth/check from a separate frontend domain.
	AllowedOrigins []string

	Shopify ShopifyConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// ShopifyConfig is the app's identity towards Shopify. It is loaded once and
// handed to the auth flow by value.
type ShopifyConfig struct {
	APIKey    string
	APISecret string

	// Scopes is a comma separated permission list.
	Scopes string

	// ForwardingAddress is the public base URL Shopify redirects back to,
	// without a trailing slash.
	ForwardingAddress string

	WebhookSecret string
	APIVersion    string

	StateTTL        time.Duration
	ExchangeTimeout time.Duration
}

// RedirectURI is where Shopify sends the merchant after they approve the install.
func (c ShopifyConfig) RedirectURI() string {
	return c.ForwardingAddress + "/auth/callback"
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	apiSecret := os.Getenv("SHOPIFY_API_SECRET")

	return Config{
		AppEnv:            env("APP_ENV", "dev"),
		HTTPAddr:          httpAddr,
		LogLevel:          env("LOG_LEVEL", "info"),
		MigrationsPath:    os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DirectURL:         os.Getenv("DIRECT_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionStore:      strings.ToLower(env("SESSION_STORE", "memory")),
		SessionCookieName: env("SESSION_COOKIE_NAME", "shopify_session"),
		SessionTTL:        envDuration("SESSION_TTL", 0),
		AllowedOrigins:    envList("ALLOWED_ORIGINS", ""),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "shopauth"),
			User:     env("DB_USER", "shopauth"),
			Password: env("DB_PASSWORD", "shopauth"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			APIKey:            os.Getenv("SHOPIFY_API_KEY"),
			APISecret:         apiSecret,
			Scopes:            NormalizeScopes(env("SHOPIFY_SCOPES", "read_products")),
			ForwardingAddress: strings.TrimRight(strings.TrimSpace(os.Getenv("SHOPIFY_FORWARDING_ADDRESS")), "/"),
			WebhookSecret:     env("SHOPIFY_WEBHOOK_SECRET", apiSecret),
			APIVersion:        env("SHOPIFY_API_VERSION", "2025-10"),
			StateTTL:          envDuration("SHOPIFY_STATE_TTL", 10*time.Minute),
			ExchangeTimeout:   envDuration("SHOPIFY_EXCHANGE_TIMEOUT", 15*time.Second),
		},
	}
}

// NormalizeScopes turns a space and/or comma delimited scope list into the
// comma separated form Shopify expects.
func NormalizeScopes(raw string) string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.Join(fields, ",")
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
