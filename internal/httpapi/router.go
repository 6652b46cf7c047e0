package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopauth/internal/api"
	"shopauth/internal/auth"
	"shopauth/internal/session"
	"shopauth/internal/webhook"
	"shopauth/pkg/config"
	"shopauth/pkg/shopify"
)

type Dependencies struct {
	Cfg      config.Config
	Sessions session.Store

	// Exchanger defaults to the live Shopify token endpoint.
	Exchanger auth.TokenExchanger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	exchanger := deps.Exchanger
	if exchanger == nil {
		exchanger = shopify.OAuthExchanger{
			APIKey:    deps.Cfg.Shopify.APIKey,
			APISecret: deps.Cfg.Shopify.APISecret,
			Timeout:   deps.Cfg.Shopify.ExchangeTimeout,
		}
	}
	flow := auth.NewFlow(deps.Cfg.Shopify, exchanger, deps.Sessions,
		auth.WithCookies(deps.Cfg.SessionCookieName, deps.Cfg.IsProd()),
	)
	authHandlers := auth.Handlers{Flow: flow}

	// Install handshake. The callback path must match ShopifyConfig.RedirectURI.
	r.Get("/auth", authHandlers.Install)
	r.Get("/auth/callback", authHandlers.Callback)

	cors := api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins:   deps.Cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.With(cors).Options("/auth/check", func(http.ResponseWriter, *http.Request) {})
	r.With(cors, api.RequireSession(deps.Cfg, deps.Sessions)).Get("/auth/check", authHandlers.Check)

	webhookHandler := webhook.Handler{
		Secret:   deps.Cfg.Shopify.WebhookSecret,
		Sessions: deps.Sessions,
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/webhooks/shopify/{topic}", webhookHandler.ServeHTTP)
	})

	return r
}
