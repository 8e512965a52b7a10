package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"lendingapi/internal/httpx"
	"lendingapi/internal/identity"
	"lendingapi/internal/ledger"
	"lendingapi/internal/lending"
)

type appConfig struct {
	addr           string
	jwtSecret      string
	rateLimitRPS   float64
	rateLimitBurst int
	corsOrigins    []string
	seedDemo       bool
}

func configFromEnv() appConfig {
	return appConfig{
		addr:           getEnv("APP_ADDR", ":8080"),
		jwtSecret:      mustGetEnv("JWT_SECRET"),
		rateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		rateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		corsOrigins:    strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		seedDemo:       getEnv("SEED_DEMO", "true") == "true",
	}
}

// newHandler wires the stores, the lending service and the identity
// directory into the routed middleware chain.
func newHandler(cfg appConfig) http.Handler {
	catalogStore := newCatalogStore(cfg.seedDemo)
	ledgerStore := ledger.NewStore()
	directory := newDirectory(cfg.seedDemo)

	lendingService := lending.NewService(catalogStore, ledgerStore, nil)
	lendingHandler := lending.NewHTTPHandler(lendingService)
	identityHandler := identity.NewHTTPHandler(directory, cfg.jwtSecret)

	authed := httpx.AuthMiddleware(cfg.jwtSecret)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authed(httpx.RequireRole(identity.RoleAdmin)(h))
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.HandleFunc("POST /auth/register", identityHandler.Register)
	router.HandleFunc("POST /auth/login", identityHandler.Login)

	router.HandleFunc("GET /books", lendingHandler.ListAvailable)
	router.Handle("POST /books/{id}/borrow", authed(http.HandlerFunc(lendingHandler.Borrow)))
	router.Handle("POST /books/{id}/return", authed(http.HandlerFunc(lendingHandler.Return)))
	router.Handle("GET /me/borrowed", authed(http.HandlerFunc(lendingHandler.ListBorrowed)))

	router.Handle("GET /inventory", adminOnly(lendingHandler.ListInventory))
	router.Handle("POST /books", adminOnly(lendingHandler.AddBook))
	router.Handle("PATCH /books/{id}/stock", adminOnly(lendingHandler.UpdateStock))

	rateLimit := httpx.NewRateLimitMiddleware(cfg.rateLimitRPS, cfg.rateLimitBurst)

	var handler http.Handler = router
	handler = httpx.RecoveryMiddleware(handler)
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.CORSMiddleware(cfg.corsOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)
	return handler
}

func main() {
	_ = godotenvLoad()

	cfg := configFromEnv()

	httpServer := &http.Server{
		Addr:         cfg.addr,
		Handler:      newHandler(cfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
