package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jenga-relay/internal/config"
	"jenga-relay/internal/handlers"
	"jenga-relay/internal/logger"
	"jenga-relay/internal/middleware"
	"jenga-relay/internal/payment"
	"jenga-relay/internal/payment/jenga"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	printBanner(log, cfg)

	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("gateway credentials not set, donations will fail")
	}

	// Initialize Payment Gateway (Jenga)
	gateway := jenga.New(cfg, nil)
	donations := payment.NewDonationService(gateway, cfg)

	// Initialize HTTP handlers
	h := handlers.NewHandler(donations, donations.Signer())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHTTPHandler(h, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}
	}
}

// newHTTPHandler wires routes, CORS and the middleware chain.
func newHTTPHandler(h *handlers.Handler, cfg *config.Config, log zerolog.Logger) http.Handler {
	router := setupRouter(h)

	allowedOrigins := []string{
		fmt.Sprintf("http://localhost:%d", cfg.ServerPort),
	}
	allowedOrigins = append(allowedOrigins, cfg.AllowedOrigins...)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300, // 5 minutes
	})

	return middleware.RequestLogger(log)(middleware.Recover(c.Handler(router)))
}

func setupRouter(h *handlers.Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/donate", h.Donate).Methods("POST")
	router.HandleFunc("/callback", h.Callback).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

func printBanner(log zerolog.Logger, cfg *config.Config) {
	log.Info().
		Int("port", cfg.ServerPort).
		Str("auth_url", cfg.AuthURL).
		Str("gateway_url", cfg.GatewayURL).
		Str("callback_url", cfg.CallbackURL).
		Msg("jenga-relay: donation relay for the Jenga payment gateway")
}
