package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/logistics_shop/gateway/internal/config"
	"github.com/Skotchmaster/logistics_shop/gateway/internal/httpserver"
	pkgconfig "github.com/Skotchmaster/logistics_shop/pkg/config"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

func main() {
	pkgconfig.LoadEnvFile("gateway/.env")
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:     cfg.AuthURL,
		CatalogURL:  cfg.CatalogURL,
		CartURL:     cfg.CartURL,
		OrderURL:    cfg.OrderURL,
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   cfg.JWTSecret,
		Logger:      logger,
	}); err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("gateway listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
