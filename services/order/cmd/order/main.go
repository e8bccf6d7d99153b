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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	pkgconfig "github.com/Skotchmaster/logistics_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/logistics_shop/pkg/db"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/logging"

	ordercfg "github.com/Skotchmaster/logistics_shop/services/order/internal/config"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/httpserver"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/order/.env")
	cfg := ordercfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL, &models.Order{}, &models.OrderItem{})
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	pub, err := events.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     &repo.GormRepo{DB: db},
			Catalog:  catalogclient.NewClient(cfg.CatalogURL),
			Events:   pub,
			Currency: cfg.Currency,
		}},
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("order listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := pub.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("order stopped")
}
