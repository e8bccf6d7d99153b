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

	pkgconfig "github.com/Skotchmaster/logistics_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/logistics_shop/pkg/db"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/logging"

	catalogcfg "github.com/Skotchmaster/logistics_shop/services/catalog/internal/config"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/consumer"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/images"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/search"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/service"
)

func main() {
	pkgconfig.LoadEnvFile("services/catalog/.env")
	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL, &models.Product{})
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	pub, err := events.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}

	svc := &service.CatalogService{
		Repo:     &repo.GormRepo{DB: db},
		Images:   &images.Store{Dir: cfg.UploadDir, URLPrefix: cfg.UploadPrefix},
		Events:   pub,
		Currency: cfg.Currency,
	}
	if cfg.ESURL != "" {
		idx, err := search.NewES(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			svc.Search = idx
		}
	}

	runCtx, stopRun := context.WithCancel(context.Background())
	orders := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, events.TopicOrderEvents, logger)
	go func() {
		ctx := logging.IntoContext(runCtx, logger.With("consumer", events.TopicOrderEvents))
		if err := orders.Run(ctx, consumer.OrderCreated(svc)); err != nil {
			logger.Error("consumer_stopped", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.JWTSecret,
		UploadDir:      cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("catalog listening on %s", srv.Addr)
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
	stopRun()
	if err := orders.Close(); err != nil {
		log.Printf("kafka consumer close error: %v", err)
	}
	if err := pub.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("catalog stopped")
}
