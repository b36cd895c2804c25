package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/config"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/db"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/drive"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/handlers"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	loggingmw "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/middleware/logging"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/mail"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/search"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/service"
	httpserver "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Require()

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, catalog search disabled")
	}

	folderCache := drive.NewTTLCache(12 * time.Hour)
	driveClient := drive.NewClient(cfg.DriveURL, cfg.DriveAPIKey, folderCache)
	mailClient := mail.NewClient(cfg.MailURL, cfg.MailAPIKey, cfg.MailFrom)

	store := repo.New(database)
	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Producer:      producer,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc},
		CatalogHandler: &handlers.CatalogHandler{Repo: store, Producer: producer, ES: esClient, Index: cfg.ESIndex},
		CartHandler:    &handlers.CartHandler{Repo: store, Producer: producer},
		OrderHandler:   &handlers.OrderHandler{Repo: store, Producer: producer},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex},
		WebhookHandler: &handlers.WebhookHandler{
			Repo:     store,
			Secret:   cfg.PaymentWebhookSecret,
			Drive:    driveClient,
			Mail:     mailClient,
			Producer: producer,
		},
		JWTSecret: cfg.JWTSecret,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
