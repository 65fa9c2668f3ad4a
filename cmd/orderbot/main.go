package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/orderbot/internal/bot"
	"github.com/vasiliy-maslov/orderbot/internal/catalog"
	"github.com/vasiliy-maslov/orderbot/internal/config"
	"github.com/vasiliy-maslov/orderbot/internal/conversation"
	"github.com/vasiliy-maslov/orderbot/internal/db"
	"github.com/vasiliy-maslov/orderbot/internal/handler"
	"github.com/vasiliy-maslov/orderbot/internal/metrics"
	"github.com/vasiliy-maslov/orderbot/internal/notify"
	"github.com/vasiliy-maslov/orderbot/internal/order"
	"github.com/vasiliy-maslov/orderbot/internal/session"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "orderbot").Logger()

	log.Info().Msg("Orderbot starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	menu := catalog.Default()
	if cfg.App.MenuPath != "" {
		menu, err = catalog.LoadFile(cfg.App.MenuPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.App.MenuPath).Msg("Failed to load menu")
		}
	}
	log.Info().Int("items", menu.Len()).Msg("Menu loaded")

	var repo order.Repository
	var dbConn *db.Postgres
	if cfg.Postgres.Enabled() {
		dbConn, err = db.New(cfg.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer dbConn.Close()
		repo = order.NewRepository(dbConn.Pool)
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory order store (orders will not survive restarts)")
		repo = order.NewMemoryRepository()
	}

	var notifier order.Notifier
	if cfg.NATS.URL != "" {
		publisher, err := notify.NewPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer publisher.Close()
		notifier = publisher
	} else {
		log.Warn().Msg("NATS_URL not set, delivery notifications disabled")
	}

	m := metrics.New(nil)

	orderSvc := order.NewService(repo, notifier)
	store := session.NewMemoryStore()
	engine := conversation.New(menu)
	b := bot.New(store, engine, orderSvc, m)

	router := handler.NewRouter(b, orderSvc, m)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
