package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventHerald/internal/config"
	"eventHerald/internal/gateway"
	"eventHerald/internal/http-server/handlers/event/cancelEvent"
	"eventHerald/internal/http-server/handlers/event/createEvent"
	"eventHerald/internal/http-server/handlers/event/editEvent"
	"eventHerald/internal/http-server/handlers/event/getEvent"
	"eventHerald/internal/http-server/handlers/event/listEvents"
	"eventHerald/internal/http-server/handlers/event/wizardReply"
	"eventHerald/internal/http-server/handlers/interaction"
	"eventHerald/internal/http-server/middleware/mwlogger"
	"eventHerald/internal/lib/logger/handlers/slogpretty"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/posts"
	"eventHerald/internal/scheduler"
	"eventHerald/internal/storage/postgres"
	"eventHerald/internal/wizard"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting event herald", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	gw := gateway.NewClient(cfg.Gateway.APIBase, cfg.Gateway.Token)
	syncer := posts.NewSynchronizer(log, gw)

	manager := scheduler.NewManager(log, storage, gw, syncer, cfg.Scheduler.InfoChannels)
	if err = manager.LoadState(); err != nil {
		log.Error("failed to load event state", sl.Err(err))
		os.Exit(1)
	}

	sessions := wizard.NewRegistry()

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/guilds/{guildID}/events", createEvent.New(log, manager))
	router.Get("/guilds/{guildID}/events", listEvents.New(log, manager))
	router.Get("/guilds/{guildID}/events/{eventID}", getEvent.New(log, manager))
	router.Post("/guilds/{guildID}/events/{eventID}", editEvent.New(log, manager))
	router.Post("/guilds/{guildID}/events/{eventID}/cancel", cancelEvent.New(log, manager))
	router.Post("/guilds/{guildID}/wizard", wizardReply.New(log, manager, sessions))
	router.Post("/interactions", interaction.New(log, manager))

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	manager.Start()

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	manager.Stop()

	if err = srv.Shutdown(context.Background()); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
