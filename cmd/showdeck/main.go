package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/showdeck/showdeck/internal/aggregator"
	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/auth"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/config"
	"github.com/showdeck/showdeck/internal/database"
	"github.com/showdeck/showdeck/internal/fanart"
	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/logger"
	"github.com/showdeck/showdeck/internal/omdb"
	"github.com/showdeck/showdeck/internal/ratingsync"
	"github.com/showdeck/showdeck/internal/scheduler"
	"github.com/showdeck/showdeck/internal/scheduler/tasks"
	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
	"github.com/showdeck/showdeck/web"
)

func main() {
	// Pick up API keys from a local .env during development.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Msg("starting Showdeck")

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrTraktNotConfigured) {
			log.Warn().Msg("trakt credentials not configured, sign-in and metadata lookups will be unavailable")
		} else {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := localstore.NewSQLiteStore(db)
	typed := localstore.NewTyped(store)
	appCache := cache.New(store, log.Logger)

	traktClient := trakt.NewClient(cfg.Trakt, log.Logger)
	tmdbClient := tmdb.NewClient(cfg.TMDB, log.Logger)
	fanartClient := fanart.NewClient(cfg.Fanart, log.Logger)
	omdbClient := omdb.NewClient(cfg.OMDB, log.Logger)

	authSvc := auth.NewService(traktClient, typed, cfg.Trakt, log.Logger)
	traktClient.SetTokenProvider(authSvc)

	agg := aggregator.NewService(traktClient, tmdbClient, fanartClient, omdbClient, typed, appCache, log.Logger)
	syncSvc := ratingsync.NewService(traktClient, typed, cfg.Sync.PageLimit, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if cfg.Sync.Cron != "" {
		if err := tasks.RegisterSyncTask(sched, syncSvc, cfg.Sync.Cron); err != nil {
			log.Fatal().Err(err).Msg("failed to register sync task")
		}
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	server := api.NewServer(agg, authSvc, syncSvc, cfg, log.Logger)

	if staticFS, err := web.StaticFS(); err == nil {
		server.RegisterStatic(staticFS)
	} else {
		log.Warn().Err(err).Msg("static assets unavailable")
	}

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
