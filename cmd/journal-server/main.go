package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/journal/internal/config"
	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/notes"
	"github.com/existflow/journal/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logConfig := logger.DefaultConfig()
	logConfig.Level = logger.ParseLevel(cfg.LogLevel)
	logConfig.FilePath = cfg.LogFile
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, db.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		logger.Error("Failed to open database", logger.F("error", err))
		os.Exit(1)
	}

	generator := notes.NewGenerator(database, notes.NewOpenAIClient(cfg.OpenAI.BaseURL), cfg.OpenAI.Model)
	srv := server.New(database, generator, server.Options{
		TokenHash:    cfg.Server.TokenHash,
		PeriodicDays: cfg.PeriodicDays,
	})
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("Error closing database", logger.F("error", err))
		}
	}()

	if cfg.Server.TokenHash == "" {
		logger.Warn("No API token set; requests are not authenticated. Run 'journal server set-token'.")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Journal server starting",
			logger.F("addr", cfg.Server.Addr),
			logger.F("driver", database.Driver()))
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Journal server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", logger.F("error", err))
		os.Exit(1)
	}
}
