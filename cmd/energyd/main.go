package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jask/energylog/internal/config"
	"github.com/jask/energylog/internal/database"
	"github.com/jask/energylog/internal/database/repository"
	"github.com/jask/energylog/internal/logging"
	"github.com/jask/energylog/internal/metrics"
	"github.com/jask/energylog/internal/secrets"
	"github.com/jask/energylog/internal/server"
	"github.com/jask/energylog/internal/service"
	"github.com/jask/energylog/internal/testdata"
)

// tokenName is the secrets entry holding the server token.
const tokenName = "server"

func main() {
	var (
		configPath = flag.String("config", "", "config file (default ~/.config/energylog/config.toml)")
		seedDemo   = flag.Int("seed-demo", 0, "generate N synthetic readings and exit")
		reset      = flag.Bool("reset", false, "delete every reading and exit")
		storeToken  = flag.String("store-token", "", "save the API token in the secrets store and exit")
		rotateToken = flag.Bool("rotate-token", false, "generate a new API token, print it and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File, os.Stderr)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	store, err := secrets.DefaultStore()
	if err != nil {
		log.Fatalf("secrets: %v", err)
	}
	if *storeToken != "" {
		if err := store.Put(tokenName, *storeToken); err != nil {
			log.Fatalf("store token: %v", err)
		}
		fmt.Println("token saved")
		return
	}
	if *rotateToken {
		tok, err := store.Rotate(tokenName)
		if err != nil {
			log.Fatalf("rotate token: %v", err)
		}
		logger.Info("server token rotated", "fingerprint", secrets.Fingerprint(tok))
		fmt.Println(tok)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, store, *seedDemo, *reset); err != nil {
		logger.Error("energyd stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, store *secrets.Store, seedDemo int, reset bool) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenAndMigrate(ctx, cfg.Database.Path, cfg.Database.Migrations)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	energies := &service.EnergyService{
		Energies: repository.NewEnergyRepo(db),
		Kinds:    repository.NewKindRepo(db),
		Logger:   logger,
	}

	if reset {
		removed, err := (&service.MaintenanceService{DB: db}).Reset(ctx)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		logger.Info("readings deleted", "count", removed)
		return nil
	}
	if seedDemo > 0 {
		n, err := testdata.Seed(ctx, energies, seedDemo, testdata.Options{})
		if err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
		logger.Info("demo readings generated", "count", n)
		return nil
	}

	srvToken := resolveToken(cfg, store, logger)
	srv := server.New(energies, server.Config{
		Token:   srvToken,
		Metrics: metrics.New(),
		Logger:  logger,
	})
	logger.Info("energyd starting", "db", cfg.Database.Path, "auth", srvToken != "")
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func resolveToken(cfg config.Config, store *secrets.Store, logger *slog.Logger) string {
	if cfg.Server.Token != "" {
		return cfg.Server.Token
	}
	tok, err := store.Get(tokenName)
	switch {
	case err == nil:
		if info, err := store.Describe(tokenName); err == nil {
			logger.Info("server token loaded", "fingerprint", info.Fingerprint, "updated", info.Updated.Format(time.DateOnly))
		}
		return tok
	case errors.Is(err, secrets.ErrNotFound):
		logger.Warn("no API token configured; the API is open")
	default:
		logger.Warn("read token from secrets store", "error", err)
	}
	return ""
}
