package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"yoga-api/internal/config"
	"yoga-api/internal/crypto"
	"yoga-api/internal/repository"
	"yoga-api/internal/server"
	"yoga-api/internal/token"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yml", "path to the YAML configuration file")
	flag.Parse()

	bootLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}

	// Load configuration
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		bootLogger.Fatal("Failed to load config", zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		bootLogger.Fatal("Failed to build logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Signing key and token codec are fixed for the process lifetime
	key, err := crypto.NewSigningKey(cfg.JWT.Secret)
	if err != nil {
		logger.Fatal("Invalid JWT secret", zap.Error(err))
	}
	ttl, err := cfg.TokenTTL()
	if err != nil {
		logger.Fatal("Invalid JWT expiration", zap.Error(err))
	}
	codec, err := token.NewJWTCodec(key, ttl, token.SystemClock)
	if err != nil {
		logger.Fatal("Failed to initialize token codec", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, repository.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := repository.MigrateDB(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewServer(db, cfg, codec, crypto.NewArgon2(), logger)

	if err := srv.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Application stopped.")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.Log.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}
