package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/config"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/handlers"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/repository"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("could not connect to database", "error", err)
	}

	// Run migrations
	if err := config.Migrations(db); err != nil {
		log.Fatal("could not run migrations", "error", err)
	}
	if err := config.SeedAdmin(db, cfg, log); err != nil {
		log.Warn("seeding admin failed", "error", err)
	}

	middleware.ExposeErrorDetail = !cfg.IsProduction()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = connectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal("could not connect to redis", "error", err)
		}
	}
	registerLimiter, loginLimiter := limiters(cfg, rdb)

	handler := routes.RegisterRoutes(routes.Deps{
		DB:              db,
		Log:             log,
		Tokens:          middleware.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		RegisterLimiter: registerLimiter,
		LoginLimiter:    loginLimiter,
		StoreOptions:    repository.Options{TreatMissingAsNotFound: cfg.TreatMissingAsNotFound},
		AuthOptions: handlers.AuthOptions{
			PasswordStrengthChecks: cfg.PasswordStrengthChecks,
			FailureDelay:           cfg.LoginFailureDelay,
		},
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		log.Error("server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := config.Close(db); err != nil {
		log.Error("closing database failed", "error", err)
	}
	log.Info("server stopped")
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// limiters returns the register and login budgets, shared through redis
// when configured.
func limiters(cfg config.Config, rdb *redis.Client) (middleware.RateLimiter, middleware.RateLimiter) {
	const (
		registerLimit  = 100
		registerWindow = 15 * time.Minute
		loginWindow    = time.Hour
	)
	loginLimit := 1000
	if cfg.IsProduction() {
		loginLimit = 10
	}
	if rdb != nil {
		return middleware.NewRedisLimiter(rdb, "register", registerLimit, registerWindow),
			middleware.NewRedisLimiter(rdb, "login", loginLimit, loginWindow)
	}
	return middleware.NewMemoryLimiter(registerLimit, registerWindow),
		middleware.NewMemoryLimiter(loginLimit, loginWindow)
}
