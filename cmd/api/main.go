package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/livingwaters/fundraiser-backend/api/controllers"
	"github.com/livingwaters/fundraiser-backend/api/routes"
	authsvc "github.com/livingwaters/fundraiser-backend/internal/auth"
	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/journal"
	ordersvc "github.com/livingwaters/fundraiser-backend/internal/orders"
	productsvc "github.com/livingwaters/fundraiser-backend/internal/products"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
	pkgredis "github.com/livingwaters/fundraiser-backend/pkg/redis"
	"github.com/livingwaters/fundraiser-backend/pkg/session"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	pingers := map[string]controllers.Pinger{}

	var sessions session.Store
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		sessions, err = session.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create session store", err)
			os.Exit(1)
		}
		pingers["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, admin sessions are held in memory")
		sessions = session.NewMemoryStore()
	}

	var audit ordersvc.AuditLog
	var jrnl *journal.Journal
	if cfg.Journal.Enabled() {
		jrnl, err = journal.New(context.Background(), cfg.Journal, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to open order journal", err)
			os.Exit(1)
		}
		defer func() {
			if err := jrnl.Close(); err != nil {
				logg.Error(context.Background(), "error closing order journal", err)
			}
		}()
		audit = jrnl
		pingers["journal"] = jrnl
	} else {
		logg.Warn(context.Background(), "journal not configured, order history lives in memory only")
	}

	st := store.New()
	hub := broadcast.NewHub(cfg.Push.SendQueueSize, logg)

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Store:     st,
		Publisher: hub,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Store:     st,
		Publisher: hub,
		Audit:     audit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		JWT:             cfg.JWT,
		Password:        cfg.Password,
		Sessions:        sessions,
		InitialPassword: cfg.Admin.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if _, seeded := productService.Sync(context.Background()); seeded {
		logg.Info(context.Background(), "seeded product catalog")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Store:    st,
			Hub:      hub,
			Orders:   orderService,
			Products: productService,
			Auth:     authService,
			Journal:  jrnl,
			Pingers:  pingers,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
