package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clay099/work-order-backend/internal/config"
	"github.com/clay099/work-order-backend/internal/router"
	"github.com/clay099/work-order-backend/internal/schema"
	"github.com/clay099/work-order-backend/pkg/database"
	"github.com/clay099/work-order-backend/pkg/utilities"
)

func main() {
	// best-effort: a missing .env leaves the real environment in charge
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		sugar.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if cfg.EnsureSchema {
		if err := schema.Ensure(ctx, db); err != nil {
			sugar.Fatalf("ensure schema: %v", err)
		}
		sugar.Info("schema ensured")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.RegisterRoutes(sugar, db, cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("work-order-backend listening", "addr", srv.Addr)

	<-ctx.Done()
	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	sugar.Info("goodbye")
}
