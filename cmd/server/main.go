// cmd/server/main.go
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

	"github.com/redis/go-redis/v9"

	"github.com/campustrade/campustrade-api/api"
	"github.com/campustrade/campustrade-api/config"
	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/logger"
	"github.com/campustrade/campustrade-api/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

const (
	blacklistPruneInterval = 5 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

func main() {
	customLog.Println("Starting CampusTrade API server...")

	// 1. Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Metadata Database Connection
	metaDB, err := storage.ConnectMetadataDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize metadata database: %v", err)
	}
	defer func() {
		customLog.Println("Closing metadata database connection...")
		if err := metaDB.Close(); err != nil {
			customLog.Printf("Error closing metadata database: %v", err)
		}
	}()

	// 3. Token blacklist
	blacklist, closeBlacklist, err := newBlacklist(ctx, cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize token blacklist: %v", err)
	}
	defer closeBlacklist()

	// 4. Setup Router
	router, err := api.SetupRouter(metaDB, cfg, blacklist)
	if err != nil {
		customLog.Fatalf("Failed to set up router: %v", err)
	}

	// 5. Start Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		customLog.Printf("Server listening on port %s (%s)", cfg.ServerPort, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			customLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	customLog.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		customLog.Printf("Server shutdown error: %v", err)
	}
}

// newBlacklist uses redis when REDIS_ADDR is configured, otherwise an
// in-memory blacklist pruned in the background.
func newBlacklist(ctx context.Context, cfg *config.Config) (auth.Blacklist, func(), error) {
	if cfg.Redis.Addr == "" {
		mem := auth.NewMemoryBlacklist()
		go mem.RunPruner(ctx, blacklistPruneInterval)
		customLog.Println("Token blacklist: in-memory")
		return mem, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}
	customLog.Printf("Token blacklist: redis at %s", cfg.Redis.Addr)
	return auth.NewRedisBlacklist(client, ""), func() {
		if err := client.Close(); err != nil {
			customLog.Printf("Error closing redis client: %v", err)
		}
	}, nil
}
