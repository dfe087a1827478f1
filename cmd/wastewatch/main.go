// Command wastewatch runs the simulated backend as a small interactive
// demo: it opens the configured blob backend, seeds fixtures on first
// run, logs in the demo account and walks a few operations while a
// registered listener prints every notification it receives.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"wastewatch/internal/api"
	"wastewatch/internal/config"
	"wastewatch/internal/models"
	"wastewatch/internal/notifications"
	"wastewatch/internal/observability"
	"wastewatch/internal/seed"
	"wastewatch/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName: "wastewatch",
		Environment: cfg.Env,
		Enabled:     cfg.TracingEnabled,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	blob, err := openBlob(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, blob, storage.Options{
		SessionSecret: cfg.SessionSecret,
		Seed: func() *storage.Snapshot {
			return seed.Snapshot(seed.Options{
				Users:            cfg.SeedUsers,
				Dumpsters:        cfg.SeedDumpsters,
				Wastelands:       cfg.SeedWastelands,
				Events:           cfg.SeedEvents,
				MessagesPerEvent: seed.DefaultOptions().MessagesPerEvent,
			})
		},
	})
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	backend := api.New(store, api.Options{
		MaxLatency:      cfg.MaxLatency(),
		ProximityMeters: cfg.ProximityMeters,
	})

	listener := notifications.NewListener(func(n models.Notification) {
		fmt.Printf("notification: %#v\n", n)
	})
	if err := backend.Listeners().Register(listener, notifications.Filter{}); err != nil {
		log.Fatalf("Failed to register listener: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		_ = store.Close()
		os.Exit(0)
	}()

	if err := demo(ctx, backend); err != nil {
		log.Fatalf("Demo run failed: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Store close error: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}
}

// demo logs in the built-in account and exercises a representative slice
// of the operation surface.
func demo(ctx context.Context, backend *api.API) error {
	user, err := backend.Login(ctx, api.Credentials{
		Email:    seed.DemoUserEmail,
		Password: seed.DemoUserPass,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in as %s (#%d)\n", user.Username, user.ID)

	wastelands, err := backend.GetWastelands(ctx, api.WastelandFilter{ActiveOnly: true}, api.All())
	if err != nil {
		return fmt.Errorf("list wastelands: %w", err)
	}
	fmt.Printf("%d active wastelands (of %d total)\n", len(wastelands.Items), wastelands.TotalLength)

	events, err := backend.GetEvents(ctx, api.EventFilter{OnlyMine: true}, api.All())
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	fmt.Printf("member of %d events\n", events.TotalLength)
	for _, e := range events.Items {
		msgs, err := backend.GetEventMessages(ctx, e.ID, api.Range{From: 0, To: 4})
		if err != nil {
			return fmt.Errorf("event %d messages: %w", e.ID, err)
		}
		fmt.Printf("  %q: %d messages\n", e.Name, msgs.TotalLength)
	}

	invs, err := backend.GetMyInvitations(ctx)
	if err != nil {
		return fmt.Errorf("list invitations: %w", err)
	}
	for _, inv := range invs {
		fmt.Printf("pending invitation to %q (admin=%v)\n", inv.EventName, inv.AsAdmin)
	}
	return nil
}

// openBlob picks the blob backend named by configuration.
func openBlob(cfg *config.Config) (storage.Blob, error) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		key := cfg.BlobKey
		if key == "" {
			key = storage.DefaultRedisKey
		}
		return storage.NewRedisBlob(client, key), nil
	case "sqlite":
		key := cfg.BlobKey
		if key == "" {
			key = "snapshot"
		}
		return storage.OpenSQLiteBlob(cfg.StoragePath, key)
	default:
		return storage.NewFileBlob(cfg.StoragePath), nil
	}
}
