package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hackathon-portal/internal/app"
	"hackathon-portal/internal/catalog"
	"hackathon-portal/internal/config"
	"hackathon-portal/internal/infra/jsonfile"
	"hackathon-portal/internal/infra/memory"
	pgloader "hackathon-portal/internal/infra/postgres"
	redisinfra "hackathon-portal/internal/infra/redis"
	transport "hackathon-portal/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the hackathon portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	variant := catalog.Variant(cfg.Hackathon.Variant)
	if variant == "" {
		variant = catalog.VariantAlgoProtocols
	}
	duration := config.TTLDuration(cfg.Hackathon.Duration, time.Hour)

	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = "user_data.json"
	}
	store := jsonfile.New(storePath, app.HashPassword(app.DefaultAdminPassword))

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool, string(variant))
	} else {
		loader, err = memory.NewStaticCatalogLoader(variant)
		if err != nil {
			return err
		}
	}
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	catalogRepo := memory.NewCatalogRepository(loader, catalogTTL)

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	service := app.NewPortalService(store, sessions, catalogRepo, duration, variant.TimerEnabled())
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("starting hackathon portal (variant %s) on :%s", variant, finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
