package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/loja_grid/internal/auth"
	"github.com/Skotchmaster/loja_grid/internal/config"
	"github.com/Skotchmaster/loja_grid/internal/db"
	"github.com/Skotchmaster/loja_grid/internal/events"
	"github.com/Skotchmaster/loja_grid/internal/httpserver"
	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/search"
	"github.com/Skotchmaster/loja_grid/internal/service"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), config.LoadConfig(), migrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "create or update tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func sessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	if cfg.RedisAddr == "" {
		return session.CookieStore{}, func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return session.NewRedisStore(client), client.Close, nil
}

func searchEngine(cfg *config.Config, r *repo.GormRepo, log *slog.Logger) search.Engine {
	if cfg.ESURL == "" {
		return &search.SQL{Repo: r}
	}
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Warn("search_degraded", "reason", "elasticsearch unavailable, using SQL search", "error", err)
		return &search.SQL{Repo: r}
	}
	return &search.Elastic{ES: client, Index: cfg.ESIndex, Repo: r}
}

func publisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	return events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	cfg.MustProductionSecret()
	cfg.MustDatabase()
	log := logging.ForService(logging.New(cfg.LogLevel), cfg.ServiceName)
	slog.SetDefault(log)

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(log, conn)

	if migrate {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}

	store, closeStore, err := sessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("redis close error", "error", err)
		}
	}()

	pub := publisher(cfg)
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("kafka close error", "error", err)
		}
	}()

	r := &repo.GormRepo{DB: conn}
	h := &httpserver.Handler{
		Catalog: service.NewCatalogService(r, pub, searchEngine(cfg, r, log)),
		Auth:    &auth.Service{Users: r},
		Guard:   &auth.Guard{Users: r},
	}
	sessions := session.NewManager(cfg.SecretKey, store, time.Duration(cfg.SessionTTLH)*time.Hour, cfg.SessionSecure)

	e, err := httpserver.New(cfg, log, h, sessions)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	log.Info("shutdown complete")
	return nil
}

func closeDB(log *slog.Logger, conn *gorm.DB) {
	if err := db.Close(conn); err != nil {
		log.Error("db close error", "error", err)
	}
}
