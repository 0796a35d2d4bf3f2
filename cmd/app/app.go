package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/pilgrim-api/internal/api"
	"github.com/vietanh2810/pilgrim-api/internal/cache"
	"github.com/vietanh2810/pilgrim-api/internal/config"
	"github.com/vietanh2810/pilgrim-api/internal/db"
	"github.com/vietanh2810/pilgrim-api/internal/logger"
	"github.com/vietanh2810/pilgrim-api/internal/repository"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
	"github.com/vietanh2810/pilgrim-api/internal/service"
	"github.com/vietanh2810/pilgrim-api/internal/storage"
)

const defaultConfigPath = "./cmd/app/config.yml"

const shutdownTimeout = 10 * time.Second

// Start runs the pilgrimctl command tree. Without a subcommand it serves
// the API.
func Start() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pilgrimctl",
		Short:         "Pilgrim administration API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to the YAML config file")

	cmd.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newCreateAdminCmd(&configPath),
	)

	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if err = db.Migrate(postgresDB); err != nil {
				return fmt.Errorf("failed to migrate database -> %w", err)
			}
			zap.L().Info("database migrated")

			return nil
		},
	}
}

type createAdminOptions struct {
	email    string
	name     string
	password string
}

func newCreateAdminCmd(configPath *string) *cobra.Command {
	var opts createAdminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard operator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, postgresDB, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			svc := service.NewAuthService(repository.NewAdminRepository(dao.NewAdminDAO(postgresDB)), conf.API)
			admin, err := svc.CreateAdmin(cmd.Context(), opts.email, opts.name, opts.password)
			if err != nil {
				return fmt.Errorf("failed to create admin -> %w", err)
			}
			zap.L().Info("admin created", zap.Uint("id", admin.ID), zap.String("email", admin.Email))

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password, at least 8 characters with a letter and a digit (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.Log.Level); err != nil {
		zap.L().Warn("ignoring log level", zap.Error(err))
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, postgresDB, nil
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, postgresDB, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	err = config.Watch(configPath, func(updated *config.AppConfig, err error) {
		if err != nil {
			zap.L().Warn("config reload failed", zap.Error(err))
			return
		}
		if err = logger.SetLevel(updated.Log.Level); err != nil {
			zap.L().Warn("ignoring log level", zap.Error(err))
			return
		}
		zap.L().Info("log level reloaded", zap.String("level", updated.Log.Level))
	})
	if err != nil {
		zap.L().Warn("config watch disabled", zap.Error(err))
	}

	pilgrimCache := newPilgrimCache(ctx, conf.Redis)
	photos, err := newPhotoStore(ctx, conf)
	if err != nil {
		return err
	}

	s := api.NewServer(conf, postgresDB, pilgrimCache, photos)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}

func newPilgrimCache(ctx context.Context, conf *config.RedisConfig) service.PilgrimCache {
	if conf.Addr == "" {
		zap.L().Info("redis not configured, query cache disabled")
		return cache.Nop{}
	}

	client := cache.NewRedisClient(conf)
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unreachable, query cache disabled", zap.String("addr", conf.Addr), zap.Error(err))
		return cache.Nop{}
	}

	return cache.NewPilgrimCache(client, conf.TTL)
}

func newPhotoStore(ctx context.Context, conf *config.AppConfig) (service.PhotoStore, error) {
	if conf.S3.Bucket == "" {
		zap.L().Info("s3 bucket not configured, photos are kept in memory")
		return storage.NewMemoryStore("http://" + conf.API.BaseURL + api.PhotoRoute), nil
	}

	store, err := storage.NewS3Store(ctx, conf.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo storage -> %w", err)
	}

	return store, nil
}
