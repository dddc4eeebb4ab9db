package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/controller"
	"github.com/sharetube/frequency/internal/repository/connection/inmemory"
	roomRepository "github.com/sharetube/frequency/internal/repository/room"
	roomFile "github.com/sharetube/frequency/internal/repository/room/file"
	roomRedis "github.com/sharetube/frequency/internal/repository/room/redis"
	"github.com/sharetube/frequency/internal/repository/user/sqlite"
	"github.com/sharetube/frequency/internal/service/room"
	"github.com/sharetube/frequency/internal/service/user"
	"github.com/sharetube/frequency/pkg/ctxlogger"
	"github.com/sharetube/frequency/pkg/redisclient"
)

const (
	StorageRedis = "redis"
	StorageFile  = "file"
)

const shutdownTimeout = 30 * time.Second

type AppConfig struct {
	Secret        string        `json:"-"`
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	LogLevel      string        `json:"log_level"`
	Storage       string        `json:"storage"`
	DataDir       string        `json:"data_dir"`
	RedisHost     string        `json:"redis_host"`
	RedisPort     int           `json:"redis_port"`
	RedisPassword string        `json:"-"`
	RoomTTL       time.Duration `json:"room_ttl"`
	DBPath        string        `json:"db_path"`
	RequireAuth   bool          `json:"require_auth"`
	FlushRetries  int           `json:"flush_retries"`
}

func (cfg *AppConfig) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.Secret, validation.Required),
		validation.Field(&cfg.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&cfg.LogLevel, validation.Required, validation.In("DEBUG", "INFO", "WARN", "ERROR")),
		validation.Field(&cfg.Storage, validation.Required, validation.In(StorageRedis, StorageFile)),
		validation.Field(&cfg.DataDir, validation.When(cfg.Storage == StorageFile, validation.Required)),
		validation.Field(&cfg.RedisHost, validation.When(cfg.Storage == StorageRedis, validation.Required)),
		validation.Field(&cfg.RedisPort, validation.When(cfg.Storage == StorageRedis, validation.Required, validation.Max(65535))),
		validation.Field(&cfg.RoomTTL, validation.Min(time.Duration(0))),
		validation.Field(&cfg.DBPath, validation.Required),
		validation.Field(&cfg.FlushRetries, validation.Min(0)),
	)
}

func newLogger(level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(h), nil
}

type iRoomRepo interface {
	GetRoom(ctx context.Context, roomId string) (roomRepository.Room, error)
	SetRoom(context.Context, *roomRepository.SetRoomParams) error
	IncrSongPlays(context.Context, *roomRepository.IncrSongPlaysParams) error
	GetTopSongs(ctx context.Context, limit int) ([]roomRepository.Song, error)
}

// Run serves until ctx is done or a termination signal arrives, then drains
// pending room writes.
func Run(ctx context.Context, cfg *AppConfig) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return serve(ctx, cfg, ln)
}

func serve(ctx context.Context, cfg *AppConfig, ln net.Listener) error {
	if err := cfg.Validate(); err != nil {
		ln.Close()
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		ln.Close()
		return err
	}
	slog.SetDefault(logger)

	var roomRepo iRoomRepo
	switch cfg.Storage {
	case StorageFile:
		fileRepo, err := roomFile.NewRepo(cfg.DataDir)
		if err != nil {
			ln.Close()
			return fmt.Errorf("failed to create file storage: %w", err)
		}
		roomRepo = fileRepo
	default:
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			ln.Close()
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()
		roomRepo = roomRedis.NewRepo(rc, cfg.RoomTTL)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		ln.Close()
		return fmt.Errorf("failed to open user database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	connRepo := inmemory.NewRepo(logger)
	registry := room.NewRegistry(roomRepo, &room.RegistryConfig{
		FlushRetries: cfg.FlushRetries,
	})
	roomService := room.NewService(registry, roomRepo, connRepo, &room.Config{})
	userService := user.NewService(sqlite.NewRepo(db), &user.Config{
		Secret: cfg.Secret,
	})
	ctrl := controller.NewController(roomService, userService, connRepo, logger, &controller.Config{
		RequireAuth: cfg.RequireAuth,
	})
	server := &http.Server{Handler: ctrl.GetMux()}

	// graceful shutdown
	serverCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(serverCtx, "starting server", "address", ln.Addr().String(), "storage", cfg.Storage)
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
	case <-serverCtx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	if err := registry.Close(shutdownCtx); err != nil {
		return fmt.Errorf("failed to close rooms: %w", err)
	}

	return nil
}
