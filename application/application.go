package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rocketscienceinc/tictactoe-gameplay/config"
	"github.com/rocketscienceinc/tictactoe-gameplay/repository"
	"github.com/rocketscienceinc/tictactoe-gameplay/repository/storage"
	"github.com/rocketscienceinc/tictactoe-gameplay/usecase"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage")
)

// App - the gameplay module wired to its storage. Host applications drive games through Games.
type App struct {
	Games usecase.GameUseCase

	closer io.Closer
}

// New - connects the storage selected in conf and builds the use cases on top of it.
func New(ctx context.Context, logger *slog.Logger, conf *config.Config) (*App, error) {
	log := logger.With("component", "app")

	var (
		gameRepo repository.GameRepository
		closer   io.Closer
	)

	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		gameRepo = repository.NewGameRepository(redisStorage.Connection)
		closer = redisStorage
	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		gameRepo = repository.NewSQLiteGameRepository(sqliteStorage.Connection)
		closer = sqliteStorage
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}

	log.Info("storage connected", "storage", conf.Storage)

	return &App{
		Games:  usecase.NewGameUseCase(logger, gameRepo),
		closer: closer,
	}, nil
}

func (that *App) Close() error {
	if err := that.closer.Close(); err != nil {
		return fmt.Errorf("could not close storage: %w", err)
	}

	return nil
}

// NewLogger - builds the JSON logger used across the module.
func NewLogger(level string) *slog.Logger {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
