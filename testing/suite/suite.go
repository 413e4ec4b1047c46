package suite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-gameplay/repository/storage"
)

const (
	containerTTL = 120 // seconds
	startTimeout = 120 * time.Second
)

const (
	redisImage   = "redis"
	redisVersion = "alpine"
	redisPort    = "6379/tcp"
)

// Suite is a redis-backed test fixture.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// New runs redis in a disposable docker container and connects to it.
// The container and the client are released when the test ends.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("docker is unavailable: %v", err)
	}
	pool.MaxWait = startTimeout

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisVersion,
	}, func(host *docker.HostConfig) {
		host.AutoRemove = true
		host.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("failed to run %s:%s: %v", redisImage, redisVersion, err)
	}

	// a crashed test run must not leak the container
	_ = container.Expire(containerTTL)

	client := redis.NewClient(&redis.Options{Addr: container.GetHostPort(redisPort)})

	if err = pool.Retry(func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		_ = pool.Purge(container)
		t.Fatalf("redis did not come up: %v", err)
	}

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()

		if err := pool.Purge(container); err != nil {
			t.Errorf("failed to remove redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  newLogger(),
		Storage: client,
	}
}

// SQLiteSuite is a file-backed sqlite test fixture.
type SQLiteSuite struct {
	*testing.T
	Logger *slog.Logger

	Storage *storage.SQLiteStorage
}

// NewSQLite - creates an initialised database file in a temporary directory.
func NewSQLite(t *testing.T) (context.Context, *SQLiteSuite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "gameplay.db"))
	if err != nil {
		t.Fatalf("could not open sqlite storage: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("could not close sqlite storage: %v", err)
		}
	})

	if err = st.Init(ctx); err != nil {
		t.Fatalf("could not init sqlite storage: %v", err)
	}

	return ctx, &SQLiteSuite{
		T:       t,
		Logger:  newLogger(),
		Storage: st,
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
