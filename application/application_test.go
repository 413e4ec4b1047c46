package application

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/tictactoe-gameplay/apperror"
	"github.com/rocketscienceinc/tictactoe-gameplay/config"
	"github.com/rocketscienceinc/tictactoe-gameplay/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()

	// Given: a config selecting sqlite storage
	conf := &config.Config{
		Storage:           config.StorageSQLite,
		SQLiteStoragePath: filepath.Join(t.TempDir(), "gameplay.db"),
	}

	// When: the app is built
	app, err := New(ctx, discardLogger(), conf)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	// Then: a whole game can be played through it
	game, err := app.Games.CreateGame(ctx, "alice", "bob")
	require.NoError(t, err)

	moves := []struct {
		user string
		x, y int
	}{
		{"alice", 0, 0},
		{"bob", 0, 1},
		{"alice", 1, 1},
		{"bob", 0, 2},
		{"alice", 2, 2},
	}
	for _, m := range moves {
		game, err = app.Games.MakeMove(ctx, game.ID, m.user, m.x, m.y, "")
		require.NoError(t, err)
	}

	assert.Equal(t, entity.StatusFirstWins, game.Status)

	// Then: the finished game rejects further moves and is no longer active
	_, err = app.Games.MakeMove(ctx, game.ID, "bob", 2, 0, "")
	require.ErrorIs(t, err, apperror.ErrInvalidState)

	active, err := app.Games.ActiveGamesForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, active)

	board, err := app.Games.Board(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "X..\nOX.\nO.X", board.String())
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown storage", func(t *testing.T) {
		_, err := New(ctx, discardLogger(), &config.Config{Storage: "postgres"})

		require.ErrorIs(t, err, ErrUnknownStorage)
	})

	t.Run("Empty redis address", func(t *testing.T) {
		_, err := New(ctx, discardLogger(), &config.Config{Storage: config.StorageRedis})

		require.ErrorIs(t, err, ErrAddrNotFound)
	})
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewLogger("debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("info").Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("error").Enabled(ctx, slog.LevelWarn))
	assert.True(t, NewLogger("").Enabled(ctx, slog.LevelInfo))
}
