package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	first_player  TEXT NOT NULL,
	second_player TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'F' CHECK (status IN ('F', 'S', 'W', 'L', 'D')),
	start_time    TIMESTAMP NOT NULL,
	last_active   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS games_first_player ON games (first_player);
CREATE INDEX IF NOT EXISTS games_second_player ON games (second_player);

CREATE TABLE IF NOT EXISTS moves (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id         TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	x               INTEGER NOT NULL CHECK (x BETWEEN 0 AND 2),
	y               INTEGER NOT NULL CHECK (y BETWEEN 0 AND 2),
	comments        TEXT NOT NULL DEFAULT '' CHECK (length(comments) <= 300),
	by_first_player BOOLEAN NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	UNIQUE (game_id, x, y)
);
`

type SQLiteStorage struct {
	Connection *sql.DB
}

// NewSQLiteStorage - opens the database file at path. Write transactions take the
// database lock on BEGIN so that two moves on the same game never interleave.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

func (that *SQLiteStorage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}
