package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema подходит и для Postgres, и для SQLite. Даты хранятся текстом ISO-8601,
// поэтому лексический порядок совпадает с хронологическим.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		rating INTEGER NOT NULL DEFAULT 1500,
		avatar TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		opponent_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		result TEXT NOT NULL CHECK (result IN ('win', 'loss', 'draw')),
		color TEXT NOT NULL CHECK (color IN ('white', 'black')),
		time_control TEXT NOT NULL CHECK (time_control IN ('bullet', 'blitz', 'rapid', 'classical')),
		moves INTEGER NOT NULL CHECK (moves >= 0),
		rating_before INTEGER NOT NULL,
		rating_after INTEGER NOT NULL,
		rating_change INTEGER NOT NULL,
		opening TEXT,
		notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_player_id ON games(player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_games_opponent_id ON games(opponent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_games_date ON games(date)`,
	`CREATE INDEX IF NOT EXISTS idx_players_username ON players(username)`,
}

// Migrate создаёт таблицы и индексы, если их ещё нет.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
