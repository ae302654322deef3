// Команда initdb применяет схему БД и при необходимости загружает демонстрационные данные.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Dosada05/chess-statistics/config"
	"github.com/Dosada05/chess-statistics/db"
	"github.com/Dosada05/chess-statistics/logging"
	"github.com/Dosada05/chess-statistics/repositories"
	"github.com/Dosada05/chess-statistics/seed"
)

func main() {
	withSeed := flag.Bool("seed", false, "replace all players and games with the sample roster")
	randSeed := flag.Uint64("rand", uint64(time.Now().UnixNano()), "random seed for generated games")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger, logCloser, err := logging.New(cfg)
	if err != nil {
		slog.Error("failed to initialize logger", slog.Any("error", err))
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, logger, *withSeed, *randSeed); err != nil {
		logger.Error("initdb failed", slog.Any("error", err))
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, withSeed bool, randSeed uint64) error {
	conn, err := db.Connect(cfg.DatabaseURL, 30*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}
	logger.Info("schema is up to date", slog.String("driver", db.DriverName(cfg.DatabaseURL)))

	if !withSeed {
		return nil
	}

	rng := rand.New(rand.NewPCG(randSeed, randSeed^0x9e3779b97f4a7c15))
	summary, err := seed.Run(ctx, conn, repositories.NewPlayerRepository(conn), repositories.NewGameRepository(conn), rng)
	if err != nil {
		return err
	}
	logger.Info("sample data loaded",
		slog.Int("players", summary.Players),
		slog.Int("games", summary.Games),
		slog.Uint64("rand", randSeed),
	)
	return nil
}
