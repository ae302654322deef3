// Package seed заполняет базу демонстрационными игроками и партиями.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/chess-statistics/db"
	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/repositories"
)

//go:embed roster.yaml
var rosterYAML []byte

var openings = []string{
	"Sicilian Defense",
	"Queen's Gambit",
	"Ruy Lopez",
	"French Defense",
	"Italian Game",
	"King's Indian Defense",
	"English Opening",
	"Nimzo-Indian Defense",
	"Catalan Opening",
	"Pirc Defense",
	"Caro-Kann Defense",
	"Scandinavian Defense",
	"London System",
	"Dutch Defense",
	"Grünfeld Defense",
}

var notes = []string{
	"Great endgame technique",
	"Mistake in the opening",
	"Long endgame, well played by both",
	"Good tactical play",
	"Strong opening preparation",
	"Time trouble",
	"Excellent positional play",
	"Threefold repetition",
	"Good conversion of advantage",
	"Quick victory",
	"Brilliant combination",
	"Solid defense",
	"Aggressive play",
	"Patient endgame",
}

var results = []models.GameResult{models.ResultWin, models.ResultLoss, models.ResultDraw}

// StartDate задаёт дату первой сгенерированной партии.
var StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type roster struct {
	Players []models.Player `yaml:"players"`
}

// Roster возвращает встроенный список игроков.
func Roster() ([]models.Player, error) {
	var r roster
	if err := yaml.Unmarshal(rosterYAML, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return r.Players, nil
}

// gameID дополняет n нулями, чтобы id сортировались в порядке вставки.
func gameID(n int) string {
	return fmt.Sprintf("game-%06d", n)
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func ratingChange(rng *rand.Rand, result models.GameResult) int {
	switch result {
	case models.ResultWin:
		return rng.IntN(20) + 10
	case models.ResultLoss:
		return -(rng.IntN(20) + 10)
	default:
		return 0
	}
}

// GenerateGames генерирует от 2 до 4 партий для каждой пары игроков. Каждая
// партия возвращается двумя записями, по одной на сторону, с общими датой,
// контролем времени, числом ходов и дебютом. Рейтинг каждого игрока ведётся от
// сохранённого значения в порядке дат. Результат упорядочен по времени и
// зависит только от players и rng.
func GenerateGames(players []models.Player, rng *rand.Rand) []models.Game {
	current := make(map[string]int, len(players))
	for _, p := range players {
		current[p.ID] = p.Rating
	}

	var games []models.Game
	day := 0
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i].ID, players[j].ID

			for k := rng.IntN(3) + 2; k > 0; k-- {
				date := StartDate.AddDate(0, 0, day).Format(models.DateLayout)
				day++

				result := pick(rng, results)
				color := models.ColorWhite
				if rng.IntN(2) == 1 {
					color = models.ColorBlack
				}
				timeControl := pick(rng, models.TimeControls)
				moves := rng.IntN(50) + 20
				opening := pick(rng, openings)
				change := ratingChange(rng, result)

				first := models.Game{
					ID:          gameID(len(games) + 1),
					Date:        date,
					PlayerID:    a,
					OpponentID:  b,
					Result:      result,
					Color:       color,
					TimeControl: timeControl,
					Moves:       moves,
					Rating:      models.GameRating{Before: current[a], After: current[a] + change, Change: change},
					Opening:     &opening,
				}
				firstNote := pick(rng, notes)
				first.Notes = &firstNote

				second := first
				second.ID = gameID(len(games) + 2)
				second.PlayerID, second.OpponentID = b, a
				second.Result = result.Opposite()
				second.Color = color.Opposite()
				second.Rating = models.GameRating{Before: current[b], After: current[b] - change, Change: -change}
				secondNote := pick(rng, notes)
				second.Notes = &secondNote

				current[a] += change
				current[b] -= change
				games = append(games, first, second)
			}
		}
	}
	return games
}

// Summary сообщает, сколько записей вставил Run.
type Summary struct {
	Players int
	Games   int
}

// Run в одной транзакции заменяет содержимое обеих таблиц игроками из
// списка и сгенерированными партиями.
func Run(ctx context.Context, conn *sql.DB, players repositories.PlayerRepository, games repositories.GameRepository, rng *rand.Rand) (Summary, error) {
	sample, err := Roster()
	if err != nil {
		return Summary{}, err
	}
	generated := GenerateGames(sample, rng)

	err = db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		if err := games.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := players.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := players.InsertBatch(ctx, tx, sample); err != nil {
			return err
		}
		return games.InsertBatch(ctx, tx, generated)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seeding failed: %w", err)
	}
	return Summary{Players: len(sample), Games: len(generated)}, nil
}
