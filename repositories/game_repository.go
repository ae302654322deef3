package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/utils"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	// List возвращает партии по фильтру, новые первыми. Партии одной даты
	// упорядочены по id, который отражает порядок создания.
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
	// Create присваивает новый id, сохраняет партию и возвращает сохранённую запись.
	Create(ctx context.Context, game models.Game) (*models.Game, error)
	// Update записывает только заданные в upd поля. Пустое обновление возвращает текущую запись.
	Update(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error)
	Delete(ctx context.Context, id string) error
	InsertBatch(ctx context.Context, exec SQLExecutor, games []models.Game) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type sqlGameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) GameRepository {
	return &sqlGameRepository{db: db}
}

var gameColumns = []string{
	"id", "date", "player_id", "opponent_id", "result", "color", "time_control", "moves",
	"rating_before", "rating_after", "rating_change", "opening", "notes",
}

func scanGame(row rowScanner) (*models.Game, error) {
	var g models.Game
	var result, color, timeControl string
	var opening, notes sql.NullString

	err := row.Scan(
		&g.ID,
		&g.Date,
		&g.PlayerID,
		&g.OpponentID,
		&result,
		&color,
		&timeControl,
		&g.Moves,
		&g.Rating.Before,
		&g.Rating.After,
		&g.Rating.Change,
		&opening,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	g.Result = models.GameResult(result)
	g.Color = models.Color(color)
	g.TimeControl = models.TimeControl(timeControl)
	g.Opening = stringPtr(opening)
	g.Notes = stringPtr(notes)
	return &g, nil
}

func (r *sqlGameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	b := psql.Select(gameColumns...).From("games")
	if filter.PlayerID != "" {
		b = b.Where(sq.Eq{"player_id": filter.PlayerID})
	}
	query, args, err := b.OrderBy("date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build games query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game: %w", scanErr)
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *sqlGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query, args, err := psql.Select(gameColumns...).From("games").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build game query: %w", err)
	}

	g, err := scanGame(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return g, nil
}

func insertGame(ctx context.Context, exec SQLExecutor, g models.Game) error {
	query := `
		INSERT INTO games (
			id, date, player_id, opponent_id, result, color, time_control, moves,
			rating_before, rating_after, rating_change, opening, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := exec.ExecContext(ctx, query,
		g.ID,
		g.Date,
		g.PlayerID,
		g.OpponentID,
		string(g.Result),
		string(g.Color),
		string(g.TimeControl),
		g.Moves,
		g.Rating.Before,
		g.Rating.After,
		g.Rating.Change,
		nullString(g.Opening),
		nullString(g.Notes),
	)
	return err
}

func (r *sqlGameRepository) Create(ctx context.Context, game models.Game) (*models.Game, error) {
	game.ID = utils.NewID("game")
	if err := insertGame(ctx, r.db, game); err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	return r.GetByID(ctx, game.ID)
}

// gameUpdateQuery строит UPDATE по заданным полям upd. Заданный Rating
// всегда записывает все три колонки рейтинга.
func gameUpdateQuery(id string, upd models.GameUpdate) (b sq.UpdateBuilder, ok bool) {
	if upd.IsEmpty() {
		return b, false
	}
	b = psql.Update("games")
	if upd.Date != nil {
		b = b.Set("date", *upd.Date)
	}
	if upd.PlayerID != nil {
		b = b.Set("player_id", *upd.PlayerID)
	}
	if upd.OpponentID != nil {
		b = b.Set("opponent_id", *upd.OpponentID)
	}
	if upd.Result != nil {
		b = b.Set("result", string(*upd.Result))
	}
	if upd.Color != nil {
		b = b.Set("color", string(*upd.Color))
	}
	if upd.TimeControl != nil {
		b = b.Set("time_control", string(*upd.TimeControl))
	}
	if upd.Moves != nil {
		b = b.Set("moves", *upd.Moves)
	}
	if upd.Rating != nil {
		b = b.Set("rating_before", upd.Rating.Before).
			Set("rating_after", upd.Rating.After).
			Set("rating_change", upd.Rating.Change)
	}
	if upd.Opening != nil {
		b = b.Set("opening", nullString(upd.Opening))
	}
	if upd.Notes != nil {
		b = b.Set("notes", nullString(upd.Notes))
	}
	return b.Where(sq.Eq{"id": id}), true
}

func (r *sqlGameRepository) Update(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error) {
	b, ok := gameUpdateQuery(id, upd)
	if !ok {
		return r.GetByID(ctx, id)
	}

	result, err := execBuilder(ctx, r.db, b)
	if err != nil {
		return nil, fmt.Errorf("failed to update game %s: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrGameNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *sqlGameRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *sqlGameRepository) InsertBatch(ctx context.Context, exec SQLExecutor, games []models.Game) error {
	executor := getExecutor(r.db, exec)
	for _, g := range games {
		if err := insertGame(ctx, executor, g); err != nil {
			return fmt.Errorf("InsertBatch failed for game %s: %w", g.ID, err)
		}
	}
	return nil
}

func (r *sqlGameRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("failed to delete games: %w", err)
	}
	return nil
}
