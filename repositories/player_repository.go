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

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameExists = errors.New("username already exists")
)

type PlayerRepository interface {
	// List возвращает всех игроков по убыванию рейтинга.
	List(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id string) (*models.Player, error)
	GetByUsername(ctx context.Context, username string) (*models.Player, error)
	// Create присваивает новый id, сохраняет игрока и возвращает сохранённую запись.
	Create(ctx context.Context, player models.Player) (*models.Player, error)
	// Update записывает только заданные в upd поля. Пустое обновление возвращает текущую запись.
	Update(ctx context.Context, id string, upd models.PlayerUpdate) (*models.Player, error)
	Delete(ctx context.Context, id string) error
	InsertBatch(ctx context.Context, exec SQLExecutor, players []models.Player) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type sqlPlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) PlayerRepository {
	return &sqlPlayerRepository{db: db}
}

const playerColumns = `id, name, username, rating, avatar`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var avatar sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Username, &p.Rating, &avatar); err != nil {
		return nil, err
	}
	p.Avatar = stringPtr(avatar)
	return &p, nil
}

func (r *sqlPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY rating DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player: %w", scanErr)
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqlPlayerRepository) getOne(ctx context.Context, column, value string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE ` + column + ` = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by %s: %w", column, err)
	}
	return p, nil
}

func (r *sqlPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sqlPlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	return r.getOne(ctx, "username", username)
}

func insertPlayer(ctx context.Context, exec SQLExecutor, p models.Player) error {
	query := `INSERT INTO players (id, name, username, rating, avatar) VALUES ($1, $2, $3, $4, $5)`
	_, err := exec.ExecContext(ctx, query, p.ID, p.Name, p.Username, p.Rating, nullString(p.Avatar))
	return err
}

func (r *sqlPlayerRepository) Create(ctx context.Context, player models.Player) (*models.Player, error) {
	player.ID = utils.NewID("player")
	if err := insertPlayer(ctx, r.db, player); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	return r.GetByID(ctx, player.ID)
}

// playerUpdateQuery строит UPDATE по заданным полям upd; ok равен false,
// если записывать нечего.
func playerUpdateQuery(id string, upd models.PlayerUpdate) (b sq.UpdateBuilder, ok bool) {
	if upd.IsEmpty() {
		return b, false
	}
	b = psql.Update("players")
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Username != nil {
		b = b.Set("username", *upd.Username)
	}
	if upd.Rating != nil {
		b = b.Set("rating", *upd.Rating)
	}
	if upd.Avatar != nil {
		b = b.Set("avatar", nullString(upd.Avatar))
	}
	return b.Where(sq.Eq{"id": id}), true
}

func (r *sqlPlayerRepository) Update(ctx context.Context, id string, upd models.PlayerUpdate) (*models.Player, error) {
	b, ok := playerUpdateQuery(id, upd)
	if !ok {
		return r.GetByID(ctx, id)
	}

	result, err := execBuilder(ctx, r.db, b)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update player %s: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет игрока; его партии удаляются через ON DELETE CASCADE.
func (r *sqlPlayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *sqlPlayerRepository) InsertBatch(ctx context.Context, exec SQLExecutor, players []models.Player) error {
	executor := getExecutor(r.db, exec)
	for _, p := range players {
		if err := insertPlayer(ctx, executor, p); err != nil {
			return fmt.Errorf("InsertBatch failed for player %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *sqlPlayerRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}
	return nil
}
