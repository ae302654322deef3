package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/repositories"
	"github.com/Dosada05/chess-statistics/stats"
)

type GameService interface {
	// ListGames возвращает партии, новые первыми, при необходимости для одного игрока.
	ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListPlayerGames(ctx context.Context, playerID string) ([]models.Game, error)
	// PlayerStatistics считает статистику по всем партиям игрока. Для неизвестного игрока она нулевая.
	PlayerStatistics(ctx context.Context, playerID string) (models.GameStatistics, error)
	CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, id string, input UpdateGameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

// RatingInput описывает рейтинг партии в запросе. Все три поля обязательны.
type RatingInput struct {
	Before *int `json:"before" validate:"required"`
	After  *int `json:"after" validate:"required"`
	Change *int `json:"change" validate:"required"`
}

func (r *RatingInput) toModel() models.GameRating {
	return models.GameRating{Before: *r.Before, After: *r.After, Change: *r.Change}
}

type CreateGameInput struct {
	Date        string             `json:"date" validate:"required,datetime=2006-01-02"`
	PlayerID    string             `json:"playerId" validate:"required"`
	OpponentID  string             `json:"opponentId" validate:"required,nefield=PlayerID"`
	Result      models.GameResult  `json:"result" validate:"required,oneof=win loss draw"`
	Color       models.Color       `json:"color" validate:"required,oneof=white black"`
	TimeControl models.TimeControl `json:"timeControl" validate:"required,oneof=bullet blitz rapid classical"`
	Moves       *int               `json:"moves" validate:"required,min=0"`
	Rating      *RatingInput       `json:"rating" validate:"required"`
	Opening     *string            `json:"opening,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// UpdateGameInput: поля со значением nil не изменяются. Переданный rating
// должен содержать все три значения. Пустые opening или notes очищают поле.
type UpdateGameInput struct {
	Date        *string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PlayerID    *string             `json:"playerId,omitempty" validate:"omitempty,min=1"`
	OpponentID  *string             `json:"opponentId,omitempty" validate:"omitempty,min=1"`
	Result      *models.GameResult  `json:"result,omitempty" validate:"omitempty,oneof=win loss draw"`
	Color       *models.Color       `json:"color,omitempty" validate:"omitempty,oneof=white black"`
	TimeControl *models.TimeControl `json:"timeControl,omitempty" validate:"omitempty,oneof=bullet blitz rapid classical"`
	Moves       *int                `json:"moves,omitempty" validate:"omitempty,min=0"`
	Rating      *RatingInput        `json:"rating,omitempty"`
	Opening     *string             `json:"opening,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

func (in UpdateGameInput) toModel() models.GameUpdate {
	upd := models.GameUpdate{
		Date:        in.Date,
		PlayerID:    in.PlayerID,
		OpponentID:  in.OpponentID,
		Result:      in.Result,
		Color:       in.Color,
		TimeControl: in.TimeControl,
		Moves:       in.Moves,
		Opening:     in.Opening,
		Notes:       in.Notes,
	}
	if in.Rating != nil {
		r := in.Rating.toModel()
		upd.Rating = &r
	}
	return upd
}

type gameService struct {
	gameRepo   repositories.GameRepository
	playerRepo repositories.PlayerRepository
}

func NewGameService(gameRepo repositories.GameRepository, playerRepo repositories.PlayerRepository) GameService {
	return &gameService{
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
	}
}

func (s *gameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *gameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return game, nil
}

func (s *gameService) ListPlayerGames(ctx context.Context, playerID string) ([]models.Game, error) {
	return s.ListGames(ctx, models.GameFilter{PlayerID: playerID})
}

func (s *gameService) PlayerStatistics(ctx context.Context, playerID string) (models.GameStatistics, error) {
	games, err := s.ListPlayerGames(ctx, playerID)
	if err != nil {
		return models.GameStatistics{}, err
	}
	return stats.Compute(games), nil
}

// ensurePlayersExist превращает ссылку на несуществующего игрока в ошибку
// поля вместо нарушения внешнего ключа.
func (s *gameService) ensurePlayersExist(ctx context.Context, refs map[string]string) error {
	for field, id := range refs {
		if _, err := s.playerRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fieldError(field, "references an unknown player")
			}
			return fmt.Errorf("failed to check %s: %w", field, err)
		}
	}
	return nil
}

func (s *gameService) CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensurePlayersExist(ctx, map[string]string{"playerId": input.PlayerID, "opponentId": input.OpponentID}); err != nil {
		return nil, err
	}

	game, err := s.gameRepo.Create(ctx, models.Game{
		Date:        input.Date,
		PlayerID:    input.PlayerID,
		OpponentID:  input.OpponentID,
		Result:      input.Result,
		Color:       input.Color,
		TimeControl: input.TimeControl,
		Moves:       *input.Moves,
		Rating:      input.Rating.toModel(),
		Opening:     input.Opening,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id string, input UpdateGameInput) (*models.Game, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.PlayerID != nil || input.OpponentID != nil {
		current, err := s.GetGame(ctx, id)
		if err != nil {
			return nil, err
		}
		playerID, opponentID := current.PlayerID, current.OpponentID
		refs := map[string]string{}
		if input.PlayerID != nil {
			playerID = *input.PlayerID
			refs["playerId"] = playerID
		}
		if input.OpponentID != nil {
			opponentID = *input.OpponentID
			refs["opponentId"] = opponentID
		}
		if playerID == opponentID {
			return nil, fieldError("opponentId", "must differ from playerId")
		}
		if err := s.ensurePlayersExist(ctx, refs); err != nil {
			return nil, err
		}
	}

	game, err := s.gameRepo.Update(ctx, id, input.toModel())
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game %s: %w", id, err)
	}
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := s.gameRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}
