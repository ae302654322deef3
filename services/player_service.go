package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/repositories"
	"github.com/Dosada05/chess-statistics/stats"
	"github.com/Dosada05/chess-statistics/storage"
	"github.com/Dosada05/chess-statistics/utils"

	// Декодеры допустимых форматов аватара.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxAvatarSize задаёт максимальный размер аватара.
const MaxAvatarSize = 5 << 20

const avatarKeyPrefix = "avatars/"

type PlayerService interface {
	// ListPlayers возвращает всех игроков с краткой статистикой, недавно игравших первыми.
	ListPlayers(ctx context.Context) ([]models.PlayerWithStats, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	UploadAvatar(ctx context.Context, id string, file io.Reader) (*models.Player, error)
}

type CreatePlayerInput struct {
	Name     string  `json:"name" validate:"required"`
	Username string  `json:"username" validate:"required"`
	Rating   *int    `json:"rating,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// UpdatePlayerInput: поля со значением nil не изменяются. Пустой avatar удаляет аватар.
type UpdatePlayerInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=1"`
	Rating   *int    `json:"rating,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	gameRepo   repositories.GameRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, gameRepo repositories.GameRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		uploader:   uploader,
	}
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.PlayerWithStats, error) {
	var players []models.Player
	var games []models.Game

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.List(gctx, models.GameFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load players with stats: %w", err)
	}

	return stats.WithStats(players, games), nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

// ensureUsernameFree возвращает ErrUsernameTaken, если username занят
// игроком, отличным от exceptID.
func (s *playerService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	existing, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing.ID != exceptID {
		return ErrUsernameTaken
	}
	return nil
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, input.Username, ""); err != nil {
		return nil, err
	}

	player := models.Player{
		Name:     input.Name,
		Username: input.Username,
		Rating:   models.DefaultRating,
		Avatar:   input.Avatar,
	}
	if input.Rating != nil {
		player.Rating = *input.Rating
	}

	created, err := s.playerRepo.Create(ctx, player)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return created, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		input.Username = &username
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Username != nil {
		if err := s.ensureUsernameFree(ctx, *input.Username, id); err != nil {
			return nil, err
		}
	}

	var previousAvatar *string
	if input.Avatar != nil {
		current, err := s.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		previousAvatar = current.Avatar
	}

	player, err := s.playerRepo.Update(ctx, id, models.PlayerUpdate{
		Name:     input.Name,
		Username: input.Username,
		Rating:   input.Rating,
		Avatar:   input.Avatar,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		if errors.Is(err, repositories.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update player %s: %w", id, err)
	}
	if !sameAvatar(previousAvatar, player.Avatar) {
		s.removeAvatarObject(ctx, previousAvatar)
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	s.removeAvatarObject(ctx, player.Avatar)
	return nil
}

func sameAvatar(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// removeAvatarObject удаляет объект, на который указывает avatar. URL вне
// хранилища аватаров не трогаются. Ошибки удаления только логируются.
func (s *playerService) removeAvatarObject(ctx context.Context, avatar *string) {
	if avatar == nil || *avatar == "" {
		return
	}
	key, ok := s.uploader.KeyFromURL(*avatar)
	if !ok || !strings.HasPrefix(key, avatarKeyPrefix) {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to remove previous avatar", slog.String("key", key), slog.Any("error", err))
	}
}

// sniffAvatar читает не больше MaxAvatarSize байт и определяет формат
// изображения по содержимому, а не по присланному клиентом content type.
func sniffAvatar(file io.Reader) (data []byte, format string, err error) {
	data, err = io.ReadAll(io.LimitReader(file, MaxAvatarSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return nil, "", ErrAvatarTooLarge
	}

	_, format, err = image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrInvalidAvatar
	}
	return data, format, nil
}

func avatarExtension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

func (s *playerService) UploadAvatar(ctx context.Context, id string, file io.Reader) (*models.Player, error) {
	current, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	data, format, err := sniffAvatar(file)
	if err != nil {
		return nil, err
	}

	key := avatarKeyPrefix + utils.NewID(id) + avatarExtension(format)
	uploaded, err := s.uploader.Upload(ctx, key, "image/"+format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar for player %s: %w", id, err)
	}

	location := uploaded.Location
	player, err := s.playerRepo.Update(ctx, id, models.PlayerUpdate{Avatar: &location})
	if err != nil {
		if delErr := s.uploader.Delete(ctx, uploaded.Key); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned avatar", slog.String("key", uploaded.Key), slog.Any("error", delErr))
		}
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to save avatar for player %s: %w", id, err)
	}
	s.removeAvatarObject(ctx, current.Avatar)
	return player, nil
}
