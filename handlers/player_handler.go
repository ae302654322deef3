package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/chess-statistics/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: ps,
	}
}

// ListPlayers godoc
// @Summary Список игроков со статистикой
// @Description Все игроки с краткой статистикой, недавно игравшие первыми.
// @Tags players
// @Produce json
// @Success 200 {array} models.PlayerWithStats
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, players)
}

// GetPlayer godoc
// @Summary Получить игрока
// @Tags players
// @Produce json
// @Param id path string true "ID игрока"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, player)
}

// CreatePlayer godoc
// @Summary Создать игрока
// @Tags players
// @Accept json
// @Produce json
// @Param body body services.CreatePlayerInput true "Данные игрока"
// @Success 201 {object} models.Player
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "Имя пользователя занято"
// @Security BasicAuth
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, player)
}

// UpdatePlayer godoc
// @Summary Частично обновить игрока
// @Description Изменяются только переданные поля. Пустой avatar удаляет аватар.
// @Tags players
// @Accept json
// @Produce json
// @Param id path string true "ID игрока"
// @Param body body services.UpdatePlayerInput true "Изменяемые поля"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BasicAuth
// @Router /players/{id} [put]
// @Router /players/{id} [patch]
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, player)
}

// DeletePlayer godoc
// @Summary Удалить игрока
// @Description Вместе с игроком удаляются все его партии.
// @Tags players
// @Param id path string true "ID игрока"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /players/{id} [delete]
func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar godoc
// @Summary Загрузить аватар игрока
// @Description JPEG, PNG, GIF или WebP, не больше 5MB.
// @Tags players
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID игрока"
// @Param avatar formData file true "Изображение"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /players/{id}/avatar [post]
func (h *PlayerHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Запас на multipart-обёртку вокруг файла максимального размера.
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAvatarSize+1<<20)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			badRequestResponse(w, r, services.ErrAvatarTooLarge)
			return
		}
		badRequestResponse(w, r, errors.New("multipart field \"avatar\" with an image file is required"))
		return
	}
	defer file.Close()

	player, err := h.playerService.UploadAvatar(r.Context(), id, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, player)
}
