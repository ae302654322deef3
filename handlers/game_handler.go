package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/chess-statistics/models"
	"github.com/Dosada05/chess-statistics/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gs services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gs,
	}
}

// ListGames godoc
// @Summary Список партий
// @Description Новые партии первыми. Необязательный фильтр по игроку.
// @Tags games
// @Produce json
// @Param playerId query string false "ID игрока"
// @Success 200 {array} models.Game
// @Router /games [get]
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	filter := models.GameFilter{PlayerID: strings.TrimSpace(r.URL.Query().Get("playerId"))}

	games, err := h.gameService.ListGames(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, games)
}

// GetGame godoc
// @Summary Получить партию
// @Tags games
// @Produce json
// @Param id path string true "ID партии"
// @Success 200 {object} models.Game
// @Failure 404 {object} map[string]string
// @Router /games/{id} [get]
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, game)
}

// ListPlayerGames godoc
// @Summary Партии игрока
// @Tags games
// @Produce json
// @Param playerId path string true "ID игрока"
// @Success 200 {array} models.Game
// @Router /games/player/{playerId} [get]
func (h *GameHandler) ListPlayerGames(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParam(r, "playerId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.ListPlayerGames(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, games)
}

// PlayerStatistics godoc
// @Summary Статистика игрока
// @Description Для игрока без партий возвращается нулевая статистика.
// @Tags games
// @Produce json
// @Param playerId path string true "ID игрока"
// @Success 200 {object} models.GameStatistics
// @Router /games/player/{playerId}/statistics [get]
func (h *GameHandler) PlayerStatistics(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParam(r, "playerId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	st, err := h.gameService.PlayerStatistics(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, st)
}

// CreateGame godoc
// @Summary Добавить партию
// @Tags games
// @Accept json
// @Produce json
// @Param body body services.CreateGameInput true "Партия"
// @Success 201 {object} models.Game
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string
// @Security BasicAuth
// @Router /games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, game)
}

// UpdateGame godoc
// @Summary Частично обновить партию
// @Description Изменяются только переданные поля; rating передаётся целиком.
// @Tags games
// @Accept json
// @Produce json
// @Param id path string true "ID партии"
// @Param body body services.UpdateGameInput true "Изменяемые поля"
// @Success 200 {object} models.Game
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /games/{id} [put]
// @Router /games/{id} [patch]
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, game)
}

// DeleteGame godoc
// @Summary Удалить партию
// @Tags games
// @Param id path string true "ID партии"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /games/{id} [delete]
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.DeleteGame(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
