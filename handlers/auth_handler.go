package handlers

import (
	"net/http"

	"github.com/Dosada05/chess-statistics/middleware"
)

type verifyResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// VerifyAuth godoc
// @Summary Проверить учётные данные
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.verifyResponse
// @Failure 401 {object} map[string]string
// @Security BasicAuth
// @Router /auth/verify [post]
func VerifyAuth(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.UsernameFromContext(r.Context())
	respond(w, r, http.StatusOK, verifyResponse{Success: true, Username: username})
}
