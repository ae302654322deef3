package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/chess-statistics/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// BasicAuth пропускает запросы с настроенными логином и паролем.
// Пароль может быть задан bcrypt-хешем. Если учётные данные не настроены,
// на каждый запрос возвращается 500.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
				writeError(w, http.StatusUnauthorized, "Unauthorized",
					"Basic authentication required. Please provide Authorization header with Basic auth.")
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization header format")
				return
			}

			if username == "" || password == "" {
				slog.ErrorContext(r.Context(), "AUTH_USERNAME and AUTH_PASSWORD must be set")
				writeError(w, http.StatusInternalServerError, "Server configuration error",
					"Authentication is not properly configured")
				return
			}

			userOK := user == username
			passOK := utils.CheckPassword(pass, password)
			if !userOK || !passOK {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid username or password")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext возвращает пользователя, пропущенного BasicAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userContextKey).(string)
	return user, ok
}
