package utils

import (
	"crypto/subtle"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NewID возвращает идентификатор вида "player-<uuid v7>". Идентификаторы с
// одним префиксом при сравнении строк упорядочены по времени создания.
func NewID(prefix string) string {
	id := uuid.Must(uuid.NewV7()).String()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// IsBcryptHash сообщает, похожа ли s на bcrypt-хеш.
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// CheckPassword сравнивает переданный пароль с настроенным.
// Настроенное значение может быть открытым текстом или bcrypt-хешем.
func CheckPassword(presented, configured string) bool {
	if IsBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

// HashPassword генерирует bcrypt-хеш для AUTH_PASSWORD.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
