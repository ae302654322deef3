package services

import (
	"errors"
	"sort"
	"strings"
)

// Общие ошибки, используемые сервисами и маппингом HTTP.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")

	ErrUsernameTaken = errors.New("username already exists")

	ErrInvalidAvatar  = errors.New("invalid file type, only JPEG, PNG, GIF and WebP images are allowed")
	ErrAvatarTooLarge = errors.New("file too large, maximum size is 5MB")
)

// ValidationError хранит сообщения по полям, ключом служит имя поля в JSON.
// errors.Is сопоставляет её с ErrValidationFailed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}
