package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string

	// KeyFromURL возвращает ключ объекта для URL, выданного GetPublicURL.
	// ok равен false для чужих URL.
	KeyFromURL(publicURL string) (key string, ok bool)
}

// joinURL добавляет key к base, экранируя каждый сегмент пути. Пустой base
// даёт абсолютный путь.
func joinURL(base, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

// splitURL обратна joinURL.
func splitURL(base, publicURL string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	rest, found := strings.CutPrefix(publicURL, prefix)
	if !found || rest == "" {
		return "", false
	}
	segments := strings.Split(rest, "/")
	for i, s := range segments {
		unescaped, err := url.PathUnescape(s)
		if err != nil || unescaped == "" {
			return "", false
		}
		segments[i] = unescaped
	}
	return strings.Join(segments, "/"), true
}
