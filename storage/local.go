package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalPathPrefix задаёт URL-путь, по которому роутер раздаёт каталог загрузок.
const LocalPathPrefix = "/uploads"

type localUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader хранит файлы в dir. Публичный URL равен baseURL + "/uploads/" + key,
// либо просто пути, если baseURL пуст.
func NewLocalUploader(dir, baseURL string) (FileUploader, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *localUploader) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(u.dir, filepath.FromSlash(clean)), nil
}

func (u *localUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	path, err := u.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for %s: %w", key, err)
	}

	hash := md5.New()
	_, copyErr := io.Copy(io.MultiWriter(f, hash), reader)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write file for %s: %w", key, err)
	}

	return &UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
		ETag:     hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func (u *localUploader) Delete(ctx context.Context, key string) error {
	path, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file for %s: %w", key, err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return joinURL(u.baseURL+LocalPathPrefix, key)
}

func (u *localUploader) KeyFromURL(publicURL string) (string, bool) {
	return splitURL(u.baseURL+LocalPathPrefix, publicURL)
}
