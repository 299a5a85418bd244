package media_storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/config"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type localStore struct {
	dir    string
	logger logger.Logger
}

// NewLocalStore returns an ImageStore writing into the configured upload
// directory. The directory is created lazily on the first Save so a missing
// mount fails the request, not the boot.
func NewLocalStore(cfg config.Config, log logger.Logger) service.ImageStore {
	return &localStore{dir: cfg.Upload.Dir, logger: log}
}

func (s *localStore) Save(ctx context.Context, file io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperror.NewStorage("failed to create directory: "+s.dir, err)
	}

	// Opaque names sidestep the collision window of timestamp-based naming;
	// only the original extension survives.
	fileName := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	dstPath := filepath.Join(s.dir, fileName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", apperror.NewStorage("failed to create file: "+dstPath, err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", apperror.NewStorage("failed to write file: "+dstPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", apperror.NewStorage("failed to flush file: "+dstPath, err)
	}

	if err := os.Chmod(dstPath, 0o666); err != nil {
		s.logger.Warn("failed to set file permissions", zap.String("path", dstPath), zap.Error(err))
	}

	s.logger.Info("image saved", zap.String("file_name", fileName), zap.String("original_name", originalName))
	return service.ImageURLPrefix + fileName, nil
}

func (s *localStore) Open(ctx context.Context, fileName string) (*service.StoredFile, error) {
	base := filepath.Base(fileName)
	if base == "." || base == ".." || base != fileName {
		return nil, apperror.NewNotFound("Image", fileName)
	}

	path := filepath.Join(s.dir, base)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewNotFound("Image", fileName)
		}
		return nil, apperror.NewStorage("failed to stat file: "+path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.NewStorage("failed to open file: "+path, err)
	}

	return &service.StoredFile{
		FileName:    base,
		Size:        info.Size(),
		ContentType: contentTypeFor(base),
		Content:     f,
	}, nil
}

func (s *localStore) Remove(ctx context.Context, fileName string) error {
	base := filepath.Base(fileName)
	if base == "." || base == ".." || base != fileName {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, base)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.NewStorage("failed to remove file: "+base, err)
	}
	return nil
}

func contentTypeFor(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".svg" {
		return "image/svg+xml"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
