package service

import (
	"context"
	"io"
	"strings"
)

const ImageURLPrefix = "/api/images/"

// FileUpload carries one multipart file into a use case. Size 0 means the
// browser sent an empty part; those keep their position in the slice so
// index-based matching still lines up.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

func (f FileUpload) IsEmpty() bool {
	return f.Size == 0
}

type StoredFile struct {
	FileName    string
	Size        int64
	ContentType string
	Content     io.ReadCloser
}

// ImageStore persists uploaded binaries and serves them back by generated
// file name. Save returns a relative URL under ImageURLPrefix.
type ImageStore interface {
	Save(ctx context.Context, file io.Reader, originalName string) (string, error)
	Open(ctx context.Context, fileName string) (*StoredFile, error)
	Remove(ctx context.Context, fileName string) error
}

// FileNameFromURL strips the serving prefix from a stored image URL.
// Returns "" when the URL is not one of ours.
func FileNameFromURL(url string) string {
	if !strings.HasPrefix(url, ImageURLPrefix) {
		return ""
	}
	return strings.TrimPrefix(url, ImageURLPrefix)
}
