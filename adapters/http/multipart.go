package http

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, apperror.NewInvalidInput("invalid "+param, err)
	}
	return id, nil
}

// formValue distinguishes an absent form field from an empty one.
func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// openUpload turns one multipart file header into a FileUpload. The returned
// closer must run after the use case consumed the content.
func openUpload(fh *multipart.FileHeader) (service.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.FileUpload{}, nil, apperror.NewInternal("failed to open uploaded file", err)
	}
	upload := service.FileUpload{
		Name:    fh.Filename,
		Size:    fh.Size,
		Content: f,
	}
	return upload, func() { f.Close() }, nil
}

// openUploads opens every file header in order. Empty parts keep their slot
// so index-based matching downstream stays aligned.
func openUploads(headers []*multipart.FileHeader) ([]service.FileUpload, func(), error) {
	uploads := make([]service.FileUpload, 0, len(headers))
	closers := make([]func(), 0, len(headers))
	cleanup := func() {
		for _, fn := range closers {
			fn()
		}
	}
	for _, fh := range headers {
		upload, closeFn, err := openUpload(fh)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		uploads = append(uploads, upload)
		closers = append(closers, closeFn)
	}
	return uploads, cleanup, nil
}
