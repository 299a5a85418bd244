package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	imageUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/image"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type ImageHandler struct {
	imageUseCase *imageUC.ImageUseCase
	logger       logger.Logger
}

func NewImageHandler(uc *imageUC.ImageUseCase, log logger.Logger) *ImageHandler {
	return &ImageHandler{imageUseCase: uc, logger: log}
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	upload, closeFn, err := openUpload(fileHeader)
	if err != nil {
		c.Error(err)
		return
	}
	defer closeFn()

	out, err := h.imageUseCase.Upload(c.Request.Context(), upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fileName":     out.FileName,
		"fileUrl":      out.FileURL,
		"originalName": out.OriginalName,
	})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	fileName := c.Param("fileName")

	stored, err := h.imageUseCase.Open(c.Request.Context(), fileName)
	if err != nil {
		c.Error(err)
		return
	}
	defer stored.Content.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", stored.FileName),
	}
	c.DataFromReader(http.StatusOK, stored.Size, stored.ContentType, stored.Content, extraHeaders)
}
