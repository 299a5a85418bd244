package image

import (
	"context"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// ImageUseCase backs the standalone upload/serve endpoints. Files uploaded
// here are not yet referenced by any aggregate, so every save is announced on
// the image events topic for bookkeeping.
type ImageUseCase struct {
	store    service.ImageStore
	producer *event.KafkaProducerClient
	logger   logger.Logger
}

func NewImageUseCase(store service.ImageStore, producer *event.KafkaProducerClient, log logger.Logger) *ImageUseCase {
	return &ImageUseCase{store: store, producer: producer, logger: log}
}

type UploadOutput struct {
	FileName     string
	FileURL      string
	OriginalName string
}

func (uc *ImageUseCase) Upload(ctx context.Context, file service.FileUpload) (*UploadOutput, error) {
	if file.IsEmpty() {
		return nil, apperror.NewInvalidInput("file is empty", nil)
	}

	url, err := uc.store.Save(ctx, file.Content, file.Name)
	if err != nil {
		return nil, err
	}
	fileName := service.FileNameFromURL(url)

	if uc.producer != nil {
		payload := event.ImageEventPayload{
			EventType: event.ImageEventTypeUploaded,
			FileName:  fileName,
			URL:       url,
		}
		if err := uc.producer.PublishImageEvent(ctx, payload); err != nil {
			uc.logger.Error("Failed to publish Kafka 'image.uploaded' event", err, zap.String("file_name", fileName))
		}
	}

	uc.logger.Info("image uploaded", zap.String("file_name", fileName), zap.Int64("size", file.Size))
	return &UploadOutput{FileName: fileName, FileURL: url, OriginalName: file.Name}, nil
}

func (uc *ImageUseCase) Open(ctx context.Context, fileName string) (*service.StoredFile, error) {
	return uc.store.Open(ctx, fileName)
}
