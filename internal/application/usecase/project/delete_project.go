package project

import (
	"context"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type DeleteProjectUseCase struct {
	projectRepo project.Repository
	cache       *persistence.ProjectCache
	producer    *event.KafkaProducerClient
	logger      logger.Logger
}

func NewDeleteProjectUseCase(
	repo project.Repository,
	cache *persistence.ProjectCache,
	producer *event.KafkaProducerClient,
	log logger.Logger,
) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: repo, cache: cache, producer: producer, logger: log}
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, id int64) error {
	p, err := uc.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	orphaned := make([]string, 0, len(p.Images)+len(p.Troubleshooting))
	orphaned = append(orphaned, p.Images...)
	for _, ts := range p.Troubleshooting {
		if ts.Image != nil && *ts.Image != "" {
			orphaned = append(orphaned, *ts.Image)
		}
	}
	publishOrphaned(uc.producer, uc.logger, orphaned)

	uc.cache.Invalidate(ctx, id)
	uc.logger.Info("project deleted", zap.Int64("project_id", id))
	return nil
}
