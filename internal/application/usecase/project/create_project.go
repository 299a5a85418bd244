package project

import (
	"context"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type CreateProjectUseCase struct {
	projectRepo project.Repository
	store       service.ImageStore
	cache       *persistence.ProjectCache
	producer    *event.KafkaProducerClient
	logger      logger.Logger
}

func NewCreateProjectUseCase(
	repo project.Repository,
	store service.ImageStore,
	cache *persistence.ProjectCache,
	producer *event.KafkaProducerClient,
	log logger.Logger,
) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: repo, store: store, cache: cache, producer: producer, logger: log}
}

func newProjectFromInput(in ProjectInput) *project.Project {
	title := derefOr(in.Name, "")
	p := &project.Project{
		Title:        title,
		Summary:      defaultSummary(in.Summary, title),
		Description:  in.Description,
		Technologies: in.Technologies,
		Thumbnail:    in.Thumbnail,
		Github:       in.Github,
		Website:      in.Website,
		Images:       in.Images,
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Troubleshooting = []project.TroubleShooting{}
	return p
}

// Execute handles the plain-JSON create. Dates must be supplied here; only
// the multipart path defaults them.
func (uc *CreateProjectUseCase) Execute(ctx context.Context, in ProjectInput) (*project.Project, error) {
	if in.StartDate == nil || in.EndDate == nil {
		return nil, apperror.NewInvalidInput("startDate and endDate are required", nil)
	}

	p := newProjectFromInput(in)
	p.StartDate = *in.StartDate
	p.EndDate = *in.EndDate

	if err := uc.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, p.ID)
	uc.logger.Info("project created", zap.Int64("project_id", p.ID))
	return p, nil
}

// ExecuteWithFiles handles the multipart create: save every image, pick the
// thumbnail, and attach troubleshooting entries with positionally matched
// images. Missing dates default to today.
func (uc *CreateProjectUseCase) ExecuteWithFiles(ctx context.Context, in ProjectInput, opts FileOptions) (*project.Project, error) {
	p := newProjectFromInput(in)
	p.StartDate = derefOr(in.StartDate, todayISO())
	p.EndDate = derefOr(in.EndDate, todayISO())

	if len(opts.Images) > 0 {
		urls, err := saveAll(ctx, uc.store, opts.Images)
		if err != nil {
			return nil, err
		}
		p.Images = urls

		if opts.ThumbnailIndex != nil && *opts.ThumbnailIndex >= 0 && *opts.ThumbnailIndex < len(urls) {
			p.Thumbnail = &urls[*opts.ThumbnailIndex]
		} else if len(urls) > 0 {
			p.Thumbnail = &urls[0]
		}
	}

	if len(in.Troubleshooting) > 0 {
		entries, err := buildTroubleshooting(ctx, uc.store, in.Troubleshooting, opts)
		if err != nil {
			return nil, err
		}
		p.Troubleshooting = entries
	}

	if err := uc.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, p.ID)
	uc.logger.Info("project created with files",
		zap.Int64("project_id", p.ID),
		zap.Int("image_count", len(p.Images)),
		zap.Int("troubleshooting_count", len(p.Troubleshooting)),
	)
	return p, nil
}
