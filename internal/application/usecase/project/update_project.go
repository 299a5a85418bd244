package project

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type UpdateProjectUseCase struct {
	projectRepo project.Repository
	store       service.ImageStore
	cache       *persistence.ProjectCache
	producer    *event.KafkaProducerClient
	logger      logger.Logger
}

func NewUpdateProjectUseCase(
	repo project.Repository,
	store service.ImageStore,
	cache *persistence.ProjectCache,
	producer *event.KafkaProducerClient,
	log logger.Logger,
) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projectRepo: repo, store: store, cache: cache, producer: producer, logger: log}
}

// Execute is the plain-JSON update: scalar fields are replaced wholesale,
// github/website only when provided, and the image list only when the
// incoming list is non-empty (this path cannot clear images).
// Troubleshooting entries are untouched.
func (uc *UpdateProjectUseCase) Execute(ctx context.Context, id int64, in ProjectInput) (*project.Project, error) {
	if in.StartDate == nil || in.EndDate == nil {
		return nil, apperror.NewInvalidInput("startDate and endDate are required", nil)
	}

	p, err := uc.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Title = derefOr(in.Name, "")
	p.Summary = defaultSummary(in.Summary, p.Title)
	p.Description = in.Description
	p.Technologies = in.Technologies
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	p.Thumbnail = in.Thumbnail
	p.StartDate = *in.StartDate
	p.EndDate = *in.EndDate

	if in.Github != nil {
		p.Github = in.Github
	}
	if in.Website != nil {
		p.Website = in.Website
	}
	if len(in.Images) > 0 {
		p.Images = in.Images
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

// ExecuteWithFiles is the multipart update. Scalars merge field by field,
// deleted image URLs are reconciled out (with thumbnail reassignment), new
// uploads are appended, and a non-nil troubleshooting list replaces the
// stored entries with fresh rows. Files referenced by nothing afterwards are
// reported as orphaned.
func (uc *UpdateProjectUseCase) ExecuteWithFiles(ctx context.Context, id int64, in ProjectInput, opts FileOptions, deletedImages []string) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Title = *in.Name
	}
	if in.Summary != nil && strings.TrimSpace(*in.Summary) != "" {
		p.Summary = *in.Summary
	} else if strings.TrimSpace(p.Summary) == "" {
		p.Summary = defaultSummary(nil, p.Title)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Technologies != nil {
		p.Technologies = in.Technologies
	}

	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	} else if p.StartDate == "" {
		p.StartDate = todayISO()
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	} else if p.EndDate == "" {
		p.EndDate = todayISO()
	}

	if in.Github != nil {
		p.Github = in.Github
	}
	if in.Website != nil {
		p.Website = in.Website
	}

	var orphaned []string

	current := slices.Clone(p.Images)
	if len(deletedImages) > 0 {
		kept := current[:0]
		for _, url := range current {
			if slices.Contains(deletedImages, url) {
				orphaned = append(orphaned, url)
				continue
			}
			kept = append(kept, url)
		}
		current = kept

		if p.Thumbnail != nil && slices.Contains(deletedImages, *p.Thumbnail) {
			if len(current) > 0 {
				thumb := current[0]
				p.Thumbnail = &thumb
			} else {
				empty := ""
				p.Thumbnail = &empty
			}
		}
	}

	if len(opts.Images) > 0 {
		urls, err := saveAll(ctx, uc.store, opts.Images)
		if err != nil {
			return nil, err
		}
		current = append(current, urls...)

		if opts.ThumbnailIndex != nil && *opts.ThumbnailIndex >= 0 && *opts.ThumbnailIndex < len(current) {
			thumb := current[*opts.ThumbnailIndex]
			p.Thumbnail = &thumb
		} else if len(current) > 0 && (p.Thumbnail == nil || *p.Thumbnail == "") {
			thumb := current[0]
			p.Thumbnail = &thumb
		}
	}

	p.Images = current

	if in.Troubleshooting != nil {
		// Full replace: old rows go away and the incoming list gets fresh
		// IDs; images of the old entries are no longer referenced.
		for _, ts := range p.Troubleshooting {
			if ts.Image != nil && *ts.Image != "" {
				orphaned = append(orphaned, *ts.Image)
			}
		}
		entries, err := buildTroubleshooting(ctx, uc.store, in.Troubleshooting, opts)
		if err != nil {
			return nil, err
		}
		p.Troubleshooting = entries
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	publishOrphaned(uc.producer, uc.logger, orphaned)
	uc.cache.Invalidate(ctx, p.ID)
	uc.logger.Info("project updated with files",
		zap.Int64("project_id", p.ID),
		zap.Int("image_count", len(p.Images)),
		zap.Int("deleted_image_count", len(deletedImages)),
	)
	return p, nil
}
