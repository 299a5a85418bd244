package project

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// TroubleShootingUseCase mutates the troubleshooting entries of a single
// project. Entries always travel through the parent aggregate: load the
// project, mutate the list, persist, return the project.
type TroubleShootingUseCase struct {
	projectRepo project.Repository
	store       service.ImageStore
	cache       *persistence.ProjectCache
	producer    *event.KafkaProducerClient
	logger      logger.Logger
}

func NewTroubleShootingUseCase(
	repo project.Repository,
	store service.ImageStore,
	cache *persistence.ProjectCache,
	producer *event.KafkaProducerClient,
	log logger.Logger,
) *TroubleShootingUseCase {
	return &TroubleShootingUseCase{projectRepo: repo, store: store, cache: cache, producer: producer, logger: log}
}

func (uc *TroubleShootingUseCase) Add(ctx context.Context, projectID int64, in TroubleShootingInput) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	p.Troubleshooting = append(p.Troubleshooting, project.TroubleShooting{
		ProjectID:   p.ID,
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
	})

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

// AddWithImage is the multipart variant: a non-empty image part is stored
// first and its URL attached to the new entry.
func (uc *TroubleShootingUseCase) AddWithImage(ctx context.Context, projectID int64, in TroubleShootingInput, image *service.FileUpload) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ts := project.TroubleShooting{
		ProjectID:   p.ID,
		Title:       in.Title,
		Description: in.Description,
	}
	if image != nil && !image.IsEmpty() {
		url, err := uc.store.Save(ctx, image.Content, image.Name)
		if err != nil {
			return nil, err
		}
		ts.Image = &url
	}
	p.Troubleshooting = append(p.Troubleshooting, ts)

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

func (uc *TroubleShootingUseCase) Update(ctx context.Context, projectID, tsID int64, in TroubleShootingInput) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var orphaned []string
	found := false
	for i := range p.Troubleshooting {
		if p.Troubleshooting[i].ID == tsID {
			p.Troubleshooting[i].Title = in.Title
			p.Troubleshooting[i].Description = in.Description
			// image writes through as-is, nil included: an update
			// that omits the image clears the stored one
			if old := p.Troubleshooting[i].Image; old != nil && *old != "" &&
				(in.Image == nil || *in.Image != *old) {
				orphaned = append(orphaned, *old)
			}
			p.Troubleshooting[i].Image = in.Image
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("TroubleShooting", strconv.FormatInt(tsID, 10))
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	publishOrphaned(uc.producer, uc.logger, orphaned)
	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

// UpdateWithImage replaces title and description and, when a non-empty image
// part arrives, stores it and swaps the entry's image. The replaced image is
// reported as orphaned.
func (uc *TroubleShootingUseCase) UpdateWithImage(ctx context.Context, projectID, tsID int64, in TroubleShootingInput, image *service.FileUpload) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var orphaned []string
	found := false
	for i := range p.Troubleshooting {
		if p.Troubleshooting[i].ID != tsID {
			continue
		}
		p.Troubleshooting[i].Title = in.Title
		p.Troubleshooting[i].Description = in.Description
		if image != nil && !image.IsEmpty() {
			url, err := uc.store.Save(ctx, image.Content, image.Name)
			if err != nil {
				return nil, err
			}
			if old := p.Troubleshooting[i].Image; old != nil && *old != "" {
				orphaned = append(orphaned, *old)
			}
			p.Troubleshooting[i].Image = &url
		}
		found = true
		break
	}
	if !found {
		return nil, apperror.NewNotFound("TroubleShooting", strconv.FormatInt(tsID, 10))
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	publishOrphaned(uc.producer, uc.logger, orphaned)
	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

func (uc *TroubleShootingUseCase) Delete(ctx context.Context, projectID, tsID int64) (*project.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var orphaned []string
	kept := p.Troubleshooting[:0]
	found := false
	for _, ts := range p.Troubleshooting {
		if ts.ID == tsID {
			found = true
			if ts.Image != nil && *ts.Image != "" {
				orphaned = append(orphaned, *ts.Image)
			}
			continue
		}
		kept = append(kept, ts)
	}
	if !found {
		return nil, apperror.NewNotFound("TroubleShooting", strconv.FormatInt(tsID, 10))
	}
	p.Troubleshooting = kept

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	publishOrphaned(uc.producer, uc.logger, orphaned)
	uc.cache.Invalidate(ctx, p.ID)
	uc.logger.Info("troubleshooting entry deleted",
		zap.Int64("project_id", projectID),
		zap.Int64("troubleshooting_id", tsID),
	)
	return p, nil
}
