package project

import (
	"context"

	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
)

type GetProjectUseCase struct {
	projectRepo project.Repository
	cache       *persistence.ProjectCache
}

func NewGetProjectUseCase(repo project.Repository, cache *persistence.ProjectCache) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: repo, cache: cache}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, id int64) (*project.Project, error) {
	if p, ok := uc.cache.GetOne(ctx, id); ok {
		return p, nil
	}

	p, err := uc.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.SetOne(ctx, p)
	return p, nil
}
