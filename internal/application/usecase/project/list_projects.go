package project

import (
	"context"

	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
)

type ListProjectsUseCase struct {
	projectRepo project.Repository
	cache       *persistence.ProjectCache
}

func NewListProjectsUseCase(repo project.Repository, cache *persistence.ProjectCache) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: repo, cache: cache}
}

func (uc *ListProjectsUseCase) Execute(ctx context.Context) ([]*project.Project, error) {
	if projects, ok := uc.cache.GetList(ctx); ok {
		return projects, nil
	}

	projects, err := uc.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	uc.cache.SetList(ctx, projects)
	return projects, nil
}
