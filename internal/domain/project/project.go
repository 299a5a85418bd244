package project

import (
	"context"
)

// Project is the aggregate root for a portfolio entry. Images holds stored
// URLs in upload order; Thumbnail, when set, is expected to be one of them
// (kept by selection logic, not a hard constraint). Dates are ISO strings
// (YYYY-MM-DD) and are always present after create/update.
type Project struct {
	ID              int64
	Title           string
	Summary         string
	Description     *string
	Technologies    []string
	Thumbnail       *string
	Images          []string
	Github          *string
	Website         *string
	StartDate       string
	EndDate         string
	Troubleshooting []TroubleShooting
}

type TroubleShooting struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Image       *string
}

type Repository interface {
	FindAll(ctx context.Context) ([]*Project, error)
	FindByID(ctx context.Context, id int64) (*Project, error)
	Save(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id int64) error
}
