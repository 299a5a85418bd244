package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

var psqlProject = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const projectColumns = "id, title, summary, description, technologies, thumbnail, images, github, website, start_date, end_date"

func scanProject(row pgx.Row, identifier string, l logger.Logger) (*project.Project, error) {
	p := &project.Project{}
	var imageBytes []byte

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Summary,
		&p.Description,
		&p.Technologies,
		&p.Thumbnail,
		&imageBytes,
		&p.Github,
		&p.Website,
		&p.StartDate,
		&p.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Project", identifier)
		}
		return nil, apperror.NewInternal("failed to scan project row", err)
	}

	if err := json.Unmarshal(imageBytes, &p.Images); err != nil {
		l.Warn("Failed to unmarshal project images", zap.Int64("project_id", p.ID), zap.Error(err))
		p.Images = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	p.Troubleshooting = []project.TroubleShooting{}

	return p, nil
}

func (r *postgresProjectRepo) FindAll(ctx context.Context) ([]*project.Project, error) {
	builder := psqlProject.Select(projectColumns).From("projects").OrderBy("id")
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find all projects query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query projects", err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows, "", r.logger)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}

	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]int64, len(projects))
	byID := make(map[int64]*project.Project, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	entries, err := r.queryTroubleshooting(ctx, sq.Eq{"project_id": ids})
	if err != nil {
		return nil, err
	}
	for _, ts := range entries {
		parent := byID[ts.ProjectID]
		parent.Troubleshooting = append(parent.Troubleshooting, ts)
	}

	return projects, nil
}

func (r *postgresProjectRepo) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	builder := psqlProject.Select(projectColumns).From("projects").Where(sq.Eq{"id": id})
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find project query", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, sql, args...), strconv.FormatInt(id, 10), r.logger)
	if err != nil {
		return nil, err
	}

	entries, err := r.queryTroubleshooting(ctx, sq.Eq{"project_id": id})
	if err != nil {
		return nil, err
	}
	p.Troubleshooting = entries

	return p, nil
}

func (r *postgresProjectRepo) queryTroubleshooting(ctx context.Context, pred any) ([]project.TroubleShooting, error) {
	sql, args, err := psqlProject.Select("id, project_id, title, description, image").
		From("troubleshooting").Where(pred).OrderBy("id").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build troubleshooting query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query troubleshooting", err)
	}
	defer rows.Close()

	entries := make([]project.TroubleShooting, 0)
	for rows.Next() {
		var ts project.TroubleShooting
		if err := rows.Scan(&ts.ID, &ts.ProjectID, &ts.Title, &ts.Description, &ts.Image); err != nil {
			return nil, apperror.NewInternal("failed to scan troubleshooting row", err)
		}
		entries = append(entries, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating troubleshooting rows", err)
	}
	return entries, nil
}

func (r *postgresProjectRepo) Save(ctx context.Context, p *project.Project) error {
	imageBytes, err := json.Marshal(p.Images)
	if err != nil {
		return apperror.NewInternal("failed to marshal project images", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO projects (title, summary, description, technologies, thumbnail, images, github, website, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		p.Title, p.Summary, p.Description, p.Technologies, p.Thumbnail,
		imageBytes, p.Github, p.Website, p.StartDate, p.EndDate,
	).Scan(&p.ID)
	if err != nil {
		return apperror.NewInternal("failed to insert project", err)
	}

	if err := r.writeTroubleshooting(ctx, tx, p, false); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit project save", err)
	}
	return nil
}

func (r *postgresProjectRepo) Update(ctx context.Context, p *project.Project) error {
	imageBytes, err := json.Marshal(p.Images)
	if err != nil {
		return apperror.NewInternal("failed to marshal project images for update", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE projects SET
			title = $2, summary = $3, description = $4, technologies = $5, thumbnail = $6,
			images = $7, github = $8, website = $9, start_date = $10, end_date = $11
		WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query,
		p.ID, p.Title, p.Summary, p.Description, p.Technologies, p.Thumbnail,
		imageBytes, p.Github, p.Website, p.StartDate, p.EndDate,
	)
	if err != nil {
		return apperror.NewInternal("failed to update project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Project", strconv.FormatInt(p.ID, 10))
	}

	if err := r.writeTroubleshooting(ctx, tx, p, true); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit project update", err)
	}
	return nil
}

func (r *postgresProjectRepo) writeTroubleshooting(ctx context.Context, tx pgx.Tx, p *project.Project, reconcile bool) error {
	if reconcile {
		keep := make([]int64, 0, len(p.Troubleshooting))
		for _, ts := range p.Troubleshooting {
			if ts.ID > 0 {
				keep = append(keep, ts.ID)
			}
		}
		builder := psqlProject.Delete("troubleshooting").Where(sq.Eq{"project_id": p.ID})
		if len(keep) > 0 {
			builder = builder.Where(sq.NotEq{"id": keep})
		}
		sql, args, err := builder.ToSql()
		if err != nil {
			return apperror.NewInternal("failed to build troubleshooting delete query", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return apperror.NewInternal("failed to delete removed troubleshooting rows", err)
		}
	}

	for i := range p.Troubleshooting {
		ts := &p.Troubleshooting[i]
		ts.ProjectID = p.ID
		if ts.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO troubleshooting (project_id, title, description, image)
				 VALUES ($1, $2, $3, $4) RETURNING id`,
				ts.ProjectID, ts.Title, ts.Description, ts.Image).Scan(&ts.ID)
			if err != nil {
				return apperror.NewInternal("failed to insert troubleshooting", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`UPDATE troubleshooting SET title = $2, description = $3, image = $4 WHERE id = $1`,
				ts.ID, ts.Title, ts.Description, ts.Image)
			if err != nil {
				return apperror.NewInternal("failed to update troubleshooting", err)
			}
		}
	}

	return nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id int64) error {
	// Troubleshooting rows cascade via the project_id foreign key.
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to delete project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Project", strconv.FormatInt(id, 10))
	}
	return nil
}
