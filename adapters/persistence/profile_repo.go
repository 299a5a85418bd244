package persistence

import (
	"context"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psqlProfile = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresProfileRepo) FindByID(ctx context.Context, id int64) (*profile.Profile, error) {
	query := `
		SELECT id, name, title, bio, email, image, phone, address
		FROM profiles
		WHERE id = $1
	`
	return r.scanAggregate(ctx, r.db.QueryRow(ctx, query, id), strconv.FormatInt(id, 10))
}

func (r *postgresProfileRepo) FindFirst(ctx context.Context) (*profile.Profile, error) {
	query := `
		SELECT id, name, title, bio, email, image, phone, address
		FROM profiles
		ORDER BY id
		LIMIT 1
	`
	return r.scanAggregate(ctx, r.db.QueryRow(ctx, query), "")
}

func (r *postgresProfileRepo) scanAggregate(ctx context.Context, row pgx.Row, identifier string) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Bio, &p.Email, &p.Image, &p.Phone, &p.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Profile", identifier)
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepo) loadChildren(ctx context.Context, p *profile.Profile) error {
	p.Careers = []profile.Career{}
	p.Educations = []profile.Education{}
	p.Skills = []profile.Skill{}
	p.Socials = []profile.Social{}

	sql, args, err := psqlProfile.Select("id, profile_id, company, position, period, description").
		From("careers").Where(sq.Eq{"profile_id": p.ID}).OrderBy("id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build careers query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to query careers", err)
	}
	for rows.Next() {
		var c profile.Career
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Company, &c.Position, &c.Period, &c.Description); err != nil {
			rows.Close()
			return apperror.NewInternal("failed to scan career row", err)
		}
		p.Careers = append(p.Careers, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperror.NewInternal("error iterating career rows", err)
	}

	sql, args, err = psqlProfile.Select("id, profile_id, institution, degree, period, description").
		From("educations").Where(sq.Eq{"profile_id": p.ID}).OrderBy("id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build educations query", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to query educations", err)
	}
	for rows.Next() {
		var e profile.Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Institution, &e.Degree, &e.Period, &e.Description); err != nil {
			rows.Close()
			return apperror.NewInternal("failed to scan education row", err)
		}
		p.Educations = append(p.Educations, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperror.NewInternal("error iterating education rows", err)
	}

	sql, args, err = psqlProfile.Select("id, profile_id, name, level, category").
		From("skills").Where(sq.Eq{"profile_id": p.ID}).OrderBy("id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build skills query", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to query skills", err)
	}
	for rows.Next() {
		var s profile.Skill
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Level, &s.Category); err != nil {
			rows.Close()
			return apperror.NewInternal("failed to scan skill row", err)
		}
		p.Skills = append(p.Skills, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperror.NewInternal("error iterating skill rows", err)
	}

	sql, args, err = psqlProfile.Select("id, profile_id, platform, url, icon").
		From("socials").Where(sq.Eq{"profile_id": p.ID}).OrderBy("id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build socials query", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to query socials", err)
	}
	for rows.Next() {
		var s profile.Social
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Platform, &s.URL, &s.Icon); err != nil {
			rows.Close()
			return apperror.NewInternal("failed to scan social row", err)
		}
		p.Socials = append(p.Socials, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperror.NewInternal("error iterating social rows", err)
	}

	return nil
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO profiles (name, title, bio, email, image, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query, p.Name, p.Title, p.Bio, p.Email, p.Image, p.Phone, p.Address).Scan(&p.ID)
	if err != nil {
		return apperror.NewInternal("failed to insert profile", err)
	}

	if err := r.writeChildren(ctx, tx, p, false); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit profile save", err)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE profiles SET
			name = $2, title = $3, bio = $4, email = $5, image = $6, phone = $7, address = $8
		WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query, p.ID, p.Name, p.Title, p.Bio, p.Email, p.Image, p.Phone, p.Address)
	if err != nil {
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Profile", strconv.FormatInt(p.ID, 10))
	}

	if err := r.writeChildren(ctx, tx, p, true); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit profile update", err)
	}
	return nil
}

// writeChildren reconciles all four child tables against the in-memory
// aggregate: rows whose IDs are gone get deleted, ID==0 rows are inserted
// (the generated ID is written back), the rest are updated in place.
func (r *postgresProfileRepo) writeChildren(ctx context.Context, tx pgx.Tx, p *profile.Profile, reconcile bool) error {
	if reconcile {
		keepCareers := keptIDs(len(p.Careers), func(i int) int64 { return p.Careers[i].ID })
		if err := deleteMissing(ctx, tx, "careers", p.ID, keepCareers); err != nil {
			return err
		}
		keepEducations := keptIDs(len(p.Educations), func(i int) int64 { return p.Educations[i].ID })
		if err := deleteMissing(ctx, tx, "educations", p.ID, keepEducations); err != nil {
			return err
		}
		keepSkills := keptIDs(len(p.Skills), func(i int) int64 { return p.Skills[i].ID })
		if err := deleteMissing(ctx, tx, "skills", p.ID, keepSkills); err != nil {
			return err
		}
		keepSocials := keptIDs(len(p.Socials), func(i int) int64 { return p.Socials[i].ID })
		if err := deleteMissing(ctx, tx, "socials", p.ID, keepSocials); err != nil {
			return err
		}
	}

	for i := range p.Careers {
		c := &p.Careers[i]
		c.ProfileID = p.ID
		if c.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO careers (profile_id, company, position, period, description)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				c.ProfileID, c.Company, c.Position, c.Period, c.Description).Scan(&c.ID)
			if err != nil {
				return apperror.NewInternal("failed to insert career", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`UPDATE careers SET company = $2, position = $3, period = $4, description = $5 WHERE id = $1`,
				c.ID, c.Company, c.Position, c.Period, c.Description)
			if err != nil {
				return apperror.NewInternal("failed to update career", err)
			}
		}
	}

	for i := range p.Educations {
		e := &p.Educations[i]
		e.ProfileID = p.ID
		if e.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO educations (profile_id, institution, degree, period, description)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				e.ProfileID, e.Institution, e.Degree, e.Period, e.Description).Scan(&e.ID)
			if err != nil {
				return apperror.NewInternal("failed to insert education", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`UPDATE educations SET institution = $2, degree = $3, period = $4, description = $5 WHERE id = $1`,
				e.ID, e.Institution, e.Degree, e.Period, e.Description)
			if err != nil {
				return apperror.NewInternal("failed to update education", err)
			}
		}
	}

	for i := range p.Skills {
		s := &p.Skills[i]
		s.ProfileID = p.ID
		if s.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO skills (profile_id, name, level, category)
				 VALUES ($1, $2, $3, $4) RETURNING id`,
				s.ProfileID, s.Name, s.Level, s.Category).Scan(&s.ID)
			if err != nil {
				return apperror.NewInternal("failed to insert skill", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`UPDATE skills SET name = $2, level = $3, category = $4 WHERE id = $1`,
				s.ID, s.Name, s.Level, s.Category)
			if err != nil {
				return apperror.NewInternal("failed to update skill", err)
			}
		}
	}

	for i := range p.Socials {
		s := &p.Socials[i]
		s.ProfileID = p.ID
		if s.ID == 0 {
			err := tx.QueryRow(ctx,
				`INSERT INTO socials (profile_id, platform, url, icon)
				 VALUES ($1, $2, $3, $4) RETURNING id`,
				s.ProfileID, s.Platform, s.URL, s.Icon).Scan(&s.ID)
			if err != nil {
				return apperror.NewInternal("failed to insert social", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`UPDATE socials SET platform = $2, url = $3, icon = $4 WHERE id = $1`,
				s.ID, s.Platform, s.URL, s.Icon)
			if err != nil {
				return apperror.NewInternal("failed to update social", err)
			}
		}
	}

	return nil
}

func keptIDs(n int, idAt func(int) int64) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		if id := idAt(i); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func deleteMissing(ctx context.Context, tx pgx.Tx, table string, parentID int64, keep []int64) error {
	builder := psqlProfile.Delete(table).Where(sq.Eq{"profile_id": parentID})
	if len(keep) > 0 {
		builder = builder.Where(sq.NotEq{"id": keep})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build delete query for "+table, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to delete removed rows from "+table, err)
	}
	return nil
}

func (r *postgresProfileRepo) Delete(ctx context.Context, id int64) error {
	// Child tables cascade via their profile_id foreign keys.
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Profile", strconv.FormatInt(id, 10))
	}
	return nil
}
