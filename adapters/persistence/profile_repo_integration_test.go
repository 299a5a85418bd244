package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type ProfileRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger
	profileRepo profile.Repository
}

func (s *ProfileRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.testLogger = logger.NewZapLogger("development")
	s.profileRepo = NewPostgresProfileRepo(s.dbPool, s.testLogger)
}

func (s *ProfileRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *ProfileRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE profiles RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func TestProfileRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(ProfileRepoIntegrationTestSuite))
}

func strPtr(v string) *string { return &v }

func (s *ProfileRepoIntegrationTestSuite) seedProfile() *profile.Profile {
	p := &profile.Profile{
		Name:  "Jane",
		Title: "Backend Developer",
		Bio:   strPtr("hello"),
		Email: strPtr("jane@example.com"),
		Careers: []profile.Career{
			{Company: "Acme", Position: "Engineer", Period: "2020-2023"},
			{Company: "Globex", Position: "Lead", Period: "2023-"},
		},
		Educations: []profile.Education{
			{Institution: "State University", Degree: strPtr("BSc"), Period: "2014-2018"},
		},
		Skills: []profile.Skill{
			{Name: "Go", Level: 5},
		},
		Socials: []profile.Social{
			{Platform: "github", URL: strPtr("https://github.com/jane")},
		},
	}
	s.Require().NoError(s.profileRepo.Save(context.Background(), p))
	return p
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_AssignsIDsToAggregate() {
	p := s.seedProfile()

	s.NotZero(p.ID)
	s.Require().Len(p.Careers, 2)
	s.NotZero(p.Careers[0].ID)
	s.Equal(p.ID, p.Careers[0].ProfileID)
	s.NotZero(p.Educations[0].ID)
	s.NotZero(p.Skills[0].ID)
	s.NotZero(p.Socials[0].ID)
}

func (s *ProfileRepoIntegrationTestSuite) Test_FindByID_LoadsChildren() {
	saved := s.seedProfile()

	got, err := s.profileRepo.FindByID(context.Background(), saved.ID)
	s.Require().NoError(err)

	s.Equal(saved.Name, got.Name)
	s.Equal(saved.Bio, got.Bio)
	s.Len(got.Careers, 2)
	s.Len(got.Educations, 1)
	s.Len(got.Skills, 1)
	s.Len(got.Socials, 1)
	s.Equal("Acme", got.Careers[0].Company)
}

func (s *ProfileRepoIntegrationTestSuite) Test_FindByID_NotFound() {
	_, err := s.profileRepo.FindByID(context.Background(), 9999)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProfileRepoIntegrationTestSuite) Test_FindFirst() {
	_, err := s.profileRepo.FindFirst(context.Background())
	s.ErrorIs(err, apperror.ErrNotFound)

	saved := s.seedProfile()

	got, err := s.profileRepo.FindFirst(context.Background())
	s.Require().NoError(err)
	s.Equal(saved.ID, got.ID)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Update_ReconcilesChildren() {
	ctx := context.Background()
	saved := s.seedProfile()

	loaded, err := s.profileRepo.FindByID(ctx, saved.ID)
	s.Require().NoError(err)

	// drop the first career, rename the second, add a third
	removedID := loaded.Careers[0].ID
	loaded.Careers = loaded.Careers[1:]
	loaded.Careers[0].Position = "Principal"
	loaded.Careers = append(loaded.Careers, profile.Career{
		Company: "Initech", Position: "Consultant", Period: "2024-",
	})

	s.Require().NoError(s.profileRepo.Update(ctx, loaded))
	s.NotZero(loaded.Careers[1].ID, "inserted child gets its generated id written back")

	got, err := s.profileRepo.FindByID(ctx, saved.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Careers, 2)
	for _, c := range got.Careers {
		s.NotEqual(removedID, c.ID)
	}
	s.Equal("Principal", got.Careers[0].Position)
	s.Equal("Initech", got.Careers[1].Company)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Update_NotFound() {
	err := s.profileRepo.Update(context.Background(), &profile.Profile{ID: 12345, Name: "x", Title: "y"})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Delete_CascadesChildren() {
	ctx := context.Background()
	saved := s.seedProfile()

	s.Require().NoError(s.profileRepo.Delete(ctx, saved.ID))

	_, err := s.profileRepo.FindByID(ctx, saved.ID)
	s.ErrorIs(err, apperror.ErrNotFound)

	var count int
	err = s.dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM careers WHERE profile_id = $1`, saved.ID).Scan(&count)
	s.Require().NoError(err)
	s.Zero(count)

	s.ErrorIs(s.profileRepo.Delete(ctx, saved.ID), apperror.ErrNotFound)
}
