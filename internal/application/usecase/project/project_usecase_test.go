package project

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }

type fakeProjectRepo struct {
	projects map[int64]*project.Project
	nextID   int64
	nextTSID int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int64]*project.Project)}
}

func cloneProject(p *project.Project) *project.Project {
	cp := *p
	cp.Technologies = append([]string(nil), p.Technologies...)
	cp.Images = append([]string(nil), p.Images...)
	cp.Troubleshooting = append([]project.TroubleShooting(nil), p.Troubleshooting...)
	return &cp
}

func (r *fakeProjectRepo) FindAll(_ context.Context) ([]*project.Project, error) {
	out := make([]*project.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id int64) (*project.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, apperror.NewNotFound("Project", fmt.Sprint(id))
	}
	return cloneProject(p), nil
}

func (r *fakeProjectRepo) assignTSIDs(p *project.Project) {
	for i := range p.Troubleshooting {
		if p.Troubleshooting[i].ID == 0 {
			r.nextTSID++
			p.Troubleshooting[i].ID = r.nextTSID
		}
		p.Troubleshooting[i].ProjectID = p.ID
	}
}

func (r *fakeProjectRepo) Save(_ context.Context, p *project.Project) error {
	r.nextID++
	p.ID = r.nextID
	r.assignTSIDs(p)
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *project.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return apperror.NewNotFound("Project", fmt.Sprint(p.ID))
	}
	r.assignTSIDs(p)
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.projects[id]; !ok {
		return apperror.NewNotFound("Project", fmt.Sprint(id))
	}
	delete(r.projects, id)
	return nil
}

type memStore struct {
	n       int
	saved   []string
	removed []string
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) Save(_ context.Context, _ io.Reader, originalName string) (string, error) {
	s.n++
	s.saved = append(s.saved, originalName)
	return fmt.Sprintf("%sfile-%d.png", service.ImageURLPrefix, s.n), nil
}

func (s *memStore) Open(_ context.Context, fileName string) (*service.StoredFile, error) {
	return nil, apperror.NewNotFound("Image", fileName)
}

func (s *memStore) Remove(_ context.Context, fileName string) error {
	s.removed = append(s.removed, fileName)
	return nil
}

func upload(name, content string) service.FileUpload {
	return service.FileUpload{Name: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

func emptyUpload(name string) service.FileUpload {
	return service.FileUpload{Name: name, Size: 0, Content: strings.NewReader("")}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateProject_RequiresDates(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewCreateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), ProjectInput{Name: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreateProject_DefaultsSummary(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewCreateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p, err := uc.Execute(context.Background(), ProjectInput{
		Name:      strPtr("Portfolio Site"),
		Summary:   strPtr("  "),
		StartDate: strPtr("2024-01-01"),
		EndDate:   strPtr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Portfolio Site 프로젝트", p.Summary)

	p2, err := uc.Execute(context.Background(), ProjectInput{
		StartDate: strPtr("2024-01-01"),
		EndDate:   strPtr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "새 프로젝트", p2.Summary)
}

func TestCreateProjectWithFiles_ThumbnailSelection(t *testing.T) {
	mk := func(idx *int, files ...service.FileUpload) *project.Project {
		repo := newFakeProjectRepo()
		uc := NewCreateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})
		p, err := uc.ExecuteWithFiles(context.Background(),
			ProjectInput{Name: strPtr("p")},
			FileOptions{Images: files, ThumbnailIndex: idx})
		require.NoError(t, err)
		return p
	}

	t.Run("valid index wins", func(t *testing.T) {
		p := mk(intPtr(1), upload("a.png", "a"), upload("b.png", "b"))
		require.NotNil(t, p.Thumbnail)
		assert.Equal(t, p.Images[1], *p.Thumbnail)
	})

	t.Run("out of range falls back to first", func(t *testing.T) {
		p := mk(intPtr(7), upload("a.png", "a"), upload("b.png", "b"))
		require.NotNil(t, p.Thumbnail)
		assert.Equal(t, p.Images[0], *p.Thumbnail)
	})

	t.Run("absent index falls back to first", func(t *testing.T) {
		p := mk(nil, upload("a.png", "a"))
		require.NotNil(t, p.Thumbnail)
		assert.Equal(t, p.Images[0], *p.Thumbnail)
	})

	t.Run("no images leaves thumbnail unset", func(t *testing.T) {
		p := mk(nil)
		assert.Nil(t, p.Thumbnail)
	})
}

func TestCreateProjectWithFiles_DefaultsDates(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewCreateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p, err := uc.ExecuteWithFiles(context.Background(), ProjectInput{Name: strPtr("p")}, FileOptions{})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, p.StartDate)
	assert.Equal(t, today, p.EndDate)
}

func TestCreateProjectWithFiles_TroubleshootingPositionalMatch(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewCreateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	in := ProjectInput{
		Name: strPtr("p"),
		Troubleshooting: []TroubleShootingInput{
			{Title: "first", Description: "d1"},
			{Title: "second", Description: "d2"},
			{Title: "third", Description: "d3"},
		},
	}
	opts := FileOptions{
		// slot 0 is an empty part for entry 0, entry 2 gets the second file
		TroubleshootingImages:  []service.FileUpload{emptyUpload("skip.png"), upload("ts.png", "x")},
		TroubleshootingIndices: []string{"0", "2"},
	}

	p, err := uc.ExecuteWithFiles(context.Background(), in, opts)
	require.NoError(t, err)
	require.Len(t, p.Troubleshooting, 3)

	assert.Nil(t, p.Troubleshooting[0].Image, "empty file part must not produce an image")
	assert.Nil(t, p.Troubleshooting[1].Image)
	require.NotNil(t, p.Troubleshooting[2].Image)
	assert.True(t, strings.HasPrefix(*p.Troubleshooting[2].Image, service.ImageURLPrefix))
}

func seedProject(t *testing.T, repo *fakeProjectRepo, p *project.Project) *project.Project {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestUpdateProjectWithFiles_DeletedImagesReassignThumbnail(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	thumb := "/api/images/one.png"
	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Images:    []string{"/api/images/one.png", "/api/images/two.png"},
		Thumbnail: &thumb,
	})

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID, ProjectInput{}, FileOptions{},
		[]string{"/api/images/one.png"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/images/two.png"}, got.Images)
	require.NotNil(t, got.Thumbnail)
	assert.Equal(t, "/api/images/two.png", *got.Thumbnail)
}

func TestUpdateProjectWithFiles_DeletingLastImageClearsThumbnail(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	thumb := "/api/images/only.png"
	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Images:    []string{"/api/images/only.png"},
		Thumbnail: &thumb,
	})

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID, ProjectInput{}, FileOptions{},
		[]string{"/api/images/only.png"})
	require.NoError(t, err)

	assert.Empty(t, got.Images)
	require.NotNil(t, got.Thumbnail)
	assert.Equal(t, "", *got.Thumbnail)
}

func TestUpdateProjectWithFiles_AppendsNewFiles(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Images:    []string{"/api/images/old.png"},
	})

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID, ProjectInput{},
		FileOptions{Images: []service.FileUpload{upload("new.png", "n")}, ThumbnailIndex: intPtr(1)},
		nil)
	require.NoError(t, err)

	require.Len(t, got.Images, 2)
	assert.Equal(t, "/api/images/old.png", got.Images[0])
	require.NotNil(t, got.Thumbnail)
	assert.Equal(t, got.Images[1], *got.Thumbnail)
}

func TestUpdateProjectWithFiles_TroubleshootingFullReplace(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Troubleshooting: []project.TroubleShooting{
			{Title: "old-1", Description: "d"},
			{Title: "old-2", Description: "d"},
		},
	})
	oldIDs := map[int64]bool{}
	for _, ts := range repo.projects[p.ID].Troubleshooting {
		oldIDs[ts.ID] = true
	}

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID,
		ProjectInput{Troubleshooting: []TroubleShootingInput{{Title: "fresh", Description: "d"}}},
		FileOptions{}, nil)
	require.NoError(t, err)

	require.Len(t, got.Troubleshooting, 1)
	assert.Equal(t, "fresh", got.Troubleshooting[0].Title)
	assert.False(t, oldIDs[got.Troubleshooting[0].ID], "replaced entries must get fresh ids")
}

func TestUpdateProjectWithFiles_NilTroubleshootingLeavesEntries(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Troubleshooting: []project.TroubleShooting{
			{Title: "keep", Description: "d"},
		},
	})

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID, ProjectInput{Name: strPtr("renamed")}, FileOptions{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Title)
	require.Len(t, got.Troubleshooting, 1)
	assert.Equal(t, "keep", got.Troubleshooting[0].Title)
}

func TestUpdateProjectWithFiles_BlankSummaryFallsToDefault(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title:     "Portfolio Site",
		Summary:   "old summary",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
	})

	got, err := uc.ExecuteWithFiles(context.Background(), p.ID,
		ProjectInput{Summary: strPtr("   ")}, FileOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "old summary", got.Summary, "whitespace-only summary must not overwrite")

	// blank stored summary plus blank incoming summary defaults from the title
	p2 := seedProject(t, repo, &project.Project{
		Title:     "Second Site",
		Summary:   "  ",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
	})
	got, err = uc.ExecuteWithFiles(context.Background(), p2.ID,
		ProjectInput{Summary: strPtr(" ")}, FileOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Second Site 프로젝트", got.Summary)
}

func TestUpdateProject_JSONKeepsImagesWhenIncomingEmpty(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewUpdateProjectUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title:     "p",
		Summary:   "s",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Images:    []string{"/api/images/kept.png"},
	})

	got, err := uc.Execute(context.Background(), p.ID, ProjectInput{
		Name:      strPtr("p2"),
		StartDate: strPtr("2024-03-01"),
		EndDate:   strPtr("2024-04-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/images/kept.png"}, got.Images)
}

func TestTroubleShooting_NotFoundOnMissingEntry(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewTroubleShootingUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title: "p", Summary: "s", StartDate: "2024-01-01", EndDate: "2024-02-01",
	})

	_, err := uc.Update(context.Background(), p.ID, 999, TroubleShootingInput{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Delete(context.Background(), p.ID, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTroubleShooting_AddAndDelete(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewTroubleShootingUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	p := seedProject(t, repo, &project.Project{
		Title: "p", Summary: "s", StartDate: "2024-01-01", EndDate: "2024-02-01",
	})

	got, err := uc.Add(context.Background(), p.ID, TroubleShootingInput{Title: "t", Description: "d"})
	require.NoError(t, err)
	require.Len(t, got.Troubleshooting, 1)
	tsID := got.Troubleshooting[0].ID
	assert.NotZero(t, tsID)

	got, err = uc.Delete(context.Background(), p.ID, tsID)
	require.NoError(t, err)
	assert.Empty(t, got.Troubleshooting)
}

func TestTroubleShooting_UpdateWritesImageThrough(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewTroubleShootingUseCase(repo, newMemStore(), nil, nil, nopLogger{})

	img := "/api/images/ts.png"
	p := seedProject(t, repo, &project.Project{
		Title: "p", Summary: "s", StartDate: "2024-01-01", EndDate: "2024-02-01",
		Troubleshooting: []project.TroubleShooting{
			{Title: "t", Description: "d", Image: &img},
		},
	})
	tsID := repo.projects[p.ID].Troubleshooting[0].ID

	// omitting the image clears the stored one
	got, err := uc.Update(context.Background(), p.ID, tsID, TroubleShootingInput{
		Title: "t2", Description: "d2",
	})
	require.NoError(t, err)
	require.Len(t, got.Troubleshooting, 1)
	assert.Equal(t, "t2", got.Troubleshooting[0].Title)
	assert.Nil(t, got.Troubleshooting[0].Image)

	// a provided image replaces it
	replacement := "/api/images/new.png"
	got, err = uc.Update(context.Background(), p.ID, tsID, TroubleShootingInput{
		Title: "t3", Description: "d3", Image: &replacement,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Troubleshooting[0].Image)
	assert.Equal(t, replacement, *got.Troubleshooting[0].Image)
}

func TestDeleteProject_NotFound(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewDeleteProjectUseCase(repo, nil, nil, nopLogger{})

	err := uc.Execute(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
