package profile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...zap.Field)         {}
func (nopLogger) Warn(string, ...zap.Field)         {}
func (nopLogger) Error(string, error, ...zap.Field) {}
func (nopLogger) Fatal(string, error, ...zap.Field) {}
func (l nopLogger) With(...zap.Field) logger.Logger { return l }

type fakeProfileRepo struct {
	profiles    map[int64]*profile.Profile
	nextID      int64
	nextChildID int64
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*profile.Profile)}
}

func cloneProfile(p *profile.Profile) *profile.Profile {
	cp := *p
	cp.Careers = append([]profile.Career(nil), p.Careers...)
	cp.Educations = append([]profile.Education(nil), p.Educations...)
	cp.Skills = append([]profile.Skill(nil), p.Skills...)
	cp.Socials = append([]profile.Social(nil), p.Socials...)
	return &cp
}

func (r *fakeProfileRepo) assignChildIDs(p *profile.Profile) {
	for i := range p.Careers {
		if p.Careers[i].ID == 0 {
			r.nextChildID++
			p.Careers[i].ID = r.nextChildID
		}
		p.Careers[i].ProfileID = p.ID
	}
	for i := range p.Educations {
		if p.Educations[i].ID == 0 {
			r.nextChildID++
			p.Educations[i].ID = r.nextChildID
		}
		p.Educations[i].ProfileID = p.ID
	}
	for i := range p.Skills {
		if p.Skills[i].ID == 0 {
			r.nextChildID++
			p.Skills[i].ID = r.nextChildID
		}
		p.Skills[i].ProfileID = p.ID
	}
	for i := range p.Socials {
		if p.Socials[i].ID == 0 {
			r.nextChildID++
			p.Socials[i].ID = r.nextChildID
		}
		p.Socials[i].ProfileID = p.ID
	}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id int64) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperror.NewNotFound("Profile", fmt.Sprint(id))
	}
	return cloneProfile(p), nil
}

func (r *fakeProfileRepo) FindFirst(_ context.Context) (*profile.Profile, error) {
	var first *profile.Profile
	for _, p := range r.profiles {
		if first == nil || p.ID < first.ID {
			first = p
		}
	}
	if first == nil {
		return nil, apperror.NewNotFound("Profile", "first")
	}
	return cloneProfile(first), nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.nextID++
	p.ID = r.nextID
	r.assignChildIDs(p)
	r.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return apperror.NewNotFound("Profile", fmt.Sprint(p.ID))
	}
	r.assignChildIDs(p)
	r.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.profiles[id]; !ok {
		return apperror.NewNotFound("Profile", fmt.Sprint(id))
	}
	delete(r.profiles, id)
	return nil
}

type memStore struct {
	n int
}

func (s *memStore) Save(_ context.Context, _ io.Reader, _ string) (string, error) {
	s.n++
	return fmt.Sprintf("%savatar-%d.png", service.ImageURLPrefix, s.n), nil
}

func (s *memStore) Open(_ context.Context, fileName string) (*service.StoredFile, error) {
	return nil, apperror.NewNotFound("Image", fileName)
}

func (s *memStore) Remove(_ context.Context, _ string) error { return nil }

func newUseCase() (*ProfileUseCase, *fakeProfileRepo) {
	repo := newFakeProfileRepo()
	return NewProfileUseCase(repo, &memStore{}, nil, nopLogger{}), repo
}

func strPtr(s string) *string { return &s }

func TestCreateAndFetchProfile(t *testing.T) {
	uc, _ := newUseCase()

	in := ProfileInput{
		Name:  "Jane",
		Title: "Backend Developer",
		Bio:   strPtr("hello"),
		Email: strPtr("jane@example.com"),
		Careers: []CareerInput{
			{Company: "Acme", Position: "Engineer", Period: "2020-2023"},
		},
		Skills: []SkillInput{{Name: "Go", Level: 5}},
	}

	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.Len(t, created.Careers, 1)
	assert.NotZero(t, created.Careers[0].ID)

	fetched, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Bio, fetched.Bio)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Equal(t, created.Careers, fetched.Careers)
	assert.Equal(t, created.Skills, fetched.Skills)
	assert.Empty(t, fetched.Educations)
	assert.Empty(t, fetched.Socials)
}

func TestGetFirstProfile_EmptyStore(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.GetFirst(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateWithImage_SetsImageURL(t *testing.T) {
	uc, _ := newUseCase()

	img := service.FileUpload{Name: "me.png", Size: 4, Content: strings.NewReader("data")}
	p, err := uc.CreateWithImage(context.Background(), ProfileInput{Name: "J", Title: "Dev"}, &img)
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.True(t, strings.HasPrefix(*p.Image, service.ImageURLPrefix))
}

func TestCreateWithImage_EmptyFileSkipsSave(t *testing.T) {
	uc, _ := newUseCase()

	img := service.FileUpload{Name: "me.png", Size: 0, Content: strings.NewReader("")}
	p, err := uc.CreateWithImage(context.Background(), ProfileInput{Name: "J", Title: "Dev"}, &img)
	require.NoError(t, err)
	assert.Nil(t, p.Image)
}

func TestUpdate_ReplacesScalarsKeepsChildren(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{
		Name:    "Jane",
		Title:   "Dev",
		Bio:     strPtr("old bio"),
		Careers: []CareerInput{{Company: "Acme", Position: "Eng", Period: "2020"}},
	})
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), created.ID, ProfileInput{
		Name:  "Jane Doe",
		Title: "Senior Dev",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Nil(t, updated.Bio, "full replace writes nil through")
	require.Len(t, updated.Careers, 1, "JSON update must not touch children")
}

func TestUpdateWithImage_PatchSemantics(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{
		Name:  "Jane",
		Title: "Dev",
		Bio:   strPtr("old bio"),
		Phone: strPtr("010-1234"),
	})
	require.NoError(t, err)

	// name/title absent -> kept; bio/phone overwritten, nil included
	updated, err := uc.UpdateWithImage(context.Background(), created.ID, ProfilePatch{
		Bio: strPtr("new bio"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "Dev", updated.Title)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "new bio", *updated.Bio)
	assert.Nil(t, updated.Phone)

	updated, err = uc.UpdateWithImage(context.Background(), created.ID, ProfilePatch{
		Name: strPtr("Renamed"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestAddCareer_Appends(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{Name: "J", Title: "Dev"})
	require.NoError(t, err)

	p, err := uc.AddCareer(context.Background(), created.ID, CareerInput{
		Company: "Acme", Position: "Engineer", Period: "2021-2024",
	})
	require.NoError(t, err)
	require.Len(t, p.Careers, 1)
	assert.NotZero(t, p.Careers[0].ID)
	assert.Equal(t, created.ID, p.Careers[0].ProfileID)
}

func TestUpdateCareer_WrongIDFails(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{
		Name:    "J",
		Title:   "Dev",
		Careers: []CareerInput{{Company: "Acme", Position: "Eng", Period: "2020"}},
	})
	require.NoError(t, err)

	_, err = uc.UpdateCareer(context.Background(), created.ID, 9999, CareerInput{Company: "X"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// the miss must not mutate the existing child
	p, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, p.Careers, 1)
	assert.Equal(t, "Acme", p.Careers[0].Company)
}

func TestDeleteSkill_RemovesOnlyMatch(t *testing.T) {
	uc, _ := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{
		Name:  "J",
		Title: "Dev",
		Skills: []SkillInput{
			{Name: "Go", Level: 5},
			{Name: "SQL", Level: 4},
		},
	})
	require.NoError(t, err)

	p, err := uc.DeleteSkill(context.Background(), created.ID, created.Skills[0].ID)
	require.NoError(t, err)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, "SQL", p.Skills[0].Name)

	_, err = uc.DeleteSkill(context.Background(), created.ID, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteProfile(t *testing.T) {
	uc, repo := newUseCase()

	created, err := uc.Create(context.Background(), ProfileInput{Name: "J", Title: "Dev"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.profiles)

	err = uc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
