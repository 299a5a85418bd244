package profile

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// ProfileUseCase owns every operation on the profile aggregate, including
// the four child collections. Child mutations always go through the parent:
// load profile, locate child, mutate, persist, return the whole aggregate.
type ProfileUseCase struct {
	profileRepo profile.Repository
	store       service.ImageStore
	producer    *event.KafkaProducerClient
	logger      logger.Logger
}

func NewProfileUseCase(
	repo profile.Repository,
	store service.ImageStore,
	producer *event.KafkaProducerClient,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: repo, store: store, producer: producer, logger: log}
}

type CareerInput struct {
	Company     string
	Position    string
	Period      string
	Description *string
}

type EducationInput struct {
	Institution string
	Degree      *string
	Period      string
	Description *string
}

type SkillInput struct {
	Name     string
	Level    int
	Category *string
}

type SocialInput struct {
	Platform string
	URL      *string
	Icon     *string
}

// ProfileInput is the full-replace shape used by the JSON create/update
// paths. Child slices are only consumed on create.
type ProfileInput struct {
	Name       string
	Title      string
	Bio        *string
	Email      *string
	Image      *string
	Phone      *string
	Address    *string
	Careers    []CareerInput
	Educations []EducationInput
	Skills     []SkillInput
	Socials    []SocialInput
}

// ProfilePatch is the multipart update shape. Name and Title are applied
// only when present; Bio/Email/Phone/Address are always written through,
// nil included.
type ProfilePatch struct {
	Name    *string
	Title   *string
	Bio     *string
	Email   *string
	Phone   *string
	Address *string
}

func (uc *ProfileUseCase) GetByID(ctx context.Context, id int64) (*profile.Profile, error) {
	return uc.profileRepo.FindByID(ctx, id)
}

func (uc *ProfileUseCase) GetFirst(ctx context.Context) (*profile.Profile, error) {
	return uc.profileRepo.FindFirst(ctx)
}

func buildProfile(in ProfileInput) *profile.Profile {
	p := &profile.Profile{
		Name:       in.Name,
		Title:      in.Title,
		Bio:        in.Bio,
		Email:      in.Email,
		Image:      in.Image,
		Phone:      in.Phone,
		Address:    in.Address,
		Careers:    []profile.Career{},
		Educations: []profile.Education{},
		Skills:     []profile.Skill{},
		Socials:    []profile.Social{},
	}
	for _, c := range in.Careers {
		p.Careers = append(p.Careers, profile.Career{
			Company:     c.Company,
			Position:    c.Position,
			Period:      c.Period,
			Description: c.Description,
		})
	}
	for _, e := range in.Educations {
		p.Educations = append(p.Educations, profile.Education{
			Institution: e.Institution,
			Degree:      e.Degree,
			Period:      e.Period,
			Description: e.Description,
		})
	}
	for _, s := range in.Skills {
		p.Skills = append(p.Skills, profile.Skill{
			Name:     s.Name,
			Level:    s.Level,
			Category: s.Category,
		})
	}
	for _, s := range in.Socials {
		p.Socials = append(p.Socials, profile.Social{
			Platform: s.Platform,
			URL:      s.URL,
			Icon:     s.Icon,
		})
	}
	return p
}

func (uc *ProfileUseCase) Create(ctx context.Context, in ProfileInput) (*profile.Profile, error) {
	p := buildProfile(in)
	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("profile created", zap.Int64("profile_id", p.ID))
	return p, nil
}

func (uc *ProfileUseCase) CreateWithImage(ctx context.Context, in ProfileInput, image *service.FileUpload) (*profile.Profile, error) {
	p := buildProfile(in)

	if image != nil && !image.IsEmpty() {
		url, err := uc.store.Save(ctx, image.Content, image.Name)
		if err != nil {
			return nil, err
		}
		p.Image = &url
	}

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("profile created with image", zap.Int64("profile_id", p.ID))
	return p, nil
}

// Update replaces every scalar field; child collections stay as persisted.
func (uc *ProfileUseCase) Update(ctx context.Context, id int64, in ProfileInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Title = in.Title
	p.Bio = in.Bio
	p.Email = in.Email
	p.Image = in.Image
	p.Phone = in.Phone
	p.Address = in.Address

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdateWithImage(ctx context.Context, id int64, patch ProfilePatch, image *service.FileUpload) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	p.Bio = patch.Bio
	p.Email = patch.Email
	p.Phone = patch.Phone
	p.Address = patch.Address

	if image != nil && !image.IsEmpty() {
		url, err := uc.store.Save(ctx, image.Content, image.Name)
		if err != nil {
			return nil, err
		}
		p.Image = &url
	}

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) Delete(ctx context.Context, id int64) error {
	p, err := uc.profileRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.profileRepo.Delete(ctx, id); err != nil {
		return err
	}
	if p.Image != nil {
		publishOrphaned(uc.producer, uc.logger, []string{*p.Image})
	}
	uc.logger.Info("profile deleted", zap.Int64("profile_id", id))
	return nil
}

// publishOrphaned reports stored image URLs that no aggregate references
// anymore. Fire-and-forget: the cleanup worker owns actual file removal.
func publishOrphaned(producer *event.KafkaProducerClient, log logger.Logger, urls []string) {
	if producer == nil || len(urls) == 0 {
		return
	}
	go func() {
		for _, u := range urls {
			fileName := service.FileNameFromURL(u)
			if fileName == "" {
				continue
			}
			payload := event.ImageEventPayload{
				EventType: event.ImageEventTypeOrphaned,
				FileName:  fileName,
				URL:       u,
			}
			if err := producer.PublishImageEvent(context.Background(), payload); err != nil {
				log.Error("Failed to publish Kafka 'image.orphaned' event", err, zap.String("file_name", fileName))
			}
		}
	}()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
