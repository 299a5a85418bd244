package profile

import (
	"context"

	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
)

func (uc *ProfileUseCase) AddCareer(ctx context.Context, profileID int64, in CareerInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	p.Careers = append(p.Careers, profile.Career{
		ProfileID:   p.ID,
		Company:     in.Company,
		Position:    in.Position,
		Period:      in.Period,
		Description: in.Description,
	})

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdateCareer(ctx context.Context, profileID, careerID int64, in CareerInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Careers {
		if p.Careers[i].ID == careerID {
			p.Careers[i].Company = in.Company
			p.Careers[i].Position = in.Position
			p.Careers[i].Period = in.Period
			p.Careers[i].Description = in.Description
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("Career", formatID(careerID))
	}

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) DeleteCareer(ctx context.Context, profileID, careerID int64) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	kept := p.Careers[:0]
	found := false
	for _, c := range p.Careers {
		if c.ID == careerID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, apperror.NewNotFound("Career", formatID(careerID))
	}
	p.Careers = kept

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, profileID int64, in EducationInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	p.Educations = append(p.Educations, profile.Education{
		ProfileID:   p.ID,
		Institution: in.Institution,
		Degree:      in.Degree,
		Period:      in.Period,
		Description: in.Description,
	})

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdateEducation(ctx context.Context, profileID, educationID int64, in EducationInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Educations {
		if p.Educations[i].ID == educationID {
			p.Educations[i].Institution = in.Institution
			p.Educations[i].Degree = in.Degree
			p.Educations[i].Period = in.Period
			p.Educations[i].Description = in.Description
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("Education", formatID(educationID))
	}

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) DeleteEducation(ctx context.Context, profileID, educationID int64) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	kept := p.Educations[:0]
	found := false
	for _, e := range p.Educations {
		if e.ID == educationID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return nil, apperror.NewNotFound("Education", formatID(educationID))
	}
	p.Educations = kept

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) AddSkill(ctx context.Context, profileID int64, in SkillInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	p.Skills = append(p.Skills, profile.Skill{
		ProfileID: p.ID,
		Name:      in.Name,
		Level:     in.Level,
		Category:  in.Category,
	})

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdateSkill(ctx context.Context, profileID, skillID int64, in SkillInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Skills {
		if p.Skills[i].ID == skillID {
			p.Skills[i].Name = in.Name
			p.Skills[i].Level = in.Level
			p.Skills[i].Category = in.Category
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("Skill", formatID(skillID))
	}

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) DeleteSkill(ctx context.Context, profileID, skillID int64) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	kept := p.Skills[:0]
	found := false
	for _, s := range p.Skills {
		if s.ID == skillID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return nil, apperror.NewNotFound("Skill", formatID(skillID))
	}
	p.Skills = kept

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) AddSocial(ctx context.Context, profileID int64, in SocialInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	p.Socials = append(p.Socials, profile.Social{
		ProfileID: p.ID,
		Platform:  in.Platform,
		URL:       in.URL,
		Icon:      in.Icon,
	})

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdateSocial(ctx context.Context, profileID, socialID int64, in SocialInput) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range p.Socials {
		if p.Socials[i].ID == socialID {
			p.Socials[i].Platform = in.Platform
			p.Socials[i].URL = in.URL
			p.Socials[i].Icon = in.Icon
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NewNotFound("Social", formatID(socialID))
	}

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) DeleteSocial(ctx context.Context, profileID, socialID int64) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	kept := p.Socials[:0]
	found := false
	for _, s := range p.Socials {
		if s.ID == socialID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return nil, apperror.NewNotFound("Social", formatID(socialID))
	}
	p.Socials = kept

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
