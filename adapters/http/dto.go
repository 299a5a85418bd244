package http

import (
	"time"

	profileUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/profile"
	projectUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/project"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/profile"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
)

// Profile DTOs

type CareerDTO struct {
	ID          int64   `json:"id"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Period      string  `json:"period"`
	Description *string `json:"description"`
}

type EducationDTO struct {
	ID          int64   `json:"id"`
	Institution string  `json:"institution"`
	Degree      *string `json:"degree"`
	Period      string  `json:"period"`
	Description *string `json:"description"`
}

type SkillDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	Category *string `json:"category"`
}

type SocialDTO struct {
	ID       int64   `json:"id"`
	Platform string  `json:"platform"`
	URL      *string `json:"url"`
	Icon     *string `json:"icon"`
}

type ProfileDTO struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Title      string         `json:"title"`
	Bio        *string        `json:"bio"`
	Email      *string        `json:"email"`
	Image      *string        `json:"image"`
	Phone      *string        `json:"phone"`
	Address    *string        `json:"address"`
	Careers    []CareerDTO    `json:"careers"`
	Educations []EducationDTO `json:"educations"`
	Skills     []SkillDTO     `json:"skills"`
	Socials    []SocialDTO    `json:"socials"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:      p.ID,
		Name:    p.Name,
		Title:   p.Title,
		Bio:     p.Bio,
		Email:   p.Email,
		Image:   p.Image,
		Phone:   p.Phone,
		Address: p.Address,
	}
	dto.Careers = make([]CareerDTO, len(p.Careers))
	for i, c := range p.Careers {
		dto.Careers[i] = CareerDTO{
			ID:          c.ID,
			Company:     c.Company,
			Position:    c.Position,
			Period:      c.Period,
			Description: c.Description,
		}
	}
	dto.Educations = make([]EducationDTO, len(p.Educations))
	for i, e := range p.Educations {
		dto.Educations[i] = EducationDTO{
			ID:          e.ID,
			Institution: e.Institution,
			Degree:      e.Degree,
			Period:      e.Period,
			Description: e.Description,
		}
	}
	dto.Skills = make([]SkillDTO, len(p.Skills))
	for i, s := range p.Skills {
		dto.Skills[i] = SkillDTO{
			ID:       s.ID,
			Name:     s.Name,
			Level:    s.Level,
			Category: s.Category,
		}
	}
	dto.Socials = make([]SocialDTO, len(p.Socials))
	for i, s := range p.Socials {
		dto.Socials[i] = SocialDTO{
			ID:       s.ID,
			Platform: s.Platform,
			URL:      s.URL,
			Icon:     s.Icon,
		}
	}
	return dto
}

// Incoming child payloads carry no id: the storage layer assigns ids, and the
// nested routes address children by path parameter instead.

type CareerRequest struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Period      string  `json:"period"`
	Description *string `json:"description"`
}

func (r CareerRequest) ToInput() profileUC.CareerInput {
	return profileUC.CareerInput{
		Company:     r.Company,
		Position:    r.Position,
		Period:      r.Period,
		Description: r.Description,
	}
}

type EducationRequest struct {
	Institution string  `json:"institution"`
	Degree      *string `json:"degree"`
	Period      string  `json:"period"`
	Description *string `json:"description"`
}

func (r EducationRequest) ToInput() profileUC.EducationInput {
	return profileUC.EducationInput{
		Institution: r.Institution,
		Degree:      r.Degree,
		Period:      r.Period,
		Description: r.Description,
	}
}

type SkillRequest struct {
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	Category *string `json:"category"`
}

func (r SkillRequest) ToInput() profileUC.SkillInput {
	return profileUC.SkillInput{Name: r.Name, Level: r.Level, Category: r.Category}
}

type SocialRequest struct {
	Platform string  `json:"platform"`
	URL      *string `json:"url"`
	Icon     *string `json:"icon"`
}

func (r SocialRequest) ToInput() profileUC.SocialInput {
	return profileUC.SocialInput{Platform: r.Platform, URL: r.URL, Icon: r.Icon}
}

type ProfileRequest struct {
	Name       string             `json:"name"`
	Title      string             `json:"title"`
	Bio        *string            `json:"bio"`
	Email      *string            `json:"email"`
	Image      *string            `json:"image"`
	Phone      *string            `json:"phone"`
	Address    *string            `json:"address"`
	Careers    []CareerRequest    `json:"careers"`
	Educations []EducationRequest `json:"educations"`
	Skills     []SkillRequest     `json:"skills"`
	Socials    []SocialRequest    `json:"socials"`
}

func (r ProfileRequest) ToInput() profileUC.ProfileInput {
	in := profileUC.ProfileInput{
		Name:    r.Name,
		Title:   r.Title,
		Bio:     r.Bio,
		Email:   r.Email,
		Image:   r.Image,
		Phone:   r.Phone,
		Address: r.Address,
	}
	for _, c := range r.Careers {
		in.Careers = append(in.Careers, c.ToInput())
	}
	for _, e := range r.Educations {
		in.Educations = append(in.Educations, e.ToInput())
	}
	for _, s := range r.Skills {
		in.Skills = append(in.Skills, s.ToInput())
	}
	for _, s := range r.Socials {
		in.Socials = append(in.Socials, s.ToInput())
	}
	return in
}

// Project DTOs

type TroubleShootingDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// ProjectDTO keeps the wire shape the frontend already speaks: the project
// title travels as "name", and "role" is a legacy passthrough field that is
// never persisted.
type ProjectDTO struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	Description     *string              `json:"description"`
	Summary         string               `json:"summary"`
	Role            *string              `json:"role"`
	Github          *string              `json:"github"`
	Thumbnail       *string              `json:"thumbnail"`
	Website         *string              `json:"website"`
	StartDate       string               `json:"startDate"`
	EndDate         string               `json:"endDate"`
	Technologies    []string             `json:"technologies"`
	Images          []string             `json:"images"`
	Troubleshooting []TroubleShootingDTO `json:"troubleshooting"`
}

func ToProjectDTO(p *project.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:           p.ID,
		Name:         p.Title,
		Description:  p.Description,
		Summary:      p.Summary,
		Github:       p.Github,
		Thumbnail:    p.Thumbnail,
		Website:      p.Website,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Technologies: p.Technologies,
		Images:       p.Images,
	}
	if dto.Technologies == nil {
		dto.Technologies = []string{}
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	dto.Troubleshooting = make([]TroubleShootingDTO, len(p.Troubleshooting))
	for i, ts := range p.Troubleshooting {
		dto.Troubleshooting[i] = TroubleShootingDTO{
			ID:          ts.ID,
			Title:       ts.Title,
			Description: ts.Description,
			Image:       ts.Image,
		}
	}
	return dto
}

type TroubleShootingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

func (r TroubleShootingRequest) ToInput() projectUC.TroubleShootingInput {
	return projectUC.TroubleShootingInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
	}
}

type ProjectRequest struct {
	Name            *string                  `json:"name"`
	Description     *string                  `json:"description"`
	Summary         *string                  `json:"summary"`
	Role            *string                  `json:"role"`
	Github          *string                  `json:"github"`
	Thumbnail       *string                  `json:"thumbnail"`
	Website         *string                  `json:"website"`
	StartDate       *string                  `json:"startDate"`
	EndDate         *string                  `json:"endDate"`
	Technologies    []string                 `json:"technologies"`
	Images          []string                 `json:"images"`
	Troubleshooting []TroubleShootingRequest `json:"troubleshooting"`
}

// ToInput validates the ISO date fields and maps the request onto the use
// case input. A nil Troubleshooting slice survives as nil so the update path
// can tell "absent" from "replace with nothing".
func (r ProjectRequest) ToInput() (projectUC.ProjectInput, error) {
	if err := validateISODate(r.StartDate); err != nil {
		return projectUC.ProjectInput{}, apperror.NewInvalidInput("startDate must be an ISO date (YYYY-MM-DD)", err)
	}
	if err := validateISODate(r.EndDate); err != nil {
		return projectUC.ProjectInput{}, apperror.NewInvalidInput("endDate must be an ISO date (YYYY-MM-DD)", err)
	}

	in := projectUC.ProjectInput{
		Name:         r.Name,
		Summary:      r.Summary,
		Description:  r.Description,
		Technologies: r.Technologies,
		Thumbnail:    r.Thumbnail,
		Github:       r.Github,
		Website:      r.Website,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Images:       r.Images,
	}
	if r.Troubleshooting != nil {
		in.Troubleshooting = make([]projectUC.TroubleShootingInput, len(r.Troubleshooting))
		for i, ts := range r.Troubleshooting {
			in.Troubleshooting[i] = ts.ToInput()
		}
	}
	return in, nil
}

func validateISODate(s *string) error {
	if s == nil {
		return nil
	}
	_, err := time.Parse("2006-01-02", *s)
	return err
}
