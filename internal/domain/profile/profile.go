package profile

import (
	"context"
)

// Profile is the aggregate root for the site owner. Child collections are
// owned exclusively: a child row never outlives or leaves its profile.
type Profile struct {
	ID         int64
	Name       string
	Title      string
	Bio        *string
	Email      *string
	Image      *string
	Phone      *string
	Address    *string
	Careers    []Career
	Educations []Education
	Skills     []Skill
	Socials    []Social
}

type Career struct {
	ID          int64
	ProfileID   int64
	Company     string
	Position    string
	Period      string
	Description *string
}

type Education struct {
	ID          int64
	ProfileID   int64
	Institution string
	Degree      *string
	Period      string
	Description *string
}

type Skill struct {
	ID        int64
	ProfileID int64
	Name      string
	Level     int
	Category  *string
}

type Social struct {
	ID        int64
	ProfileID int64
	Platform  string
	URL       *string
	Icon      *string
}

// Repository persists the whole aggregate. Save and Update assign
// storage-generated IDs back onto the entity graph; Update reconciles child
// rows (insert ID==0, update ID>0, delete rows missing from the slices).
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Profile, error)
	FindFirst(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id int64) error
}
