package address

import (
	"context"

	"storefront/internal/domain"
	addressrepo "storefront/internal/repository/address"
	"storefront/internal/validation"
)

const defaultCountry = "TR"

// Service manages the addresses of a single owner per call; an address
// belonging to someone else is reported as not found.
type Service struct {
	repo addressrepo.Repository
}

func New(repo addressrepo.Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Title      string `json:"title" validate:"required,max=100"`
	FullName   string `json:"fullName" validate:"required,min=2,max=200"`
	Phone      string `json:"phone" validate:"max=30"`
	Line1      string `json:"line1" validate:"required,max=300"`
	Line2      string `json:"line2" validate:"max=300"`
	City       string `json:"city" validate:"required,max=100"`
	District   string `json:"district" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"max=20"`
	Country    string `json:"country" validate:"omitempty,len=2"`
	IsDefault  bool   `json:"isDefault"`
}

// Update is a partial update; nil fields are left unchanged.
type Update struct {
	Title      *string `json:"title" validate:"omitnil,min=1,max=100"`
	FullName   *string `json:"fullName" validate:"omitnil,min=2,max=200"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	Line1      *string `json:"line1" validate:"omitnil,min=1,max=300"`
	Line2      *string `json:"line2" validate:"omitempty,max=300"`
	City       *string `json:"city" validate:"omitnil,min=1,max=100"`
	District   *string `json:"district" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode" validate:"omitempty,max=20"`
	Country    *string `json:"country" validate:"omitempty,len=2"`
	IsDefault  *bool   `json:"isDefault"`
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*domain.Address, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	country := in.Country
	if country == "" {
		country = defaultCountry
	}
	return s.repo.Create(ctx, domain.Address{
		UserID:     userID,
		Title:      in.Title,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		District:   in.District,
		PostalCode: in.PostalCode,
		Country:    country,
		IsDefault:  in.IsDefault,
	})
}

func (s *Service) Update(ctx context.Context, userID, id string, in Update) (*domain.Address, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	a, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	apply(a, in)
	return s.repo.Update(ctx, *a)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

func apply(a *domain.Address, in Update) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Title, in.Title)
	set(&a.FullName, in.FullName)
	set(&a.Phone, in.Phone)
	set(&a.Line1, in.Line1)
	set(&a.Line2, in.Line2)
	set(&a.City, in.City)
	set(&a.District, in.District)
	set(&a.PostalCode, in.PostalCode)
	set(&a.Country, in.Country)
	if in.IsDefault != nil {
		a.IsDefault = *in.IsDefault
	}
}
