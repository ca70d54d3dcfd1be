package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
	pagerepo "storefront/internal/repository/page"
	"storefront/internal/validation"
)

type Service struct {
	repo pagerepo.Repository
}

func New(repo pagerepo.Repository) *Service {
	return &Service{repo: repo}
}

type SectionInput struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type CreateInput struct {
	Title           string         `json:"title" validate:"required,max=300"`
	Slug            string         `json:"slug" validate:"max=300"`
	MetaTitle       string         `json:"metaTitle" validate:"max=300"`
	MetaDescription string         `json:"metaDescription" validate:"max=1000"`
	Published       bool           `json:"published"`
	Sections        []SectionInput `json:"sections"`
}

// UpdateInput is a partial update. A non-nil Sections replaces every
// section of the page.
type UpdateInput struct {
	Title           *string         `json:"title" validate:"omitnil,min=1,max=300"`
	Slug            *string         `json:"slug" validate:"omitempty,max=300"`
	MetaTitle       *string         `json:"metaTitle" validate:"omitempty,max=300"`
	MetaDescription *string         `json:"metaDescription" validate:"omitempty,max=1000"`
	Published       *bool           `json:"published"`
	Sections        *[]SectionInput `json:"sections"`
}

// List returns pages matching slug (all pages when slug is empty).
func (s *Service) List(ctx context.Context, slug string, includeDrafts bool) ([]domain.Page, error) {
	return s.repo.List(ctx, slug, includeDrafts)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Page, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetPublished returns the published page with the given slug.
func (s *Service) GetPublished(ctx context.Context, slug string) (*domain.Page, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Page, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	sections, err := buildSections(in.Sections)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Page{
		Title:           in.Title,
		Slug:            slug,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		Published:       in.Published,
		Sections:        sections,
	})
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Page, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Slug != nil {
		if p.Slug, err = domain.ResolveSlug(*in.Slug, p.Title); err != nil {
			return nil, err
		}
	}
	if in.MetaTitle != nil {
		p.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = *in.MetaDescription
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	replace := in.Sections != nil
	if replace {
		if p.Sections, err = buildSections(*in.Sections); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, *p, replace)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// buildSections validates every section against its type and assigns the
// array index as sort order.
func buildSections(in []SectionInput) ([]domain.PageSection, error) {
	out := make([]domain.PageSection, 0, len(in))
	verr := &domain.ValidationError{}
	for i, sec := range in {
		prefix := fmt.Sprintf("sections[%d]", i)
		decoded, err := domain.DecodeSection(sec.Type, sec.Data)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownSection) {
				verr.Fields = append(verr.Fields, domain.FieldError{
					Field:   prefix + ".type",
					Message: "must be one of: hero rich_text cta",
				})
			} else {
				verr.Fields = append(verr.Fields, domain.FieldError{Field: prefix + ".data", Message: "must be an object"})
			}
			continue
		}
		if err := validation.Struct(decoded); err != nil {
			var fieldErrs *domain.ValidationError
			if !errors.As(err, &fieldErrs) {
				return nil, err
			}
			for _, f := range fieldErrs.Fields {
				verr.Fields = append(verr.Fields, domain.FieldError{Field: prefix + ".data." + f.Field, Message: f.Message})
			}
			continue
		}
		data, err := json.Marshal(decoded)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PageSection{Type: sec.Type, SortOrder: i, Data: data})
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}
