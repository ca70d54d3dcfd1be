package contact

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logger"
	contactrepo "storefront/internal/repository/contact"
	"storefront/internal/validation"
)

type Service struct {
	repo   contactrepo.Repository
	logger *zap.Logger
}

func New(repo contactrepo.Repository, l *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.OrNop(l)}
}

// Input is a contact form submission.
type Input struct {
	Name    string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone" validate:"max=30"`
	Subject string `json:"subject" form:"subject" validate:"max=200"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=5000"`
}

// Submit validates and stores a message.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	m, err := s.repo.Create(ctx, domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", zap.String("id", m.ID))
	return m, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
