// Package contact manages the public contact-message inbox.
package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/internal/validate"
)

type Repository interface {
	Insert(ctx context.Context, msg *model.ContactMessage) (int64, error)
	Get(ctx context.Context, id int64) (model.ContactMessage, error)
	List(ctx context.Context, read *bool, limit, offset int) ([]model.ContactMessage, error)
	SetRead(ctx context.Context, id int64, read bool) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (model.ContactStats, error)
	Recent(ctx context.Context, limit int) ([]model.ContactMessage, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (model.ContactMessage, error) {
	var v validate.Violations

	req.Name = validate.Name(&v, "name", req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		v.Add("email", "is required")
	} else if !validate.Email(req.Email) {
		v.Add("email", "is not a valid email address")
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone != "" && !validate.Phone(req.Phone) {
		v.Add("phone", "is not a valid mobile number")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		v.Add("message", "is required")
	} else if !validate.WithinLimit(req.Message, validate.MaxMessageLength) {
		v.Add("message", "is too long")
	}
	if err := v.Err(); err != nil {
		return model.ContactMessage{}, err
	}

	msg := model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if _, err := s.repo.Insert(ctx, &msg); err != nil {
		return model.ContactMessage{}, err
	}
	s.logger.Info("contact message received", "contact_id", msg.ID)
	return msg, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.ContactMessage, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, read *bool, limit, offset int) ([]model.ContactMessage, error) {
	return s.repo.List(ctx, read, limit, offset)
}

func (s *Service) SetRead(ctx context.Context, id int64, read bool) error {
	return s.repo.SetRead(ctx, id, read)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (model.ContactStats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return model.ContactStats{}, err
	}
	st.Read = st.Total - st.Unread
	return st, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	return s.repo.Recent(ctx, limit)
}
