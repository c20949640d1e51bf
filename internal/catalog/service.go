// Package catalog manages the service offering: CRUD with a unique-name
// guarantee and soft deactivation guarded by live appointments.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/internal/validate"
)

const defaultDurationMinutes = 60

// Repository is the service store. Implementations surface a duplicate
// name as a ConflictError.
type Repository interface {
	List(ctx context.Context, active *bool) ([]model.Service, error)
	Get(ctx context.Context, id int64) (model.Service, error)
	Insert(ctx context.Context, s *model.Service) (int64, error)
	Update(ctx context.Context, s *model.Service) error
	Deactivate(ctx context.Context, id int64) error
}

// AppointmentCounter counts live bookings referencing a service.
type AppointmentCounter interface {
	CountActiveByService(ctx context.Context, serviceID int64) (int64, error)
}

type Service struct {
	repo   Repository
	appts  AppointmentCounter
	logger *slog.Logger
}

func NewService(repo Repository, appts AppointmentCounter, logger *slog.Logger) *Service {
	return &Service{repo: repo, appts: appts, logger: logger}
}

type UpsertRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes *int    `json:"duration_minutes"`
	Active          *bool   `json:"active"`
}

func validateUpsert(req *UpsertRequest) (duration int, active bool, err error) {
	var v validate.Violations

	req.Name = validate.Name(&v, "name", req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Price < 0 {
		v.Add("price", "must not be negative")
	}
	duration = defaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
		if duration < 15 {
			v.Add("duration_minutes", "must be at least 15")
		}
	}
	active = true
	if req.Active != nil {
		active = *req.Active
	}
	return duration, active, v.Err()
}

func (s *Service) List(ctx context.Context, active *bool) ([]model.Service, error) {
	return s.repo.List(ctx, active)
}

func (s *Service) Get(ctx context.Context, id int64) (model.Service, error) {
	return s.repo.Get(ctx, id)
}

// Create relies on the store's unique name constraint rather than a
// pre-check, so concurrent creates of the same name cannot both succeed.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (model.Service, error) {
	duration, active, err := validateUpsert(&req)
	if err != nil {
		return model.Service{}, err
	}

	svc := model.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: duration,
		Active:          active,
	}
	if _, err := s.repo.Insert(ctx, &svc); err != nil {
		return model.Service{}, err
	}
	s.logger.Info("service created", "service_id", svc.ID, "name", svc.Name)
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (model.Service, error) {
	duration, active, err := validateUpsert(&req)
	if err != nil {
		return model.Service{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Service{}, err
	}

	svc := model.Service{
		ID:              existing.ID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: duration,
		Active:          active,
		CreatedAt:       existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &svc); err != nil {
		return model.Service{}, err
	}
	return svc, nil
}

// Deactivate soft-deletes the service unless pending or confirmed
// appointments still reference it; the conflict reports how many block
// the operation. The row itself is never removed.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.appts.CountActiveByService(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperr.ConflictError{
			Msg:                "cannot deactivate a service with active appointments",
			ActiveAppointments: count,
		}
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("service deactivated", "service_id", id)
	return nil
}
