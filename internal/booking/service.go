// Package booking implements the appointment operations: creation with
// the double-booking guard, updates, cancellation and the free-slot
// availability query.
package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/availability"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/internal/validate"
)

// Repository is the appointment store. Implementations translate store
// failures into apperr kinds; in particular a store-level slot-uniqueness
// violation on Insert or Update surfaces as a ConflictError.
type Repository interface {
	Insert(ctx context.Context, appt *model.Appointment) (int64, error)
	Get(ctx context.Context, id int64) (model.Appointment, error)
	List(ctx context.Context, serviceID int64, date, status string) ([]model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	Cancel(ctx context.Context, id int64) error
	BookedTimes(ctx context.Context, date string) ([]string, error)
	HasActiveAt(ctx context.Context, date, timeOfDay string, excludeID int64) (bool, error)
}

// CatalogReader resolves the service an appointment books.
type CatalogReader interface {
	Get(ctx context.Context, id int64) (model.Service, error)
}

// HoursReader supplies the operating window per weekday.
type HoursReader interface {
	ForWeekday(ctx context.Context, wd time.Weekday) (model.BusinessHours, error)
}

type Service struct {
	appts    Repository
	catalog  CatalogReader
	hours    HoursReader
	interval int
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewService(appts Repository, catalog CatalogReader, hours HoursReader, intervalMinutes int, logger *slog.Logger) *Service {
	return &Service{
		appts:    appts,
		catalog:  catalog,
		hours:    hours,
		interval: intervalMinutes,
		logger:   logger,
		tracer:   otel.Tracer("booking"),
	}
}

// CreateRequest carries the booking payload. Date is 2006-01-02, Time is
// 24h HH:MM.
type CreateRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	ServiceID     int64  `json:"service_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Notes         string `json:"notes"`
}

// UpdateRequest additionally allows moving the appointment between
// statuses.
type UpdateRequest struct {
	CreateRequest
	Status string `json:"status"`
}

func (s *Service) validateRequest(req *CreateRequest) error {
	var v validate.Violations

	req.CustomerName = validate.Name(&v, "customer_name", req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.CustomerEmail == "" {
		v.Add("customer_email", "is required")
	} else if !validate.Email(req.CustomerEmail) {
		v.Add("customer_email", "is not a valid email address")
	}
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.CustomerPhone != "" && !validate.Phone(req.CustomerPhone) {
		v.Add("customer_phone", "is not a valid mobile number")
	}
	if req.ServiceID <= 0 {
		v.Add("service_id", "must be a positive integer")
	}
	if !validate.Date(req.Date) {
		v.Add("date", "must be a valid date in YYYY-MM-DD form")
	}
	if !validate.TimeOfDay(req.Time) {
		v.Add("time", "must be a valid 24h time in HH:MM form")
	} else {
		req.Time = validate.NormalizeTime(req.Time)
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if !validate.WithinLimit(req.Notes, validate.MaxNotesLength) {
		v.Add("notes", "is too long")
	}

	return v.Err()
}

// resolveActiveService maps both a missing and an inactive service to the
// same not-found answer so callers cannot probe which services exist.
func (s *Service) resolveActiveService(ctx context.Context, id int64) (model.Service, error) {
	svc, err := s.catalog.Get(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return model.Service{}, apperr.NotFound("service not found or inactive")
		}
		return model.Service{}, err
	}
	if !svc.Active {
		return model.Service{}, apperr.NotFound("service not found or inactive")
	}
	return svc, nil
}

// Create books a slot. The conflict pre-check gives a friendly answer in
// the common case; the store's unique index closes the race window the
// pre-check leaves open.
func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "booking.create")
	defer span.End()

	if err := s.validateRequest(&req); err != nil {
		return model.Appointment{}, err
	}
	svc, err := s.resolveActiveService(ctx, req.ServiceID)
	if err != nil {
		return model.Appointment{}, err
	}

	taken, err := s.appts.HasActiveAt(ctx, req.Date, req.Time, 0)
	if err != nil {
		return model.Appointment{}, err
	}
	if taken {
		return model.Appointment{}, apperr.Conflict("an appointment already exists at this time")
	}

	appt := model.Appointment{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		ServicePrice:  svc.Price,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
		Status:        model.StatusPending,
	}
	if _, err := s.appts.Insert(ctx, &appt); err != nil {
		return model.Appointment{}, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"service_id", appt.ServiceID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Appointment, error) {
	return s.appts.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, date, status string) ([]model.Appointment, error) {
	if date != "" && !validate.Date(date) {
		return nil, &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "date", Message: "must be a valid date in YYYY-MM-DD form"},
		}}
	}
	return s.appts.List(ctx, 0, date, status)
}

func (s *Service) ListByService(ctx context.Context, serviceID int64, date, status string) ([]model.Appointment, error) {
	if _, err := s.catalog.Get(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.appts.List(ctx, serviceID, date, status)
}

// Update replaces every editable field. When the slot moves, the new slot
// is conflict-checked with the appointment itself excluded so keeping the
// original time never self-conflicts.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (model.Appointment, error) {
	if err := s.validateRequest(&req.CreateRequest); err != nil {
		return model.Appointment{}, err
	}
	if !model.ValidStatus(req.Status) {
		return model.Appointment{}, &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "status", Message: "must be one of pending, confirmed, cancelled"},
		}}
	}

	existing, err := s.appts.Get(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	svc, err := s.resolveActiveService(ctx, req.ServiceID)
	if err != nil {
		return model.Appointment{}, err
	}

	if req.Status != model.StatusCancelled {
		taken, err := s.appts.HasActiveAt(ctx, req.Date, req.Time, id)
		if err != nil {
			return model.Appointment{}, err
		}
		if taken {
			return model.Appointment{}, apperr.Conflict("an appointment already exists at this time")
		}
	}

	appt := model.Appointment{
		ID:            existing.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		ServicePrice:  svc.Price,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
		Status:        req.Status,
		CreatedAt:     existing.CreatedAt,
	}
	if err := s.appts.Update(ctx, &appt); err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// Cancel retains the record with status cancelled, freeing the slot.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if err := s.appts.Cancel(ctx, id); err != nil {
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}

// Availability lists the free slots for a date: the candidate slots of
// that weekday's operating window minus the booked, non-cancelled times.
// A closed or unconfigured day yields an empty list, not an error.
func (s *Service) Availability(ctx context.Context, date string) (model.Availability, error) {
	ctx, span := s.tracer.Start(ctx, "booking.availability")
	defer span.End()

	if !validate.Date(date) {
		return model.Availability{}, &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "date", Message: "must be a valid date in YYYY-MM-DD form"},
		}}
	}

	wd, err := availability.Weekday(date)
	if err != nil {
		return model.Availability{}, &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "date", Message: "must be a valid date in YYYY-MM-DD form"},
		}}
	}

	hours, err := s.hours.ForWeekday(ctx, wd)
	if err != nil {
		return model.Availability{}, err
	}
	if !hours.Active {
		return model.Availability{Date: date, FreeSlots: []string{}, TotalFree: 0}, nil
	}

	candidates, err := availability.Slots(hours.OpenTime, hours.CloseTime, s.interval)
	if err != nil {
		return model.Availability{}, err
	}
	booked, err := s.appts.BookedTimes(ctx, date)
	if err != nil {
		return model.Availability{}, err
	}

	free := availability.Free(candidates, booked)
	return model.Availability{Date: date, FreeSlots: free, TotalFree: len(free)}, nil
}
