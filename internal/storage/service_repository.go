package storage

import (
	"context"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/libs/db"
)

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) List(ctx context.Context, active *bool) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, duration_minutes, active, created_at
		FROM services
		WHERE $1::boolean IS NULL OR active = $1
		ORDER BY name ASC
	`, active)
	if err != nil {
		return nil, apperr.Storage("list services", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Active, &s.CreatedAt); err != nil {
			return nil, apperr.Storage("scan service", err)
		}
		services = append(services, s)
	}
	if rows.Err() != nil {
		return nil, apperr.Storage("list services", rows.Err())
	}
	return services, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id int64) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price, duration_minutes, active, created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Active, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.Service{}, apperr.NotFound("service not found")
		}
		return model.Service{}, apperr.Storage("get service", err)
	}
	return s, nil
}

func (r *ServiceRepository) Insert(ctx context.Context, s *model.Service) (int64, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (name, description, price, duration_minutes, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, s.Name, s.Description, s.Price, s.DurationMinutes, s.Active).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintServiceName {
			return 0, apperr.Conflict("a service with this name already exists")
		}
		return 0, apperr.Storage("insert service", err)
	}
	return s.ID, nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *model.Service) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET name = $2,
			description = $3,
			price = $4,
			duration_minutes = $5,
			active = $6
		WHERE id = $1
	`, s.ID, s.Name, s.Description, s.Price, s.DurationMinutes, s.Active)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintServiceName {
			return apperr.Conflict("a service with this name already exists")
		}
		return apperr.Storage("update service", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}

// Deactivate soft-deletes: the row stays so historical appointments keep a
// valid reference.
func (r *ServiceRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services SET active = false WHERE id = $1
	`, id)
	if err != nil {
		return apperr.Storage("deactivate service", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}
