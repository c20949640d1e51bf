package storage

import (
	"context"
	"time"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/internal/outbox"
	"github.com/barbearia-nativa/bookingd/libs/db"
)

type AppointmentRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outbox: outboxRepo}
}

const appointmentColumns = `
	a.id, a.customer_name, a.customer_email, a.customer_phone, a.service_id,
	COALESCE(s.name, ''), COALESCE(s.price, 0),
	a.appointment_date::text, to_char(a.appointment_time, 'HH24:MI'),
	a.notes, a.status, a.created_at`

// Insert stores the appointment and its booked event in one transaction.
// A violation of the active-slot index is reported as the same conflict
// the pre-check would have raised.
func (r *AppointmentRepository) Insert(ctx context.Context, appt *model.Appointment) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, apperr.Storage("begin insert appointment", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments
			(customer_name, customer_email, customer_phone, service_id, appointment_date, appointment_time, notes, status)
		VALUES ($1, $2, $3, $4, $5::date, $6::time, $7, $8)
		RETURNING id, created_at
	`, appt.CustomerName, appt.CustomerEmail, appt.CustomerPhone, appt.ServiceID,
		appt.Date, appt.Time, appt.Notes, appt.Status).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintActiveSlot {
			return 0, apperr.Conflict("an appointment already exists at this time")
		}
		return 0, apperr.Storage("insert appointment", err)
	}

	evt, err := outbox.AppointmentBooked(*appt)
	if err != nil {
		return 0, apperr.Storage("build booked event", err)
	}
	if err := r.outbox.Insert(ctx, tx, evt); err != nil {
		return 0, apperr.Storage("insert booked event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Storage("commit insert appointment", err)
	}
	return appt.ID, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id int64) (model.Appointment, error) {
	var appt model.Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.id = $1
	`, id).Scan(
		&appt.ID, &appt.CustomerName, &appt.CustomerEmail, &appt.CustomerPhone, &appt.ServiceID,
		&appt.ServiceName, &appt.ServicePrice,
		&appt.Date, &appt.Time,
		&appt.Notes, &appt.Status, &appt.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Appointment{}, apperr.NotFound("appointment not found")
		}
		return model.Appointment{}, apperr.Storage("get appointment", err)
	}
	return appt, nil
}

// List returns appointments newest-first. serviceID zero means any
// service; empty date/status mean no filter on that column.
func (r *AppointmentRepository) List(ctx context.Context, serviceID int64, date, status string) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE ($1::bigint = 0 OR a.service_id = $1)
			AND ($2::text = '' OR a.appointment_date = $2::date)
			AND ($3::text = '' OR a.status = $3)
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`, serviceID, date, status)
	if err != nil {
		return nil, apperr.Storage("list appointments", err)
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		if err := rows.Scan(
			&appt.ID, &appt.CustomerName, &appt.CustomerEmail, &appt.CustomerPhone, &appt.ServiceID,
			&appt.ServiceName, &appt.ServicePrice,
			&appt.Date, &appt.Time,
			&appt.Notes, &appt.Status, &appt.CreatedAt,
		); err != nil {
			return nil, apperr.Storage("scan appointment", err)
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, apperr.Storage("list appointments", rows.Err())
	}
	return appts, nil
}

// cancelsAppointment reports whether a status change releases the slot
// and therefore owes downstream consumers a cancellation event.
func cancelsAppointment(prev, next string) bool {
	return prev != model.StatusCancelled && next == model.StatusCancelled
}

// Update replaces every editable field. A transition into cancelled
// writes the cancellation event in the same transaction, the same as
// Cancel, so consumers see the slot release no matter which path
// cancelled it.
func (r *AppointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Storage("begin update appointment", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var prevStatus string
	err = tx.QueryRow(ctx, `
		UPDATE appointments a
		SET customer_name = $2,
			customer_email = $3,
			customer_phone = $4,
			service_id = $5,
			appointment_date = $6::date,
			appointment_time = $7::time,
			notes = $8,
			status = $9
		FROM (SELECT id, status AS prev_status FROM appointments WHERE id = $1 FOR UPDATE) prev
		WHERE a.id = prev.id
		RETURNING prev.prev_status
	`, appt.ID, appt.CustomerName, appt.CustomerEmail, appt.CustomerPhone, appt.ServiceID,
		appt.Date, appt.Time, appt.Notes, appt.Status).Scan(&prevStatus)
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound("appointment not found")
		}
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintActiveSlot {
			return apperr.Conflict("an appointment already exists at this time")
		}
		return apperr.Storage("update appointment", err)
	}

	if cancelsAppointment(prevStatus, appt.Status) {
		evt, err := outbox.AppointmentCancelled(*appt, time.Now().UTC())
		if err != nil {
			return apperr.Storage("build cancelled event", err)
		}
		if err := r.outbox.Insert(ctx, tx, evt); err != nil {
			return apperr.Storage("insert cancelled event", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("commit update appointment", err)
	}
	return nil
}

// Cancel flips the status and writes the cancellation event together.
// Cancelling an already-cancelled appointment is a no-op success.
func (r *AppointmentRepository) Cancel(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Storage("begin cancel appointment", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var appt model.Appointment
	var prevStatus string
	err = tx.QueryRow(ctx, `
		UPDATE appointments a
		SET status = 'cancelled'
		FROM (SELECT id, status AS prev_status FROM appointments WHERE id = $1 FOR UPDATE) prev
		WHERE a.id = prev.id
		RETURNING a.id, a.service_id, a.appointment_date::text, to_char(a.appointment_time, 'HH24:MI'), prev.prev_status
	`, id).Scan(&appt.ID, &appt.ServiceID, &appt.Date, &appt.Time, &prevStatus)
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound("appointment not found")
		}
		return apperr.Storage("cancel appointment", err)
	}

	if prevStatus != model.StatusCancelled {
		evt, err := outbox.AppointmentCancelled(appt, time.Now().UTC())
		if err != nil {
			return apperr.Storage("build cancelled event", err)
		}
		if err := r.outbox.Insert(ctx, tx, evt); err != nil {
			return apperr.Storage("insert cancelled event", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("commit cancel appointment", err)
	}
	return nil
}

// BookedTimes lists the occupied time-of-day values for a date, cancelled
// appointments excluded, in slot order.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(appointment_time, 'HH24:MI')
		FROM appointments
		WHERE appointment_date = $1::date AND status <> 'cancelled'
		ORDER BY appointment_time
	`, date)
	if err != nil {
		return nil, apperr.Storage("list booked times", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperr.Storage("scan booked time", err)
		}
		times = append(times, t)
	}
	if rows.Err() != nil {
		return nil, apperr.Storage("list booked times", rows.Err())
	}
	return times, nil
}

// HasActiveAt reports whether a non-cancelled appointment other than
// excludeID already occupies the slot. Pass excludeID zero on create.
func (r *AppointmentRepository) HasActiveAt(ctx context.Context, date, timeOfDay string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE appointment_date = $1::date
				AND appointment_time = $2::time
				AND status <> 'cancelled'
				AND id <> $3
		)
	`, date, timeOfDay, excludeID).Scan(&exists)
	if err != nil {
		return false, apperr.Storage("check slot conflict", err)
	}
	return exists, nil
}

// CountActiveByService counts pending and confirmed appointments holding a
// reference to the service. Used by the deactivation guard.
func (r *AppointmentRepository) CountActiveByService(ctx context.Context, serviceID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments
		WHERE service_id = $1 AND status IN ('pending', 'confirmed')
	`, serviceID).Scan(&count)
	if err != nil {
		return 0, apperr.Storage("count active appointments", err)
	}
	return count, nil
}
