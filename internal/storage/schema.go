package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/libs/db"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		duration_minutes INT NOT NULL DEFAULT 60 CHECK (duration_minutes >= 15),
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT services_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		service_id BIGINT NOT NULL REFERENCES services (id),
		appointment_date DATE NOT NULL,
		appointment_time TIME NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// At most one live appointment per slot, enforced by the store so the
	// pre-check cannot race a concurrent insert.
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_idx
		ON appointments (appointment_date, appointment_time)
		WHERE status <> 'cancelled'`,
	`CREATE TABLE IF NOT EXISTS business_hours (
		weekday INT PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
		open_time TIME NOT NULL,
		close_time TIME NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id BIGSERIAL PRIMARY KEY,
		event_id UUID NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		traceparent TEXT NOT NULL DEFAULT '',
		tracestate TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ
	)`,
}

// EnsureSchema creates the tables and the active-slot unique index.
// Statements are idempotent; running on every boot is safe.
func EnsureSchema(ctx context.Context, pool *db.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return apperr.Storage("ensure schema", err)
		}
	}
	return nil
}

type seedService struct {
	name        string
	description string
	price       float64
	duration    int
}

type seedHours struct {
	isoWeekday int // 1=Monday .. 7=Sunday, as the shop's configuration states it
	open       string
	close      string
	active     bool
}

var defaultServices = []seedService{
	{"Corte de Cabelo", "Corte profissional com técnicas tradicionais e modernas", 50.00, 30},
	{"Barba Completa", "Modelagem e acabamento perfeito para sua barba", 40.00, 20},
	{"Pacote Completo", "Corte de cabelo + barba + tratamento capilar", 80.00, 60},
	{"Coloração", "Coloração profissional para barba e cabelo", 70.00, 45},
	{"Hidratação Capilar", "Tratamento intensivo para cabelo e barba", 60.00, 25},
	{"Massagem Relaxante", "Massagem terapêutica para aliviar o estresse", 45.00, 15},
}

var defaultHours = []seedHours{
	{1, "09:00", "19:00", true},
	{2, "09:00", "19:00", true},
	{3, "09:00", "19:00", true},
	{4, "09:00", "19:00", true},
	{5, "09:00", "19:00", true},
	{6, "09:00", "17:00", true},
	{7, "00:00", "00:01", false},
}

// WeekdayFromISO translates the 1=Monday..7=Sunday numbering used in the
// shop's configuration to time.Weekday (0=Sunday..6=Saturday), the single
// canonical encoding at the store boundary.
func WeekdayFromISO(iso int) time.Weekday {
	return time.Weekday(iso % 7)
}

// Seed inserts the default service catalog and weekly hours. It runs only
// when the services table is empty, so operator edits survive restarts.
func Seed(ctx context.Context, pool *db.Pool, logger *slog.Logger) error {
	var count int64
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM services`).Scan(&count); err != nil {
		return apperr.Storage("count services", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return apperr.Storage("begin seed", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, s := range defaultServices {
		if _, err := tx.Exec(ctx, `
			INSERT INTO services (name, description, price, duration_minutes)
			VALUES ($1, $2, $3, $4)
		`, s.name, s.description, s.price, s.duration); err != nil {
			return apperr.Storage("seed services", err)
		}
	}
	for _, h := range defaultHours {
		if _, err := tx.Exec(ctx, `
			INSERT INTO business_hours (weekday, open_time, close_time, active)
			VALUES ($1, $2::time, $3::time, $4)
			ON CONFLICT (weekday) DO NOTHING
		`, int(WeekdayFromISO(h.isoWeekday)), h.open, h.close, h.active); err != nil {
			return apperr.Storage("seed business hours", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("commit seed", err)
	}
	logger.Info("seeded default catalog", "services", len(defaultServices))
	return nil
}
