package storage

import (
	"context"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/libs/db"
)

type ContactRepository struct {
	pool *db.Pool
}

func NewContactRepository(pool *db.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Insert(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, phone, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.Name, msg.Email, msg.Phone, msg.Message).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return 0, apperr.Storage("insert contact message", err)
	}
	return msg.ID, nil
}

func (r *ContactRepository) Get(ctx context.Context, id int64) (model.ContactMessage, error) {
	var msg model.ContactMessage
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, message, read, created_at
		FROM contact_messages
		WHERE id = $1
	`, id).Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Message, &msg.Read, &msg.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return model.ContactMessage{}, apperr.NotFound("contact message not found")
		}
		return model.ContactMessage{}, apperr.Storage("get contact message", err)
	}
	return msg, nil
}

func (r *ContactRepository) List(ctx context.Context, read *bool, limit, offset int) ([]model.ContactMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, message, read, created_at
		FROM contact_messages
		WHERE $1::boolean IS NULL OR read = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, read, limit, offset)
	if err != nil {
		return nil, apperr.Storage("list contact messages", err)
	}
	defer rows.Close()

	var msgs []model.ContactMessage
	for rows.Next() {
		var msg model.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Message, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, apperr.Storage("scan contact message", err)
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, apperr.Storage("list contact messages", rows.Err())
	}
	return msgs, nil
}

func (r *ContactRepository) SetRead(ctx context.Context, id int64, read bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contact_messages SET read = $2 WHERE id = $1
	`, id, read)
	if err != nil {
		return apperr.Storage("update contact message", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contact message not found")
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM contact_messages WHERE id = $1
	`, id)
	if err != nil {
		return apperr.Storage("delete contact message", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contact message not found")
	}
	return nil
}

func (r *ContactRepository) Stats(ctx context.Context) (model.ContactStats, error) {
	var st model.ContactStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE NOT read),
			count(*) FILTER (WHERE created_at::date = CURRENT_DATE),
			count(*) FILTER (WHERE created_at::date >= CURRENT_DATE - 7)
		FROM contact_messages
	`).Scan(&st.Total, &st.Unread, &st.Today, &st.ThisWeek)
	if err != nil {
		return model.ContactStats{}, apperr.Storage("contact stats", err)
	}
	return st, nil
}

func (r *ContactRepository) Recent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return r.List(ctx, nil, limit, 0)
}
