package storage

import (
	"context"
	"time"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/model"
	"github.com/barbearia-nativa/bookingd/libs/db"
)

type HoursRepository struct {
	pool *db.Pool
}

func NewHoursRepository(pool *db.Pool) *HoursRepository {
	return &HoursRepository{pool: pool}
}

// ForWeekday returns the operating window for a weekday. A missing row is
// reported as a closed day, not an error.
func (r *HoursRepository) ForWeekday(ctx context.Context, wd time.Weekday) (model.BusinessHours, error) {
	var bh model.BusinessHours
	var weekday int
	err := r.pool.QueryRow(ctx, `
		SELECT weekday, to_char(open_time, 'HH24:MI'), to_char(close_time, 'HH24:MI'), active
		FROM business_hours
		WHERE weekday = $1
	`, int(wd)).Scan(&weekday, &bh.OpenTime, &bh.CloseTime, &bh.Active)
	if err != nil {
		if isNoRows(err) {
			return model.BusinessHours{Weekday: wd, Active: false}, nil
		}
		return model.BusinessHours{}, apperr.Storage("get business hours", err)
	}
	bh.Weekday = time.Weekday(weekday)
	return bh, nil
}
