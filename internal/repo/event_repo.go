package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Netobs/internal/domain"
)

// EventRepo — репозиторий метаданных событий.
type EventRepo struct {
	pool *pgxpool.Pool
}

// NewEventRepo создаёт новый EventRepo.
func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// InsertEventMetaData добавляет запись и возвращает её первичный ключ.
func (r *EventRepo) InsertEventMetaData(ctx context.Context, ev *domain.EventMetaData) (int64, error) {
	query := `
		INSERT INTO event_metadata (julian_day, ready, reprocess, interval_in_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		ev.JulianDay,
		ev.Ready,
		ev.Reprocess,
		ev.IntervalInSeconds,
	).Scan(&ev.ID)
	if err != nil {
		return 0, fmt.Errorf("insert event metadata: %w", err)
	}
	return ev.ID, nil
}
