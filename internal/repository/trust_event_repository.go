package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// TrustEventRepository is the append-only trust ledger.
type TrustEventRepository interface {
	Append(ctx context.Context, event *domain.TrustEvent) error
	Impacts(ctx context.Context, userID string) ([]int, error)
	History(ctx context.Context, userID string, limit int) ([]domain.TrustEvent, error)
}

type trustEventRepository struct {
	pool *pgxpool.Pool
}

// NewTrustEventRepository builds repository.
func NewTrustEventRepository(pool *pgxpool.Pool) TrustEventRepository {
	return &trustEventRepository{pool: pool}
}

func (r *trustEventRepository) Append(ctx context.Context, event *domain.TrustEvent) error {
	const query = `
        INSERT INTO trust_events (id, user_id, event_type, severity, impact, shift_id, description, metadata, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.EventType,
		event.Severity,
		event.Impact,
		event.ShiftID,
		event.Description,
		event.Metadata,
		event.CreatedAt,
	)
	return err
}

// Impacts returns impacts in insertion order so the score fold is deterministic.
func (r *trustEventRepository) Impacts(ctx context.Context, userID string) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT impact FROM trust_events WHERE user_id=$1 ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var impacts []int
	for rows.Next() {
		var impact int
		if err := rows.Scan(&impact); err != nil {
			return nil, err
		}
		impacts = append(impacts, impact)
	}
	return impacts, rows.Err()
}

func (r *trustEventRepository) History(ctx context.Context, userID string, limit int) ([]domain.TrustEvent, error) {
	const query = `
        SELECT id, user_id, event_type, severity, impact, shift_id, description, metadata, created_at
        FROM trust_events WHERE user_id=$1 ORDER BY seq DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TrustEvent{}
	for rows.Next() {
		var event domain.TrustEvent
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.EventType,
			&event.Severity,
			&event.Impact,
			&event.ShiftID,
			&event.Description,
			&event.Metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
