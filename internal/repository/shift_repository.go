package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// ErrStaleTransition means the shift left the expected status before the write.
var ErrStaleTransition = errors.New("shift status changed concurrently")

// PaymentOperation is a payment intent recorded for the gateway worker.
type PaymentOperation struct {
	Operation string
	Amount    *int64
	Reason    string
}

// Payment operation kinds.
const (
	PaymentHold    = "hold"
	PaymentRelease = "release"
	PaymentRefund  = "refund"
	PaymentFreeze  = "freeze"
)

// StatisticsDelta increments a per-user counter.
type StatisticsDelta struct {
	UserID string
	Field  string
	Delta  int
}

var statisticsColumns = map[string]string{
	"completed_shifts": "completed_shifts",
}

// TransitionWrite is everything that commits together with a status change.
type TransitionWrite struct {
	History          domain.ShiftHistory
	Payments         []PaymentOperation
	Statistics       []StatisticsDelta
	LockApplications bool
	RequestRatings   bool
}

// ShiftRepository defines shift persistence.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	ApplyTransition(ctx context.Context, write TransitionWrite) (*domain.ShiftHistory, error)
	ListHistory(ctx context.Context, shiftID string) ([]domain.ShiftHistory, error)
	// MatchWorkers returns unblocked workers to notify about a published shift.
	MatchWorkers(ctx context.Context, shift *domain.Shift, limit int) ([]string, error)
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository builds repository.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	const query = `
        SELECT id, client_id, title, status, start_time, total_amount, created_at, updated_at
        FROM shifts WHERE id=$1`

	var shift domain.Shift
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&shift.ID,
		&shift.ClientID,
		&shift.Title,
		&shift.Status,
		&shift.StartTime,
		&shift.TotalAmount,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT worker_id, checked_in FROM shift_workers WHERE shift_id=$1 ORDER BY assigned_at, worker_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var worker domain.AssignedWorker
		if err := rows.Scan(&worker.WorkerID, &worker.CheckedIn); err != nil {
			return nil, err
		}
		shift.AssignedWorkers = append(shift.AssignedWorkers, worker)
	}
	return &shift, rows.Err()
}

// ApplyTransition compares-and-sets the status and writes every transactional
// effect in one transaction. ErrStaleTransition leaves nothing written.
func (r *shiftRepository) ApplyTransition(ctx context.Context, write TransitionWrite) (*domain.ShiftHistory, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	h := write.History
	cmd, err := tx.Exec(ctx,
		`UPDATE shifts SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		h.ToStatus, h.ShiftID, h.FromStatus)
	if err != nil {
		return nil, fmt.Errorf("update shift status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrStaleTransition
	}

	if err := tx.QueryRow(ctx, `
        INSERT INTO shift_history (shift_id, from_status, to_status, actor_id, actor_role, reason)
        VALUES ($1,$2,$3,$4,$5,NULLIF($6,''))
        RETURNING id, created_at`,
		h.ShiftID, h.FromStatus, h.ToStatus, h.ActorID, h.ActorRole, h.Reason,
	).Scan(&h.ID, &h.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert shift history: %w", err)
	}

	for _, op := range write.Payments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO payment_operations (shift_id, operation, amount, reason) VALUES ($1,$2,$3,NULLIF($4,''))`,
			h.ShiftID, op.Operation, op.Amount, op.Reason); err != nil {
			return nil, fmt.Errorf("record %s payment: %w", op.Operation, err)
		}
	}

	for _, delta := range write.Statistics {
		column, ok := statisticsColumns[delta.Field]
		if !ok {
			return nil, fmt.Errorf("unknown statistics field %q", delta.Field)
		}
		if _, err := tx.Exec(ctx, `
            INSERT INTO user_statistics (user_id, `+column+`) VALUES ($1, $2)
            ON CONFLICT (user_id) DO UPDATE
            SET `+column+` = user_statistics.`+column+` + EXCLUDED.`+column+`, updated_at = NOW()`,
			delta.UserID, delta.Delta); err != nil {
			return nil, fmt.Errorf("update statistics for %s: %w", delta.UserID, err)
		}
	}

	if write.LockApplications {
		if _, err := tx.Exec(ctx, `UPDATE shifts SET applications_locked=TRUE WHERE id=$1`, h.ShiftID); err != nil {
			return nil, fmt.Errorf("lock applications: %w", err)
		}
	}

	if write.RequestRatings {
		if _, err := tx.Exec(ctx,
			`INSERT INTO rating_requests (shift_id) VALUES ($1) ON CONFLICT (shift_id) DO NOTHING`, h.ShiftID); err != nil {
			return nil, fmt.Errorf("request ratings: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return &h, nil
}

func (r *shiftRepository) ListHistory(ctx context.Context, shiftID string) ([]domain.ShiftHistory, error) {
	const query = `
        SELECT id, shift_id, from_status, to_status, actor_id, actor_role, COALESCE(reason, ''), created_at
        FROM shift_history WHERE shift_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShiftHistory
	for rows.Next() {
		var history domain.ShiftHistory
		if err := rows.Scan(
			&history.ID,
			&history.ShiftID,
			&history.FromStatus,
			&history.ToStatus,
			&history.ActorID,
			&history.ActorRole,
			&history.Reason,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

func (r *shiftRepository) MatchWorkers(ctx context.Context, shift *domain.Shift, limit int) ([]string, error) {
	const query = `
        SELECT a.id FROM accounts a
        JOIN worker_profiles p ON p.user_id = a.id
        WHERE a.role IN ('worker', 'shift_lead') AND NOT p.is_blocked
          AND NOT EXISTS (SELECT 1 FROM shift_workers w WHERE w.shift_id=$1 AND w.worker_id=a.id)
        ORDER BY a.created_at
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, shift.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
