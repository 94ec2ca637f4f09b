package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// ProfileRepository reads and writes moderation flags on worker and client profiles.
type ProfileRepository interface {
	UserRole(ctx context.Context, userID string) (domain.UserRole, error)
	ProfileFlags(ctx context.Context, role domain.UserRole, userID string) (domain.ProfileFlags, error)
	SetBlocked(ctx context.Context, role domain.UserRole, userID string, blocked bool) error
	SetSuspicious(ctx context.Context, role domain.UserRole, userID string, suspicious bool) error
	ListSuspicious(ctx context.Context) ([]domain.SuspiciousUser, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository builds repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

// profileTable maps a role to the table holding its flags. Shift leads share the worker profile.
func profileTable(role domain.UserRole) (string, bool) {
	switch role {
	case domain.UserRoleWorker, domain.UserRoleShiftLead:
		return "worker_profiles", true
	case domain.UserRoleClient:
		return "client_profiles", true
	default:
		return "", false
	}
}

func (r *profileRepository) UserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	var role domain.UserRole
	if err := r.pool.QueryRow(ctx, `SELECT role FROM accounts WHERE id=$1`, userID).Scan(&role); err != nil {
		return "", err
	}
	return role, nil
}

func (r *profileRepository) ProfileFlags(ctx context.Context, role domain.UserRole, userID string) (domain.ProfileFlags, error) {
	table, ok := profileTable(role)
	if !ok {
		return domain.ProfileFlags{}, fmt.Errorf("no profile table for role %q", role)
	}
	var flags domain.ProfileFlags
	err := r.pool.QueryRow(ctx,
		`SELECT is_blocked, is_suspicious FROM `+table+` WHERE user_id=$1`, userID,
	).Scan(&flags.IsBlocked, &flags.IsSuspicious)
	if err != nil {
		return domain.ProfileFlags{}, err
	}
	return flags, nil
}

func (r *profileRepository) SetBlocked(ctx context.Context, role domain.UserRole, userID string, blocked bool) error {
	return r.setFlag(ctx, role, userID, "is_blocked", blocked)
}

func (r *profileRepository) SetSuspicious(ctx context.Context, role domain.UserRole, userID string, suspicious bool) error {
	return r.setFlag(ctx, role, userID, "is_suspicious", suspicious)
}

// setFlag only receives column names from this file.
func (r *profileRepository) setFlag(ctx context.Context, role domain.UserRole, userID, column string, value bool) error {
	table, ok := profileTable(role)
	if !ok {
		return fmt.Errorf("no profile table for role %q", role)
	}
	query := `UPDATE ` + table + ` SET ` + column + `=$1, updated_at=NOW()`
	if column == "is_suspicious" {
		query += `, flagged_at = CASE WHEN $1 THEN NOW() ELSE NULL END`
	}
	query += ` WHERE user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, value, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) ListSuspicious(ctx context.Context) ([]domain.SuspiciousUser, error) {
	const query = `
        SELECT a.id, a.name, a.role, p.is_blocked, COALESCE(p.flagged_at, p.updated_at)
        FROM worker_profiles p JOIN accounts a ON a.id = p.user_id
        WHERE p.is_suspicious
        UNION ALL
        SELECT a.id, a.name, a.role, p.is_blocked, COALESCE(p.flagged_at, p.updated_at)
        FROM client_profiles p JOIN accounts a ON a.id = p.user_id
        WHERE p.is_suspicious
        ORDER BY 5 DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.SuspiciousUser{}
	for rows.Next() {
		var user domain.SuspiciousUser
		if err := rows.Scan(
			&user.UserID,
			&user.Name,
			&user.Role,
			&user.IsBlocked,
			&user.FlaggedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
