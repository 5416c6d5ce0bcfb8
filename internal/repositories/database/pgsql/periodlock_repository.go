package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

type PgxPeriodLockRepository struct {
	BaseRepository
}

// newPgxPeriodLockRepository creates a new repository for accounting period locks.
func newPgxPeriodLockRepository(pool *pgxpool.Pool) portsrepo.PeriodLockRepository {
	return &PgxPeriodLockRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodLockRepository = (*PgxPeriodLockRepository)(nil)

// IsPeriodLocked reports whether the YYYY-MM period is closed for posting.
func (r *PgxPeriodLockRepository) IsPeriodLocked(ctx context.Context, period string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM period_locks WHERE period = $1);`
	if err := r.Pool.QueryRow(ctx, query, period).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check period lock %s: %w", period, err)
	}
	return exists, nil
}

// CreatePeriodLock closes an accounting period.
func (r *PgxPeriodLockRepository) CreatePeriodLock(ctx context.Context, lock domain.PeriodLock) error {
	query := `INSERT INTO period_locks (period, locked_by, locked_at) VALUES ($1, $2, $3);`
	if _, err := r.Pool.Exec(ctx, query, lock.Period, lock.LockedBy, lock.LockedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period %s is already locked", apperrors.ErrDuplicate, lock.Period)
		}
		return fmt.Errorf("failed to lock period %s: %w", lock.Period, err)
	}
	return nil
}

// DeletePeriodLock reopens an accounting period.
func (r *PgxPeriodLockRepository) DeletePeriodLock(ctx context.Context, period string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM period_locks WHERE period = $1;`, period)
	if err != nil {
		return fmt.Errorf("failed to unlock period %s: %w", period, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("period %s is not locked", period))
	}
	return nil
}

// ListPeriodLocks returns all closed periods, newest first.
func (r *PgxPeriodLockRepository) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	rows, err := r.Pool.Query(ctx, `SELECT period, locked_by, locked_at FROM period_locks ORDER BY period DESC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list period locks: %w", err)
	}
	defer rows.Close()

	var locks []domain.PeriodLock
	for rows.Next() {
		var lock domain.PeriodLock
		if err := rows.Scan(&lock.Period, &lock.LockedBy, &lock.LockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan period lock row: %w", err)
		}
		locks = append(locks, lock)
	}
	return locks, rows.Err()
}
