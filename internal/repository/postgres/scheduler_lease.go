package postgres

import (
	"context"
	"database/sql"
	"time"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/repository"
)

type schedulerLeaseRepository struct {
	q queryer
}

func NewSchedulerLeaseRepository(db *sql.DB) repository.SchedulerLeaseRepository {
	return &schedulerLeaseRepository{q: db}
}

// TryAcquire claims a tick with a single conditional upsert: the update only
// lands if the stored timestamp is at least minInterval old, so across all
// instances at most one Exec reports an affected row per interval.
func (r *schedulerLeaseRepository) TryAcquire(ctx context.Context, taskID string, minInterval time.Duration) (bool, error) {
	query := `INSERT INTO scheduler_leases (task_id, last_execution)
	          VALUES ($1, NOW())
	          ON CONFLICT (task_id) DO UPDATE SET last_execution = NOW()
	          WHERE scheduler_leases.last_execution <= NOW() - make_interval(secs => $2)`
	result, err := r.q.ExecContext(ctx, query, taskID, minInterval.Seconds())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *schedulerLeaseRepository) Get(ctx context.Context, taskID string) (*domain.SchedulerLease, error) {
	lease := &domain.SchedulerLease{}
	query := `SELECT task_id, last_execution FROM scheduler_leases WHERE task_id = $1`
	err := r.q.QueryRowContext(ctx, query, taskID).Scan(&lease.TaskID, &lease.LastExecution)
	if err != nil {
		return nil, err
	}
	return lease, nil
}
