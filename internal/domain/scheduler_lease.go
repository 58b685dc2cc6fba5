package domain

import "time"

// SchedulerLease coordinates scheduled jobs across service instances: one row
// per task, updated in place forever. An instance owns a tick only if it wins
// the atomic conditional update advancing LastExecution past the staleness
// threshold.
type SchedulerLease struct {
	TaskID        string    `json:"task_id"`
	LastExecution time.Time `json:"last_execution"`
}
