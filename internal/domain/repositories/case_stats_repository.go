package repositories

import "context"

// CaseStatsRepository tracks per-user training case counters. The counters
// are fed by the case engine and consulted by the survey eligibility gate.
type CaseStatsRepository interface {
	// IncrementStat bumps the counter for (userID, caseID, stat).
	IncrementStat(ctx context.Context, userID int64, caseID, stat string) error

	// HasCompletedCase reports whether the user finished at least one case.
	HasCompletedCase(ctx context.Context, userID int64) (bool, error)
}
