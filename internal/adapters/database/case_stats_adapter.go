package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/caseflow/ratingbot/internal/infrastructure/clients/postgres"
	apperrors "github.com/caseflow/ratingbot/pkg/errors"
)

// Counters the case engine may report.
var validCaseStats = map[string]bool{
	"started":       true,
	"completed":     true,
	"out_of_moves":  true,
	"auto_finished": true,
}

// CaseStatsAdapter implements case counter persistence in Postgres. It also
// backs the survey eligibility gate: a user qualifies once any case reached
// the completed counter.
type CaseStatsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCaseStatsAdapter creates a new case stats adapter. The concrete type
// satisfies both repositories.CaseStatsRepository and the survey flow's
// providers.EligibilityProvider.
func NewCaseStatsAdapter(client *postgres.Client) *CaseStatsAdapter {
	a := &CaseStatsAdapter{client: client}
	if client.Configured() {
		a.db = goqu.New("postgres", client.DB())
	}
	return a
}

// HasQualifyingHistory implements the survey eligibility gate.
func (a *CaseStatsAdapter) HasQualifyingHistory(ctx context.Context, userID int64) (bool, error) {
	return a.HasCompletedCase(ctx, userID)
}

// IncrementStat bumps the counter for (userID, caseID, stat).
func (a *CaseStatsAdapter) IncrementStat(ctx context.Context, userID int64, caseID, stat string) error {
	if !validCaseStats[stat] {
		return apperrors.NewValidationError("unknown case stat")
	}
	if !a.client.Configured() {
		return nil
	}

	record := goqu.Record{
		"user_id": userID,
		"case_id": caseID,
		"stat":    stat,
		"cnt":     1,
	}

	query, args, err := a.db.Insert("case_stats").
		Rows(record).
		OnConflict(goqu.DoUpdate(
			"user_id, case_id, stat",
			goqu.Record{"cnt": goqu.L("case_stats.cnt + 1"), "updated_at": goqu.L("now()")},
		)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build case stat upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to increment case stat", err)
	}
	return nil
}

// HasCompletedCase reports whether the user finished at least one case.
// Without a configured database nobody qualifies.
func (a *CaseStatsAdapter) HasCompletedCase(ctx context.Context, userID int64) (bool, error) {
	if !a.client.Configured() {
		return false, nil
	}

	query, args, err := a.db.Select(goqu.L("1")).
		From("case_stats").
		Where(goqu.Ex{"user_id": userID, "stat": "completed"}).
		Where(goqu.C("cnt").Gt(0)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build case stat query", err)
	}

	var one int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check completed cases", err)
	}
	return true, nil
}
