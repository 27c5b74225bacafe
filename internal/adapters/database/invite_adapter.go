package database

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/caseflow/ratingbot/internal/domain/repositories"
	"github.com/caseflow/ratingbot/internal/infrastructure/clients/postgres"
	apperrors "github.com/caseflow/ratingbot/pkg/errors"
)

const uniqueViolation = "23505"

// InviteAdapter implements the one-shot survey invitation lock in Postgres.
// The rating_invites table is keyed by user_id alone; inserting the row is
// the lock acquisition, so concurrent acquisitions resolve atomically in
// the database.
type InviteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInviteAdapter creates a new invite adapter.
func NewInviteAdapter(client *postgres.Client) repositories.InviteRepository {
	a := &InviteAdapter{client: client}
	if client.Configured() {
		a.db = goqu.New("postgres", client.DB())
	}
	return a
}

// Acquire returns true only for the first call per user. Without a
// configured database nobody is invited.
func (a *InviteAdapter) Acquire(ctx context.Context, userID int64) (bool, error) {
	if !a.client.Configured() {
		return false, nil
	}

	query, args, err := a.db.Insert("rating_invites").
		Rows(goqu.Record{"user_id": userID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build invite insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return false, nil
		}
		return false, apperrors.NewInternalError("failed to acquire invite lock", err)
	}
	return true, nil
}
