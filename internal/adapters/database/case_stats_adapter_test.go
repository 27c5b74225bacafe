package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/ratingbot/internal/adapters/database"
	apperrors "github.com/caseflow/ratingbot/pkg/errors"
)

func TestCaseStatsAdapter_IncrementStat(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCaseStatsAdapter(client)

	mock.ExpectExec(`INSERT INTO "case_stats" .* ON CONFLICT \(user_id, case_id, stat\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.IncrementStat(context.Background(), 42, "cardio-unit-1", "completed")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseStatsAdapter_IncrementStat_UnknownStat(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCaseStatsAdapter(client)

	err := adapter.IncrementStat(context.Background(), 42, "cardio-unit-1", "rage_quit")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseStatsAdapter_HasQualifyingHistory(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCaseStatsAdapter(client)

	mock.ExpectQuery(`SELECT 1 FROM "case_stats"`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	eligible, err := adapter.HasQualifyingHistory(context.Background(), 42)

	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestCaseStatsAdapter_HasQualifyingHistory_NoCompletedCases(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCaseStatsAdapter(client)

	mock.ExpectQuery(`SELECT 1 FROM "case_stats"`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	eligible, err := adapter.HasQualifyingHistory(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestCaseStatsAdapter_Unconfigured(t *testing.T) {
	adapter := database.NewCaseStatsAdapter(nil)
	ctx := context.Background()

	assert.NoError(t, adapter.IncrementStat(ctx, 42, "cardio-unit-1", "completed"))

	eligible, err := adapter.HasQualifyingHistory(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, eligible)
}
