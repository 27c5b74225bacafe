package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/ratingbot/internal/adapters/database"
	"github.com/caseflow/ratingbot/internal/domain/entities"
	"github.com/caseflow/ratingbot/internal/infrastructure/clients/postgres"
	apperrors "github.com/caseflow/ratingbot/pkg/errors"
)

var testQuestions = entities.QuestionSet{
	"overall_impression",
	"recommend_to_colleagues",
	"will_help_at_work",
}

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

func TestRatingAdapter_Upsert(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	mock.ExpectExec(`INSERT INTO "bot_ratings" .* ON CONFLICT \(user_id, question\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Upsert(context.Background(), 42, "overall_impression", 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_Upsert_UnknownQuestion(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	err := adapter.Upsert(context.Background(), 42, "favorite_color", 7)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	// No SQL must run for a rejected question.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_Upsert_OutOfRangeValue(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	for _, value := range []int{0, 11} {
		err := adapter.Upsert(context.Background(), 42, "overall_impression", value)

		require.Error(t, err, "value %d", value)
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_Get(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	mock.ExpectQuery(`SELECT "rating" FROM "bot_ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(7))

	value, err := adapter.Get(context.Background(), 42, "overall_impression")

	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, 7, *value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_Get_Absent(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	mock.ExpectQuery(`SELECT "rating" FROM "bot_ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))

	value, err := adapter.Get(context.Background(), 42, "overall_impression")

	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestRatingAdapter_GetAll(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	mock.ExpectQuery(`SELECT "question", "rating" FROM "bot_ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"question", "rating"}).
			AddRow("overall_impression", 7).
			AddRow("will_help_at_work", 3))

	answers, err := adapter.GetAll(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, map[entities.Question]int{
		"overall_impression": 7,
		"will_help_at_work":  3,
	}, answers)
}

func TestRatingAdapter_AppendComment(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewRatingAdapter(client, testQuestions)

	mock.ExpectExec(`INSERT INTO "rating_comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.AppendComment(context.Background(), 42, "great")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_UnconfiguredStorageDegrades(t *testing.T) {
	adapter := database.NewRatingAdapter(nil, testQuestions)
	ctx := context.Background()

	assert.NoError(t, adapter.Upsert(ctx, 42, "overall_impression", 7))
	assert.NoError(t, adapter.AppendComment(ctx, 42, "great"))

	value, err := adapter.Get(ctx, 42, "overall_impression")
	assert.NoError(t, err)
	assert.Nil(t, value)

	answers, err := adapter.GetAll(ctx, 42)
	assert.NoError(t, err)
	assert.Empty(t, answers)
}

func TestRatingAdapter_UnconfiguredStorageStillValidates(t *testing.T) {
	adapter := database.NewRatingAdapter(nil, testQuestions)

	err := adapter.Upsert(context.Background(), 42, "favorite_color", 7)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
