package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/caseflow/ratingbot/internal/domain/entities"
	"github.com/caseflow/ratingbot/internal/domain/repositories"
	"github.com/caseflow/ratingbot/internal/infrastructure/clients/postgres"
	apperrors "github.com/caseflow/ratingbot/pkg/errors"
)

// RatingAdapter implements survey answer and comment persistence in
// Postgres. With an unconfigured client every read degrades to absent/empty
// and every write to a no-op, so the flow can run without a database.
type RatingAdapter struct {
	client    *postgres.Client
	db        *goqu.Database
	questions entities.QuestionSet
}

// NewRatingAdapter creates a new rating adapter bound to the question set
// it accepts answers for.
func NewRatingAdapter(client *postgres.Client, questions entities.QuestionSet) repositories.RatingRepository {
	a := &RatingAdapter{
		client:    client,
		questions: questions,
	}
	if client.Configured() {
		a.db = goqu.New("postgres", client.DB())
	}
	return a
}

// Upsert stores the value for (userID, question), replacing any previous
// answer for the same key.
func (a *RatingAdapter) Upsert(ctx context.Context, userID int64, question entities.Question, value int) error {
	if !a.questions.Contains(question) {
		return apperrors.NewValidationError("unknown rating question")
	}
	if !entities.ValidRating(value) {
		return apperrors.NewValidationError("rating value out of range")
	}
	if !a.client.Configured() {
		return nil
	}

	rating := entities.Rating{
		UserID:    userID,
		Question:  question,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	record := goqu.Record{
		"user_id":    rating.UserID,
		"question":   string(rating.Question),
		"rating":     rating.Value,
		"updated_at": rating.UpdatedAt,
	}

	query, args, err := a.db.Insert("bot_ratings").
		Rows(record).
		OnConflict(goqu.DoUpdate(
			"user_id, question",
			goqu.Record{"rating": rating.Value, "updated_at": rating.UpdatedAt},
		)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert rating", err)
	}
	return nil
}

// Get returns the stored value for one question, or nil when absent.
func (a *RatingAdapter) Get(ctx context.Context, userID int64, question entities.Question) (*int, error) {
	if !a.client.Configured() {
		return nil, nil
	}

	query, args, err := a.db.Select("rating").
		From("bot_ratings").
		Where(goqu.Ex{"user_id": userID, "question": string(question)}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating query", err)
	}

	var value int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rating", err)
	}
	return &value, nil
}

// GetAll returns every stored answer for the user, keyed by question.
func (a *RatingAdapter) GetAll(ctx context.Context, userID int64) (map[entities.Question]int, error) {
	answers := make(map[entities.Question]int)
	if !a.client.Configured() {
		return answers, nil
	}

	query, args, err := a.db.Select("question", "rating").
		From("bot_ratings").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ratings query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var question string
		var value int
		if err := rows.Scan(&question, &value); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating row", err)
		}
		answers[entities.Question(question)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate rating rows", err)
	}
	return answers, nil
}

// AppendComment inserts a new comment row. Comments are never deduplicated
// or overwritten.
func (a *RatingAdapter) AppendComment(ctx context.Context, userID int64, comment string) error {
	if !a.client.Configured() {
		return nil
	}

	row := entities.RatingComment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	record := goqu.Record{
		"id":         row.ID,
		"user_id":    row.UserID,
		"comment":    row.Comment,
		"created_at": row.CreatedAt,
	}

	query, args, err := a.db.Insert("rating_comments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build comment insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert comment", err)
	}
	return nil
}
