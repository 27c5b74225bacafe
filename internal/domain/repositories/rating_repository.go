package repositories

import (
	"context"

	"github.com/caseflow/ratingbot/internal/domain/entities"
)

// RatingRepository defines the interface for survey answer persistence.
type RatingRepository interface {
	// Upsert stores the value for (userID, question), replacing any
	// previous answer and refreshing its timestamp.
	Upsert(ctx context.Context, userID int64, question entities.Question, value int) error

	// Get returns the stored value for one question, or nil when absent.
	Get(ctx context.Context, userID int64, question entities.Question) (*int, error)

	// GetAll returns every stored answer for the user, keyed by question.
	GetAll(ctx context.Context, userID int64) (map[entities.Question]int, error)

	// AppendComment inserts a new free-text comment row.
	AppendComment(ctx context.Context, userID int64, comment string) error
}
