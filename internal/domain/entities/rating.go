package entities

import "time"

// Question identifies one survey question.
type Question string

// QuestionSet is the ordered set of survey questions. Order is significant:
// it drives which question a user is prompted with next.
type QuestionSet []Question

// Contains reports whether q is a member of the set.
func (s QuestionSet) Contains(q Question) bool {
	for _, question := range s {
		if question == q {
			return true
		}
	}
	return false
}

// FirstUnanswered returns the first question in order with no stored answer,
// or false when every question has one.
func (s QuestionSet) FirstUnanswered(answers map[Question]int) (Question, bool) {
	for _, question := range s {
		if _, ok := answers[question]; !ok {
			return question, true
		}
	}
	return "", false
}

// Rating bounds for a valid answer.
const (
	MinRating = 1
	MaxRating = 10
)

// ValidRating reports whether value is inside the accepted scale.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// Rating is one user's answer to one survey question. There is at most one
// row per (user, question); resubmission overwrites the value in place.
type Rating struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	Question  Question  `json:"question" db:"question"`
	Value     int       `json:"value" db:"rating"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RatingComment is a free-text remark left after the survey. Comments are
// append-only; a user may leave any number of them.
type RatingComment struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
