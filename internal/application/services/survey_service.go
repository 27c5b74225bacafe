package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/caseflow/ratingbot/internal/domain/entities"
	"github.com/caseflow/ratingbot/internal/domain/providers"
	"github.com/caseflow/ratingbot/internal/domain/repositories"
	"github.com/caseflow/ratingbot/internal/infrastructure/observability"
	"github.com/caseflow/ratingbot/pkg/callback"
)

// SurveyService runs the rating survey flow: a fixed ordered set of 1..10
// questions followed by an optional free-text comment. The flow is
// stateless between interactions; the current question is always re-derived
// from stored answers, so a user can drop out and resume at any point, and
// a rapid double submission only rewrites the same (user, question) row.
//
// Storage write failures are logged and swallowed on both the answer and
// the comment path: the conversation keeps moving and the loss is only
// diagnostic. The eligibility gate is the opposite — any gate failure reads
// as "not eligible".
type SurveyService struct {
	questions entities.QuestionSet
	ratings   repositories.RatingRepository
	gate      providers.EligibilityProvider
	sessions  providers.SessionProvider
	invites   repositories.InviteRepository
	metrics   *observability.Metrics
}

// NewSurveyService creates a new survey service for the given ordered
// question set. Metrics may be nil.
func NewSurveyService(
	questions entities.QuestionSet,
	ratings repositories.RatingRepository,
	gate providers.EligibilityProvider,
	sessions providers.SessionProvider,
	invites repositories.InviteRepository,
	metrics *observability.Metrics,
) *SurveyService {
	return &SurveyService{
		questions: questions,
		ratings:   ratings,
		gate:      gate,
		sessions:  sessions,
		invites:   invites,
		metrics:   metrics,
	}
}

// Open starts (or resumes) the survey. Entry is gated on qualifying
// history; a gate error denies entry the same as an explicit no, and the
// denial path never touches storage.
func (s *SurveyService) Open(ctx context.Context, userID int64) *entities.RenderIntent {
	allowed, err := s.gate.HasQualifyingHistory(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("user_id", userID).
			Msg("eligibility check failed, denying survey entry")
		allowed = false
	}
	if !allowed {
		return &entities.RenderIntent{Text: deniedText, Replace: true}
	}
	return s.promptCurrent(ctx, userID)
}

// SubmitRating records one answer and moves the conversation forward. The
// submitted question does not have to be the currently expected one:
// out-of-order and repeated submissions simply update that question's row,
// and the next prompt is recomputed from what is stored.
func (s *SurveyService) SubmitRating(ctx context.Context, userID int64, question entities.Question, value int) *entities.RenderIntent {
	if !s.questions.Contains(question) || !entities.ValidRating(value) {
		return entities.Notice(invalidValueText)
	}

	logger := observability.LoggerFromContext(ctx)
	if err := s.ratings.Upsert(ctx, userID, question, value); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Str("question", string(question)).
			Msg("failed to store rating, continuing flow")
	} else if s.metrics != nil {
		s.metrics.SurveyAnswers.Add(ctx, 1)
	}

	answers, err := s.ratings.GetAll(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load stored answers")
		answers = make(map[entities.Question]int)
	}
	// The write above may be degraded or racing; count it as answered
	// either way so the flow cannot re-ask the question just submitted.
	answers[question] = value

	next, ok := s.questions.FirstUnanswered(answers)
	if ok {
		return s.prompt(next, false, answers)
	}

	if err := s.sessions.SetAwaitingComment(ctx, userID); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to set comment marker")
	}
	return &entities.RenderIntent{Text: commentPromptText, Controls: commentControls()}
}

// SubmitComment stores a free-text comment and finishes the survey. Empty
// text re-prompts without clearing the marker.
func (s *SurveyService) SubmitComment(ctx context.Context, userID int64, text string) *entities.RenderIntent {
	logger := observability.LoggerFromContext(ctx)

	comment := strings.TrimSpace(text)
	if comment == "" {
		return &entities.RenderIntent{Text: commentRetryText, Controls: commentControls()}
	}

	if err := s.ratings.AppendComment(ctx, userID, comment); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).
			Msg("failed to store comment, continuing flow")
	} else if s.metrics != nil {
		s.metrics.SurveyComments.Add(ctx, 1)
	}

	if err := s.sessions.ClearAwaitingComment(ctx, userID); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear comment marker")
	}
	return &entities.RenderIntent{Text: commentSavedText}
}

// Skip finishes the survey without a comment. Nothing is persisted.
func (s *SurveyService) Skip(ctx context.Context, userID int64) *entities.RenderIntent {
	if err := s.sessions.ClearAwaitingComment(ctx, userID); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Int64("user_id", userID).
			Msg("failed to clear comment marker")
	}
	return &entities.RenderIntent{Text: thanksText}
}

// HandleCallback decodes one callback command and dispatches it. Commands
// with a foreign prefix return nil so the caller can route them elsewhere;
// malformed rate commands yield a transient notice.
func (s *SurveyService) HandleCallback(ctx context.Context, userID int64, data string) *entities.RenderIntent {
	prefix, payload := callback.Decode(data)
	if prefix != RatePrefix {
		return nil
	}

	switch payload[actionKey] {
	case actionOpen:
		return s.Open(ctx, userID)
	case actionSet:
		value, err := strconv.Atoi(payload[valueKey])
		if err != nil {
			return entities.Notice(invalidValueText)
		}
		return s.SubmitRating(ctx, userID, entities.Question(payload[questionKey]), value)
	case actionSkip:
		return s.Skip(ctx, userID)
	default:
		return entities.Notice(invalidActionText)
	}
}

// HandleMessage routes free text into the flow. It reports false when the
// user is not awaiting a comment, so the caller can fall through to its
// other message handlers.
func (s *SurveyService) HandleMessage(ctx context.Context, userID int64, text string) (*entities.RenderIntent, bool) {
	active, err := s.sessions.AwaitingComment(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("user_id", userID).
			Msg("failed to read comment marker")
		return nil, false
	}
	if !active {
		return nil, false
	}
	return s.SubmitComment(ctx, userID, text), true
}

// InviteOnce returns the survey invitation for the first call per user and
// nil afterwards. The lock lives in storage, so the invitation also fires
// at most once across process restarts.
func (s *SurveyService) InviteOnce(ctx context.Context, userID int64) *entities.RenderIntent {
	acquired, err := s.invites.Acquire(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Int64("user_id", userID).
			Msg("failed to acquire invite lock")
		return nil
	}
	if !acquired {
		return nil
	}
	return &entities.RenderIntent{Text: invitationText, Controls: invitationControls()}
}

// promptCurrent renders the first question lacking a stored answer. When
// every question is answered the first question is shown again with its
// stored value, letting a returning user revise answers.
func (s *SurveyService) promptCurrent(ctx context.Context, userID int64) *entities.RenderIntent {
	answers, err := s.ratings.GetAll(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Int64("user_id", userID).
			Msg("failed to load stored answers")
		answers = make(map[entities.Question]int)
	}

	question, ok := s.questions.FirstUnanswered(answers)
	if !ok {
		question = s.questions[0]
	}
	return s.prompt(question, true, answers)
}

func (s *SurveyService) prompt(question entities.Question, withIntro bool, answers map[entities.Question]int) *entities.RenderIntent {
	var previous *int
	if value, ok := answers[question]; ok {
		previous = &value
	}
	return questionPrompt(question, withIntro, previous)
}
