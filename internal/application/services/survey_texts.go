package services

import (
	"fmt"
	"strconv"

	"github.com/caseflow/ratingbot/internal/domain/entities"
	"github.com/caseflow/ratingbot/pkg/callback"
)

// RatePrefix tags every callback command owned by the survey flow.
const RatePrefix = "rate"

// Callback payload keys and actions.
const (
	actionKey   = "a"
	questionKey = "q"
	valueKey    = "v"

	actionOpen = "open"
	actionSet  = "set"
	actionSkip = "skip"
)

// DefaultQuestions is the production survey: three questions, fixed order.
func DefaultQuestions() entities.QuestionSet {
	return entities.QuestionSet{
		"overall_impression",
		"recommend_to_colleagues",
		"will_help_at_work",
	}
}

var questionTexts = map[entities.Question]string{
	"overall_impression":      "How would you rate your overall impression of the bot?",
	"recommend_to_colleagues": "How likely are you to recommend the bot to colleagues?",
	"will_help_at_work":       "How useful will the bot be in your day-to-day work?",
}

const (
	introText         = "Please answer three short questions. You can change any answer later from the main menu."
	invitationText    = "You finished your first case — we would love to hear what you think."
	deniedText        = "The survey unlocks after you complete at least one case. Start any case from the menu."
	commentPromptText = "One last thing: leave a short comment about the bot, or press Skip."
	commentRetryText  = "Please send a text comment, or press Skip."
	commentSavedText  = "Thanks, your comment has been saved!"
	thanksText        = "Thanks for your feedback!"
	invalidValueText  = "Invalid value"
	invalidActionText = "This button is no longer valid"
	previousAnswerFmt = "Your previous answer: %d"
)

func questionText(q entities.Question) string {
	if text, ok := questionTexts[q]; ok {
		return text
	}
	return string(q)
}

// scaleControls builds the 1..10 answer keyboard for one question, two rows
// of five. Every command stays well inside the transport's byte budget.
func scaleControls(q entities.Question) [][]entities.Control {
	buttons := make([]entities.Control, 0, entities.MaxRating)
	for v := entities.MinRating; v <= entities.MaxRating; v++ {
		buttons = append(buttons, entities.Control{
			Label: strconv.Itoa(v),
			Data: callback.Encode(RatePrefix, map[string]string{
				actionKey:   actionSet,
				questionKey: string(q),
				valueKey:    strconv.Itoa(v),
			}),
		})
	}
	return [][]entities.Control{buttons[:5], buttons[5:]}
}

// commentControls builds the skip row shown with the comment prompt.
func commentControls() [][]entities.Control {
	return [][]entities.Control{{
		{
			Label: "Skip",
			Data:  callback.Encode(RatePrefix, map[string]string{actionKey: actionSkip}),
		},
	}}
}

// invitationControls builds the start-survey button on the invitation.
func invitationControls() [][]entities.Control {
	return [][]entities.Control{{
		{
			Label: "Rate the bot ⭐",
			Data:  callback.Encode(RatePrefix, map[string]string{actionKey: actionOpen}),
		},
	}}
}

// questionPrompt renders one question, optionally preceded by the survey
// intro and followed by the user's previously stored value.
func questionPrompt(q entities.Question, withIntro bool, previous *int) *entities.RenderIntent {
	text := questionText(q)
	if withIntro {
		text = introText + "\n\n" + text
	}
	if previous != nil {
		text += "\n\n" + fmt.Sprintf(previousAnswerFmt, *previous)
	}
	return &entities.RenderIntent{
		Text:     text,
		Controls: scaleControls(q),
		Replace:  withIntro,
	}
}
