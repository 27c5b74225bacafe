package providers

import "context"

// EligibilityProvider decides whether a user may enter the rating survey.
type EligibilityProvider interface {
	// HasQualifyingHistory reports whether the user completed at least one
	// qualifying activity. Callers must treat an error as "not eligible".
	HasQualifyingHistory(ctx context.Context, userID int64) (bool, error)
}
