package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoValidAnswers is returned when a submission contains no letters A..E.
	ErrNoValidAnswers = errors.New("no valid answers in submission")
	// ErrMalformedSubmission is returned when raw text does not match the
	// expected submission format at all.
	ErrMalformedSubmission = errors.New("malformed submission")
	// ErrTestNotFound indicates the referenced test or homework id does not exist.
	ErrTestNotFound = errors.New("test not found")
	// ErrDuplicateSubmission is returned for a repeat homework attempt; the
	// original attempt is preserved.
	ErrDuplicateSubmission = errors.New("homework already submitted")
	// ErrQuizNotFound indicates the quiz id does not exist or is inactive.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizExpired is returned when a quiz answer arrives after the
	// validity window has elapsed.
	ErrQuizExpired = errors.New("quiz expired")
	// ErrQuizAlreadyAnswered rejects a second answer for the same (user, quiz) pair.
	ErrQuizAlreadyAnswered = errors.New("quiz already answered")
	// ErrNameChangeLimit is returned after the third name change.
	ErrNameChangeLimit = errors.New("name change limit reached")
	// ErrPaymentNotFound indicates the payment id does not exist.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrNoActiveCard is returned when no payment card is configured.
	ErrNoActiveCard = errors.New("no active payment card")
)

// IncompleteAnswerSetError reports a numbered submission that does not
// cover every required position.
type IncompleteAnswerSetError struct {
	Required int
	Missing  []int
}

func (e *IncompleteAnswerSetError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, p := range e.Missing {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("incomplete answer set: missing positions %s of %d", strings.Join(parts, ","), e.Required)
}
