// Package lifecycle holds the status rules for subscriptions and appointments
// and the pure selection helpers that views derive from stored rows.
package lifecycle

import (
	"github.com/coolair/coolair-backend/internal/apperr"
)

// Rule is a single permitted status transition. A transition applies only
// when the entity currently holds From.
type Rule[S ~string] struct {
	Name    string
	From    S
	To      S
	Refusal string
}

// Check returns an InvalidState error when current is not the precondition status.
func (r Rule[S]) Check(current S) error {
	if current != r.From {
		return apperr.InvalidState(r.Refusal)
	}
	return nil
}
