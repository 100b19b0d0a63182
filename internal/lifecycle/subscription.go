package lifecycle

import (
	"time"

	"github.com/coolair/coolair-backend/internal/models"
)

const ErrSubscriptionNotActive = "subscription not found or not active"

var (
	CancelSubscription = Rule[models.SubscriptionStatus]{
		Name:    "cancel",
		From:    models.SubscriptionActive,
		To:      models.SubscriptionCancelled,
		Refusal: ErrSubscriptionNotActive,
	}
	ExpireSubscription = Rule[models.SubscriptionStatus]{
		Name:    "expire",
		From:    models.SubscriptionActive,
		To:      models.SubscriptionExpired,
		Refusal: ErrSubscriptionNotActive,
	}
)

// SubscriptionEnd is the fixed one-calendar-year term from start.
func SubscriptionEnd(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

// ResolveCurrent picks the subscription a view treats as the user's plan:
// the first active one, otherwise the first in the list, otherwise nil.
func ResolveCurrent(subs []models.Subscription) *models.Subscription {
	for i := range subs {
		if subs[i].Status == models.SubscriptionActive {
			return &subs[i]
		}
	}
	if len(subs) > 0 {
		return &subs[0]
	}
	return nil
}

// Overdue reports whether an active subscription has passed its end date.
// Nothing acts on this automatically.
func Overdue(sub models.Subscription, now time.Time) bool {
	return sub.Status == models.SubscriptionActive && now.After(sub.EndDate)
}
