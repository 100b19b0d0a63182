package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/metrics"
	"github.com/coolair/coolair-backend/internal/models"
)

const msgPlanNotFound = "plan not found"

// SubscriptionService creates and transitions plan subscriptions.
// Status changes are single conditional updates on (id, user, status).
type SubscriptionService struct {
	db     *gorm.DB
	events events.Publisher
	now    func() time.Time
}

func NewSubscriptionService(db *gorm.DB, pub events.Publisher) *SubscriptionService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &SubscriptionService{db: db, events: pub, now: utcNow}
}

// Subscribe starts a one-year subscription to planID. Existing active
// subscriptions are left alone.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, planID uint) (sub *models.Subscription, err error) {
	defer func() { metrics.RecordTransition("subscription", "create", err) }()

	if planID == 0 {
		return nil, apperr.Required("planId")
	}
	db := s.db.WithContext(ctx)

	var plan models.Plan
	if err := db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgPlanNotFound)
		}
		return nil, apperr.Storage("failed to load plan", err)
	}

	start := s.now()
	sub = &models.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   lifecycle.SubscriptionEnd(start),
		Status:    models.SubscriptionActive,
	}
	if err := db.Create(sub).Error; err != nil {
		return nil, apperr.Storage("failed to create subscription", err)
	}
	sub.Plan = &plan

	publish(ctx, s.events, events.New(events.SubscriptionCreated, userID, sub.ID, map[string]any{
		"planId":  plan.ID,
		"endDate": sub.EndDate,
	}))
	return sub, nil
}

// List returns the user's subscriptions with their plans, oldest first.
// Rows sharing a created_at fall back to id order.
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, apperr.Storage("failed to list subscriptions", err)
	}
	return subs, nil
}

// Cancel moves an owned active subscription to cancelled. Dates are kept.
// Missing, foreign and inactive subscriptions get the same error.
func (s *SubscriptionService) Cancel(ctx context.Context, id, userID uuid.UUID) (sub *models.Subscription, err error) {
	rule := lifecycle.CancelSubscription
	defer func() { metrics.RecordTransition("subscription", rule.Name, err) }()

	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, rule.From).
		Update("status", rule.To)
	if res.Error != nil {
		return nil, apperr.Storage("failed to cancel subscription", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState(rule.Refusal)
	}

	sub, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.SubscriptionCancelled, userID, id, nil))
	return sub, nil
}

// Expire moves an active subscription to expired. Operator use only.
func (s *SubscriptionService) Expire(ctx context.Context, id uuid.UUID) (sub *models.Subscription, err error) {
	rule := lifecycle.ExpireSubscription
	defer func() { metrics.RecordTransition("subscription", rule.Name, err) }()

	res := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, rule.From).
		Update("status", rule.To)
	if res.Error != nil {
		return nil, apperr.Storage("failed to expire subscription", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState(rule.Refusal)
	}

	sub, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.SubscriptionExpired, sub.UserID, id, nil))
	return sub, nil
}

// Overdue lists active subscriptions whose end date is before now.
// It reports only; nothing is changed.
func (s *SubscriptionService) Overdue(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("status = ? AND end_date < ?", models.SubscriptionActive, now.UTC()).
		Order("end_date ASC, id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, apperr.Storage("failed to list overdue subscriptions", err)
	}
	return subs, nil
}

func (s *SubscriptionService) load(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Preload("Plan").First(&sub, "id = ?", id).Error; err != nil {
		return nil, apperr.Storage("failed to load subscription", err)
	}
	return &sub, nil
}
