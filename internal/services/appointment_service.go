package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/metrics"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/validation"
)

// AppointmentService schedules service visits and moves them through
// scheduled, cancelled and completed.
type AppointmentService struct {
	db     *gorm.DB
	events events.Publisher
	now    func() time.Time
}

func NewAppointmentService(db *gorm.DB, pub events.Publisher) *AppointmentService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AppointmentService{db: db, events: pub, now: utcNow}
}

// Schedule books a visit at a property owned by userID.
func (s *AppointmentService) Schedule(ctx context.Context, userID uuid.UUID, req *dto.CreateAppointmentRequest) (appt *models.Appointment, err error) {
	defer func() { metrics.RecordTransition("appointment", "schedule", err) }()

	var missing []string
	if strings.TrimSpace(req.PropertyID) == "" {
		missing = append(missing, "propertyId")
	}
	if strings.TrimSpace(req.AppointmentDate) == "" {
		missing = append(missing, "appointmentDate")
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		missing = append(missing, "serviceType")
	}
	switch len(missing) {
	case 0:
	case 1:
		return nil, apperr.Required(missing[0])
	default:
		return nil, apperr.Validation(missing...)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	propertyID, err := uuid.Parse(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, apperr.Validation("propertyId")
	}
	date, err := lifecycle.ParseDate("appointmentDate", req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	serviceType := models.ServiceType(strings.ToLower(strings.TrimSpace(req.ServiceType)))
	if !serviceType.Valid() {
		return nil, apperr.Validation("serviceType")
	}
	slot, err := lifecycle.NormalizeTimeSlot("timeSlot", req.TimeSlot)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var property models.Property
	err = db.Where("id = ? AND user_id = ?", propertyID, userID).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(lifecycle.ErrPropertyNotOwned)
	}
	if err != nil {
		return nil, apperr.Storage("failed to load property", err)
	}

	appt = &models.Appointment{
		UserID:          userID,
		PropertyID:      property.ID,
		AppointmentDate: datatypes.Date(date),
		TimeSlot:        slot,
		ServiceType:     serviceType,
		Status:          models.AppointmentScheduled,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if err := db.Create(appt).Error; err != nil {
		return nil, apperr.Storage("failed to create appointment", err)
	}
	appt.Property = &property

	publish(ctx, s.events, events.New(events.AppointmentScheduled, userID, appt.ID, map[string]any{
		"propertyId":      property.ID,
		"appointmentDate": date.Format("2006-01-02"),
		"timeSlot":        slot,
		"serviceType":     serviceType,
	}))
	return appt, nil
}

// Reschedule moves an owned scheduled appointment to a new date, and to a
// new slot when one is given.
func (s *AppointmentService) Reschedule(ctx context.Context, id, userID uuid.UUID, req *dto.RescheduleAppointmentRequest) (appt *models.Appointment, err error) {
	rule := lifecycle.RescheduleAppointment
	defer func() { metrics.RecordTransition("appointment", rule.Name, err) }()

	date, err := lifecycle.ParseDate("appointmentDate", req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"appointment_date": datatypes.Date(date),
	}
	if strings.TrimSpace(req.TimeSlot) != "" {
		slot, err := lifecycle.NormalizeTimeSlot("timeSlot", req.TimeSlot)
		if err != nil {
			return nil, err
		}
		updates["time_slot"] = slot
	}

	if err := s.transition(ctx, id, &userID, rule, updates); err != nil {
		return nil, err
	}
	appt, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.AppointmentRescheduled, userID, id, map[string]any{
		"appointmentDate": date.Format("2006-01-02"),
		"timeSlot":        appt.TimeSlot,
	}))
	return appt, nil
}

// Cancel moves an owned scheduled appointment to cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id, userID uuid.UUID) (appt *models.Appointment, err error) {
	rule := lifecycle.CancelAppointment
	defer func() { metrics.RecordTransition("appointment", rule.Name, err) }()

	if err := s.transition(ctx, id, &userID, rule, map[string]interface{}{
		"status":       rule.To,
		"cancelled_at": s.now(),
	}); err != nil {
		return nil, err
	}
	appt, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.AppointmentCancelled, userID, id, nil))
	return appt, nil
}

// Complete marks a scheduled visit as done. Operator use only.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID) (appt *models.Appointment, err error) {
	rule := lifecycle.CompleteAppointment
	defer func() { metrics.RecordTransition("appointment", rule.Name, err) }()

	if err := s.transition(ctx, id, nil, rule, map[string]interface{}{
		"status":       rule.To,
		"completed_at": s.now(),
	}); err != nil {
		return nil, err
	}
	appt, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.AppointmentCompleted, appt.UserID, id, nil))
	return appt, nil
}

// ListByUser returns the user's appointments with their properties, in
// insertion order, with id breaking created_at ties. A property that no
// longer resolves is left nil.
func (s *AppointmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	err := s.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&appts).Error
	if err != nil {
		return nil, apperr.Storage("failed to list appointments", err)
	}
	return appts, nil
}

// transition applies updates only while the row is in rule.From, scoped to
// the owner when userID is set. When nothing matched it tells a missing or
// foreign appointment apart from one in the wrong state.
func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, userID *uuid.UUID, rule lifecycle.Rule[models.AppointmentStatus], updates map[string]interface{}) error {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Appointment{}).Where("id = ? AND status = ?", id, rule.From)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return apperr.Storage("failed to update appointment", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var current models.Appointment
	q = db.Select("id", "status").Where("id = ?", id)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	err := q.First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(lifecycle.ErrAppointmentNotFound)
	}
	if err != nil {
		return apperr.Storage("failed to load appointment", err)
	}
	if err := rule.Check(current.Status); err != nil {
		return err
	}
	// Status matched on re-read, so the row changed between the two queries.
	return apperr.InvalidState(rule.Refusal)
}

func (s *AppointmentService) load(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).Preload("Property").First(&appt, "id = ?", id).Error; err != nil {
		return nil, apperr.Storage("failed to load appointment", err)
	}
	return &appt, nil
}
