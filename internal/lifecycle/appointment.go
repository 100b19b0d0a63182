package lifecycle

import (
	"strings"
	"time"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/models"
)

// DefaultTimeSlot is applied when a schedule request omits the slot.
const DefaultTimeSlot = "9:00 AM - 11:00 AM"

// TimeSlots are the bookable visit windows, in display order.
var TimeSlots = []string{
	DefaultTimeSlot,
	"11:00 AM - 1:00 PM",
	"1:00 PM - 3:00 PM",
	"3:00 PM - 5:00 PM",
}

const (
	ErrPropertyNotOwned    = "property not found or does not belong to user"
	ErrAppointmentNotFound = "appointment not found"
)

var (
	RescheduleAppointment = Rule[models.AppointmentStatus]{
		Name:    "reschedule",
		From:    models.AppointmentScheduled,
		To:      models.AppointmentScheduled,
		Refusal: "only scheduled appointments can be rescheduled",
	}
	CancelAppointment = Rule[models.AppointmentStatus]{
		Name:    "cancel",
		From:    models.AppointmentScheduled,
		To:      models.AppointmentCancelled,
		Refusal: "only scheduled appointments can be cancelled",
	}
	CompleteAppointment = Rule[models.AppointmentStatus]{
		Name:    "complete",
		From:    models.AppointmentScheduled,
		To:      models.AppointmentCompleted,
		Refusal: "only scheduled appointments can be completed",
	}
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns
// midnight UTC of that calendar day.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperr.Required(field)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperr.Validation(field)
}

// NormalizeTimeSlot returns the default slot for an empty value and rejects
// anything outside TimeSlots. Spaces around the dash and en-dashes are tolerated.
func NormalizeTimeSlot(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTimeSlot, nil
	}
	canonical := canonicalSlot(value)
	for _, slot := range TimeSlots {
		if canonicalSlot(slot) == canonical {
			return slot, nil
		}
	}
	return "", apperr.Validation(field)
}

func canonicalSlot(s string) string {
	s = strings.ReplaceAll(s, "–", "-")
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " - ")), " ")
}

// AppointmentViews are the dashboard projections over a user's appointments.
type AppointmentViews struct {
	Upcoming []models.Appointment `json:"upcoming"`
	History  []models.Appointment `json:"history"`
	Next     *models.Appointment  `json:"next"`
}

// Project splits appointments into upcoming (scheduled) and history
// (completed). Entries whose property did not resolve are left out of both.
// Next is the first upcoming entry in list order; no date sort is applied.
func Project(appts []models.Appointment) AppointmentViews {
	views := AppointmentViews{
		Upcoming: []models.Appointment{},
		History:  []models.Appointment{},
	}
	for _, a := range appts {
		if a.Property == nil {
			continue
		}
		switch a.Status {
		case models.AppointmentScheduled:
			views.Upcoming = append(views.Upcoming, a)
		case models.AppointmentCompleted:
			views.History = append(views.History, a)
		}
	}
	if len(views.Upcoming) > 0 {
		views.Next = &views.Upcoming[0]
	}
	return views
}
