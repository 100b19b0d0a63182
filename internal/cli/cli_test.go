package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/services"
	"github.com/coolair/coolair-backend/internal/testutil"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	closed := false
	root := NewRootCmd(func() (*Backend, error) {
		return &Backend{DB: db, Close: func() { closed = true }}, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		assert.True(t, closed)
	}
	return out.String(), err
}

func TestMigrateAndSeed(t *testing.T) {
	db := testutil.NewDB(t)

	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migration complete")

	out, err = run(t, db, "seed-plans")
	require.NoError(t, err)
	assert.Contains(t, out, "plans seeded")

	var count int64
	require.NoError(t, db.Model(&models.Plan{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestCompleteAppointment(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "owner@example.com")
	prop := testutil.CreateProperty(t, db, user)
	appt, err := services.NewAppointmentService(db, events.Nop{}).Schedule(context.Background(), user.ID, &dto.CreateAppointmentRequest{
		PropertyID:      prop.ID.String(),
		AppointmentDate: "2024-07-15",
		ServiceType:     "repair",
	})
	require.NoError(t, err)

	out, err := run(t, db, "appointments", "complete", appt.ID.String(), "-o", "json")
	require.NoError(t, err)
	var got models.Appointment
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.AppointmentCompleted, got.Status)

	_, err = run(t, db, "appointments", "complete", appt.ID.String())
	assert.EqualError(t, err, "only scheduled appointments can be completed")

	_, err = run(t, db, "appointments", "complete", "not-an-id")
	assert.Error(t, err)
}

func TestSubscriptionsOverdueAndExpire(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "owner@example.com")
	sub, err := services.NewSubscriptionService(db, events.Nop{}).Subscribe(context.Background(), user.ID, 3)
	require.NoError(t, err)

	out, err := run(t, db, "subscriptions", "overdue")
	require.NoError(t, err)
	assert.NotContains(t, out, sub.ID.String())

	future := time.Now().UTC().AddDate(2, 0, 0).Format("2006-01-02")
	out, err = run(t, db, "subscriptions", "overdue", "--as-of", future)
	require.NoError(t, err)
	assert.Contains(t, out, sub.ID.String())
	assert.Contains(t, out, "Business")

	var stored models.Subscription
	require.NoError(t, db.First(&stored, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionActive, stored.Status)

	out, err = run(t, db, "subscriptions", "expire", sub.ID.String(), "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "status: expired")

	_, err = run(t, db, "subscriptions", "overdue", "--as-of", "tomorrow")
	assert.Error(t, err)
}

func TestUsersPromoteAndDemote(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "ops@coolair.test")

	out, err := run(t, db, "users", "promote", "  OPS@coolair.test ")
	require.NoError(t, err)
	assert.Contains(t, out, "ops@coolair.test")
	assert.Contains(t, out, models.RoleAdmin)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	out, err = run(t, db, "users", "demote", "ops@coolair.test", "-o", "json")
	require.NoError(t, err)
	var got dto.UserResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.RoleUser, got.Role)

	_, err = run(t, db, "users", "promote", "nobody@coolair.test")
	assert.EqualError(t, err, "user not found")
}
