package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolair/coolair-backend/internal/database"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/testutil"
)

func TestSeedPlansIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.SeedPlans(db))

	var plans []models.Plan
	require.NoError(t, db.Order("id").Find(&plans).Error)
	require.Len(t, plans, 3)
	assert.Equal(t, "Basic", plans[0].Title)
	assert.Equal(t, "Premium", plans[1].Title)
	assert.Equal(t, uint(2), plans[1].ID)
	assert.InDelta(t, 49.99, plans[1].Price, 0.001)
	assert.Equal(t, "Quarterly AC maintenance", plans[1].Features[0])
	assert.Len(t, plans[2].Features, 7)
}

func TestPing(t *testing.T) {
	db := testutil.NewDB(t)
	assert.NoError(t, database.Ping(db))

	if database.DB == nil {
		assert.Error(t, database.Ping(nil))
	}
}
