package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/testutil"
)

func TestCreateProperty_Defaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPropertyService(db)
	user := testutil.CreateUser(t, db, "owner@example.com")

	prop, err := svc.Create(context.Background(), user.ID, &dto.CreatePropertyRequest{
		Address: " 1 Cool Lane ",
		City:    "Phoenix",
		State:   "AZ",
		ZipCode: "85001",
	})
	require.NoError(t, err)
	assert.Equal(t, "1 Cool Lane", prop.Address)
	assert.Equal(t, models.PropertyResidential, prop.PropertyType)
	assert.Equal(t, 1, prop.ACUnits)
	assert.Equal(t, user.ID, prop.UserID)
}

func TestCreateProperty_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPropertyService(db)
	user := testutil.CreateUser(t, db, "owner@example.com")
	zero := 0

	_, err := svc.Create(context.Background(), user.ID, &dto.CreatePropertyRequest{
		Address: "1 Cool Lane", City: "Phoenix", State: "AZ", ZipCode: "85001",
		PropertyType: "industrial",
		ACUnits:      &zero,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.ElementsMatch(t, []string{"propertyType", "acUnits"}, apperr.FieldsOf(err))

	_, err = svc.Create(context.Background(), user.ID, &dto.CreatePropertyRequest{City: "Phoenix", State: "AZ", ZipCode: "85001"})
	assert.Equal(t, "address is required", apperr.PublicMessage(err))
}

func TestListProperties_OnlyOwn(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPropertyService(db)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")
	mine := testutil.CreateProperty(t, db, owner)
	testutil.CreateProperty(t, db, other)

	props, err := svc.List(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, mine.ID, props[0].ID)
}
