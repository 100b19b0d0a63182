// Package testutil provides an in-memory database wired like production.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coolair/coolair-backend/internal/database"
	"github.com/coolair/coolair-backend/internal/models"
)

// NewDB opens a private in-memory SQLite database, migrates every model and
// seeds the plan catalog.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Each connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedPlans(db))
	return db
}

// CreateUser inserts a user with the given email.
func CreateUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateProperty inserts a residential property owned by userID.
func CreateProperty(t *testing.T, db *gorm.DB, user models.User) models.Property {
	t.Helper()
	prop := models.Property{
		UserID:       user.ID,
		Address:      "123 Main Street",
		City:         "Airville",
		State:        "AC",
		ZipCode:      "12345",
		PropertyType: models.PropertyResidential,
		ACUnits:      2,
	}
	require.NoError(t, db.Create(&prop).Error)
	return prop
}
