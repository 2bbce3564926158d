package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

func createRepoOrganization(t *testing.T, db *gorm.DB, name, slug string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name:     name,
		Slug:     slug,
		Plan:     "free",
		MaxUsers: 5,
		IsActive: true,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func createRepoUser(t *testing.T, db *gorm.DB, username string, orgID *uint64, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   "hashed",
		Role:           role,
		IsActive:       true,
		OrganizationID: orgID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
