package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/models"
)

func TestOrganizationRepository_CreateAffiliatesCreator(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	creator := createRepoUser(t, db, "founder", nil, models.RoleAdmin)
	org := &models.Organization{Name: "Acme", Slug: "acme", Plan: "free", MaxUsers: 1, IsActive: true}

	require.NoError(t, repo.Create(ctx, org, creator))
	require.NotZero(t, org.ID)
	assert.True(t, creator.BelongsTo(org.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, creator.ID).Error)
	assert.True(t, stored.BelongsTo(org.ID))
}

func TestOrganizationRepository_CreateDuplicateSlugRollsBack(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	createRepoOrganization(t, db, "Acme", "acme")
	creator := createRepoUser(t, db, "founder", nil, models.RoleAdmin)

	err := repo.Create(ctx, &models.Organization{Name: "Acme", Slug: "ACME", Plan: "free", MaxUsers: 1}, creator)
	require.ErrorIs(t, err, ErrCreateOrganization)

	var stored models.User
	require.NoError(t, db.First(&stored, creator.ID).Error)
	assert.Nil(t, stored.OrganizationID)
}

func TestOrganizationRepository_SlugExists(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	org := createRepoOrganization(t, db, "Acme", "acme")

	exists, err := repo.SlugExists(ctx, "ACME", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "acme", org.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.SlugExists(ctx, "acme-2", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrganizationRepository_SoftDeleteAndDetach(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	org := createRepoOrganization(t, db, "Acme", "acme")
	other := createRepoOrganization(t, db, "Other", "other")
	createRepoUser(t, db, "admin", &org.ID, models.RoleAdmin)
	createRepoUser(t, db, "member", &org.ID, models.RoleMember)
	createRepoUser(t, db, "tester", &org.ID, models.RoleTester)
	outsider := createRepoUser(t, db, "outsider", &other.ID, models.RoleMember)

	n, err := repo.SoftDeleteAndDetach(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	reloaded, err := repo.FindByID(ctx, org.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDeleted)

	var users []models.User
	require.NoError(t, db.Where("id <> ?", outsider.ID).Find(&users).Error)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.Nil(t, u.OrganizationID, u.Username)
	}

	var kept models.User
	require.NoError(t, db.First(&kept, outsider.ID).Error)
	assert.True(t, kept.BelongsTo(other.ID))
}
