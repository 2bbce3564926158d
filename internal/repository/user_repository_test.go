package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/utils"
	"gorm.io/gorm"
)

func TestUserRepository_FindByEmailFold(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createRepoUser(t, db, "Alice", nil, models.RoleMember)

	found, err := repo.FindByEmailFold(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	found, err = repo.FindByUsernameFold(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmailFold(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_TakenExcludesSelf(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createRepoUser(t, db, "bob", nil, models.RoleMember)

	taken, err := repo.UsernameTaken(ctx, "BOB", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UsernameTaken(ctx, "BOB", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailTaken(ctx, "Bob@Example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUserRepository_CaseInsensitiveUniqueIndex(t *testing.T) {
	db := setupRepositoryTestDB(t)

	createRepoUser(t, db, "carol", nil, models.RoleMember)

	dup := &models.User{
		Username:     "CAROL",
		Email:        "other@example.com",
		PasswordHash: "hashed",
		Role:         models.RoleMember,
		IsActive:     true,
	}
	err := db.Create(dup).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestUserRepository_ListByOrganization(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	org := createRepoOrganization(t, db, "Acme", "acme")
	other := createRepoOrganization(t, db, "Other", "other")

	base := time.Now().Add(-time.Hour)
	var ids []uint64
	for i, name := range []string{"first", "second", "third"} {
		u := createRepoUser(t, db, name, &org.ID, models.RoleMember)
		require.NoError(t, db.Model(u).Update("date_joined", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, u.ID)
	}

	inactive := createRepoUser(t, db, "inactive", &org.ID, models.RoleMember)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	require.NoError(t, db.Model(inactive).Update("date_joined", base.Add(-time.Minute)).Error)

	deleted := createRepoUser(t, db, "deleted", &org.ID, models.RoleMember)
	require.NoError(t, db.Model(deleted).Update("is_deleted", true).Error)

	createRepoUser(t, db, "outsider", &other.ID, models.RoleMember)

	users, total, err := repo.ListByOrganization(ctx, MemberFilter{
		OrganizationID: org.ID,
		Pagination:     utils.NewPaginationParams(1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, users, 4)
	assert.Equal(t, ids[2], users[0].ID)
	assert.Equal(t, ids[1], users[1].ID)
	assert.Equal(t, ids[0], users[2].ID)
	assert.Equal(t, inactive.ID, users[3].ID)

	users, total, err = repo.ListByOrganization(ctx, MemberFilter{
		OrganizationID: org.ID,
		ActiveOnly:     true,
		Pagination:     utils.NewPaginationParams(1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, u := range users {
		assert.True(t, u.IsActive)
	}
}
