package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/utils"
)

func TestProjectService_Create(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	acme := env.createOrganization(t, "Acme", "acme")
	other := env.createOrganization(t, "Other", "other")
	admin := env.createUser(t, "admin", models.RoleAdmin, acme)
	dev := env.createUser(t, "dev", models.RoleMember, acme)
	foreign := env.createUser(t, "foreign", models.RoleMember, other)
	suspended := env.createUser(t, "suspended", models.RoleMember, acme)
	require.NoError(t, env.db.Model(suspended).Update("is_active", false).Error)

	project, err := env.projects.Create(ctx, admin, CreateProjectInput{Name: "Website"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.Equal(t, acme.ID, project.OrganizationID)
	require.NotNil(t, project.CreatedByID)
	assert.Equal(t, admin.ID, *project.CreatedByID)
	assert.Nil(t, project.AppointedPersonID)

	project, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "API", Status: models.ProjectStatusTest, AppointedPersonID: &dev.ID})
	require.NoError(t, err)
	assert.True(t, project.IsAppointed(dev.ID))
	require.NotNil(t, project.AppointedPerson)
	assert.Equal(t, "dev", project.AppointedPerson.Username)

	_, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "X", AppointedPersonID: &foreign.ID})
	assert.ErrorIs(t, err, ErrAppointeeOutsideOrg)

	_, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "X", AppointedPersonID: &suspended.ID})
	assert.ErrorIs(t, err, ErrAppointeeNotFound)

	_, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "   "})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	_, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "X", Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidProjectStatus)
}

func TestProjectService_ListAndGet(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	acme := env.createOrganization(t, "Acme", "acme")
	other := env.createOrganization(t, "Other", "other")
	admin := env.createUser(t, "admin", models.RoleAdmin, acme)
	dev := env.createUser(t, "dev", models.RoleMember, acme)
	outsider := env.createUser(t, "outsider", models.RoleAdmin, other)

	mine, err := env.projects.Create(ctx, admin, CreateProjectInput{Name: "Mine", AppointedPersonID: &dev.ID})
	require.NoError(t, err)
	_, err = env.projects.Create(ctx, admin, CreateProjectInput{Name: "Theirs"})
	require.NoError(t, err)

	page := utils.NewPaginationParams(1)

	all, total, err := env.projects.List(ctx, admin, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	appointed, total, err := env.projects.ListAppointed(ctx, dev, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine.ID, appointed[0].ID)

	got, err := env.projects.Get(ctx, dev, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)

	_, err = env.projects.Get(ctx, outsider, mine.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	loner := env.createUser(t, "loner", models.RoleMember, nil)
	_, err = env.projects.Get(ctx, loner, mine.ID)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestProjectService_UpdatePermissions(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	acme := env.createOrganization(t, "Acme", "acme")
	admin := env.createUser(t, "admin", models.RoleAdmin, acme)
	tester := env.createUser(t, "tester", models.RoleTester, acme)
	dev := env.createUser(t, "dev", models.RoleMember, acme)
	bystander := env.createUser(t, "bystander", models.RoleMember, acme)

	project, err := env.projects.Create(ctx, admin, CreateProjectInput{Name: "Website", AppointedPersonID: &dev.ID})
	require.NoError(t, err)

	onHold := models.ProjectStatusOnHold
	_, err = env.projects.Update(ctx, bystander, project.ID, UpdateProjectInput{Status: &onHold})
	assert.ErrorIs(t, err, ErrProjectForbidden)

	for _, actor := range []*models.User{admin, tester, dev} {
		name := "Website by " + actor.Username
		updated, err := env.projects.Update(ctx, actor, project.ID, UpdateProjectInput{Name: &name, Status: &onHold})
		require.NoError(t, err, actor.Username)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, models.ProjectStatusOnHold, updated.Status)
	}

	bogus := models.ProjectStatus("bogus")
	_, err = env.projects.Update(ctx, admin, project.ID, UpdateProjectInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidProjectStatus)

	deleted := true
	_, err = env.projects.Update(ctx, admin, project.ID, UpdateProjectInput{IsDeleted: &deleted})
	require.NoError(t, err)

	_, err = env.projects.Get(ctx, admin, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
