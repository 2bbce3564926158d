package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/dto"
	"github.com/yukikurage/org-management-api/internal/models"
)

func TestOrganizationHandler_CreateOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, nil)
	other := env.createUser(t, "other", models.RoleAdmin, nil)

	w := env.do(t, http.MethodPost, "/api/core/orgs/", map[string]string{"name": "Acme"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	org := decodeData[dto.OrganizationDTO](t, w)
	assert.Equal(t, "acme", org.Slug)
	assert.Equal(t, "free", org.Plan)
	assert.Equal(t, 1, org.MaxUsers)

	var stored models.User
	require.NoError(t, env.db.First(&stored, admin.ID).Error)
	require.NotNil(t, stored.OrganizationID)
	assert.Equal(t, org.ID, *stored.OrganizationID)

	w = env.do(t, http.MethodPost, "/api/core/orgs/", map[string]string{"name": "Acme"}, other)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "acme-2", decodeData[dto.OrganizationDTO](t, w).Slug)

	w = env.do(t, http.MethodPost, "/api/core/orgs/", map[string]string{"name": "Another", "slug": "ACME"}, other)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Errors, "slug")
}

func TestOrganizationHandler_CreateOrganization_RequiresAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)
	member := env.createUser(t, "member", models.RoleMember, nil)

	w := env.do(t, http.MethodPost, "/api/core/orgs/", map[string]string{"name": "Acme"}, member)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/core/orgs/", map[string]string{"name": "Acme"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrganizationHandler_GetMyOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t)
	org := env.createOrganization(t, "Acme", "acme")
	member := env.createUser(t, "member", models.RoleMember, org)
	loner := env.createUser(t, "loner", models.RoleMember, nil)

	w := env.do(t, http.MethodGet, "/api/core/orgs/me/", nil, member)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeData[dto.OrganizationDetailDTO](t, w)
	assert.Equal(t, org.ID, detail.ID)
	assert.Equal(t, "acme", detail.Slug)

	w = env.do(t, http.MethodGet, "/api/core/orgs/me/", nil, loner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)

	require.NoError(t, env.db.Model(org).Update("is_active", false).Error)
	w = env.do(t, http.MethodGet, "/api/core/orgs/me/", nil, member)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Organization is inactive.", decodeEnvelope(t, w).Message)
}

func TestOrganizationHandler_UpdateMyOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t)
	org := env.createOrganization(t, "Acme", "acme")
	env.createOrganization(t, "Other", "other")
	admin := env.createUser(t, "admin", models.RoleAdmin, org)
	member := env.createUser(t, "member", models.RoleMember, org)
	tester := env.createUser(t, "tester", models.RoleTester, org)

	w := env.do(t, http.MethodPatch, "/api/core/orgs/me/update/", map[string]any{"slug": "Other"}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Errors, "slug")

	w = env.do(t, http.MethodPatch, "/api/core/orgs/me/update/", map[string]any{"max_users": 0}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Errors, "max_users")

	w = env.do(t, http.MethodPatch, "/api/core/orgs/me/update/", map[string]any{"name": "Acme Corp", "max_users": 25}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decodeData[dto.OrganizationDetailDTO](t, w)
	assert.Equal(t, "Acme Corp", detail.Name)
	assert.Equal(t, 25, detail.MaxUsers)

	w = env.do(t, http.MethodPatch, "/api/core/orgs/me/update/", map[string]any{"is_deleted": true}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeData[dto.OrganizationDetailDTO](t, w).IsDeleted)

	for _, u := range []*models.User{admin, member, tester} {
		var stored models.User
		require.NoError(t, env.db.First(&stored, u.ID).Error)
		assert.Nil(t, stored.OrganizationID, u.Username)
	}

	w = env.do(t, http.MethodPatch, "/api/core/orgs/me/update/", map[string]any{"name": "Again"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)
}
