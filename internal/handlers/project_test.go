package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/org-management-api/internal/dto"
	"github.com/yukikurage/org-management-api/internal/models"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	env       handlerTestEnv
	org       *models.Organization
	admin     *models.User
	tester    *models.User
	appointee *models.User
	bystander *models.User
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	t := suite.T()
	suite.env = setupHandlerTestEnv(t)
	suite.org = suite.env.createOrganization(t, "Acme", "acme")
	suite.admin = suite.env.createUser(t, "admin", models.RoleAdmin, suite.org)
	suite.tester = suite.env.createUser(t, "tester", models.RoleTester, suite.org)
	suite.appointee = suite.env.createUser(t, "appointee", models.RoleMember, suite.org)
	suite.bystander = suite.env.createUser(t, "bystander", models.RoleMember, suite.org)
}

func (suite *ProjectHandlerTestSuite) createProject(name string, appointee *models.User) dto.ProjectDTO {
	payload := map[string]any{"name": name}
	if appointee != nil {
		payload["appointed_person"] = appointee.ID
	}
	w := suite.env.do(suite.T(), http.MethodPost, "/api/core/orgs/project-create/", payload, suite.admin)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decodeData[dto.ProjectDTO](suite.T(), w)
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	project := suite.createProject("Website", suite.appointee)

	suite.Equal("Website", project.Name)
	suite.Equal(models.ProjectStatusActive, project.Status)
	suite.Require().NotNil(project.AppointedPerson)
	suite.Equal(suite.appointee.ID, project.AppointedPerson.ID)
	suite.Equal("appointee@example.com", project.AppointedPerson.Email)
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_ValidationErrors() {
	other := suite.env.createOrganization(suite.T(), "Other", "other")
	foreigner := suite.env.createUser(suite.T(), "foreigner", models.RoleMember, other)

	w := suite.env.do(suite.T(), http.MethodPost, "/api/core/orgs/project-create/", map[string]any{"name": "X", "appointed_person": foreigner.ID}, suite.admin)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(decodeEnvelope(suite.T(), w).Errors, "appointed_person")

	w = suite.env.do(suite.T(), http.MethodPost, "/api/core/orgs/project-create/", map[string]any{"name": "X", "status": "paused"}, suite.admin)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal([]string{"Invalid status value."}, decodeEnvelope(suite.T(), w).Errors["status"])

	w = suite.env.do(suite.T(), http.MethodPost, "/api/core/orgs/project-create/", map[string]any{}, suite.admin)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(decodeEnvelope(suite.T(), w).Errors, "name")

	w = suite.env.do(suite.T(), http.MethodPost, "/api/core/orgs/project-create/", map[string]any{"name": "X"}, suite.tester)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestListProjects() {
	suite.createProject("Mine", suite.appointee)
	suite.createProject("Unassigned", nil)

	w := suite.env.do(suite.T(), http.MethodGet, "/api/core/orgs/project-list/", nil, suite.admin)
	suite.Require().Equal(http.StatusOK, w.Code)
	all := decodePage[dto.ProjectDTO](suite.T(), w)
	suite.Equal(int64(2), all.Count)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/core/orgs/project-list/", nil, suite.appointee)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/core/orgs/my-project-list/", nil, suite.appointee)
	suite.Require().Equal(http.StatusOK, w.Code)
	mine := decodePage[dto.ProjectDTO](suite.T(), w)
	suite.Require().Len(mine.Results, 1)
	suite.Equal("Mine", mine.Results[0].Name)

	loner := suite.env.createUser(suite.T(), "loner", models.RoleMember, nil)
	w = suite.env.do(suite.T(), http.MethodGet, "/api/core/orgs/my-project-list/", nil, loner)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGetProject() {
	project := suite.createProject("Website", suite.appointee)

	w := suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/api/core/orgs/project-detail/%d/", project.ID), nil, suite.bystander)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Website", decodeData[dto.ProjectDTO](suite.T(), w).Name)

	other := suite.env.createOrganization(suite.T(), "Other", "other")
	outsider := suite.env.createUser(suite.T(), "outsider", models.RoleAdmin, other)
	w = suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/api/core/orgs/project-detail/%d/", project.ID), nil, outsider)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Project not found.", decodeEnvelope(suite.T(), w).Message)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/core/orgs/project-detail/abc/", nil, suite.admin)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestUpdateProject_Permissions() {
	project := suite.createProject("Website", suite.appointee)
	path := fmt.Sprintf("/api/core/orgs/project-update/%d/", project.ID)

	w := suite.env.do(suite.T(), http.MethodPatch, path, map[string]any{"status": "on_hold"}, suite.bystander)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("You do not have permission for this project.", decodeEnvelope(suite.T(), w).Message)

	var stored models.Project
	suite.Require().NoError(suite.env.db.First(&stored, project.ID).Error)
	suite.Equal(project.Status, stored.Status)

	for _, user := range []*models.User{suite.admin, suite.tester, suite.appointee} {
		w = suite.env.do(suite.T(), http.MethodPatch, path, map[string]any{"name": "Site " + user.Username}, user)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		suite.Equal("Project updated.", decodeEnvelope(suite.T(), w).Message)
		suite.Equal("Site "+user.Username, decodeData[dto.ProjectDTO](suite.T(), w).Name)
	}
}

func (suite *ProjectHandlerTestSuite) TestUpdateProject_Validation() {
	project := suite.createProject("Website", nil)
	path := fmt.Sprintf("/api/core/orgs/project-update/%d/", project.ID)

	w := suite.env.do(suite.T(), http.MethodPatch, path, map[string]any{"status": "bogus"}, suite.admin)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeEnvelope(suite.T(), w)
	suite.Equal("Validation error.", body.Message)
	suite.Contains(body.Errors, "status")

	w = suite.env.do(suite.T(), http.MethodPatch, path, map[string]any{"is_deleted": true}, suite.admin)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/api/core/orgs/project-detail/%d/", project.ID), nil, suite.admin)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestProjectHandlerTestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
