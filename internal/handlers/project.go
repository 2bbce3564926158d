package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/dto"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/middleware"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/services"
	"github.com/yukikurage/org-management-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a project in the current admin's organization
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), actor, services.CreateProjectInput{
		Name:              req.Name,
		Description:       req.Description,
		Status:            req.Status,
		AppointedPersonID: req.AppointedPerson,
	})
	if err != nil {
		if errors.Is(err, services.ErrNoOrganization) {
			apierrors.BadRequest(c, "Create an organization first.")
			return
		}
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, "Project created.", dto.ToProjectDTO(*project))
}

// ListProjects returns a page of the organization's projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	h.list(c, h.projectService.List)
}

// ListMyProjects returns a page of the projects appointed to the current user
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	h.list(c, h.projectService.ListAppointed)
}

type projectLister func(ctx context.Context, actor *models.User, params utils.PaginationParams) ([]models.Project, int64, error)

func (h *ProjectHandler) list(c *gin.Context, fetch projectLister) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := fetch(c.Request.Context(), actor, params)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found.")
			return
		}
		internalError(c, err, "failed to list projects")
		return
	}

	c.JSON(http.StatusOK, utils.NewPage(c, params, total, dto.ToProjectDTOs(projects)))
}

// GetProject returns the project loaded by RequireProjectAccess
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found.")
		return
	}

	apierrors.Respond(c, http.StatusOK, "Project details retrieved.", dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update. Admins, testers and the appointed
// person may update a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found.")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	updated, err := h.projectService.Update(c.Request.Context(), actor, project.ID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, "Project updated.", dto.ToProjectDTO(*updated))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, "Organization not found.")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found.")
	case errors.Is(err, services.ErrProjectForbidden):
		apierrors.Forbidden(c, "You do not have permission for this project.")
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.ValidationFailed(c, map[string][]string{"name": {"This field may not be blank."}})
	case errors.Is(err, services.ErrInvalidProjectStatus):
		apierrors.ValidationFailed(c, map[string][]string{"status": {"Invalid status value."}})
	case errors.Is(err, services.ErrAppointeeNotFound):
		apierrors.ValidationFailed(c, map[string][]string{"appointed_person": {"Invalid pk - object does not exist."}})
	case errors.Is(err, services.ErrAppointeeOutsideOrg):
		apierrors.ValidationFailed(c, map[string][]string{"appointed_person": {"Appointed person must belong to the same organization."}})
	default:
		internalError(c, err, "project operation failed")
	}
}
