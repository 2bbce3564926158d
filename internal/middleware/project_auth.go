package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/constants"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/services"
)

// RequireProjectAccess loads the project named by the :id parameter from the
// current user's organization. Projects of other organizations are reported
// as not found.
func RequireProjectAccess(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID.")
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		project, err := projectService.Get(c.Request.Context(), user, projectID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrOrganizationNotFound):
				apierrors.NotFound(c, "Organization not found.")
			case errors.Is(err, services.ErrProjectNotFound):
				apierrors.NotFound(c, "Project not found.")
			default:
				zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load project")
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// CurrentProject returns the project loaded by RequireProjectAccess
func CurrentProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok && project != nil
}
