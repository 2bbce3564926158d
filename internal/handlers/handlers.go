package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/middleware"
	"github.com/yukikurage/org-management-api/internal/models"
)

// actingUser returns the user loaded by RequireAuth, responding 401 when the
// handler was reached without it.
func actingUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return user, true
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// internalError logs err with the request logger and sends a generic 500.
func internalError(c *gin.Context, err error, msg string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}
