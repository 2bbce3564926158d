package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/constants"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/services"
)

// RequireAuth resolves the acting user from the session or from an
// "Authorization: Bearer <access token>" header. Deleted and inactive
// accounts are rejected.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(c)
		if !ok {
			userID, ok = bearerUserID(c, authService)
		}
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				apierrors.Unauthorized(c, "User not found.")
			case errors.Is(err, services.ErrInactiveAccount):
				apierrors.Unauthorized(c, "This account is inactive.")
			default:
				zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to authenticate user")
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func sessionUserID(c *gin.Context) (uint64, bool) {
	return toUserID(sessions.Default(c).Get(constants.ContextKeyUserID))
}

func bearerUserID(c *gin.Context, authService *services.AuthService) (uint64, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return 0, false
	}

	userID, err := authService.ParseAccessToken(strings.TrimSpace(token))
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CurrentUser returns the user loaded by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
